package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client wraps a go-redis client for publishing JSON payloads.
type Client struct {
	rdb    *goredis.Client
	prefix string
}

// NewClient connects to Redis and verifies connectivity with PING.
func NewClient(opts ...Option) (*Client, error) {
	cfg := &Config{
		Addr:         "localhost:6379",
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
		MinIdleConns: 2,
		PingTimeout:  5 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})

	if cfg.PingTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	return &Client{rdb: rdb, prefix: cfg.Prefix}, nil
}

// Channel applies the configured prefix.
func (c *Client) Channel(name string) string {
	if c.prefix == "" {
		return name
	}
	return c.prefix + ":" + name
}

// Publish sends value (JSON-encoded unless it is already bytes or a string)
// and returns the number of subscribers that received it.
func (c *Client) Publish(ctx context.Context, channel string, value interface{}) (int64, error) {
	var payload interface{}
	switch v := value.(type) {
	case []byte, string:
		payload = v
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return 0, fmt.Errorf("marshal payload: %w", err)
		}
		payload = b
	}
	n, err := c.rdb.Publish(ctx, c.Channel(channel), payload).Result()
	if err != nil {
		return 0, fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return n, nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
