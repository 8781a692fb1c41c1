package redis

import "time"

// Option configures Client.
type Option func(*Config)

// Config holds Redis connection settings.
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
	Prefix       string // prepended to channel names as "<prefix>:<channel>"
	PingTimeout  time.Duration
}

func WithAddr(addr string) Option {
	return func(c *Config) {
		c.Addr = addr
	}
}

func WithPassword(password string) Option {
	return func(c *Config) {
		c.Password = password
	}
}

func WithDB(db int) Option {
	return func(c *Config) {
		c.DB = db
	}
}

// WithPool sets connection pool settings.
func WithPool(poolSize, minIdleConns int, timeout time.Duration) Option {
	return func(c *Config) {
		c.PoolSize = poolSize
		c.MinIdleConns = minIdleConns
		c.PoolTimeout = timeout
	}
}

func WithPrefix(prefix string) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

// WithPingTimeout bounds the startup connectivity check. Zero skips it.
func WithPingTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.PingTimeout = d
	}
}
