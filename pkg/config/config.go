package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"MarketEngine/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string        `yaml:"environment" default:"development" validate:"required"`
	Service     ServiceConfig `yaml:"service"`
	Server      ServerConfig  `yaml:"server"`
	Log         LogConfig     `yaml:"log"`
	Metrics     struct {
		Enabled bool `yaml:"enabled" default:"true"`
	} `yaml:"metrics"`
	Retry    RetryConfig    `yaml:"retry"`
	Batch    BatchConfig    `yaml:"batch"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Events   EventsConfig   `yaml:"events"`
}

type ServiceConfig struct {
	Name string `yaml:"name" default:"market-engine" validate:"required"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"5000" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	CORS            bool          `yaml:"cors" default:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts" default:"3"`
	InitialBackoff time.Duration `yaml:"initial_backoff" default:"500ms"`
	Deadline       time.Duration `yaml:"deadline"` // 0 disables
}

type BatchConfig struct {
	MaxConcurrency int `yaml:"max_concurrency" default:"4" validate:"gte=1"`
	MaxTickers     int `yaml:"max_tickers" validate:"gte=0"` // 0 means no cap
}

type UpstreamConfig struct {
	Provider             string        `yaml:"provider" default:"yahoo" validate:"oneof=yahoo alphavantage clickhouse static"`
	Timeout              time.Duration `yaml:"timeout" default:"10s"`
	MaxRequestsPerMinute int           `yaml:"max_requests_per_minute"` // 0 disables throttling
	Burst                int           `yaml:"burst" default:"1"`

	Yahoo struct {
		RangeDays int `yaml:"range_days" default:"5" validate:"gte=1"`
	} `yaml:"yahoo"`

	AlphaVantage struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url" default:"https://www.alphavantage.co/query"`
	} `yaml:"alphavantage"`

	ClickHouse struct {
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"9000"`
		Database string `yaml:"database" default:"market"`
		User     string `yaml:"user" default:"default"`
		Password string `yaml:"password"`
		Table    string `yaml:"table" default:"daily_prices"`
		Lookback int    `yaml:"lookback" default:"5" validate:"gte=1"`
		Protocol string `yaml:"protocol" default:"native" validate:"oneof=native http"`

		MaxExecutionTime time.Duration `yaml:"max_execution_time"` // 0 leaves the server default
	} `yaml:"clickhouse"`

	Static struct {
		Prices map[string]float64 `yaml:"prices"`
	} `yaml:"static"`
}

type EventsConfig struct {
	Backend    string `yaml:"backend" default:"none" validate:"oneof=none kafka redis"`
	BufferSize int    `yaml:"buffer_size" default:"1024" validate:"gte=1"`

	Kafka struct {
		Brokers     []string `yaml:"brokers"`
		Topic       string   `yaml:"topic" default:"market.lookups"`
		Compression string   `yaml:"compression" default:"snappy"`
	} `yaml:"kafka"`

	Redis struct {
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Channel  string `yaml:"channel" default:"market:lookups"`
		Prefix   string `yaml:"prefix"`
		PoolSize int    `yaml:"pool_size" default:"10" validate:"gte=1"`
	} `yaml:"redis"`
}

// Default returns a configuration populated only from `default` tags.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads and parses a YAML configuration file on top of the defaults.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (if present), the YAML file, then applies
// environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MARKET_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("MARKET_SERVICE_NAME"); v != "" {
		c.Service.Name = v
	}
	if v := os.Getenv("MARKET_HOST"); v != "" {
		c.Server.Host = v
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	if v := os.Getenv("MARKET_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	c.Retry.MaxAttempts = util.ParseIntDefault(os.Getenv("MARKET_RETRY_MAX_ATTEMPTS"), c.Retry.MaxAttempts)
	if d, err := time.ParseDuration(os.Getenv("MARKET_RETRY_INITIAL_BACKOFF")); err == nil {
		c.Retry.InitialBackoff = d
	}
	if v := os.Getenv("MARKET_UPSTREAM_PROVIDER"); v != "" {
		c.Upstream.Provider = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.Upstream.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("MARKET_EVENTS_BACKEND"); v != "" {
		c.Events.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Kafka.Brokers = util.SplitCSV(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Events.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Events.Redis.Addr = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Metrics.Enabled = b
		}
	}
}

// RequestDeadline bounds a single or batch lookup so the response is written
// before server.write_timeout closes the connection. 0 means no bound.
func (c *Config) RequestDeadline() time.Duration {
	wt := c.Server.WriteTimeout
	if wt <= 0 {
		return 0
	}
	margin := wt / 10
	if margin > 2*time.Second {
		margin = 2 * time.Second
	}
	return wt - margin
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Upstream.Provider == "alphavantage" && c.Upstream.AlphaVantage.APIKey == "" {
		return fmt.Errorf("upstream.alphavantage.api_key is required for the alphavantage provider")
	}
	if c.Events.Backend == "kafka" && len(c.Events.Kafka.Brokers) == 0 {
		return fmt.Errorf("events.kafka.brokers is required for the kafka backend")
	}
	return nil
}
