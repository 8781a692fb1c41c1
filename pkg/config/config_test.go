package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "market-engine", c.Service.Name)
	assert.Equal(t, "0.0.0.0", c.Server.Host)
	assert.Equal(t, 5000, c.Server.Port)
	assert.Equal(t, 3, c.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, c.Retry.InitialBackoff)
	assert.Equal(t, 4, c.Batch.MaxConcurrency)
	assert.Equal(t, "yahoo", c.Upstream.Provider)
	assert.Equal(t, "none", c.Events.Backend)
	assert.True(t, c.Metrics.Enabled)
	require.NoError(t, c.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 8081
retry:
  max_attempts: 5
  initial_backoff: 250ms
upstream:
  provider: static
  static:
    prices:
      AAPL: 185.92
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 8081, c.Server.Port)
	assert.Equal(t, 5, c.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, c.Retry.InitialBackoff)
	assert.Equal(t, 185.92, c.Upstream.Static.Prices["AAPL"])
	assert.Equal(t, "market-engine", c.Service.Name)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad provider":         "upstream:\n  provider: bloomberg\n",
		"alphavantage no key":  "upstream:\n  provider: alphavantage\n",
		"negative max tickers": "batch:\n  max_tickers: -1\n",
		"bad ch protocol":      "upstream:\n  clickhouse:\n    protocol: grpc\n",
		"kafka without broker": "events:\n  backend: kafka\n",
		"bad log level":        "log:\n  level: loud\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoad_StaticWithoutTable(t *testing.T) {
	c, err := Load(writeConfig(t, "upstream:\n  provider: static\n"))
	require.NoError(t, err)
	assert.Empty(t, c.Upstream.Static.Prices)
}

func TestRequestDeadline(t *testing.T) {
	c := Default()
	assert.Equal(t, 58*time.Second, c.RequestDeadline())

	c.Server.WriteTimeout = 5 * time.Second
	assert.Equal(t, 4500*time.Millisecond, c.RequestDeadline())

	c.Server.WriteTimeout = 0
	assert.Zero(t, c.RequestDeadline())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("MARKET_RETRY_MAX_ATTEMPTS", "2")
	t.Setenv("MARKET_RETRY_INITIAL_BACKOFF", "1s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("MARKET_EVENTS_BACKEND", "kafka")

	c, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, 7000, c.Server.Port)
	assert.Equal(t, 2, c.Retry.MaxAttempts)
	assert.Equal(t, time.Second, c.Retry.InitialBackoff)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Events.Kafka.Brokers)
}
