package di

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"MarketEngine/internal/repository"
	"MarketEngine/internal/service/ratelimit"
	"MarketEngine/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticConfig() *config.Config {
	cfg := config.Default()
	cfg.Metrics.Enabled = false
	cfg.Upstream.Provider = "static"
	cfg.Upstream.Static.Prices = map[string]float64{"AAPL": 185.921}
	cfg.Retry.InitialBackoff = 0
	return cfg
}

func TestProvideUpstream_StaticWithThrottle(t *testing.T) {
	cfg := staticConfig()
	cfg.Upstream.MaxRequestsPerMinute = 600
	cfg.Upstream.Burst = 5

	up, err := ProvideUpstream(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "static", up.Provider)
	assert.IsType(t, &ratelimit.ThrottledUpstream{}, up.Client)

	bars, err := up.Client.FetchDailyHistory(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, bars, 1)
}

func TestProvideUpstream_StaticDefaultTable(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Upstream.Provider = "static"
	require.NoError(t, cfg.Validate())

	up, err := ProvideUpstream(cfg, nil)
	require.NoError(t, err)
	bars, err := up.Client.FetchDailyHistory(context.Background(), "NVDA")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "485.5", bars[0].Close.String())
}

func TestProvideUpstream_Unknown(t *testing.T) {
	cfg := staticConfig()
	cfg.Upstream.Provider = "bogus"
	_, err := ProvideUpstream(cfg, nil)
	assert.Error(t, err)
}

func TestProvideLookupPublisher_None(t *testing.T) {
	pub, err := ProvideLookupPublisher(staticConfig())
	require.NoError(t, err)
	assert.IsType(t, repository.NopLookupPublisher{}, pub)
}

func TestProviders_ServePriceEndToEnd(t *testing.T) {
	cfg := staticConfig()
	l, err := ProvideLogger(cfg)
	require.NoError(t, err)
	m := ProvideMetrics(cfg)
	up, err := ProvideUpstream(cfg, l)
	require.NoError(t, err)
	pub, err := ProvideLookupPublisher(cfg)
	require.NoError(t, err)
	pipe := ProvideEventPipeline(cfg, pub, m, l)
	lookup := ProvidePriceLookup(cfg, ProvideRetryingFetcher(up, l, m), ProvidePriceExtractor(), pipe, l, m)
	srv := ProvideHTTPServer(cfg, ProvideHTTPHandler(cfg, l, lookup), l)

	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/price/aapl", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body["ticker"])
	assert.Equal(t, 185.92, body["price"])
	assert.Equal(t, "USD", body["currency"])

	rec = httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/price/NOPE", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, pipe.Stop(context.Background()))
}
