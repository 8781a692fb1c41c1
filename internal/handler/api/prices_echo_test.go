package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MarketEngine/internal/domain/models"
	"MarketEngine/internal/domain/repository/mocks"
	"MarketEngine/internal/usecase"
	xlogger "MarketEngine/pkg/logger"
	"MarketEngine/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func series(close string) []models.PriceBar {
	return []models.PriceBar{{Time: time.Now().UTC(), Close: decimal.RequireFromString(close)}}
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// newTestEcho wires the real lookup use case on top of a mocked upstream.
func newTestEcho(t *testing.T, setup func(up *mocks.MockUpstreamClient), opts ...HandlerOption) *echo.Echo {
	t.Helper()
	ctrl := gomock.NewController(t)
	up := mocks.NewMockUpstreamClient(ctrl)
	setup(up)

	log := xlogger.NewNop()
	fetcher := usecase.NewRetryingFetcher(up, "mock", log, metrics.Nop{}, usecase.WithSleeper(noSleep))
	lookup := usecase.NewPriceLookup(fetcher, usecase.NewPriceExtractor(),
		usecase.LookupConfig{Policy: usecase.DefaultRetryPolicy(), MaxConcurrency: 4}, nil, log, metrics.Nop{})

	e := echo.New()
	NewPricesEchoHandler(log, lookup, "market-engine", opts...).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
		up.EXPECT().FetchDailyHistory(gomock.Any(), gomock.Any()).Times(0)
	})

	rec := do(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UP", body.Status)
	assert.Equal(t, "market-engine", body.Service)
	assert.True(t, strings.HasSuffix(body.Timestamp, "+00:00"), body.Timestamp)
}

func TestPrice_Found(t *testing.T) {
	e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
		up.EXPECT().FetchDailyHistory(gomock.Any(), "AAPL").Return(series("185.921"), nil).Times(1)
	})

	rec := do(e, http.MethodGet, "/price/aapl", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.PriceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body.Ticker)
	assert.Equal(t, 185.92, body.Price)
	assert.Equal(t, "USD", body.Currency)
	_, err := time.Parse("2006-01-02T15:04:05.000000-07:00", body.Timestamp)
	assert.NoError(t, err)
}

func TestPrice_NotFound(t *testing.T) {
	e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
		up.EXPECT().FetchDailyHistory(gomock.Any(), "INVALIDTICKER").Return(nil, nil).Times(3)
	})

	rec := do(e, http.MethodGet, "/price/INVALIDTICKER", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Ticker 'INVALIDTICKER' not found or API unavailable"}`, rec.Body.String())
}

func TestPrice_UpstreamErrorsExhaustToNotFound(t *testing.T) {
	e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
		up.EXPECT().FetchDailyHistory(gomock.Any(), "MSFT").Return(nil, errors.New("503")).Times(3)
	})

	rec := do(e, http.MethodGet, "/price/msft", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "msft")
}

func TestPrice_PanicIsInternalError(t *testing.T) {
	e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
		up.EXPECT().FetchDailyHistory(gomock.Any(), "BAD").DoAndReturn(func(context.Context, string) ([]models.PriceBar, error) {
			panic("malformed frame")
		})
	})

	rec := do(e, http.MethodGet, "/price/BAD", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"malformed frame"}`, rec.Body.String())
}

func TestPrices_Batch(t *testing.T) {
	e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
		up.EXPECT().FetchDailyHistory(gomock.Any(), "AAPL").Return(series("185.921"), nil)
		up.EXPECT().FetchDailyHistory(gomock.Any(), "NVDA").Return(series("485.50"), nil)
		up.EXPECT().FetchDailyHistory(gomock.Any(), "ZZZZ").Return(nil, errors.New("nope")).Times(3)
	})

	rec := do(e, http.MethodPost, "/prices", `{"tickers":["aapl","NVDA","zzzz"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Prices    map[string]map[string]interface{} `json:"prices"`
		Timestamp string                            `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Prices, 3)
	assert.Equal(t, 185.92, body.Prices["AAPL"]["price"])
	assert.Equal(t, "USD", body.Prices["AAPL"]["currency"])
	assert.Equal(t, 485.5, body.Prices["NVDA"]["price"])
	assert.Equal(t, map[string]interface{}{"error": "Not found"}, body.Prices["ZZZZ"])
	assert.NotEmpty(t, body.Timestamp)
}

func TestPrices_PanicStaysWithinSymbol(t *testing.T) {
	e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
		up.EXPECT().FetchDailyHistory(gomock.Any(), "AAPL").Return(series("185.921"), nil)
		up.EXPECT().FetchDailyHistory(gomock.Any(), "BAD").DoAndReturn(func(context.Context, string) ([]models.PriceBar, error) {
			panic("index out of range")
		})
	})

	rec := do(e, http.MethodPost, "/prices", `{"tickers":["AAPL","BAD"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"price":185.92,"currency":"USD"}`, mustField(t, rec.Body.Bytes(), "AAPL"))
	assert.JSONEq(t, `{"error":"index out of range"}`, mustField(t, rec.Body.Bytes(), "BAD"))
}

func TestPrices_BadRequests(t *testing.T) {
	bodies := map[string]string{
		"empty object":   `{}`,
		"blank entry":    `{"tickers":["AAPL",""]}`,
		"not a list":     `{"tickers":"AAPL"}`,
		"malformed json": `{"tickers":[`,
		"null tickers":   `{"tickers":null}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
				up.EXPECT().FetchDailyHistory(gomock.Any(), gomock.Any()).Times(0)
			})
			rec := do(e, http.MethodPost, "/prices", body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Missing 'tickers' in request body"}`, rec.Body.String())
		})
	}
}

func TestPrices_EmptyList(t *testing.T) {
	e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
		up.EXPECT().FetchDailyHistory(gomock.Any(), gomock.Any()).Times(0)
	})

	rec := do(e, http.MethodPost, "/prices", `{"tickers":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.BatchPricesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Prices)
	assert.NotEmpty(t, body.Timestamp)
}

func TestPrices_LargeBatchWithoutCap(t *testing.T) {
	e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
		up.EXPECT().FetchDailyHistory(gomock.Any(), "A").Return(series("1.005"), nil).Times(1001)
	})

	body := `{"tickers":[` + strings.TrimSuffix(strings.Repeat(`"A",`, 1001), ",") + `]}`
	rec := do(e, http.MethodPost, "/prices", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"price":1.01,"currency":"USD"}`, mustField(t, rec.Body.Bytes(), "A"))
}

func TestPrices_MaxTickers(t *testing.T) {
	e := newTestEcho(t, func(up *mocks.MockUpstreamClient) {
		up.EXPECT().FetchDailyHistory(gomock.Any(), gomock.Any()).Times(0)
	}, WithMaxTickers(2))

	rec := do(e, http.MethodPost, "/prices", `{"tickers":["AAPL","NVDA","MSFT"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Too many tickers in request body (max 2)"}`, rec.Body.String())
}

func mustField(t *testing.T, raw []byte, symbol string) string {
	t.Helper()
	var body struct {
		Prices map[string]json.RawMessage `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	v, ok := body.Prices[symbol]
	require.True(t, ok, "missing %s", symbol)
	return string(v)
}
