package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	applogger "MarketEngine/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecover_WritesErrorBody(t *testing.T) {
	e := echo.New()
	e.Use(Recover(applogger.NewNop()))
	e.GET("/boom", func(c echo.Context) error { panic("kaboom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"kaboom"}`, rec.Body.String())
}

func TestHTTPMetrics_UsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/price/:ticker", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, p := range []string{"/price/AAPL", "/price/MSFT"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/price/:ticker", http.MethodGet, "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestCORS_Preflight(t *testing.T) {
	e := echo.New()
	e.Use(CORS(DefaultCORSConfig()))
	e.POST("/prices", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/prices", nil)
	req.Header.Set(echo.HeaderOrigin, "http://example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(503))
}
