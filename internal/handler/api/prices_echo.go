package api

import (
	"context"
	"fmt"
	"time"

	"MarketEngine/internal/domain/models"
	xhttp "MarketEngine/pkg/http"
	xlogger "MarketEngine/pkg/logger"
	"MarketEngine/pkg/util"

	"github.com/labstack/echo/v4"
)

const missingTickersMessage = "Missing 'tickers' in request body"

// PriceService is the lookup surface the handlers depend on.
type PriceService interface {
	Lookup(ctx context.Context, symbol string) models.PriceResult
	LookupBatch(ctx context.Context, symbols []string) models.BatchResult
}

// PricesEchoHandler serves /health, /price/:ticker and /prices.
type PricesEchoHandler struct {
	logger  *xlogger.Logger
	prices  PriceService
	service string
	// maxTickers caps a batch request; 0 means no cap.
	maxTickers int
	now        func() time.Time
}

type HandlerOption func(*PricesEchoHandler)

// WithMaxTickers rejects batch requests with more than n tickers.
func WithMaxTickers(n int) HandlerOption {
	return func(h *PricesEchoHandler) {
		h.maxTickers = n
	}
}

func NewPricesEchoHandler(logger *xlogger.Logger, prices PriceService, serviceName string, opts ...HandlerOption) *PricesEchoHandler {
	h := &PricesEchoHandler{logger: logger, prices: prices, service: serviceName, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *PricesEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/price/:ticker", h.Price)
	e.POST("/prices", h.Prices)
}

// Health never touches the upstream.
func (h *PricesEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.HealthResponse{
		Status:    "UP",
		Service:   h.service,
		Timestamp: util.ISOTimestamp(h.now()),
	})
}

func (h *PricesEchoHandler) Price(c echo.Context) error {
	ticker := c.Param("ticker")

	res := h.prices.Lookup(c.Request().Context(), ticker)
	if res.Error != "" {
		h.logger.Error("price lookup failed",
			xlogger.String("ticker", res.Symbol),
			xlogger.String("error", res.Error),
		)
		return xhttp.ErrorResponse(c, xhttp.InternalError(res.Error))
	}
	if !res.Found {
		return xhttp.ErrorResponse(c, xhttp.NotFoundErrorf("Ticker '%s' not found or API unavailable", ticker))
	}

	return xhttp.SuccessResponse(c, models.PriceResponse{
		Ticker:    res.Symbol,
		Price:     res.Price.InexactFloat64(),
		Currency:  res.Currency,
		Timestamp: util.ISOTimestamp(h.now()),
	})
}

func (h *PricesEchoHandler) Prices(c echo.Context) error {
	req := &models.BatchPricesRequest{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		h.logger.Debug("rejected batch request", xlogger.Error(err))
		return xhttp.ErrorResponse(c, xhttp.BadRequestError(missingTickersMessage))
	}
	if h.maxTickers > 0 && len(req.Tickers) > h.maxTickers {
		return xhttp.ErrorResponse(c, xhttp.BadRequestError(
			fmt.Sprintf("Too many tickers in request body (max %d)", h.maxTickers)))
	}

	out := h.prices.LookupBatch(c.Request().Context(), req.Tickers)

	body := models.BatchPricesResponse{
		Prices:    make(map[string]models.BatchEntry, len(out.Prices)),
		Timestamp: util.ISOTimestamp(h.now()),
	}
	for _, sym := range out.Order {
		body.Prices[sym] = batchEntry(out.Prices[sym])
	}
	return xhttp.SuccessResponse(c, body)
}

func batchEntry(res models.PriceResult) models.BatchEntry {
	switch {
	case res.Found:
		p := res.Price.InexactFloat64()
		return models.BatchEntry{Price: &p, Currency: res.Currency}
	case res.Error != "":
		return models.BatchEntry{Error: res.Error}
	default:
		return models.BatchEntry{Error: "Not found"}
	}
}
