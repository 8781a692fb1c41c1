package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MarketEngine/internal/domain/models"
	xhttp "MarketEngine/pkg/http"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the engine answers 404 for a ticker.
var ErrNotFound = errors.New("engine: ticker not found")

// Quote is a price returned by a running engine.
type Quote struct {
	Ticker    string
	Price     decimal.Decimal
	Currency  string
	Timestamp string
}

type priceBody struct {
	Ticker    string   `json:"ticker"`
	Price     *float64 `json:"price"`
	Currency  string   `json:"currency"`
	Timestamp string   `json:"timestamp"`
}

type batchBody struct {
	Prices map[string]struct {
		Price    *float64 `json:"price"`
		Currency string   `json:"currency"`
		Error    string   `json:"error"`
	} `json:"prices"`
}

// Client talks to the engine's HTTP API.
type Client struct {
	http *xhttp.Client
}

func New(baseURL string, timeout time.Duration, opts ...xhttp.ClientOption) *Client {
	all := append([]xhttp.ClientOption{xhttp.WithBaseURL(baseURL), xhttp.WithTimeout(timeout)}, opts...)
	return &Client{http: xhttp.NewClient(all...)}
}

// Price fetches the latest price of ticker.
func (c *Client) Price(ctx context.Context, ticker string) (*Quote, error) {
	symbol := models.NormalizeSymbol(ticker)
	var body priceBody
	err := c.http.GetJSON(ctx, "/price/"+url.PathEscape(symbol), &body)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
		}
		return nil, fmt.Errorf("engine price %s: %w", symbol, err)
	}
	if body.Price == nil {
		return nil, fmt.Errorf("engine price %s: response has no price", symbol)
	}
	return &Quote{
		Ticker:    strings.ToUpper(body.Ticker),
		Price:     decimal.NewFromFloat(*body.Price),
		Currency:  body.Currency,
		Timestamp: body.Timestamp,
	}, nil
}

// Prices runs a batch lookup. Symbols the engine could not price are returned
// in the second map with the engine's error message.
func (c *Client) Prices(ctx context.Context, tickers []string) (map[string]Quote, map[string]string, error) {
	var body batchBody
	req := models.BatchPricesRequest{Tickers: tickers}
	if err := c.http.PostJSON(ctx, "/prices", req, &body); err != nil {
		return nil, nil, fmt.Errorf("engine prices: %w", err)
	}
	quotes := make(map[string]Quote, len(body.Prices))
	failed := make(map[string]string)
	for sym, entry := range body.Prices {
		if entry.Price == nil {
			msg := entry.Error
			if msg == "" {
				msg = "no price"
			}
			failed[sym] = msg
			continue
		}
		quotes[sym] = Quote{Ticker: sym, Price: decimal.NewFromFloat(*entry.Price), Currency: entry.Currency}
	}
	return quotes, failed, nil
}

// Health reports whether the engine answers UP.
func (c *Client) Health(ctx context.Context) error {
	var body models.HealthResponse
	if err := c.http.GetJSON(ctx, "/health", &body); err != nil {
		return fmt.Errorf("engine health: %w", err)
	}
	if body.Status != "UP" {
		return fmt.Errorf("engine health: status %q", body.Status)
	}
	return nil
}
