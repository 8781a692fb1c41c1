package static

import (
	"context"
	"time"

	"MarketEngine/internal/domain/models"

	"github.com/shopspring/decimal"
)

const ProviderName = "static"

// DefaultPrices is the demo price table used when none is configured.
var DefaultPrices = map[string]float64{
	"AAPL":  185.92,
	"NVDA":  485.50,
	"GOOGL": 140.25,
	"MSFT":  375.00,
	"TSLA":  245.75,
	"AMZN":  155.30,
}

// Client serves fixed prices. Unknown symbols get an empty series.
type Client struct {
	prices map[string]decimal.Decimal
	now    func() time.Time
}

func New(prices map[string]float64) *Client {
	if len(prices) == 0 {
		prices = DefaultPrices
	}
	m := make(map[string]decimal.Decimal, len(prices))
	for sym, p := range prices {
		m[models.NormalizeSymbol(sym)] = decimal.NewFromFloat(p)
	}
	return &Client{prices: m, now: time.Now}
}

func (c *Client) FetchDailyHistory(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := c.prices[models.NormalizeSymbol(symbol)]
	if !ok {
		return nil, nil
	}
	day := c.now().UTC().Truncate(24 * time.Hour)
	return []models.PriceBar{{Time: day, Open: p, High: p, Low: p, Close: p}}, nil
}
