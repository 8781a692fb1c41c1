package yahoo

import (
	"context"
	"fmt"
	"time"

	"MarketEngine/internal/domain/models"
	applogger "MarketEngine/pkg/logger"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

const ProviderName = "yahoo"

// BarIterator is the subset of *chart.Iter the client consumes.
type BarIterator interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

// ChartFunc runs a chart query. chart.Get in production.
type ChartFunc func(p *chart.Params) BarIterator

func defaultChart(p *chart.Params) BarIterator { return chart.Get(p) }

// Client reads recent daily bars from the Yahoo Finance chart endpoint.
type Client struct {
	rangeDays int
	timeout   time.Duration
	chart     ChartFunc
	now       func() time.Time
	log       *applogger.Logger
}

type Option func(*Client)

func WithChartFunc(fn ChartFunc) Option {
	return func(c *Client) {
		c.chart = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func New(rangeDays int, timeout time.Duration, log *applogger.Logger, opts ...Option) *Client {
	if rangeDays < 1 {
		rangeDays = 5
	}
	c := &Client{
		rangeDays: rangeDays,
		timeout:   timeout,
		chart:     defaultChart,
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchDailyHistory returns the last rangeDays calendar days of daily bars,
// oldest first. Bars without a close are skipped.
func (c *Client) FetchDailyHistory(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	end := c.now().UTC()
	start := end.AddDate(0, 0, -c.rangeDays)
	p := &chart.Params{
		Params:   finance.Params{Context: &ctx},
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := c.chart(p)
	var bars []models.PriceBar
	for iter.Next() {
		b := iter.Bar()
		if b == nil || b.Close.IsZero() {
			continue
		}
		bars = append(bars, models.PriceBar{
			Time:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	c.log.Debug("yahoo chart fetched",
		applogger.String("symbol", symbol),
		applogger.Int("bars", len(bars)),
	)
	return bars, nil
}
