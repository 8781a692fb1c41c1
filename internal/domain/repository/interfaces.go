package repository

import (
	"context"
	"errors"

	"MarketEngine/internal/domain/models"
)

// ErrNoData is returned by upstream adapters that want to signal an empty
// series explicitly. Callers treat it the same as a nil, empty slice.
var ErrNoData = errors.New("no data for symbol")

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// UpstreamClient returns a short, chronologically ascending series of daily
// bars for a symbol. An empty series means the provider knows nothing useful.
type UpstreamClient interface {
	FetchDailyHistory(ctx context.Context, symbol string) ([]models.PriceBar, error)
}

// LookupPublisher ships lookup events to an external sink.
type LookupPublisher interface {
	Publish(ctx context.Context, ev *models.LookupEvent) error
	Close() error
}

type Metrics interface {
	RecordAttempt(provider, result string)
	RecordBackoff(seconds float64)
	RecordExhausted(kind string)
	RecordLookup(kind, result string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordEventDropped(backend string)
}
