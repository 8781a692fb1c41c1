package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"MarketEngine/internal/domain/models"
	domrepo "MarketEngine/internal/domain/repository"
	applogger "MarketEngine/pkg/logger"

	"github.com/jpillora/backoff"
)

// RetryPolicy bounds the retry loop: MaxAttempts upstream calls with a
// doubling sleep between them, starting at InitialBackoff.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialBackoff: 500 * time.Millisecond}
}

// Normalized clamps MaxAttempts to at least 1 and InitialBackoff to at least 0.
func (p RetryPolicy) Normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.InitialBackoff < 0 {
		p.InitialBackoff = 0
	}
	return p
}

// Backoff returns the sleep after the failed attempt with zero-based index
// attempt: InitialBackoff * 2^attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if p.InitialBackoff <= 0 {
		return 0
	}
	b := backoff.Backoff{
		Min:    p.InitialBackoff,
		Max:    time.Duration(math.MaxInt64),
		Factor: 2,
	}
	return b.ForAttempt(float64(attempt))
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryingFetcher wraps an UpstreamClient with bounded exponential backoff.
// Upstream errors and empty series are failed attempts; they are logged and
// counted, never returned to the caller.
type RetryingFetcher struct {
	upstream domrepo.UpstreamClient
	provider string
	log      *applogger.Logger
	metrics  domrepo.Metrics
	sleep    SleepFunc
}

type FetcherOption func(*RetryingFetcher)

// WithSleeper replaces the real timer, mostly for tests.
func WithSleeper(s SleepFunc) FetcherOption {
	return func(f *RetryingFetcher) {
		f.sleep = s
	}
}

func NewRetryingFetcher(upstream domrepo.UpstreamClient, provider string, log *applogger.Logger, m domrepo.Metrics, opts ...FetcherOption) *RetryingFetcher {
	f := &RetryingFetcher{
		upstream: upstream,
		provider: provider,
		log:      log,
		metrics:  m,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the series and true on success, or nil and false once every
// attempt has failed.
func (f *RetryingFetcher) Fetch(ctx context.Context, symbol string, policy RetryPolicy) ([]models.PriceBar, bool) {
	out := f.FetchOutcome(ctx, symbol, policy)
	if !out.Found() {
		return nil, false
	}
	return out.Bars, true
}

// FetchOutcome runs the retry loop and reports how it ended.
func (f *RetryingFetcher) FetchOutcome(ctx context.Context, symbol string, policy RetryPolicy) models.FetchOutcome {
	p := policy.Normalized()
	out := models.FetchOutcome{Symbol: symbol, Kind: models.OutcomeFailed}

	for i := 0; i < p.MaxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			out.Kind, out.Err = models.OutcomeFailed, err
			break
		}

		out.Attempts = i + 1
		bars, err := f.upstream.FetchDailyHistory(ctx, symbol)
		switch {
		case err != nil && !errors.Is(err, domrepo.ErrNoData):
			out.Kind, out.Err = models.OutcomeFailed, err
			f.metrics.RecordAttempt(f.provider, "error")
			f.log.Warn("upstream fetch failed",
				applogger.String("symbol", symbol),
				applogger.Int("attempt", i+1),
				applogger.Int("max_attempts", p.MaxAttempts),
				applogger.Error(err),
			)
		case len(bars) == 0:
			out.Kind, out.Err = models.OutcomeNotFound, nil
			f.metrics.RecordAttempt(f.provider, "empty")
			f.log.Warn("upstream returned empty data",
				applogger.String("symbol", symbol),
				applogger.Int("attempt", i+1),
				applogger.Int("max_attempts", p.MaxAttempts),
			)
		default:
			f.metrics.RecordAttempt(f.provider, "ok")
			out.Kind, out.Bars, out.Err = models.OutcomeSuccess, bars, nil
			return out
		}

		if i == p.MaxAttempts-1 {
			break
		}
		d := p.Backoff(i)
		f.metrics.RecordBackoff(d.Seconds())
		if err := f.sleep(ctx, d); err != nil {
			out.Kind, out.Err = models.OutcomeFailed, err
			f.log.Warn("retry aborted",
				applogger.String("symbol", symbol),
				applogger.Int("attempt", i+1),
				applogger.Error(err),
			)
			break
		}
	}

	f.metrics.RecordExhausted(string(out.Kind))
	return out
}
