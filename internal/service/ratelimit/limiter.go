package ratelimit

import (
	"context"
	"fmt"
	"time"

	"MarketEngine/internal/domain/models"
	domrepo "MarketEngine/internal/domain/repository"

	"golang.org/x/time/rate"
)

// ThrottledUpstream limits outbound calls to an UpstreamClient. Every retry
// attempt takes a token, so retries cannot exceed the provider's quota.
type ThrottledUpstream struct {
	next    domrepo.UpstreamClient
	limiter *rate.Limiter
}

// PerMinute builds a limiter for n requests per minute with the given burst.
// n <= 0 means unlimited.
func PerMinute(n, burst int) *rate.Limiter {
	if burst < 1 {
		burst = 1
	}
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), burst)
}

func NewThrottledUpstream(next domrepo.UpstreamClient, limiter *rate.Limiter) *ThrottledUpstream {
	return &ThrottledUpstream{next: next, limiter: limiter}
}

func (t *ThrottledUpstream) FetchDailyHistory(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.next.FetchDailyHistory(ctx, symbol)
}
