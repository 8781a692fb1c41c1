package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"MarketEngine/internal/domain/models"
	applogger "MarketEngine/pkg/logger"
	"MarketEngine/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUpstream answers from a fixed table; unknown symbols get an empty series.
type stubUpstream struct {
	mu     sync.Mutex
	series map[string][]models.PriceBar
	errs   map[string]error
	panics map[string]string
	calls  map[string]int
	// byCall overrides series with an answer chosen by the 1-based call count.
	byCall map[string]func(n int) []models.PriceBar
}

func newStubUpstream() *stubUpstream {
	return &stubUpstream{
		series: map[string][]models.PriceBar{},
		errs:   map[string]error{},
		panics: map[string]string{},
		calls:  map[string]int{},
		byCall: map[string]func(n int) []models.PriceBar{},
	}
}

func (s *stubUpstream) FetchDailyHistory(_ context.Context, symbol string) ([]models.PriceBar, error) {
	s.mu.Lock()
	s.calls[symbol]++
	msg, shouldPanic := s.panics[symbol]
	series, err := s.series[symbol], s.errs[symbol]
	if fn, ok := s.byCall[symbol]; ok {
		series = fn(s.calls[symbol])
	}
	s.mu.Unlock()
	if shouldPanic {
		panic(msg)
	}
	return series, err
}

func (s *stubUpstream) Calls(symbol string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[symbol]
}

type captureSink struct {
	mu     sync.Mutex
	events []*models.LookupEvent
}

func (c *captureSink) Emit(ev *models.LookupEvent) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func newTestLookup(up *stubUpstream, sink EventSink) *PriceLookup {
	f := NewRetryingFetcher(up, "stub", applogger.NewNop(), metrics.Nop{}, WithSleeper((&sleepRecorder{}).Sleep))
	cfg := LookupConfig{Policy: DefaultRetryPolicy(), MaxConcurrency: 4}
	return NewPriceLookup(f, NewPriceExtractor(), cfg, sink, applogger.NewNop(), metrics.Nop{})
}

func TestLookup_Found(t *testing.T) {
	up := newStubUpstream()
	up.series["AAPL"] = bars("180.1", "185.921")
	sink := &captureSink{}

	res := newTestLookup(up, sink).Lookup(context.Background(), "aapl")

	require.True(t, res.Found)
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, "185.92", res.Price.String())
	assert.Equal(t, "USD", res.Currency)
	assert.Equal(t, 1, up.Calls("AAPL"))

	require.Len(t, sink.events, 1)
	ev := sink.events[0]
	assert.Equal(t, KindSingle, ev.Kind)
	assert.Equal(t, ResultOK, ev.Result)
	assert.Equal(t, "185.92", ev.Price)
	assert.Equal(t, 1, ev.Attempts)
	assert.NotEmpty(t, ev.ID)
}

func TestLookup_NotFoundAfterRetries(t *testing.T) {
	up := newStubUpstream()
	sink := &captureSink{}

	res := newTestLookup(up, sink).Lookup(context.Background(), "INVALIDTICKER")

	assert.False(t, res.Found)
	assert.Empty(t, res.Error)
	assert.Equal(t, 3, up.Calls("INVALIDTICKER"))
	require.Len(t, sink.events, 1)
	assert.Equal(t, ResultNotFound, sink.events[0].Result)
	assert.Equal(t, 3, sink.events[0].Attempts)
}

func TestLookup_PanicBecomesError(t *testing.T) {
	up := newStubUpstream()
	up.panics["BOOM"] = "upstream exploded"

	res := newTestLookup(up, nil).Lookup(context.Background(), "BOOM")

	assert.False(t, res.Found)
	assert.Equal(t, "upstream exploded", res.Error)
}

func TestLookup_DeadlineEndsRetries(t *testing.T) {
	up := newStubUpstream()
	up.errs["SLOW"] = errors.New("timeout")
	f := NewRetryingFetcher(up, "stub", applogger.NewNop(), metrics.Nop{})
	cfg := LookupConfig{
		Policy:         RetryPolicy{MaxAttempts: 10, InitialBackoff: time.Second},
		Deadline:       50 * time.Millisecond,
		MaxConcurrency: 1,
	}
	uc := NewPriceLookup(f, NewPriceExtractor(), cfg, nil, applogger.NewNop(), metrics.Nop{})

	start := time.Now()
	res := uc.Lookup(context.Background(), "SLOW")

	assert.False(t, res.Found)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
	assert.Equal(t, 1, up.Calls("SLOW"))
}

func TestLookupBatch_RequestDeadlineBoundsWholeBatch(t *testing.T) {
	up := newStubUpstream()
	up.series["AAPL"] = bars("185.921")
	for _, s := range []string{"D1", "D2", "D3", "D4"} {
		up.errs[s] = errors.New("timeout")
	}
	f := NewRetryingFetcher(up, "stub", applogger.NewNop(), metrics.Nop{})
	cfg := LookupConfig{
		Policy:          RetryPolicy{MaxAttempts: 5, InitialBackoff: time.Second},
		RequestDeadline: 100 * time.Millisecond,
		MaxConcurrency:  1,
	}
	uc := NewPriceLookup(f, NewPriceExtractor(), cfg, nil, applogger.NewNop(), metrics.Nop{})

	start := time.Now()
	out := uc.LookupBatch(context.Background(), []string{"AAPL", "D1", "D2", "D3", "D4"})

	assert.Less(t, time.Since(start), time.Second)
	require.Len(t, out.Prices, 5)
	assert.True(t, out.Prices["AAPL"].Found)
	for _, s := range []string{"D1", "D2", "D3", "D4"} {
		assert.False(t, out.Prices[s].Found, s)
		assert.Empty(t, out.Prices[s].Error, s)
	}
}

func TestLookupBatch_IsolatesFailures(t *testing.T) {
	up := newStubUpstream()
	up.series["AAPL"] = bars("185.921")
	up.series["NVDA"] = bars("485.5")
	up.errs["DOWN"] = errors.New("connection reset")
	up.panics["BOOM"] = "bad row"
	sink := &captureSink{}

	out := newTestLookup(up, sink).LookupBatch(context.Background(), []string{"aapl", "NVDA", "down", "BOOM"})

	require.Len(t, out.Prices, 4)
	assert.Equal(t, []string{"AAPL", "NVDA", "DOWN", "BOOM"}, out.Order)
	assert.Equal(t, "185.92", out.Prices["AAPL"].Price.String())
	assert.Equal(t, "485.5", out.Prices["NVDA"].Price.String())
	assert.False(t, out.Prices["DOWN"].Found)
	assert.Empty(t, out.Prices["DOWN"].Error)
	assert.Equal(t, "bad row", out.Prices["BOOM"].Error)
	assert.Equal(t, 3, up.Calls("DOWN"))
	assert.Len(t, sink.events, 4)
	for _, ev := range sink.events {
		assert.Equal(t, KindBatch, ev.Kind)
	}
}

func TestLookupBatch_DuplicatesShareOneKey(t *testing.T) {
	up := newStubUpstream()
	up.series["AAPL"] = bars("185.921")

	out := newTestLookup(up, nil).LookupBatch(context.Background(), []string{"AAPL", "msft", "aapl"})

	assert.Equal(t, []string{"AAPL", "MSFT"}, out.Order)
	assert.Len(t, out.Prices, 2)
	assert.True(t, out.Prices["AAPL"].Found)
	assert.False(t, out.Prices["MSFT"].Found)
	assert.Equal(t, 2, up.Calls("AAPL"))
}

// sequentialLookup runs batch items one at a time, in request order.
func sequentialLookup(up *stubUpstream) *PriceLookup {
	f := NewRetryingFetcher(up, "stub", applogger.NewNop(), metrics.Nop{}, WithSleeper((&sleepRecorder{}).Sleep))
	cfg := LookupConfig{Policy: DefaultRetryPolicy(), MaxConcurrency: 1}
	return NewPriceLookup(f, NewPriceExtractor(), cfg, nil, applogger.NewNop(), metrics.Nop{})
}

func TestLookupBatch_LaterOccurrenceOverridesEarlier(t *testing.T) {
	tests := []struct {
		name      string
		answer    func(n int) []models.PriceBar
		wantFound bool
	}{
		{
			name: "first found then absent",
			answer: func(n int) []models.PriceBar {
				if n == 1 {
					return bars("185.921")
				}
				return nil
			},
			wantFound: false,
		},
		{
			name: "first absent then found",
			answer: func(n int) []models.PriceBar {
				if n > 3 {
					return bars("190.005")
				}
				return nil
			},
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newStubUpstream()
			up.byCall["AAPL"] = tt.answer
			up.series["MSFT"] = bars("375")

			out := sequentialLookup(up).LookupBatch(context.Background(), []string{"AAPL", "MSFT", "aapl"})

			require.Len(t, out.Prices, 2)
			assert.Equal(t, tt.wantFound, out.Prices["AAPL"].Found)
			if tt.wantFound {
				assert.Equal(t, "190.01", out.Prices["AAPL"].Price.StringFixed(2))
			}
			assert.True(t, out.Prices["MSFT"].Found)
		})
	}
}
