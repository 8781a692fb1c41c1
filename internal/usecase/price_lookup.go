package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"MarketEngine/internal/domain/models"
	domrepo "MarketEngine/internal/domain/repository"
	applogger "MarketEngine/pkg/logger"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

const (
	KindSingle = "single"
	KindBatch  = "batch"

	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// EventSink receives lookup events. Emit must not block the caller.
type EventSink interface {
	Emit(ev *models.LookupEvent)
}

type LookupConfig struct {
	Policy          RetryPolicy
	Deadline        time.Duration // per symbol; 0 disables
	// RequestDeadline bounds a whole Lookup or LookupBatch call; 0 disables.
	// Symbols still retrying when it passes end as not found.
	RequestDeadline time.Duration
	MaxConcurrency  int
}

// PriceLookup ties the fetcher and extractor together for the single and
// batch endpoints.
type PriceLookup struct {
	fetcher   *RetryingFetcher
	extractor *PriceExtractor
	cfg       LookupConfig
	events    EventSink
	log       *applogger.Logger
	metrics   domrepo.Metrics
	now       func() time.Time
}

func NewPriceLookup(fetcher *RetryingFetcher, extractor *PriceExtractor, cfg LookupConfig, events EventSink, log *applogger.Logger, m domrepo.Metrics) *PriceLookup {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	return &PriceLookup{
		fetcher:   fetcher,
		extractor: extractor,
		cfg:       cfg,
		events:    events,
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
}

// Lookup fetches one symbol. The symbol is upper-cased before fetching; the
// returned PriceResult carries the normalized form.
func (uc *PriceLookup) Lookup(ctx context.Context, symbol string) models.PriceResult {
	start := uc.now()
	ctx, cancel := uc.requestContext(ctx)
	defer cancel()
	res, attempts := uc.lookupOne(ctx, models.NormalizeSymbol(symbol))
	uc.metrics.RecordLatency("lookup_single", time.Since(start).Seconds())
	uc.record(KindSingle, res, attempts)
	return res
}

// LookupBatch fetches every symbol with bounded parallelism. Results are
// merged in request order, so for duplicate symbols the last occurrence wins.
func (uc *PriceLookup) LookupBatch(ctx context.Context, symbols []string) models.BatchResult {
	start := uc.now()
	ctx, cancel := uc.requestContext(ctx)
	defer cancel()
	type slot struct {
		res      models.PriceResult
		attempts int
	}
	slots := make([]slot, len(symbols))

	p := pool.New().WithMaxGoroutines(uc.cfg.MaxConcurrency)
	for i, raw := range symbols {
		i := i // per-iteration copy; go.mod targets go1.21 loop semantics
		sym := models.NormalizeSymbol(raw)
		p.Go(func() {
			res, attempts := uc.lookupOne(ctx, sym)
			slots[i] = slot{res: res, attempts: attempts}
		})
	}
	p.Wait()

	out := models.BatchResult{Prices: make(map[string]models.PriceResult, len(symbols))}
	for _, s := range slots {
		if _, seen := out.Prices[s.res.Symbol]; !seen {
			out.Order = append(out.Order, s.res.Symbol)
		}
		out.Prices[s.res.Symbol] = s.res
		uc.record(KindBatch, s.res, s.attempts)
	}
	uc.metrics.RecordLatency("lookup_batch", time.Since(start).Seconds())
	return out
}

func (uc *PriceLookup) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.cfg.RequestDeadline <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, uc.cfg.RequestDeadline)
}

// lookupOne never panics: a panic anywhere below turns into an error result
// for this symbol only.
func (uc *PriceLookup) lookupOne(ctx context.Context, symbol string) (res models.PriceResult, attempts int) {
	res.Symbol = symbol
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error("price lookup panicked",
				applogger.String("symbol", symbol),
				applogger.Any("panic", r),
				applogger.String("stack", string(debug.Stack())),
			)
			res = models.PriceResult{Symbol: symbol, Error: fmt.Sprint(r)}
		}
	}()

	if uc.cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.Deadline)
		defer cancel()
	}

	out := uc.fetcher.FetchOutcome(ctx, symbol, uc.cfg.Policy)
	attempts = out.Attempts
	if !out.Found() {
		return res, attempts
	}

	price, err := uc.extractor.Extract(out.Bars)
	if err != nil {
		res.Error = err.Error()
		return res, attempts
	}
	res.Found = true
	res.Price = price
	res.Currency = uc.extractor.Currency()
	return res, attempts
}

func (uc *PriceLookup) record(kind string, res models.PriceResult, attempts int) {
	result := resultLabel(res)
	uc.metrics.RecordLookup(kind, result)
	if res.Found {
		uc.metrics.RecordLastPrice(res.Symbol, res.Price.InexactFloat64())
	}
	if uc.events == nil {
		return
	}
	ev := &models.LookupEvent{
		ID:        uuid.NewString(),
		Symbol:    res.Symbol,
		Kind:      kind,
		Result:    result,
		Error:     res.Error,
		Attempts:  attempts,
		Provider:  uc.fetcher.provider,
		Timestamp: uc.now().UTC(),
	}
	if res.Found {
		ev.Price = res.Price.StringFixed(2)
		ev.Currency = res.Currency
	}
	uc.events.Emit(ev)
}

func resultLabel(res models.PriceResult) string {
	switch {
	case res.Found:
		return ResultOK
	case res.Error != "":
		return ResultError
	default:
		return ResultNotFound
	}
}
