package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketEngine/internal/domain/models"
	domrepo "MarketEngine/internal/domain/repository"
	applogger "MarketEngine/pkg/logger"

	"github.com/jpillora/backoff"
)

// EventPipeline sits between the lookup use case and a LookupPublisher.
// Emit never blocks the request path: events are buffered and delivered by a
// background worker, and dropped (and counted) when the buffer is full.
type EventPipeline struct {
	pub            domrepo.LookupPublisher
	metrics        domrepo.Metrics
	log            *applogger.Logger
	backend        string
	bufCh          chan *models.LookupEvent
	maxAttempts    int
	publishTimeout time.Duration
	baseBackoff    time.Duration

	mu      sync.RWMutex
	started bool
	closed  bool
	done    chan struct{}
	cancel  context.CancelFunc
}

type PipelineOption func(*EventPipeline)

// WithBufferSize sets how many events may wait for delivery.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufCh = make(chan *models.LookupEvent, n)
		}
	}
}

// WithDelivery sets per-event publish attempts, per-attempt timeout and the
// initial pause between attempts. The pause doubles up to 2s.
func WithDelivery(attempts int, timeout, backoff time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if attempts > 0 {
			p.maxAttempts = attempts
		}
		if timeout > 0 {
			p.publishTimeout = timeout
		}
		if backoff >= 0 {
			p.baseBackoff = backoff
		}
	}
}

func NewEventPipeline(pub domrepo.LookupPublisher, backend string, metrics domrepo.Metrics, log *applogger.Logger, opts ...PipelineOption) *EventPipeline {
	p := &EventPipeline{
		pub:            pub,
		metrics:        metrics,
		log:            log,
		backend:        backend,
		bufCh:          make(chan *models.LookupEvent, 1024),
		maxAttempts:    3,
		publishTimeout: 5 * time.Second,
		baseBackoff:    50 * time.Millisecond,
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit queues ev for delivery.
func (p *EventPipeline) Emit(ev *models.LookupEvent) {
	if ev == nil {
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.RecordEventDropped(p.backend)
		return
	}
	select {
	case p.bufCh <- ev:
	default:
		p.metrics.RecordEventDropped(p.backend)
	}
}

// Start launches the delivery worker.
func (p *EventPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.started = true
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	p.mu.Unlock()

	go p.run(runCtx)
}

func (p *EventPipeline) run(ctx context.Context) {
	defer close(p.done)
	for ev := range p.bufCh {
		p.deliver(ctx, ev)
	}
}

func (p *EventPipeline) deliver(ctx context.Context, ev *models.LookupEvent) {
	b := &backoff.Backoff{Min: p.baseBackoff, Max: 2 * time.Second, Factor: 2}
	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			break
		}
		start := time.Now()
		pctx, cancel := context.WithTimeout(ctx, p.publishTimeout)
		err = p.pub.Publish(pctx, ev)
		cancel()
		if err == nil {
			p.metrics.RecordLatency("event_publish", time.Since(start).Seconds())
			return
		}
		if attempt < p.maxAttempts && p.baseBackoff > 0 {
			t := time.NewTimer(b.Duration())
			select {
			case <-ctx.Done():
				t.Stop()
			case <-t.C:
			}
		}
	}
	p.metrics.RecordEventDropped(p.backend)
	p.log.Warn("lookup event dropped",
		applogger.String("backend", p.backend),
		applogger.String("symbol", ev.Symbol),
		applogger.Error(err),
	)
}

// Stop refuses new events, waits for queued ones to be delivered and closes
// the publisher. When ctx ends first, pending retries are abandoned and the
// remaining events are dropped.
func (p *EventPipeline) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started, cancel := p.started, p.cancel
	close(p.bufCh)
	p.mu.Unlock()

	var drainErr error
	if started {
		select {
		case <-p.done:
		case <-ctx.Done():
			drainErr = fmt.Errorf("event pipeline drain: %w", ctx.Err())
			cancel()
			<-p.done
		}
		cancel()
	}
	if err := p.pub.Close(); err != nil {
		return fmt.Errorf("close %s publisher: %w", p.backend, err)
	}
	return drainErr
}
