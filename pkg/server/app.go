package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mid "MarketEngine/internal/middleware"
	"MarketEngine/pkg/config"
	xhttp "MarketEngine/pkg/http"
	applogger "MarketEngine/pkg/logger"
)

// Closer releases an infrastructure client on shutdown.
type Closer struct {
	Name  string
	Close func() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	pipeline   *mid.EventPipeline
	closers    []Closer
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, log *applogger.Logger, srv *xhttp.Server, pipeline *mid.EventPipeline, closers ...Closer) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		pipeline:   pipeline,
		closers:    closers,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the event pipeline and HTTP server and blocks until ctx
// is done or the server fails to listen.
func (a *App) RunContext(ctx context.Context) error {
	if a.pipeline != nil {
		a.pipeline.Start(ctx)
		a.log.Info("event pipeline started", applogger.String("backend", a.cfg.Events.Backend))
	}

	errCh := a.httpServer.Start()
	a.log.Info("market engine started",
		applogger.String("addr", a.httpServer.Addr()),
		applogger.String("provider", a.cfg.Upstream.Provider),
		applogger.Int("max_attempts", a.cfg.Retry.MaxAttempts),
		applogger.Duration("initial_backoff", a.cfg.Retry.InitialBackoff),
		applogger.Duration("request_deadline", a.cfg.RequestDeadline()),
		applogger.Bool("metrics", a.cfg.Metrics.Enabled),
	)
	if a.cfg.Events.Backend == "kafka" {
		a.log.Info("publishing lookup events to kafka",
			applogger.Strings("brokers", a.cfg.Events.Kafka.Brokers),
			applogger.String("topic", a.cfg.Events.Kafka.Topic),
		)
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	return errors.Join(runErr, a.shutdown())
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	// HTTP is stopped first so no handler emits into a closed pipeline.
	if a.pipeline != nil {
		if err := a.pipeline.Stop(ctx); err != nil {
			a.log.Warn("event pipeline stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	for _, c := range a.closers {
		if c.Close == nil {
			continue
		}
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("component", c.Name), applogger.Error(err))
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name, err))
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
