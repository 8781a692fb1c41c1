package di

import (
	"context"
	"fmt"
	"time"

	"MarketEngine/internal/domain/repository"
	"MarketEngine/internal/handler/api"
	mid "MarketEngine/internal/middleware"
	internalrepo "MarketEngine/internal/repository"
	"MarketEngine/internal/service/alphavantage"
	"MarketEngine/internal/service/ratelimit"
	"MarketEngine/internal/service/static"
	"MarketEngine/internal/service/yahoo"
	"MarketEngine/internal/usecase"
	pkgch "MarketEngine/pkg/clickhouse"
	"MarketEngine/pkg/config"
	xhttp "MarketEngine/pkg/http"
	pkgkafka "MarketEngine/pkg/kafka"
	applogger "MarketEngine/pkg/logger"
	"MarketEngine/pkg/metrics"
	pkgredis "MarketEngine/pkg/redis"
	"MarketEngine/pkg/server"
)

// Upstream is the selected market-data adapter plus its shutdown hook.
type Upstream struct {
	Client   repository.UpstreamClient
	Provider string
	Closer   server.Closer
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("service", cfg.Service.Name), applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideUpstream selects the upstream adapter named by upstream.provider and
// wraps it in the outbound throttle when one is configured.
func ProvideUpstream(cfg *config.Config, l *applogger.Logger) (*Upstream, error) {
	uc := cfg.Upstream
	up := &Upstream{Provider: uc.Provider}

	switch uc.Provider {
	case yahoo.ProviderName:
		up.Client = yahoo.New(uc.Yahoo.RangeDays, uc.Timeout, l)
	case alphavantage.ProviderName:
		c := alphavantage.New(uc.AlphaVantage.APIKey, uc.AlphaVantage.BaseURL, uc.Timeout, l)
		up.Client = c
		up.Closer = server.Closer{Name: "alphavantage", Close: c.Close}
	case internalrepo.ClickHouseProviderName:
		ch, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, err
		}
		hist, err := internalrepo.NewCHPriceHistory(ch, uc.ClickHouse.Database+"."+uc.ClickHouse.Table, uc.ClickHouse.Lookback, l)
		if err != nil {
			_ = ch.Close()
			return nil, err
		}
		up.Client = hist
		up.Closer = server.Closer{Name: "clickhouse", Close: ch.Close}
	case static.ProviderName:
		up.Client = static.New(uc.Static.Prices)
	default:
		return nil, fmt.Errorf("unknown upstream provider %q", uc.Provider)
	}

	if uc.MaxRequestsPerMinute > 0 {
		up.Client = ratelimit.NewThrottledUpstream(up.Client, ratelimit.PerMinute(uc.MaxRequestsPerMinute, uc.Burst))
	}
	return up, nil
}

// ProvideClickHouseClient connects to ClickHouse and makes sure the daily
// prices table exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	cc := cfg.Upstream.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(cc.Host),
		pkgch.WithPort(cc.Port),
		pkgch.WithDatabase(cc.Database),
		pkgch.WithCredentials(cc.User, cc.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(5*time.Second, cfg.Upstream.Timeout),
		pkgch.WithHTTP(cc.Protocol == "http"),
		pkgch.WithMaxExecutionTime(cc.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cc.Database,
		internalrepo.DailyPricesDDL(cc.Database + "." + cc.Table),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideRetryingFetcher wraps the upstream in the retry loop.
func ProvideRetryingFetcher(up *Upstream, l *applogger.Logger, m repository.Metrics) *usecase.RetryingFetcher {
	return usecase.NewRetryingFetcher(up.Client, up.Provider, l, m)
}

// ProvidePriceExtractor creates the USD price extractor.
func ProvidePriceExtractor() *usecase.PriceExtractor {
	return usecase.NewPriceExtractor()
}

// ProvideLookupPublisher creates the sink selected by events.backend.
func ProvideLookupPublisher(cfg *config.Config) (repository.LookupPublisher, error) {
	ec := cfg.Events
	switch ec.Backend {
	case "kafka":
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(ec.Kafka.Brokers),
			pkgkafka.WithCompression(ec.Kafka.Compression),
			pkgkafka.WithRequiredAcks(1),
			pkgkafka.WithBatching(100, 200*time.Millisecond),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return internalrepo.NewKafkaLookupPublisher(producer, ec.Kafka.Topic), nil
	case "redis":
		client, err := pkgredis.NewClient(
			pkgredis.WithAddr(ec.Redis.Addr),
			pkgredis.WithPassword(ec.Redis.Password),
			pkgredis.WithDB(ec.Redis.DB),
			pkgredis.WithPool(ec.Redis.PoolSize, 2, 30*time.Second),
			pkgredis.WithPrefix(ec.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis client: %w", err)
		}
		return internalrepo.NewRedisLookupPublisher(client, ec.Redis.Channel), nil
	default:
		return internalrepo.NopLookupPublisher{}, nil
	}
}

// ProvideEventPipeline buffers lookup events between the use case and the publisher.
func ProvideEventPipeline(cfg *config.Config, pub repository.LookupPublisher, m repository.Metrics, l *applogger.Logger) *mid.EventPipeline {
	return mid.NewEventPipeline(pub, cfg.Events.Backend, m, l, mid.WithBufferSize(cfg.Events.BufferSize))
}

// ProvidePriceLookup creates the lookup use case.
func ProvidePriceLookup(
	cfg *config.Config,
	fetcher *usecase.RetryingFetcher,
	extractor *usecase.PriceExtractor,
	pipe *mid.EventPipeline,
	l *applogger.Logger,
	m repository.Metrics,
) *usecase.PriceLookup {
	return usecase.NewPriceLookup(fetcher, extractor, usecase.LookupConfig{
		Policy: usecase.RetryPolicy{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff,
		},
		Deadline:        cfg.Retry.Deadline,
		RequestDeadline: cfg.RequestDeadline(),
		MaxConcurrency:  cfg.Batch.MaxConcurrency,
	}, pipe, l, m)
}

// ProvideHTTPHandler registers the price routes.
func ProvideHTTPHandler(cfg *config.Config, l *applogger.Logger, lookup *usecase.PriceLookup) xhttp.Handler {
	return api.NewPricesEchoHandler(l, lookup, cfg.Service.Name, api.WithMaxTickers(cfg.Batch.MaxTickers))
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(cfg.Metrics.Enabled),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	pipe *mid.EventPipeline,
	up *Upstream,
) *server.App {
	return server.New(cfg, l, srv, pipe, up.Closer)
}
