package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autobmg/processdocs/config"
	"github.com/autobmg/processdocs/internal/adapters/lambdainvoker"
	"github.com/autobmg/processdocs/internal/adapters/memstate"
	"github.com/autobmg/processdocs/internal/adapters/redisstate"
	"github.com/autobmg/processdocs/internal/adapters/s3store"
	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/observability/notify"
	"github.com/autobmg/processdocs/internal/observability/notify/mailer"
	"github.com/autobmg/processdocs/internal/observability/notify/slack"
	"github.com/autobmg/processdocs/internal/observability/statsd"
	"github.com/autobmg/processdocs/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Pipeline      *service.PipelineService
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	AWS         *AWSClients
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires adapters and pipeline services from loaded configuration.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, fmt.Errorf("service deps and config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	observability := buildObservability(logger, cfg.Observability)

	invoker, err := lambdainvoker.New(lambdainvoker.Options{
		Client:       deps.AWS.Lambda,
		FunctionName: cfg.AWS.LambdaName,
		DetailExpr:   cfg.Pipeline.ResultDetailExpr,
		Logger:       logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build lambda invoker: %w", err)
	}

	store, err := s3store.New(s3store.Options{
		Client:    deps.AWS.S3,
		Presigner: deps.AWS.Presigner,
		Bucket:    cfg.AWS.Bucket,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build object store: %w", err)
	}

	states := buildStateStore(deps, logger)
	notifier := notify.Multi(
		buildMailNotifier(cfg.SMTP, logger),
		buildSlackNotifier(cfg.Slack, logger),
	)

	pipeline := service.NewPipelineService(service.PipelineServiceOptions{
		Dispatcher: service.NewDispatchService(service.DispatchServiceOptions{
			Invoker:     invoker,
			Concurrency: cfg.Pipeline.DispatchConcurrency,
			Logger:      logger,
		}),
		Collector: service.NewCollectorService(service.CollectorServiceOptions{
			Store:      store,
			DocsPrefix: cfg.AWS.DocsPrefix,
			Logger:     logger,
		}),
		Archiver: service.NewArchiverService(service.ArchiverServiceOptions{
			Store: store,
			Config: service.ArchiverConfig{
				DownloadConcurrency: cfg.Pipeline.DownloadConcurrency,
				Policy:              cfg.Pipeline.PartialDownloadPolicy,
			},
			Logger: logger,
		}),
		Publisher: service.NewPublishService(service.PublishServiceOptions{
			Store: store,
			Config: service.PublishConfig{
				ZipsPrefix: cfg.AWS.ZipsPrefix,
				LinkTTL:    cfg.AWS.LinkTTL,
				Retention:  cfg.AWS.ArchiveRetention,
			},
			Logger: logger,
		}),
		States:       states,
		Notifier:     notifier,
		Metrics:      metricsSinkOrNoop(observability.MetricsSink),
		Logger:       logger,
		MaxBatchSize: cfg.Pipeline.MaxBatchSize,
	})

	return ServiceContainer{
		Pipeline:      pipeline,
		Observability: observability,
	}, nil
}

// buildObservability configures the metrics adapter.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.StatsdPrefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
	}
}

//nolint:ireturn // Returning the Sink interface lets the pipeline take either client.
func metricsSinkOrNoop(client *statsd.Client) statsd.Sink {
	if client == nil {
		return statsd.Noop{}
	}
	return client
}

// buildStateStore picks the Redis-backed batch state store when a client is
// available and falls back to the in-memory store otherwise.
//
//nolint:ireturn // Returning the repo interface keeps the store choice runtime-driven.
func buildStateStore(deps *ServiceDeps, logger *slog.Logger) core.BatchStateRepo {
	ttl := deps.Config.Pipeline.StateTTL
	if deps.RedisClient != nil {
		logger.Info("using redis batch state store", "ttl", ttl)
		return redisstate.New(deps.RedisClient, ttl)
	}
	logger.Warn("no redis configured; batch state is in-memory and lost on restart")
	return memstate.New(ttl)
}

// buildMailNotifier constructs the SMTP delivery sink when configured.
//
//nolint:ireturn // Returning the Sink interface keeps notification optional.
func buildMailNotifier(cfg config.SMTPConfig, logger *slog.Logger) notify.Sink {
	if !cfg.Enabled {
		return nil
	}
	client, err := mailer.NewClient(mailer.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialise smtp notifier; continuing without", "error", err)
		return nil
	}
	logger.Info("smtp delivery notifications enabled", "host", cfg.Host, "from", cfg.From)
	return client
}

// buildSlackNotifier constructs the ops-channel summary sink when configured.
//
//nolint:ireturn // Returning the Sink interface keeps notification optional.
func buildSlackNotifier(cfg config.SlackConfig, logger *slog.Logger) notify.Sink {
	if !cfg.Enabled() {
		return nil
	}
	client, err := slack.NewClient(slack.Config{
		WebhookURL: cfg.WebhookURL,
		Channel:    cfg.Channel,
		Username:   cfg.Username,
		Timeout:    cfg.Timeout,
		RetryLimit: cfg.RetryLimit,
	})
	if err != nil {
		logger.Error("failed to initialise slack notifier; continuing without", "error", err)
		return nil
	}
	logger.Info("slack batch notifications enabled", "channel", cfg.Channel)
	return client
}

// ConnectRedis establishes a connection to the batch state Redis. An empty
// address is not an error; the caller falls back to the in-memory store.
//
//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("closing redis client after failed ping", "error", closeErr)
		}
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	if logger != nil {
		logger.Info("redis connected", "addr", cfg.Addr, "db", cfg.DB)
	}
	return client, nil
}
