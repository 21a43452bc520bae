package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/hockey-ingest/external/hockeyapi"
	"github.com/riskibarqy/hockey-ingest/internal/config"
	"github.com/riskibarqy/hockey-ingest/internal/infrastructure/archive"
	"github.com/riskibarqy/hockey-ingest/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/hockey-ingest/internal/normalizer"
	"github.com/riskibarqy/hockey-ingest/internal/platform/cache"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
	"github.com/riskibarqy/hockey-ingest/internal/platform/resilience"
	"github.com/riskibarqy/hockey-ingest/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const retryBackoff = time.Second

// NewHTTPClient returns a client whose requests are traced.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func NewHockeyAPIClient(cfg config.Config, logger *logging.Logger) *hockeyapi.Client {
	return hockeyapi.NewClient(hockeyapi.ClientConfig{
		HTTPClient:     NewHTTPClient(cfg.HockeyAPITimeout),
		BaseURL:        cfg.HockeyAPIBaseURL,
		Timeout:        cfg.HockeyAPITimeout,
		Retry:          resilience.RetryPolicy{MaxRetries: cfg.HockeyAPIMaxRetries, Backoff: retryBackoff},
		TimeZoneOffset: cfg.TimeZoneOffset,
		GameType:       cfg.GameType,
		Logger:         logger.Named("hockeyapi"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.HockeyAPICircuitEnabled,
			FailureThreshold: cfg.HockeyAPICircuitFailureCount,
			OpenTimeout:      cfg.HockeyAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.HockeyAPICircuitHalfOpenMax,
		},
	})
}

func storeOpenerConfig(cfg config.Config) sqlstore.OpenerConfig {
	return sqlstore.OpenerConfig{
		Driver:         cfg.DBDriver,
		DSN:            normalizeDBURL(cfg.DBDriver, cfg.DBURL, cfg.DBDisablePreparedBinary),
		DBName:         dbNameFromURL(cfg.DBDriver, cfg.DBURL),
		QueryFormatter: formatDBQueryForTrace,
	}
}

// NewIngestionService wires the ingestion pipeline. The returned cleanup
// closes the raw payload database when RAW_ARCHIVE_DB_ENABLED is set.
func NewIngestionService(ctx context.Context, cfg config.Config, logger *logging.Logger) (*usecase.IngestionService, func() error, error) {
	client := NewHockeyAPIClient(cfg, logger)
	lookups := usecase.NewCachedFetcher(client, cache.NewStore(0))
	writer := archive.NewWriter(cfg.OutputDir, logger.Named("archive"))
	cleanup := func() error { return nil }

	deps := usecase.IngestionDeps{
		Resolver: usecase.NewDivisionResolver(lookups, logger),
		Fetcher:  usecase.NewEndpointFetcher(lookups, writer, cfg.FetchWorkers, logger),
		Crawler: usecase.NewScheduleCrawler(client, usecase.ScheduleCrawlerConfig{
			PageSize:       cfg.PageSize,
			MaxPages:       cfg.MaxPages,
			TimeZoneOffset: cfg.TimeZoneOffset,
		}, logger),
		Normalizer: normalizer.New(logger.Named("normalizer")),
		Archiver:   writer,
		Writer:     writer,
		Logger:     logger,
	}

	if cfg.RawArchiveDBEnabled {
		openerCfg := storeOpenerConfig(cfg)
		dialect, err := sqlstore.DialectFromDriver(openerCfg.Driver)
		if err != nil {
			return nil, nil, err
		}
		db, err := sqlstore.OpenDB(ctx, openerCfg, dialect)
		if err != nil {
			return nil, nil, fmt.Errorf("open raw payload store: %w", err)
		}
		deps.RawRepo = sqlstore.NewRawDataRepository(db)
		cleanup = db.Close
	}

	return usecase.NewIngestionService(deps), cleanup, nil
}

func NewValidationService(cfg config.Config, logger *logging.Logger) (*usecase.ValidationService, error) {
	opener, err := sqlstore.NewOpener(storeOpenerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("build store opener: %w", err)
	}
	return usecase.NewValidationService(opener, usecase.ValidationConfig{
		TopN:            cfg.ValidatorTopN,
		MaxGoalsPerGame: cfg.ValidatorMaxGoalsPerGame,
	}, logger.Named("validator")), nil
}
