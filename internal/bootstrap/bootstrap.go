package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/tmoody1973/hakivo-sync/internal/config"
	"github.com/tmoody1973/hakivo-sync/internal/core/ports"
	"github.com/tmoody1973/hakivo-sync/internal/core/usecase"
	"github.com/tmoody1973/hakivo-sync/internal/infrastructure/feed/fedreg"
	natsqueue "github.com/tmoody1973/hakivo-sync/internal/infrastructure/queue/nats"
	"github.com/tmoody1973/hakivo-sync/internal/infrastructure/repository/postgres"
	"github.com/tmoody1973/hakivo-sync/internal/infrastructure/resilience"
	"github.com/tmoody1973/hakivo-sync/internal/infrastructure/taxonomy"
	"github.com/tmoody1973/hakivo-sync/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.SyncMetrics

	SyncUC        ports.SyncService
	Runs          ports.SyncRunStore
	Notifications ports.NotificationStore

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	documents := postgres.NewDocumentRepository(db)
	profiles := postgres.NewProfileRepository(db)
	notifications := postgres.NewNotificationRepository(db)
	runs := postgres.NewSyncRunRepository(db)

	table := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		table, err = taxonomy.LoadFile(cfg.TaxonomyPath)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
	}

	syncMetrics := metrics.NewSyncMetrics(service)

	feed := fedreg.New(cfg.FeedBaseURL, fedreg.Options{
		PageSize:       cfg.FeedPageSize,
		RequestTimeout: time.Duration(cfg.FeedTimeoutSeconds) * time.Second,
		RateLimitRPS:   cfg.FeedRateLimitRPS,
		Executor:       resilience.NewExecutor(resilience.DefaultConfig()),
		Metrics:        syncMetrics,
		Service:        service,
	})

	var events ports.NotificationEvents
	var publisher *natsqueue.Publisher
	if cfg.NATSURL != "" {
		publisher, err = natsqueue.New(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init notification events: %w", err)
		}
		events = publisher
	}

	syncUC := usecase.NewSyncUseCase(
		feed,
		documents,
		profiles,
		notifications,
		runs,
		table,
		events,
		cfg.FanoutWorkers,
	)

	return &App{
		Config:  cfg,
		Metrics: syncMetrics,

		SyncUC:        syncUC,
		Runs:          runs,
		Notifications: notifications,

		closeFn: func() {
			if publisher != nil {
				publisher.Close()
			}
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
