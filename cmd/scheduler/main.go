package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tmoody1973/hakivo-sync/internal/bootstrap"
	"github.com/tmoody1973/hakivo-sync/internal/config"
	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
	"github.com/tmoody1973/hakivo-sync/internal/observability/logging"
)

const serviceName = "hakivo-sync-scheduler"

func main() {
	cfg := config.Load()
	logging.Setup(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, serviceName)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.SchedulerMetricsPort,
		Handler: app.Metrics.Handler(),
	}
	go func() {
		log.Printf("scheduler metrics listening on :%s", cfg.SchedulerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server error: %v", err)
		}
	}()

	runner := cron.New()
	_, err = runner.AddFunc(cfg.SchedulerCronSpec, func() {
		runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
		defer cancel()

		started := time.Now()
		app.Metrics.StartRun()
		run, err := app.SyncUC.Run(runCtx, domain.SyncTypeScheduled, cfg.SchedulerDaysBack)
		app.Metrics.FinishRun(serviceName, run, time.Since(started), err)
		if err != nil {
			slog.Error("scheduled_sync_failed", "error", err)
		}
	})
	if err != nil {
		log.Fatalf("invalid cron spec %q: %v", cfg.SchedulerCronSpec, err)
	}

	runner.Start()
	log.Printf("scheduler started with spec %q", cfg.SchedulerCronSpec)

	<-ctx.Done()
	cronCtx := runner.Stop()
	select {
	case <-cronCtx.Done():
	case <-time.After(30 * time.Second):
		slog.Warn("scheduler_stop_timeout")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
