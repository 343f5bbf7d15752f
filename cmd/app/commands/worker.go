package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hmcts/et-case-transfer/internal/app"
	"github.com/hmcts/et-case-transfer/internal/config"
)

// RunWorker runs the work queue consumers until SIGINT/SIGTERM. In-flight items finish
// their current attempt; anything still leased is reclaimed by another worker once the
// lease expires.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting worker",
		slog.String("version", version),
		slog.String("worker_id", cfg.WorkerID),
		slog.Int("consumers", cfg.WorkerConsumers),
	)
	defer closeContainer(container, logger)

	pool, err := container.ConsumerPool()
	if err != nil {
		return fmt.Errorf("failed to initialize consumer pool: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				logger.Error("metrics server error", slog.Any("error", err))
			}
		}()
	}

	return pool.Start(ctx)
}
