package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/app"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/config"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/jobs"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/logging"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/dates"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config (optional)")
	once := flag.String("lock-once", "", "Lock the given delivery date (YYYY-MM-DD) and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	if *once != "" {
		if _, err := lock(ctx, a, *once); err != nil {
			os.Exit(1)
		}
		return
	}

	hour, minute, _ := cfg.LockClock()
	lockTimer := time.NewTimer(time.Until(nextRun(time.Now(), a.Loc, hour, minute)))
	defer lockTimer.Stop()
	workerTick := time.NewTicker(cfg.Worker.Interval)
	defer workerTick.Stop()

	logger.Info("scheduler started", "lock_at", cfg.Scheduler.LockAt, "timezone", cfg.Scheduler.Timezone,
		"worker_interval", cfg.Worker.Interval.String())

	var batches batchRunner
	for {
		select {
		case <-ctx.Done():
			batches.Wait()
			logger.Info("scheduler stopped")
			return

		case now := <-lockTimer.C:
			_, _ = lock(ctx, a, dates.Tomorrow(now, a.Loc))
			lockTimer.Reset(time.Until(nextRun(time.Now(), a.Loc, hour, minute)))

		case <-workerTick.C:
			if !batches.Start(ctx, a.RunWorkers) {
				logger.Debug("notification batch still running, tick skipped")
			}
		}
	}
}

func lock(ctx context.Context, a *app.App, date string) (jobs.LockResult, error) {
	res, err := a.LockJob.LockOrdersForDate(ctx, date)
	switch {
	case errors.Is(err, jobs.ErrJobAlreadyRunning):
		a.Logger.WarnContext(ctx, "lock run already in progress", "delivery_date", date)
	case err != nil:
		a.Logger.ErrorContext(ctx, "lock run failed", "delivery_date", date, "err", err)
	default:
		a.Logger.InfoContext(ctx, "lock run done", "delivery_date", date, "locked", res.Locked, "replayed", res.Replayed)
	}
	return res, err
}
