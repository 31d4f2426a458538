// Package app builds the service graph shared by the web and scheduler binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/config"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/mailer"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/accounts"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/catalog"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/checkout"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/events"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/jobs"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications/push"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/payments"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/picklist"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/settings"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/database"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/mq"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/storage"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
	Loc    *time.Location

	Settings *settings.Service
	Catalog  *catalog.Service
	Checkout *checkout.Service
	Orders   *orders.Service
	Webhooks *payments.WebhookService
	LockJob  *jobs.LockJob
	Workers  []*notifications.Worker
	Picklist *picklist.Service

	closers []func()
}

// New opens every backing service named in cfg. Redis and RabbitMQ are
// optional: an empty address leaves the settings cache off and events
// unpublished.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, DB: db, Loc: loc}
	a.closers = append(a.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var cache settings.Cache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("redis: ping %s: %w", cfg.Redis.Addr, err)
		}
		cache = settings.NewRedisCache(rdb, cfg.Redis.SettingsTTL)
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		logger.Info("settings cache enabled", "addr", cfg.Redis.Addr)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.MQ.URL != "" {
		pool, err := mq.Dial(cfg.MQ, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		publisher = events.NewJSONPublisher(pool)
		a.closers = append(a.closers, pool.Close)
	}

	store, err := storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		a.Close()
		return nil, err
	}

	channels := []notifications.Channel{notifications.ChannelPush}
	if cfg.Worker.EmailEnabled {
		channels = append(channels, notifications.ChannelEmail)
	}
	notifier := notifications.NewEnqueuer(channels...)

	a.Settings = settings.NewService(db, cache, logger)
	a.Catalog = catalog.NewService(db, logger)
	a.Checkout = checkout.NewService(db, a.Settings, notifier, publisher, loc, logger)
	a.Orders = orders.NewService(db, notifier, logger)
	a.Webhooks = payments.NewWebhookService(db, notifier, logger)
	a.LockJob = jobs.NewLockJob(db, jobs.NewLedger(db, cfg.Scheduler.JobStaleAfter), notifier, publisher, logger)
	a.Picklist = picklist.NewService(db, store, logger)
	if cfg.Scheduler.ExportPicklist {
		a.LockJob.AfterLock(a.Picklist.OnOrdersLocked)
	}

	users := accounts.NewRepo(db)
	registry := notifications.NewRegistry()
	a.Workers = append(a.Workers, notifications.NewWorker(db,
		notifications.NewPushDispatcher(users, push.NewFCM(cfg.Push.FCMEndpoint, cfg.Push.FCMServerKey), logger),
		registry, logger, cfg.Worker.SendTimeout))
	if cfg.Worker.EmailEnabled {
		a.Workers = append(a.Workers, notifications.NewWorker(db,
			notifications.NewEmailDispatcher(users, mailer.NewSMTPMailer(cfg.SMTP), cfg.SMTP.FromAddr, cfg.SMTP.FromName),
			registry, logger, cfg.Worker.SendTimeout))
	}

	return a, nil
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// RunWorkers runs one batch per channel worker.
func (a *App) RunWorkers(ctx context.Context) {
	for _, w := range a.Workers {
		if _, err := w.RunOnce(ctx, a.Config.Worker.BatchSize); err != nil && ctx.Err() == nil {
			a.Logger.ErrorContext(ctx, "notification batch failed", "channel", string(w.Channel()), "err", err)
		}
	}
}
