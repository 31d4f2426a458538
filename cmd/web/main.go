package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/app"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/config"
	apphttp "github.com/BhargavEnigma/FreshVegApp-sub000/internal/http"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/middleware"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret is required (FRESHVEG_AUTH_JWT_SECRET)")
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.CheckoutRPS), cfg.RateLimit.CheckoutBurst)
	go func() {
		t := time.NewTicker(5 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				limiter.Sweep(now, 10*time.Minute)
			}
		}
	}()

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:          logger,
		DB:              a.DB,
		Catalog:         a.Catalog,
		Checkout:        a.Checkout,
		Orders:          a.Orders,
		Webhooks:        a.Webhooks,
		LockJob:         a.LockJob,
		Workers:         a.Workers,
		Picklist:        a.Picklist,
		JWTSecret:       cfg.Auth.JWTSecret,
		WebhookSecret:   cfg.Payments.WebhookSecret,
		RequestTimeout:  cfg.Server.RequestTimeout,
		Location:        a.Loc,
		BatchSize:       cfg.Worker.BatchSize,
		CheckoutLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "err", err)
	}
}
