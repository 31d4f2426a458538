package main

import (
	"flag"
	"log"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/app"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/config"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/database"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}

	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := app.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	logger.Info("migration complete", "tables", len(app.Models()))
}
