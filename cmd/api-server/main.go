package main

import (
	"fmt"
	"log"

	"reviewhub/internal/config"
	"reviewhub/internal/database"
	"reviewhub/internal/httpapi"
	"reviewhub/internal/logger"
	"reviewhub/internal/mailer"
	"reviewhub/internal/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	slogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg, slogger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	metrics.Init()
	mail := mailer.New(cfg, slogger)

	r := httpapi.NewRouter(db, cfg, mail, slogger)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	slogger.Info("starting HTTP server", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
