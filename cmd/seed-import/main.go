// seed-import loads the bundled CSV fixtures into the database. Point it at
// a directory of CSV files (defaults to ./data) and a configured
// DATABASE_URL.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"reviewhub/internal/config"
	"reviewhub/internal/database"
	"reviewhub/internal/importer"
	"reviewhub/internal/logger"
)

func main() {
	dir := flag.String("dir", "data", "directory containing the CSV seed files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	slogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg, slogger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	imp := importer.New(db, *dir, slogger)
	if err := imp.Run(ctx); err != nil {
		slogger.Error("import failed", "error", err)
		os.Exit(1)
	}
	slogger.Info("import complete")
}
