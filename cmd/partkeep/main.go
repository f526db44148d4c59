package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/partkeep/partkeep/pkg/application/services"
	"github.com/partkeep/partkeep/pkg/config"
	"github.com/partkeep/partkeep/pkg/infrastructure/repositories/jsonfile"
	"github.com/partkeep/partkeep/pkg/interfaces/cli"
	"github.com/partkeep/partkeep/pkg/logging"
)

func main() {
	var (
		dbPath   = flag.String("db", "", "Path to the inventory JSON file (default from PARTKEEP_DB)")
		logLevel = flag.String("log-level", "", "Log level: debug, info, warn, error (default from PARTKEEP_LOG_LEVEL)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store := jsonfile.New(cfg.DBPath, log)
	svc := services.NewInventoryService(store, log)
	repl := cli.New(svc, os.Stdin, os.Stdout, cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := repl.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
