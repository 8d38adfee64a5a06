package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rl1809/food-delivery/internal/adapter/events"
	"github.com/rl1809/food-delivery/internal/adapter/handler"
	"github.com/rl1809/food-delivery/internal/adapter/storage"
	"github.com/rl1809/food-delivery/internal/config"
	"github.com/rl1809/food-delivery/internal/core/service"
	"github.com/rl1809/food-delivery/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the JSON data files")
	flag.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "record store backend: file, redis or mysql")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so they do not interleave with the menu.
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open record store")
	}
	defer closeStore()

	market := service.NewMarketplace(store, events.NewLogPublisher(log), log)
	if err := market.Load(ctx); err != nil {
		log.Error().Err(err).Msg("failed to load data, starting empty")
	}

	cli := handler.NewCLIHandler(market, os.Stdin, os.Stdout, log)
	if err := cli.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("cli stopped")
	}
}
