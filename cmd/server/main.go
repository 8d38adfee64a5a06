package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"

	"github.com/rl1809/food-delivery/internal/adapter/events"
	"github.com/rl1809/food-delivery/internal/adapter/handler"
	"github.com/rl1809/food-delivery/internal/adapter/storage"
	"github.com/rl1809/food-delivery/internal/config"
	"github.com/rl1809/food-delivery/internal/core/service"
	"github.com/rl1809/food-delivery/internal/logger"
	"github.com/rl1809/food-delivery/internal/port"
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

	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize record store
	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open record store")
	}

	// Initialize event publisher
	var publisher port.EventPublisher = events.NewLogPublisher(log)
	var amqpPublisher *events.AMQPPublisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err = events.DialAMQP(cfg.AMQPURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect rabbitmq")
		}
		publisher = amqpPublisher
		log.Info().Str("exchange", events.Exchange).Msg("connected to rabbitmq")
	}

	// Initialize marketplace
	market := service.NewMarketplace(store, publisher, log)
	if err := market.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load data")
	}

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterDispatchServiceServer(grpcServer, handler.NewGRPCHandler(market, log))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("failed to listen")
	}

	go func() {
		log.Info().Str("addr", cfg.GRPCAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("gRPC server error")
		}
	}()

	// Initialize HTTP server
	gin.SetMode(gin.ReleaseMode)
	httpHandler := handler.NewHTTPHandler(market, log)
	if amqpPublisher != nil {
		httpHandler.AddHealthCheck("amqp", amqpPublisher.Ping)
	}
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.NewRouter(),
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info().Msg("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Info().Msg("gRPC server stopped")

	if err := market.Save(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("final save failed")
	}

	if amqpPublisher != nil {
		amqpPublisher.Close()
	}
	closeStore()
	log.Info().Msg("connections closed")
}
