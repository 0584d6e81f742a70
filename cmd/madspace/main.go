package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/madspace-uw/madspace/internal/config"
	"github.com/madspace-uw/madspace/internal/logger"
	"github.com/madspace-uw/madspace/internal/server"
	"go.uber.org/zap"
)

func init() {
	config.LoadDotEnv("madspace")
	log.SetPrefix("[madspace] ")
}

func gracefulShutdown(srv *server.Server, deadline time.Duration, zlog *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	zlog.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	// in-flight requests get until the deadline to finish
	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	if err := srv.Close(); err != nil {
		zlog.Error("failed to close clients", zap.Error(err))
	}

	zlog.Info("server exiting")

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	srv, err := server.NewServer(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}

	done := make(chan bool, 1)
	go gracefulShutdown(srv, cfg.ShutdownDeadline, zlog, done)

	zlog.Info("listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("http server error", zap.Error(err))
	}

	<-done
	zlog.Info("graceful shutdown complete")
}
