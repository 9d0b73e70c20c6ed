// Package main provides the entry point for the trade analytics backend:
// an HTTP/WebSocket service computing performance statistics and chart
// series over imported matched trades.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tradelens/analytics-backend/internal/analytics"
	"github.com/tradelens/analytics-backend/internal/api"
	"github.com/tradelens/analytics-backend/internal/cache"
	"github.com/tradelens/analytics-backend/internal/config"
	"github.com/tradelens/analytics-backend/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := setupLogger(*logLevel)
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Starting analytics backend",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Path),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	tradeStore, err := store.Open(logger, cfg.Storage.Path)
	if err != nil {
		logger.Fatal("Failed to open trade store", zap.Error(err))
	}
	defer tradeStore.Close()

	var snapshots *cache.Snapshots
	if cfg.Cache.Enabled {
		snapshots = cache.NewSnapshots(cfg.Cache.TTL)
	}

	analyticsSvc := newAnalyticsService(logger, tradeStore, snapshots, cfg.Analytics.HistogramBins, cfg.Analytics.TopSymbols)

	server := api.NewServer(logger, &cfg.Server, tradeStore, analyticsSvc, snapshots)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("http", fmt.Sprintf("http://%s:%d/api/v1", cfg.Server.Host, cfg.Server.Port)),
		zap.String("ws", fmt.Sprintf("ws://%s:%d%s", cfg.Server.Host, cfg.Server.Port, cfg.Server.WebSocketPath)),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Error during server shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func newAnalyticsService(
	logger *zap.Logger,
	tradeStore *store.TradeStore,
	snapshots *cache.Snapshots,
	histogramBins, topSymbols int,
) *analytics.Service {
	var snapshotCache analytics.SnapshotCache
	if snapshots != nil {
		snapshotCache = snapshots
	}
	return analytics.NewService(logger, tradeStore, snapshotCache, analytics.ServiceConfig{
		HistogramBins: histogramBins,
		TopSymbols:    topSymbols,
	})
}

func setupLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
