package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comisapo/liverapp-go/internal/app"
	"github.com/comisapo/liverapp-go/internal/config"
	"github.com/comisapo/liverapp-go/internal/metrics"
	"github.com/comisapo/liverapp-go/internal/util"
	"go.uber.org/zap"
)

const refreshInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Liver catalog client starting...",
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("store_backend", cfg.Store.Backend),
	)

	container, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble services", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	metrics.StartServer(cfg.Metrics.Addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	refresh := func() {
		container.Catalog.FetchCatalog(ctx)
		if msg := container.Catalog.ErrorMessage(); msg != "" {
			logger.Warn("Catalog refresh reported an error", zap.String("message", msg))
			return
		}

		newLivers := container.Catalog.NewLivers()
		colabo := container.Catalog.ColaboLivers()
		logger.Info("Catalog views updated",
			zap.Int("total", len(container.Catalog.Livers())),
			zap.Int("new", len(newLivers)),
			zap.Int("colabo", len(colabo)),
		)

		ids := make([]string, 0, len(newLivers))
		for _, liver := range newLivers {
			ids = append(ids, liver.OriginalID)
		}
		container.ReviewCounts.Prefetch(ctx, ids)
	}

	refresh()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case sig := <-sigCh:
			logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
			return
		case <-ticker.C:
			refresh()
		}
	}
}
