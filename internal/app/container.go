package app

import (
	"fmt"
	"net/http"

	"github.com/comisapo/liverapp-go/internal/config"
	"github.com/comisapo/liverapp-go/internal/search"
	"github.com/comisapo/liverapp-go/internal/service/api"
	"github.com/comisapo/liverapp-go/internal/service/catalog"
	"github.com/comisapo/liverapp-go/internal/service/review"
	"github.com/comisapo/liverapp-go/internal/store"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Container bundles the assembled client layer: everything the presentation
// side consumes.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Catalog       *catalog.Client
	Reviews       *review.Client
	ReviewCounts  *review.CountCache
	SearchHistory *search.History
	Store         store.Store

	closers []func()
}

// Build assembles the client services. All heavy-weight initialization
// (store backend, HTTP client) happens here so the individual clients stay
// focused on their own logic.
func Build(cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	httpClient := &http.Client{Timeout: cfg.API.RequestTimeout}
	apiClient, err := api.NewClient(httpClient, cfg.API.BaseURL, cfg.API.RetryAttempts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	st, err := buildStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	closers = append(closers, func() {
		_ = st.Close()
	})

	limiter := rate.NewLimiter(rate.Limit(cfg.Submit.RatePerMinute/60.0), cfg.Submit.Burst)

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Catalog:       catalog.NewClient(apiClient, logger),
		Reviews:       review.NewClient(apiClient, st, limiter, logger),
		ReviewCounts:  review.NewCountCache(apiClient, logger),
		SearchHistory: search.NewHistory(st, logger),
		Store:         st,
		closers:       closers,
	}, nil
}

func buildStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return store.NewSQLiteStore(cfg.Store.SQLitePath, logger)
	case "redis":
		return store.NewRedisStore(store.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}

// Close releases held resources in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
