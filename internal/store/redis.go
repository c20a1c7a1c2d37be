package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/comisapo/liverapp-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	reviewedSetKey   = "liverapp:reviewed"
	searchHistoryKey = "liverapp:search_history"
)

// RedisStore backs the local-state interface with a shared Redis instance,
// for deployments where the client layer runs server-side.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewStoreError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis store connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &RedisStore{client: client, logger: logger}, nil
}

func (s *RedisStore) HasReviewed(ctx context.Context, liverID string) (bool, error) {
	exists, err := s.client.SIsMember(ctx, reviewedSetKey, liverID).Result()
	if err != nil {
		s.logger.Error("Reviewed lookup failed", zap.String("liver_id", liverID), zap.Error(err))
		return false, errors.NewStoreError("sismember failed", "has_reviewed", liverID, err)
	}
	return exists, nil
}

func (s *RedisStore) MarkReviewed(ctx context.Context, liverID string) error {
	if err := s.client.SAdd(ctx, reviewedSetKey, liverID).Err(); err != nil {
		s.logger.Error("Reviewed mark failed", zap.String("liver_id", liverID), zap.Error(err))
		return errors.NewStoreError("sadd failed", "mark_reviewed", liverID, err)
	}
	return nil
}

func (s *RedisStore) SearchHistory(ctx context.Context) ([]string, error) {
	history, err := s.client.LRange(ctx, searchHistoryKey, 0, SearchHistoryLimit-1).Result()
	if err != nil {
		s.logger.Error("Search history read failed", zap.Error(err))
		return nil, errors.NewStoreError("lrange failed", "search_history", "", err)
	}
	return history, nil
}

func (s *RedisStore) AddSearchTerm(ctx context.Context, term string) error {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, searchHistoryKey, 0, trimmed)
	pipe.LPush(ctx, searchHistoryKey, trimmed)
	pipe.LTrim(ctx, searchHistoryKey, 0, SearchHistoryLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("Search history add failed", zap.String("term", trimmed), zap.Error(err))
		return errors.NewStoreError("pipeline failed", "add_search_term", trimmed, err)
	}
	return nil
}

func (s *RedisStore) RemoveSearchTerm(ctx context.Context, term string) error {
	if err := s.client.LRem(ctx, searchHistoryKey, 0, term).Err(); err != nil {
		return errors.NewStoreError("lrem failed", "remove_search_term", term, err)
	}
	return nil
}

func (s *RedisStore) ClearSearchHistory(ctx context.Context) error {
	if err := s.client.Del(ctx, searchHistoryKey).Err(); err != nil {
		return errors.NewStoreError("del failed", "clear_search_history", "", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
