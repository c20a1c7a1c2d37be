package review

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/comisapo/liverapp-go/internal/domain"
	"github.com/comisapo/liverapp-go/internal/metrics"
	"github.com/comisapo/liverapp-go/internal/service/api"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const prefetchConcurrency = 8

// CountCache memoizes per-liver review counts for list rendering. Counts are
// loaded lazily on first sight of a liver and never invalidated within a
// session. The per-key in-flight guard is a correctness property: N rows
// referencing the same liver must issue one stats request, not N.
type CountCache struct {
	requester api.Requester
	logger    *zap.Logger

	mu      sync.Mutex
	counts  map[string]int
	loading map[string]struct{}
}

func NewCountCache(requester api.Requester, logger *zap.Logger) *CountCache {
	return &CountCache{
		requester: requester,
		logger:    logger,
		counts:    make(map[string]int),
		loading:   make(map[string]struct{}),
	}
}

// Count returns the memoized review count, or false when no load has
// completed for this liver yet.
func (c *CountCache) Count(liverID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count, ok := c.counts[liverID]
	return count, ok
}

// EnsureLoaded loads the count for a liver unless it is already memoized or
// a load is in flight. Any fault memoizes zero, so a failing key never
// retries within the session.
func (c *CountCache) EnsureLoaded(ctx context.Context, liverID string) {
	c.mu.Lock()
	if _, ok := c.counts[liverID]; ok {
		c.mu.Unlock()
		metrics.ReviewCountHits.Inc()
		return
	}
	if _, inFlight := c.loading[liverID]; inFlight {
		c.mu.Unlock()
		return
	}
	c.loading[liverID] = struct{}{}
	c.mu.Unlock()

	metrics.ReviewCountMisses.Inc()
	count := c.fetchCount(ctx, liverID)

	c.mu.Lock()
	c.counts[liverID] = count
	delete(c.loading, liverID)
	c.mu.Unlock()
}

// Prefetch warms the cache for a page of rows with bounded concurrency.
func (c *CountCache) Prefetch(ctx context.Context, liverIDs []string) {
	p := pool.New().WithMaxGoroutines(prefetchConcurrency)
	for _, id := range liverIDs {
		p.Go(func() {
			c.EnsureLoaded(ctx, id)
		})
	}
	p.Wait()
}

func (c *CountCache) fetchCount(ctx context.Context, liverID string) int {
	body, err := c.requester.Get(ctx, "/api/reviews/stats/"+liverID)
	if err != nil {
		c.logger.Debug("Review count fetch failed", zap.String("liver_id", liverID), zap.Error(err))
		return 0
	}

	var stats domain.ReviewStats
	if err := json.Unmarshal(body, &stats); err != nil {
		c.logger.Debug("Review count decode failed", zap.String("liver_id", liverID), zap.Error(err))
		return 0
	}
	if !stats.Success {
		return 0
	}
	return stats.ReviewCount
}
