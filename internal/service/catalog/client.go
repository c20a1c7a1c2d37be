// Package catalog owns the in-process liver catalog snapshot: fetching,
// deduplication, ordering, and the derived home-screen views.
package catalog

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/comisapo/liverapp-go/internal/domain"
	"github.com/comisapo/liverapp-go/internal/metrics"
	"github.com/comisapo/liverapp-go/internal/service/api"
	"github.com/comisapo/liverapp-go/pkg/errors"
	"go.uber.org/zap"
)

const newLiverCount = 5

// Client holds the catalog snapshot. All mutable state sits behind one mutex
// (single-writer discipline); read accessors hand out copies.
type Client struct {
	requester api.Requester
	logger    *zap.Logger

	mu           sync.Mutex
	livers       []domain.Liver
	cachedColabo []domain.Liver
	loading      bool
	errorMessage string
	inflight     chan struct{}
}

func NewClient(requester api.Requester, logger *zap.Logger) *Client {
	return &Client{
		requester: requester,
		logger:    logger,
	}
}

// FetchCatalog refreshes the snapshot from /api/livers. Failures never
// propagate: they become a held error message and leave the previous
// snapshot untouched. Concurrent calls coalesce into the in-flight fetch.
func (c *Client) FetchCatalog(ctx context.Context) {
	c.mu.Lock()
	if c.inflight != nil {
		done := c.inflight
		c.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
		}
		return
	}
	done := make(chan struct{})
	c.inflight = done
	c.loading = true
	c.errorMessage = ""
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.inflight = nil
		c.mu.Unlock()
		close(done)
	}()

	metrics.CatalogFetches.Inc()
	start := time.Now()
	defer func() {
		metrics.CatalogFetchDuration.Observe(time.Since(start).Seconds())
	}()

	body, err := c.requester.Get(ctx, "/api/livers")
	if err != nil {
		c.failFetch(categorizeFetchError(err), faultClass(err), err)
		return
	}

	var response domain.CatalogResponse
	if err := json.Unmarshal(body, &response); err != nil {
		decodeErr := wrapDecodeError(err)
		c.failFetch(decodeErr.Message, "decode", decodeErr)
		return
	}

	if response.Data == nil {
		c.failFetch("No data received from API", "decode", nil)
		return
	}

	unique := dedupeByOriginalID(response.Data, c.logger)
	sortNewestFirst(unique)

	colabo := make([]domain.Liver, 0)
	for _, liver := range unique {
		if liver.Details != nil && liver.IsCollaborationOK() {
			colabo = append(colabo, liver)
		}
	}
	// Shuffled once per fetch; the order stays fixed until the next refresh.
	rand.Shuffle(len(colabo), func(i, j int) {
		colabo[i], colabo[j] = colabo[j], colabo[i]
	})

	c.mu.Lock()
	c.livers = unique
	c.cachedColabo = colabo
	c.mu.Unlock()

	c.logger.Info("Catalog refreshed",
		zap.Int("raw", len(response.Data)),
		zap.Int("unique", len(unique)),
		zap.Int("colabo_ok", len(colabo)),
	)
}

func (c *Client) failFetch(message, fault string, err error) {
	metrics.CatalogFetchErrors.WithLabelValues(fault).Inc()
	c.mu.Lock()
	c.errorMessage = message
	c.mu.Unlock()
	c.logger.Warn("Catalog fetch failed",
		zap.String("fault", fault),
		zap.String("message", message),
		zap.Error(err),
	)
}

// Livers returns a copy of the current snapshot, newest first.
func (c *Client) Livers() []domain.Liver {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyLivers(c.livers)
}

// NewLivers returns the newest entries (up to 5).
func (c *Client) NewLivers() []domain.Liver {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := min(newLiverCount, len(c.livers))
	return copyLivers(c.livers[:n])
}

// ColaboLivers returns the collaboration-open selection. Entries overlapping
// the newest-5 are excluded unless that would leave fewer than 3, in which
// case the full cached shuffle is returned as-is.
func (c *Client) ColaboLivers() []domain.Liver {
	c.mu.Lock()
	defer c.mu.Unlock()

	newIDs := make(map[string]struct{}, newLiverCount)
	for i := 0; i < len(c.livers) && i < newLiverCount; i++ {
		newIDs[c.livers[i].ID] = struct{}{}
	}

	filtered := make([]domain.Liver, 0, len(c.cachedColabo))
	for _, liver := range c.cachedColabo {
		if _, ok := newIDs[liver.ID]; !ok {
			filtered = append(filtered, liver)
		}
	}

	if len(filtered) >= 3 {
		n := min(newLiverCount, len(filtered))
		return copyLivers(filtered[:n])
	}
	return copyLivers(c.cachedColabo)
}

func (c *Client) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Client) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

// dedupeByOriginalID keeps the first occurrence per OriginalID, preserving
// first-appearance order.
func dedupeByOriginalID(livers []domain.Liver, logger *zap.Logger) []domain.Liver {
	seen := make(map[string]struct{}, len(livers))
	unique := make([]domain.Liver, 0, len(livers))
	for _, liver := range livers {
		if _, ok := seen[liver.OriginalID]; ok {
			logger.Debug("Duplicate liver removed",
				zap.String("name", liver.Name),
				zap.String("original_id", liver.OriginalID),
			)
			continue
		}
		seen[liver.OriginalID] = struct{}{}
		unique = append(unique, liver)
	}
	return unique
}

// sortNewestFirst orders by the numeric value of OriginalID descending.
// Source-site IDs increase over time, so larger means newer; non-numeric
// IDs sink to the end as zero.
func sortNewestFirst(livers []domain.Liver) {
	sort.SliceStable(livers, func(i, j int) bool {
		return numericID(livers[i].OriginalID) > numericID(livers[j].OriginalID)
	})
}

func numericID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func copyLivers(src []domain.Liver) []domain.Liver {
	dst := make([]domain.Liver, len(src))
	copy(dst, src)
	return dst
}

func categorizeFetchError(err error) string {
	var apiErr *errors.APIError
	if goerrors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fmt.Sprintf("Network error: %v", err)
}

func faultClass(err error) string {
	var apiErr *errors.APIError
	if goerrors.As(err, &apiErr) {
		return "http"
	}
	return "transport"
}

// wrapDecodeError maps encoding/json failures onto the decode fault kinds so
// each sub-kind surfaces as a distinct message.
func wrapDecodeError(err error) *errors.DecodeError {
	var typeErr *json.UnmarshalTypeError
	if goerrors.As(err, &typeErr) {
		path := typeErr.Field
		if path == "" {
			path = "$"
		}
		return errors.NewDecodeError(
			fmt.Sprintf("Type mismatch for %s at %s", typeErr.Type, path),
			errors.DecodeKindTypeMismatch, path, err,
		)
	}
	var syntaxErr *json.SyntaxError
	if goerrors.As(err, &syntaxErr) {
		return errors.NewDecodeError(
			fmt.Sprintf("Data corrupted at offset %d", syntaxErr.Offset),
			errors.DecodeKindCorrupted, "$", err,
		)
	}
	return errors.NewDecodeError(
		fmt.Sprintf("Decoding error: %v", err),
		errors.DecodeKindMissingValue, "$", err,
	)
}
