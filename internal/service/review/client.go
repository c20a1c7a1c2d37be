// Package review talks to the per-liver review endpoints and keeps the
// client-side review state: the fetched list, aggregate stats, and the
// already-reviewed guard.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/comisapo/liverapp-go/internal/domain"
	"github.com/comisapo/liverapp-go/internal/metrics"
	"github.com/comisapo/liverapp-go/internal/service/api"
	"github.com/comisapo/liverapp-go/internal/store"
	"github.com/comisapo/liverapp-go/internal/util"
	"github.com/comisapo/liverapp-go/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// User-facing messages. Fetch and submit failures become held messages, not
// returned errors.
const (
	msgFetchFailed     = "口コミの取得に失敗しました"
	msgNetworkError    = "ネットワークエラーが発生しました"
	msgSubmitFailed    = "投稿に失敗しました"
	msgSubmitted       = "口コミを投稿しました"
	msgRateLimited     = "投稿制限中です。しばらくお待ちください。"
	msgLocalThrottle   = "投稿間隔が短すぎます。しばらくお待ちください。"
	msgInvalidRating   = "評価は1〜5で入力してください"
	msgRateLimitFormat = "投稿制限中です。あと%d分%d秒お待ちください。"
)

type Client struct {
	requester api.Requester
	store     store.Store
	limiter   *rate.Limiter
	logger    *zap.Logger

	mu             sync.Mutex
	reviews        []domain.Review
	stats          *domain.ReviewStats
	loading        bool
	submitting     bool
	errorMessage   string
	successMessage string
}

func NewClient(requester api.Requester, st store.Store, limiter *rate.Limiter, logger *zap.Logger) *Client {
	return &Client{
		requester: requester,
		store:     st,
		limiter:   limiter,
		logger:    logger,
	}
}

// FetchReviews loads the review list for one liver. Every fault degrades to
// an empty list plus a held message.
func (c *Client) FetchReviews(ctx context.Context, liverID string) {
	c.mu.Lock()
	c.loading = true
	c.errorMessage = ""
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	body, err := c.requester.Get(ctx, "/api/reviews/"+liverID)
	if err != nil {
		c.logger.Warn("Review fetch failed", zap.String("liver_id", liverID), zap.Error(err))
		c.setReviews(nil, msgFetchFailed)
		return
	}

	var response domain.ReviewListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		c.logger.Warn("Review decode failed", zap.String("liver_id", liverID), zap.Error(err))
		c.setReviews(nil, msgFetchFailed)
		return
	}

	if !response.Success {
		c.setReviews([]domain.Review{}, "")
		return
	}
	c.setReviews(response.Reviews, "")
	c.logger.Debug("Reviews loaded",
		zap.String("liver_id", liverID),
		zap.Int("count", len(response.Reviews)),
	)
}

// FetchStats loads the aggregate rating. Stats only decorate already-rendered
// rows, so every fault is a silent no-op.
func (c *Client) FetchStats(ctx context.Context, liverID string) {
	body, err := c.requester.Get(ctx, "/api/reviews/stats/"+liverID)
	if err != nil {
		c.logger.Debug("Stats fetch failed", zap.String("liver_id", liverID), zap.Error(err))
		return
	}

	var stats domain.ReviewStats
	if err := json.Unmarshal(body, &stats); err != nil {
		c.logger.Debug("Stats decode failed", zap.String("liver_id", liverID), zap.Error(err))
		return
	}
	if !stats.Success {
		return
	}

	c.mu.Lock()
	c.stats = &stats
	c.mu.Unlock()
}

// SubmitReview posts a new review and reports whether it was accepted. On
// success the review list and stats are refreshed and the liver is recorded
// in the reviewed set.
func (c *Client) SubmitReview(ctx context.Context, liverID string, rating int, comment string) bool {
	if rating < 1 || rating > 5 {
		ratingErr := errors.NewValidationError(msgInvalidRating, "rating", rating)
		c.logger.Warn("Review submit rejected", zap.String("liver_id", liverID), zap.Error(ratingErr))
		c.setMessages(ratingErr.Message, "")
		return false
	}

	c.mu.Lock()
	c.submitting = true
	c.errorMessage = ""
	c.successMessage = ""
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if c.limiter != nil && !c.limiter.Allow() {
		metrics.ReviewSubmissions.WithLabelValues("throttled").Inc()
		c.setMessages(msgLocalThrottle, "")
		return false
	}

	c.logger.Debug("Submitting review",
		zap.String("liver_id", liverID),
		zap.Int("rating", rating),
		zap.String("comment", util.TruncateString(comment, 30)),
	)

	payload, err := json.Marshal(domain.ReviewSubmission{
		LiverID: liverID,
		Rating:  rating,
		Comment: comment,
	})
	if err != nil {
		c.setMessages(msgNetworkError, "")
		return false
	}

	status, body, err := c.requester.PostJSON(ctx, "/api/reviews", payload)
	if err != nil {
		c.logger.Warn("Review submit failed", zap.String("liver_id", liverID), zap.Error(err))
		metrics.ReviewSubmissions.WithLabelValues("transport").Inc()
		c.setMessages(msgNetworkError, "")
		return false
	}

	var result domain.ReviewSubmissionResult
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Warn("Submit response decode failed", zap.String("liver_id", liverID), zap.Error(err))
		metrics.ReviewSubmissions.WithLabelValues("failed").Inc()
		c.setMessages(msgNetworkError, "")
		return false
	}

	if result.Success {
		metrics.ReviewSubmissions.WithLabelValues("success").Inc()
		message := msgSubmitted
		if result.Message != nil && *result.Message != "" {
			message = *result.Message
		}
		c.setMessages("", message)

		c.FetchReviews(ctx, liverID)
		c.FetchStats(ctx, liverID)

		if err := c.store.MarkReviewed(ctx, liverID); err != nil {
			c.logger.Error("Failed to record reviewed liver", zap.String("liver_id", liverID), zap.Error(err))
		}
		return true
	}

	if status == http.StatusTooManyRequests {
		metrics.ReviewSubmissions.WithLabelValues("rate_limited").Inc()
		remaining := 0
		if result.RemainingSeconds != nil {
			remaining = *result.RemainingSeconds
		}
		limitErr := errors.NewRateLimitError(rateLimitMessage(result), remaining)
		c.logger.Warn("Review submit rate limited", zap.String("liver_id", liverID), zap.Error(limitErr))
		c.setMessages(limitErr.Message, "")
		return false
	}

	metrics.ReviewSubmissions.WithLabelValues("failed").Inc()
	if result.Error != nil && *result.Error != "" {
		c.setMessages(*result.Error, "")
	} else {
		c.setMessages(msgSubmitFailed, "")
	}
	return false
}

// HasReviewed consults the persistent reviewed set; store faults degrade to
// "not reviewed" so the guard never blocks on infrastructure.
func (c *Client) HasReviewed(ctx context.Context, liverID string) bool {
	reviewed, err := c.store.HasReviewed(ctx, liverID)
	if err != nil {
		c.logger.Warn("Reviewed lookup failed", zap.String("liver_id", liverID), zap.Error(err))
		return false
	}
	return reviewed
}

func (c *Client) Reviews() []domain.Review {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Review, len(c.reviews))
	copy(out, c.reviews)
	return out
}

func (c *Client) Stats() *domain.ReviewStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil {
		return nil
	}
	stats := *c.stats
	return &stats
}

func (c *Client) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Client) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

func (c *Client) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

func (c *Client) SuccessMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successMessage
}

func (c *Client) ClearMessages() {
	c.setMessages("", "")
}

func (c *Client) setReviews(reviews []domain.Review, errorMessage string) {
	c.mu.Lock()
	c.reviews = reviews
	c.errorMessage = errorMessage
	c.mu.Unlock()
}

func (c *Client) setMessages(errorMessage, successMessage string) {
	c.mu.Lock()
	c.errorMessage = errorMessage
	c.successMessage = successMessage
	c.mu.Unlock()
}

// rateLimitMessage formats the server's remaining-seconds hint as a
// minutes/seconds countdown.
func rateLimitMessage(result domain.ReviewSubmissionResult) string {
	if result.RemainingSeconds != nil {
		remaining := *result.RemainingSeconds
		return fmt.Sprintf(msgRateLimitFormat, remaining/60, remaining%60)
	}
	if result.Error != nil && *result.Error != "" {
		return *result.Error
	}
	return msgRateLimited
}
