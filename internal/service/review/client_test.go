package review

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/comisapo/liverapp-go/internal/store"
	"github.com/comisapo/liverapp-go/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type fakeRequester struct {
	mu         sync.Mutex
	responses  map[string][]byte
	getErrs    map[string]error
	postStatus int
	postBody   []byte
	postErr    error
	getCalls   map[string]int
	postCalls  int
	gate       chan struct{}
}

func newFakeRequester() *fakeRequester {
	return &fakeRequester{
		responses: make(map[string][]byte),
		getErrs:   make(map[string]error),
		getCalls:  make(map[string]int),
	}
}

func (f *fakeRequester) Get(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	f.getCalls[path]++
	gate := f.gate
	body, err := f.responses[path], f.getErrs[path]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("no response configured for %s", path)
	}
	return body, nil
}

func (f *fakeRequester) PostJSON(_ context.Context, _ string, _ []byte) (int, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postCalls++
	return f.postStatus, f.postBody, f.postErr
}

func (f *fakeRequester) callsFor(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls[path]
}

func newTestClient(requester *fakeRequester, st store.Store) *Client {
	return NewClient(requester, st, nil, zap.NewNop())
}

func TestFetchReviewsSuccess(t *testing.T) {
	requester := newFakeRequester()
	requester.responses["/api/reviews/42"] = []byte(
		`{"success":true,"liver_id":"42","reviews":[{"id":1,"rating":5,"comment":"最高","created_at":1704067200000}],"total":1}`)

	client := newTestClient(requester, store.NewMemoryStore())
	client.FetchReviews(context.Background(), "42")

	reviews := client.Reviews()
	if len(reviews) != 1 || reviews[0].Rating != 5 {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}
	if client.ErrorMessage() != "" {
		t.Errorf("unexpected error message: %q", client.ErrorMessage())
	}
}

func TestFetchReviewsFailsSoft(t *testing.T) {
	requester := newFakeRequester()
	requester.getErrs["/api/reviews/42"] = errors.NewAPIError("HTTP Error: 500", 500, nil)

	client := newTestClient(requester, store.NewMemoryStore())
	client.FetchReviews(context.Background(), "42")

	if len(client.Reviews()) != 0 {
		t.Error("failed fetch should clear the review list")
	}
	if client.ErrorMessage() != msgFetchFailed {
		t.Errorf("message = %q, want %q", client.ErrorMessage(), msgFetchFailed)
	}
}

func TestFetchReviewsUnsuccessfulFlag(t *testing.T) {
	requester := newFakeRequester()
	requester.responses["/api/reviews/42"] = []byte(`{"success":false,"liver_id":"42","reviews":[],"total":0}`)

	client := newTestClient(requester, store.NewMemoryStore())
	client.FetchReviews(context.Background(), "42")

	if len(client.Reviews()) != 0 {
		t.Error("unsuccessful response should yield empty state")
	}
	if client.ErrorMessage() != "" {
		t.Errorf("unsuccessful flag is not an error, got %q", client.ErrorMessage())
	}
}

func TestFetchStatsSilentOnFailure(t *testing.T) {
	requester := newFakeRequester()
	requester.getErrs["/api/reviews/stats/42"] = errors.NewAPIError("HTTP Error: 500", 500, nil)

	client := newTestClient(requester, store.NewMemoryStore())
	client.FetchStats(context.Background(), "42")

	if client.Stats() != nil {
		t.Error("failed stats fetch should leave stats nil")
	}
	if client.ErrorMessage() != "" {
		t.Error("stats failures must not surface a message")
	}
}

func TestFetchStatsSuccess(t *testing.T) {
	requester := newFakeRequester()
	requester.responses["/api/reviews/stats/42"] = []byte(
		`{"success":true,"liver_id":"42","average_rating":4.2,"review_count":12}`)

	client := newTestClient(requester, store.NewMemoryStore())
	client.FetchStats(context.Background(), "42")

	stats := client.Stats()
	if stats == nil || stats.AverageRating != 4.2 || stats.ReviewCount != 12 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestSubmitReviewSuccess(t *testing.T) {
	requester := newFakeRequester()
	requester.postStatus = 200
	requester.postBody = []byte(`{"success":true,"review_id":7,"message":"ありがとうございました"}`)
	requester.responses["/api/reviews/42"] = []byte(`{"success":true,"liver_id":"42","reviews":[],"total":0}`)
	requester.responses["/api/reviews/stats/42"] = []byte(`{"success":true,"liver_id":"42","average_rating":5,"review_count":1}`)

	st := store.NewMemoryStore()
	client := newTestClient(requester, st)

	if !client.SubmitReview(context.Background(), "42", 5, "最高でした") {
		t.Fatal("submission should succeed")
	}
	if client.SuccessMessage() != "ありがとうございました" {
		t.Errorf("success message = %q", client.SuccessMessage())
	}
	if !client.HasReviewed(context.Background(), "42") {
		t.Error("successful submission must mark the liver as reviewed")
	}
	if requester.callsFor("/api/reviews/42") != 1 || requester.callsFor("/api/reviews/stats/42") != 1 {
		t.Error("success path should refresh reviews and stats")
	}
}

func TestSubmitReviewRateLimited(t *testing.T) {
	requester := newFakeRequester()
	requester.postStatus = 429
	requester.postBody = []byte(`{"success":false,"remainingSeconds":125}`)

	client := newTestClient(requester, store.NewMemoryStore())

	if client.SubmitReview(context.Background(), "42", 4, "x") {
		t.Fatal("rate-limited submission should fail")
	}
	want := "投稿制限中です。あと2分5秒お待ちください。"
	if client.ErrorMessage() != want {
		t.Errorf("message = %q, want %q", client.ErrorMessage(), want)
	}
	if client.HasReviewed(context.Background(), "42") {
		t.Error("failed submission must not mark the liver as reviewed")
	}
}

func TestSubmitReviewRateLimitedWithoutSeconds(t *testing.T) {
	requester := newFakeRequester()
	requester.postStatus = 429
	requester.postBody = []byte(`{"success":false,"error":"後ほどお試しください"}`)

	client := newTestClient(requester, store.NewMemoryStore())
	client.SubmitReview(context.Background(), "42", 4, "x")

	if client.ErrorMessage() != "後ほどお試しください" {
		t.Errorf("message = %q, want server error text", client.ErrorMessage())
	}
}

func TestSubmitReviewServerError(t *testing.T) {
	requester := newFakeRequester()
	requester.postStatus = 400
	requester.postBody = []byte(`{"success":false,"error":"コメントが長すぎます"}`)

	client := newTestClient(requester, store.NewMemoryStore())
	client.SubmitReview(context.Background(), "42", 3, "x")

	if client.ErrorMessage() != "コメントが長すぎます" {
		t.Errorf("message = %q, want server error text", client.ErrorMessage())
	}
}

func TestSubmitReviewTransportError(t *testing.T) {
	requester := newFakeRequester()
	requester.postErr = fmt.Errorf("connection refused")

	client := newTestClient(requester, store.NewMemoryStore())
	if client.SubmitReview(context.Background(), "42", 3, "x") {
		t.Fatal("transport error should fail the submission")
	}
	if client.ErrorMessage() != msgNetworkError {
		t.Errorf("message = %q, want %q", client.ErrorMessage(), msgNetworkError)
	}
}

func TestSubmitReviewInvalidRating(t *testing.T) {
	requester := newFakeRequester()
	client := newTestClient(requester, store.NewMemoryStore())

	for _, rating := range []int{0, 6, -1} {
		if client.SubmitReview(context.Background(), "42", rating, "x") {
			t.Errorf("rating %d should be rejected", rating)
		}
	}
	if requester.postCalls != 0 {
		t.Error("invalid ratings must not reach the network")
	}
}

func TestSubmitReviewLocalThrottle(t *testing.T) {
	requester := newFakeRequester()
	requester.postStatus = 200
	requester.postBody = []byte(`{"success":true}`)
	requester.responses["/api/reviews/42"] = []byte(`{"success":true,"liver_id":"42","reviews":[],"total":0}`)
	requester.responses["/api/reviews/stats/42"] = []byte(`{"success":true,"liver_id":"42","average_rating":5,"review_count":1}`)

	// Burst of one: the second immediate submission trips the local limiter.
	limiter := rate.NewLimiter(rate.Limit(0.001), 1)
	client := NewClient(requester, store.NewMemoryStore(), limiter, zap.NewNop())

	if !client.SubmitReview(context.Background(), "42", 5, "a") {
		t.Fatal("first submission should pass the limiter")
	}
	if client.SubmitReview(context.Background(), "42", 5, "b") {
		t.Fatal("second submission should be throttled")
	}
	if client.ErrorMessage() != msgLocalThrottle {
		t.Errorf("message = %q, want %q", client.ErrorMessage(), msgLocalThrottle)
	}
}

func TestClearMessages(t *testing.T) {
	requester := newFakeRequester()
	requester.postErr = fmt.Errorf("boom")
	client := newTestClient(requester, store.NewMemoryStore())

	client.SubmitReview(context.Background(), "42", 3, "x")
	if client.ErrorMessage() == "" {
		t.Fatal("expected a held error message")
	}
	client.ClearMessages()
	if client.ErrorMessage() != "" || client.SuccessMessage() != "" {
		t.Error("ClearMessages should reset both messages")
	}
}
