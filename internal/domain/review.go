package domain

import "time"

// Review is one submitted rating for a liver. CreatedAt is epoch milliseconds
// as the server stores it.
type Review struct {
	ID        int    `json:"id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt int64  `json:"created_at"`
}

func (r *Review) CreatedTime() time.Time {
	return time.Unix(r.CreatedAt/1000, 0)
}

// FormattedDate renders the creation date for display (date only).
func (r *Review) FormattedDate() string {
	return r.CreatedTime().Format("2006/01/02")
}

type ReviewListResponse struct {
	Success bool     `json:"success"`
	LiverID string   `json:"liver_id"`
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}

// ReviewStats is the aggregate rating for one liver, keyed by its OriginalID.
type ReviewStats struct {
	Success       bool    `json:"success"`
	LiverID       string  `json:"liver_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

type ReviewSubmission struct {
	LiverID string `json:"liver_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewSubmissionResult struct {
	Success          bool    `json:"success"`
	ReviewID         *int    `json:"review_id,omitempty"`
	Message          *string `json:"message,omitempty"`
	Error            *string `json:"error,omitempty"`
	RemainingSeconds *int    `json:"remainingSeconds,omitempty"`
}
