package domain

import (
	"fmt"
	"strings"

	"github.com/comisapo/liverapp-go/internal/platform"
)

const defaultChannelURL = "https://www.youtube.com/channel/UCvycHCl3r3v_MYYPI_brTag"

// Liver is a catalog entry for one livestreamer. ID is the provider-assigned
// identifier the UI keys rows on; OriginalID is the source-site identifier
// used for deduplication and review correlation.
type Liver struct {
	ID             string        `json:"id"`
	OriginalID     string        `json:"originalId"`
	Name           string        `json:"name"`
	Platform       string        `json:"platform"`
	Followers      int           `json:"followers"`
	ImageURL       string        `json:"imageUrl"`
	ActualImageURL *string       `json:"actualImageUrl,omitempty"`
	DetailURL      *string       `json:"detailUrl,omitempty"`
	PageNumber     *int          `json:"pageNumber,omitempty"`
	UpdatedAt      *int64        `json:"updatedAt,omitempty"`
	Details        *LiverDetails `json:"details,omitempty"`
}

// LiverDetails is the scraped profile block. Every field may be absent.
type LiverDetails struct {
	Categories           []string       `json:"categories,omitempty"`
	DetailName           *string        `json:"detailName,omitempty"`
	DetailFollowers      *string        `json:"detailFollowers,omitempty"`
	ProfileImages        []ProfileImage `json:"profileImages,omitempty"`
	CollaborationStatus  *string        `json:"collaborationStatus,omitempty"`
	CollaborationComment *string        `json:"collaborationComment,omitempty"`
	ProfileInfo          *ProfileInfo   `json:"profileInfo,omitempty"`
	RawProfileTexts      []string       `json:"rawProfileTexts,omitempty"`
	EventInfo            []string       `json:"eventInfo,omitempty"`
	Comments             []string       `json:"comments,omitempty"`
	Schedules            []Schedule     `json:"schedules,omitempty"`
	StreamingURLs        []StreamingURL `json:"streamingUrls,omitempty"`
	GenderFound          *GenderInfo    `json:"genderFound,omitempty"`
}

type ProfileImage struct {
	URL         *string `json:"url,omitempty"`
	OriginalURL *string `json:"originalUrl,omitempty"`
}

type ProfileInfo struct {
	Gender           *string `json:"gender,omitempty"`
	StreamingHistory *string `json:"streamingHistory,omitempty"`
	Birthday         *string `json:"birthday,omitempty"`
	Age              *int    `json:"age,omitempty"`
	Height           *int    `json:"height,omitempty"`
}

// Schedule links a platform name to the liver's page there.
type Schedule struct {
	Name      string  `json:"name"`
	URL       *string `json:"url,omitempty"`
	Followers *string `json:"followers,omitempty"`
}

type StreamingURL struct {
	URL    *string `json:"url,omitempty"`
	Type   *string `json:"type,omitempty"`
	Source *string `json:"source,omitempty"`
}

type GenderInfo struct {
	Gender     *string  `json:"gender,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Categories returns the detail categories with duplicates collapsed,
// preserving first appearance. Nil when no details are present.
func (l *Liver) Categories() []string {
	if l.Details == nil || l.Details.Categories == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(l.Details.Categories))
	result := make([]string, 0, len(l.Details.Categories))
	for _, c := range l.Details.Categories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result
}

func (l *Liver) CollaborationStatus() string {
	if l.Details == nil || l.Details.CollaborationStatus == nil {
		return ""
	}
	return *l.Details.CollaborationStatus
}

func (l *Liver) ProfileGender() string {
	if l.Details == nil || l.Details.ProfileInfo == nil || l.Details.ProfileInfo.Gender == nil {
		return ""
	}
	return *l.Details.ProfileInfo.Gender
}

// IsCollaborationOK reports whether the profile explicitly signals openness
// to joint broadcasts. Requires a present detail block.
func (l *Liver) IsCollaborationOK() bool {
	status := l.CollaborationStatus()
	return status != "" && strings.EqualFold(status, "OK")
}

// AvailableStreamingURLs filters out empty URLs and entries whose type marks
// a level requirement rather than a destination.
func (l *Liver) AvailableStreamingURLs() []StreamingURL {
	if l.Details == nil {
		return nil
	}
	result := make([]StreamingURL, 0, len(l.Details.StreamingURLs))
	for _, su := range l.Details.StreamingURLs {
		if su.URL == nil || *su.URL == "" {
			continue
		}
		if su.Type != nil && strings.Contains(*su.Type, "レベル") {
			continue
		}
		result = append(result, su)
	}
	return result
}

// ScheduleName resolves which schedule entry a URL belongs to, first by
// canonical-identifier equivalence, then by host key.
func (l *Liver) ScheduleName(urlString string) (string, bool) {
	if l.Details == nil || len(l.Details.Schedules) == 0 {
		return "", false
	}
	targetCanonical, ok := platform.CanonicalURLIdentifier(urlString)
	if !ok {
		return "", false
	}
	for _, schedule := range l.Details.Schedules {
		if schedule.URL == nil {
			continue
		}
		scheduleCanonical, ok := platform.CanonicalURLIdentifier(*schedule.URL)
		if !ok {
			continue
		}
		if targetCanonical == scheduleCanonical || platform.IdentifiersEquivalent(targetCanonical, scheduleCanonical) {
			return schedule.Name, true
		}
	}
	if targetHostKey, ok := platform.NormalizedHostKey(urlString); ok {
		for _, schedule := range l.Details.Schedules {
			if schedule.URL == nil {
				continue
			}
			if hostKey, ok := platform.NormalizedHostKey(*schedule.URL); ok && hostKey == targetHostKey {
				return schedule.Name, true
			}
		}
	}
	return "", false
}

// FullImageURL picks the best image reference: trusted profile image URL,
// then the relative imageUrl/actualImageUrl joined to the API base, then a
// predictable per-liver fallback path.
func (l *Liver) FullImageURL(baseURL string) string {
	if l.Details != nil {
		for _, img := range l.Details.ProfileImages {
			if img.URL != nil && *img.URL != "" {
				return *img.URL
			}
			break
		}
	}
	if l.ImageURL != "" {
		return baseURL + l.ImageURL
	}
	if l.ActualImageURL != nil && *l.ActualImageURL != "" {
		return baseURL + *l.ActualImageURL
	}
	return fmt.Sprintf("%s/api/images/%s.jpg", baseURL, l.OriginalID)
}

// FollowerDisplayText renders follower counts compactly, in the 10K style
// used across the app.
func (l *Liver) FollowerDisplayText() string {
	switch {
	case l.Followers >= 10000:
		return fmt.Sprintf("%dK人", l.Followers/1000)
	case l.Followers >= 1000:
		return fmt.Sprintf("%.1fK人", float64(l.Followers)/1000.0)
	default:
		return fmt.Sprintf("%d人", l.Followers)
	}
}

// MainComment returns the first profile comment, with a default greeting for
// profiles that carry none.
func (l *Liver) MainComment() string {
	if l.Details != nil && len(l.Details.Comments) > 0 {
		return l.Details.Comments[0]
	}
	return "よろしくお願いします！"
}

// ChannelURL picks the primary destination for this liver: first usable
// streaming URL, then the detail page, then a fixed fallback.
func (l *Liver) ChannelURL() string {
	if urls := l.AvailableStreamingURLs(); len(urls) > 0 && urls[0].URL != nil && *urls[0].URL != "" {
		return *urls[0].URL
	}
	if l.DetailURL != nil && *l.DetailURL != "" {
		return *l.DetailURL
	}
	return defaultChannelURL
}
