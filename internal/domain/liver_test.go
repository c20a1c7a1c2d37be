package domain

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func TestCategoriesDeduplicated(t *testing.T) {
	liver := Liver{Details: &LiverDetails{
		Categories: []string{"歌", "ゲーム", "歌", "雑談", "ゲーム"},
	}}
	got := liver.Categories()
	if len(got) != 3 {
		t.Fatalf("expected 3 unique categories, got %d: %v", len(got), got)
	}
	seen := map[string]bool{}
	for _, c := range got {
		if seen[c] {
			t.Errorf("duplicate category survived: %q", c)
		}
		seen[c] = true
	}
}

func TestCategoriesAbsent(t *testing.T) {
	liver := Liver{}
	if got := liver.Categories(); got != nil {
		t.Errorf("no details should yield nil categories, got %v", got)
	}
}

func TestIsCollaborationOK(t *testing.T) {
	cases := []struct {
		status *string
		want   bool
	}{
		{strPtr("OK"), true},
		{strPtr("ok"), true},
		{strPtr("NG"), false},
		{strPtr(""), false},
		{nil, false},
	}
	for _, tc := range cases {
		liver := Liver{Details: &LiverDetails{CollaborationStatus: tc.status}}
		if got := liver.IsCollaborationOK(); got != tc.want {
			t.Errorf("IsCollaborationOK(status=%v) = %v, want %v", tc.status, got, tc.want)
		}
	}

	noDetails := Liver{}
	if noDetails.IsCollaborationOK() {
		t.Error("missing details should never be collaboration OK")
	}
}

func TestAvailableStreamingURLs(t *testing.T) {
	liver := Liver{Details: &LiverDetails{StreamingURLs: []StreamingURL{
		{URL: strPtr("https://youtube.com/a")},
		{URL: strPtr("")},
		{URL: nil},
		{URL: strPtr("https://pococha.com/b"), Type: strPtr("レベル制限")},
		{URL: strPtr("https://twitch.tv/c"), Type: strPtr("メイン")},
	}}}
	got := liver.AvailableStreamingURLs()
	if len(got) != 2 {
		t.Fatalf("expected 2 usable URLs, got %d", len(got))
	}
	if *got[0].URL != "https://youtube.com/a" || *got[1].URL != "https://twitch.tv/c" {
		t.Errorf("unexpected URLs: %v, %v", *got[0].URL, *got[1].URL)
	}
}

func TestScheduleNameCanonicalMatch(t *testing.T) {
	liver := Liver{Details: &LiverDetails{Schedules: []Schedule{
		{Name: "YouTube", URL: strPtr("https://YouTube.com/channel/abc/")},
		{Name: "Twitch", URL: strPtr("https://twitch.tv/someone")},
	}}}

	name, ok := liver.ScheduleName("youtube.com/channel/abc")
	if !ok || name != "YouTube" {
		t.Errorf("canonical match = (%q, %v), want (YouTube, true)", name, ok)
	}
}

func TestScheduleNameHostKeyFallback(t *testing.T) {
	liver := Liver{Details: &LiverDetails{Schedules: []Schedule{
		{Name: "Twitch", URL: strPtr("https://www.twitch.tv/someone")},
	}}}

	// Different path, same site: falls back to host-key matching.
	name, ok := liver.ScheduleName("https://m.twitch.tv/other")
	if !ok || name != "Twitch" {
		t.Errorf("host-key match = (%q, %v), want (Twitch, true)", name, ok)
	}
}

func TestScheduleNameNoMatch(t *testing.T) {
	liver := Liver{Details: &LiverDetails{Schedules: []Schedule{
		{Name: "YouTube", URL: strPtr("https://youtube.com/channel/abc")},
	}}}
	if _, ok := liver.ScheduleName("https://pococha.com/u/1"); ok {
		t.Error("unrelated URL should not match any schedule")
	}
}

func TestFollowerDisplayText(t *testing.T) {
	cases := []struct {
		followers int
		want      string
	}{
		{25000, "25K人"},
		{1500, "1.5K人"},
		{999, "999人"},
		{0, "0人"},
	}
	for _, tc := range cases {
		liver := Liver{Followers: tc.followers}
		if got := liver.FollowerDisplayText(); got != tc.want {
			t.Errorf("FollowerDisplayText(%d) = %q, want %q", tc.followers, got, tc.want)
		}
	}
}

func TestFullImageURLPriority(t *testing.T) {
	const base = "https://api.example.com"

	withProfile := Liver{
		OriginalID: "42",
		ImageURL:   "/img.jpg",
		Details: &LiverDetails{ProfileImages: []ProfileImage{
			{URL: strPtr("https://cdn.example.com/p.jpg")},
		}},
	}
	if got := withProfile.FullImageURL(base); got != "https://cdn.example.com/p.jpg" {
		t.Errorf("profile image should win, got %q", got)
	}

	withImageURL := Liver{OriginalID: "42", ImageURL: "/img.jpg"}
	if got := withImageURL.FullImageURL(base); got != base+"/img.jpg" {
		t.Errorf("imageUrl should join base, got %q", got)
	}

	withActual := Liver{OriginalID: "42", ActualImageURL: strPtr("/actual.jpg")}
	if got := withActual.FullImageURL(base); got != base+"/actual.jpg" {
		t.Errorf("actualImageUrl fallback, got %q", got)
	}

	bare := Liver{OriginalID: "42"}
	if got := bare.FullImageURL(base); got != base+"/api/images/42.jpg" {
		t.Errorf("final fallback, got %q", got)
	}
}

func TestMainComment(t *testing.T) {
	withComments := Liver{Details: &LiverDetails{Comments: []string{"初配信です", "二つ目"}}}
	if got := withComments.MainComment(); got != "初配信です" {
		t.Errorf("MainComment = %q", got)
	}

	empty := Liver{}
	if got := empty.MainComment(); got != "よろしくお願いします！" {
		t.Errorf("default greeting missing, got %q", got)
	}
}

func TestChannelURLPriority(t *testing.T) {
	withStreaming := Liver{
		DetailURL: strPtr("https://detail.example.com"),
		Details: &LiverDetails{StreamingURLs: []StreamingURL{
			{URL: strPtr("https://youtube.com/live")},
		}},
	}
	if got := withStreaming.ChannelURL(); got != "https://youtube.com/live" {
		t.Errorf("streaming URL should win, got %q", got)
	}

	withDetail := Liver{DetailURL: strPtr("https://detail.example.com")}
	if got := withDetail.ChannelURL(); got != "https://detail.example.com" {
		t.Errorf("detail URL fallback, got %q", got)
	}

	bare := Liver{}
	if got := bare.ChannelURL(); got != defaultChannelURL {
		t.Errorf("default fallback, got %q", got)
	}
}
