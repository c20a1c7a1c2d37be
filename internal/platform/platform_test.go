package platform

import (
	"net/url"
	"testing"
)

func TestDisplayNameKeywordMatch(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"I love youtube!!", "YouTube"},
		{"YOUTUBE", "YouTube"},
		{"ユーチューブで配信中", "YouTube"},
		{"tiktok.com", "TikTok"},
		{"twitch配信", "Twitch"},
		{"イチナナ", "17LIVE"},
		{"ポコチャ", "Pococha"},
		{"showroom-live", "SHOWROOM"},
		{"ふわっち", "ふわっち"},
		{"旧Twitterはこちら", "X (Twitter)"},
		{"lit.link/someone", "Lit.link"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.input); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestDisplayNamePassThrough(t *testing.T) {
	if got := DisplayName("totally unknown service"); got != "totally unknown service" {
		t.Errorf("unmatched input should pass through, got %q", got)
	}
	if got := DisplayName("  spaced out  "); got != "spaced out" {
		t.Errorf("pass-through should be trimmed, got %q", got)
	}
}

func TestDisplayNameEmpty(t *testing.T) {
	if got := DisplayName(""); got != "" {
		t.Errorf("empty input should yield empty, got %q", got)
	}
	if got := DisplayName("   "); got != "" {
		t.Errorf("whitespace input should yield empty, got %q", got)
	}
}

func TestDisplayNameFullWidthSpace(t *testing.T) {
	// "17　live" with a full-width space should still match 17LIVE via "17 live".
	if got := DisplayName("17　live"); got != "17LIVE" {
		t.Errorf("full-width space should normalize, got %q", got)
	}
}

func TestDisplayNameTableOrder(t *testing.T) {
	// "youtube.com/line" contains keywords for both YouTube and LINE; the
	// earlier table entry must win.
	if got := DisplayName("youtube.com/line.me"); got != "YouTube" {
		t.Errorf("first table entry should win, got %q", got)
	}
}

func TestDisplayNameFromURL(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"https://www.youtube.com/channel/abc", "YouTube", true},
		{"https://m.twitch.tv/someone", "Twitch", true},
		{"https://example.com/youtube", "YouTube", true}, // host+path fallback
		{"https://example.com/nothing", "", false},
	}
	for _, tc := range cases {
		u, err := url.Parse(tc.input)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.input, err)
		}
		got, ok := DisplayNameFromURL(u)
		if ok != tc.ok || got != tc.want {
			t.Errorf("DisplayNameFromURL(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
