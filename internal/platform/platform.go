// Package platform maps free-text platform names and streaming URLs to
// canonical display labels, and normalizes URLs so minor formatting
// differences compare equal.
package platform

import (
	"net/url"
	"strings"
)

type keywordMapping struct {
	display  string
	keywords []string
}

// Ordered: the first mapping whose keyword matches wins, so broader services
// (YouTube, TikTok) sit above link aggregators.
var platformKeywordMappings = []keywordMapping{
	{"YouTube", []string{"youtube", "ユーチューブ", "youtu.be", "youtube.com"}},
	{"TikTok", []string{"tiktok", "tiktok.com"}},
	{"Twitch", []string{"twitch", "twitch.tv"}},
	{"17LIVE", []string{"17live", "17 live", "イチナナ", "17.live"}},
	{"Pococha", []string{"pococha", "ポコチャ", "pocpcha"}},
	{"ツイキャス", []string{"ツイキャス", "twicas", "twitcasting"}},
	{"ニコニコ生放送", []string{"ニコニコ", "niconico", "nicovideo"}},
	{"ミクチャ", []string{"ミクチャ", "mixch", "mixchannel"}},
	{"IRIAM", []string{"iriam"}},
	{"BIGO LIVE", []string{"bigo"}},
	{"HAKUNA", []string{"hakuna"}},
	{"REALITY", []string{"reality"}},
	{"Stellamy", []string{"stellamy"}},
	{"SHOWROOM", []string{"showroom", "showroom-live"}},
	{"OPENREC", []string{"openrec", "openrec.tv"}},
	{"ふわっち", []string{"ふわっち", "whowatch"}},
	{"Mirrativ", []string{"mirrativ"}},
	{"LINE LIVE", []string{"linelive", "line live", "live.line"}},
	{"Instagram", []string{"instagram", "インスタ", "instagram.com"}},
	{"X (Twitter)", []string{"twitter", "ツイッター", "x (", "x(", "旧twitter"}},
	{"Facebook", []string{"facebook"}},
	{"Bilibili", []string{"bilibili"}},
	{"Discord", []string{"discord"}},
	{"FANBOX", []string{"fanbox"}},
	{"Fantia", []string{"fantia"}},
	{"BOOTH", []string{"booth"}},
	{"LINE", []string{"line.me", "lin.ee"}},
	{"Lit.link", []string{"lit.link"}},
	{"LinkTree", []string{"linktr.ee"}},
	{"OFUSE", []string{"ofuse.me"}},
	{"note", []string{"note.com"}},
	{"Patreon", []string{"patreon"}},
	{"Pixiv", []string{"pixiv"}},
	{"Skeb", []string{"skeb"}},
}

func matchPlatform(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, mapping := range platformKeywordMappings {
		for _, keyword := range mapping.keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				return mapping.display, true
			}
		}
	}
	return "", false
}

// DisplayName resolves a free-text platform label to its canonical display
// name. Unmatched input passes through trimmed.
func DisplayName(rawText string) string {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return ""
	}
	// Full-width spaces show up in scraped labels.
	normalized := strings.ReplaceAll(trimmed, "　", " ")
	if display, ok := matchPlatform(normalized); ok {
		return display
	}
	if display, ok := matchPlatform(trimmed); ok {
		return display
	}
	return trimmed
}

// DisplayNameFromURL resolves a platform label from a URL by matching the raw
// host, the www./m.-stripped host, and finally host+path.
func DisplayNameFromURL(u *url.URL) (string, bool) {
	if u == nil || u.Hostname() == "" {
		return "", false
	}
	rawHost := u.Hostname()
	stripped := normalizedHost(rawHost)
	for _, candidate := range []string{rawHost, stripped} {
		if display, ok := matchPlatform(candidate); ok {
			return display, true
		}
	}
	return matchPlatform(stripped + u.Path)
}
