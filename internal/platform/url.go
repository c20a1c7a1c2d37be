package platform

import (
	"net/url"
	"strings"
)

// CanonicalURLIdentifier reduces a possibly-schemeless URL string to a
// host+path[+query] form usable for equality checks. Scheme, credentials and
// fragment are dropped, the host is lower-cased, default ports are removed,
// and a redundant trailing path slash is collapsed. Unparseable input degrades to its lower-cased
// trimmed form. The second return is false only for empty input.
func CanonicalURLIdentifier(rawURL string) (string, bool) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", false
	}

	u := normalizedURL(trimmed)
	if u == nil {
		return strings.ToLower(trimmed), true
	}

	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && port != defaultPort(u.Scheme) {
		host += ":" + port
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}

	identifier := host + path
	if u.RawQuery != "" {
		identifier += "?" + u.RawQuery
	}
	return identifier, true
}

// IdentifiersEquivalent reports whether two canonical identifiers should be
// treated as the same destination: identical, one a prefix of the other, or
// differing only by a trailing slash.
func IdentifiersEquivalent(lhs, rhs string) bool {
	if lhs == rhs {
		return true
	}
	if strings.HasPrefix(lhs, rhs) || strings.HasPrefix(rhs, lhs) {
		return true
	}
	return strings.TrimSuffix(lhs, "/") == strings.TrimSuffix(rhs, "/")
}

// NormalizedHostKey extracts a lower-cased host with www./m. prefixes
// stripped, for coarse same-site matching when canonical identifiers differ.
func NormalizedHostKey(rawURL string) (string, bool) {
	u := normalizedURL(strings.TrimSpace(rawURL))
	if u == nil || u.Hostname() == "" {
		return "", false
	}
	return normalizedHost(u.Hostname()), true
}

func defaultPort(scheme string) string {
	switch strings.ToLower(scheme) {
	case "http", "ws":
		return "80"
	case "https", "wss":
		return "443"
	}
	return ""
}

func normalizedHost(host string) string {
	value := strings.ToLower(host)
	for strings.HasPrefix(value, "www.") {
		value = value[4:]
	}
	for strings.HasPrefix(value, "m.") {
		value = value[2:]
	}
	return value
}

// normalizedURL parses a URL, prepending https:// when the input carries no
// scheme. Returns nil when no usable host can be derived.
func normalizedURL(trimmed string) *url.URL {
	if trimmed == "" {
		return nil
	}
	if u, err := url.Parse(trimmed); err == nil && u.Scheme != "" && u.Host != "" {
		return u
	}
	if u, err := url.Parse("https://" + trimmed); err == nil && u.Host != "" {
		return u
	}
	return nil
}
