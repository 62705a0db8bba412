// Package vlessurl implements pure string transforms over VLESS client URLs
// of the shape vless://UUID@HOST:PORT?params#fragment.
//
// The transforms never touch cryptographic material: only the host and the
// fragment are rewritten, userinfo, port and query parameters pass through
// verbatim.
package vlessurl

import (
	"net/url"
	"strings"
)

// NormalizeHost replaces the host portion of rawURL with preferredDomain.
// When preferredDomain is empty, the host parsed from apiURL is used instead.
// Userinfo, port, IPv6 bracket syntax and query parameters are preserved
// byte for byte; the URL is never re-encoded.
func NormalizeHost(rawURL, preferredDomain, apiURL string) string {
	host := preferredDomain
	if host == "" {
		if u, err := url.Parse(apiURL); err == nil {
			host = u.Hostname()
		}
	}
	if host == "" {
		return rawURL
	}

	schemeIdx := strings.Index(rawURL, "://")
	if schemeIdx < 0 {
		return rawURL
	}

	rest := rawURL[schemeIdx+3:]
	authority := rest
	tail := ""
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		authority = rest[:end]
		tail = rest[end:]
	}

	userinfo := ""
	if at := strings.LastIndex(authority, "@"); at >= 0 {
		userinfo = authority[:at+1]
		authority = authority[at+1:]
	}

	port := ""
	if strings.HasPrefix(authority, "[") {
		if closeIdx := strings.Index(authority, "]"); closeIdx >= 0 && len(authority) > closeIdx+1 && authority[closeIdx+1] == ':' {
			port = authority[closeIdx+1:]
		}
	} else if colon := strings.LastIndex(authority, ":"); colon >= 0 {
		port = authority[colon:]
	}

	newHost := host
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		newHost = "[" + host + "]"
	}

	return rawURL[:schemeIdx+3] + userinfo + newHost + port + tail
}

// StripFragment removes the #fragment portion, if present.
func StripFragment(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx >= 0 {
		return rawURL[:idx]
	}
	return rawURL
}

// SetFragment percent-encodes displayName and sets it as the fragment.
// A no-op when displayName is empty.
func SetFragment(rawURL, displayName string) string {
	if displayName == "" {
		return rawURL
	}
	return StripFragment(rawURL) + "#" + url.QueryEscape(displayName)
}
