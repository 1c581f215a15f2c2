package helpers

import (
	"net/url"
	"strings"
)

// ProxyPath is the same-origin image proxy endpoint.
const ProxyPath = "/api/proxy"

// ProxyImage rewrites an external image URL into a same-origin proxy URL.
// An empty reference yields an empty string so no request is ever made for it.
func ProxyImage(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	return ProxyPath + "?url=" + url.QueryEscape(ref)
}

// Truncate returns at most n leading elements of s.
func Truncate[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
