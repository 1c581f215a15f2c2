// Package constants defines numerical limits used when assembling surfaces.
package constants

// Limits and counts for catalog surfaces
const (
	// Home surface slices
	HomeLatestCount  = 12
	HomeReleaseCount = 24
	HomeReleasePages = 5
	BannerCount      = 5
	PopularPrefix    = 4

	// Release surface aggregation
	ReleasePages = 10

	// Number of concurrent page fetches during aggregation
	PageConcurrency = 3

	// Genre pills shown on a card before collapsing into "+N"
	CardGenreLimit = 3

	// Largest image body the proxy will cache
	MaxProxyImageBytes = 5 * 1024 * 1024
)
