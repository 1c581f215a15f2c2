// Package constants defines timeout values and intervals used throughout the application.
package constants

import "time"

const (
	// Per request timeout toward the catalog API
	RequestTimeout = 15 * time.Second

	// Image proxy upstream timeout
	ProxyTimeout = 20 * time.Second

	// Banner auto-advance period
	BannerInterval = 5 * time.Second

	// Budget for one intent, including multi-page aggregation
	IntentTimeout = 90 * time.Second

	// Graceful shutdown budget
	ShutdownTimeout = 10 * time.Second

	// How often expired proxy cache entries are swept
	CacheCleanupInterval = 1 * time.Hour
)
