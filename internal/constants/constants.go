// Package constants defines application-wide constants and default values.
package constants

const (
	// Application metadata
	AppName    = "nekoview"
	AppVersion = "1.0.0"

	// Default configuration values
	DefaultPort       = "5000"
	DefaultLogLevel   = "info"
	DefaultAPIBaseURL = "https://www.sankavollerei.com/anime/neko"

	// Favorites storage
	DefaultFavoritesKey = "nekopoi_favorites"
	DefaultStoreDriver  = StoreDriverBolt
	DefaultDatabasePath = "./data.db"

	StoreDriverBolt   = "bolt"
	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"

	// Image cache settings
	DefaultCacheSize = 500
	DefaultCacheTTL  = 6 // hours

	// Rate limiting toward the catalog API
	CatalogRateLimit = 8 // requests per second
	CatalogRateBurst = 4 // burst capacity
)

// Badges recognised in catalog titles, in priority order.
var TitleBadges = []string{
	"NEW",
	"UNCENSORED",
	"3D",
	"L2D",
}
