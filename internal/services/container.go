// Package services provides the remote catalog client and the dependency
// container shared by the controller and the HTTP layer.
package services

import (
	"context"

	"github.com/amaumene/nekoview/internal/cache"
	"github.com/amaumene/nekoview/internal/database"
	"github.com/amaumene/nekoview/internal/favorites"
	"github.com/amaumene/nekoview/internal/models"
	"github.com/amaumene/nekoview/pkg/logger"
)

// Container holds all application services for dependency injection.
type Container struct {
	Catalog   CatalogService
	Favorites *favorites.Store
	KV        database.KV
	Images    *cache.LRUCache[cache.Blob]
	Logger    logger.Logger
}

// CatalogService defines the remote catalog queries.
type CatalogService interface {
	FetchLatest(ctx context.Context) ([]models.CatalogItem, error)
	FetchReleasePage(ctx context.Context, page int) ([]models.CatalogItem, error)
	Search(ctx context.Context, query string) ([]models.CatalogItem, error)
	FetchDetail(ctx context.Context, reference string) (*models.ItemDetail, error)
}

// Close releases the resources owned by the container.
func (c *Container) Close() error {
	if c.KV != nil {
		return c.KV.Close()
	}
	return nil
}
