package main

import (
	"github.com/amaumene/nekoview/internal/cache"
	"github.com/amaumene/nekoview/internal/config"
	"github.com/amaumene/nekoview/internal/constants"
	"github.com/amaumene/nekoview/internal/controller"
	"github.com/amaumene/nekoview/internal/database"
	"github.com/amaumene/nekoview/internal/favorites"
	"github.com/amaumene/nekoview/internal/handlers"
	"github.com/amaumene/nekoview/internal/services"
	"github.com/amaumene/nekoview/pkg/httputil"
	"github.com/amaumene/nekoview/pkg/logger"
	"github.com/amaumene/nekoview/pkg/ratelimiter"
)

// app bundles everything main wires together.
type app struct {
	config     *config.Config
	logger     logger.Logger
	services   *services.Container
	controller *controller.Controller
	handler    *handlers.Handler
}

func initializeLogger(cfg *config.Config) logger.Logger {
	return logger.NewWithLevel(cfg.LogLevel)
}

// initializeDatabase opens the favorites store. If the configured backend is
// unavailable the app keeps running on an in-memory store.
func initializeDatabase(cfg *config.Config, log logger.Logger) database.KV {
	kv, err := database.Open(cfg.StoreDriver, cfg.DatabasePath)
	if err != nil {
		log.Errorf("[App] failed to open %s store at %s: %v; favorites will not persist",
			cfg.StoreDriver, cfg.DatabasePath, err)
		return database.NewMemory()
	}

	log.Infof("[App] %s favorites store ready", cfg.StoreDriver)
	return kv
}

func initializeServices(cfg *config.Config, log logger.Logger) *app {
	kv := initializeDatabase(cfg, log)

	catalog := services.NewCatalog(cfg.APIBaseURL, log)
	catalog.SetHTTPClient(httputil.NewHTTPClient(cfg.RequestTimeout))
	catalog.SetRateLimiter(ratelimiter.NewTokenBucket(constants.CatalogRateBurst, cfg.RequestsPerSecond))

	store := favorites.NewStore(kv, cfg.FavoritesKey, log)

	container := &services.Container{
		Catalog:   catalog,
		Favorites: store,
		KV:        kv,
		Images:    cache.New[cache.Blob](cfg.CacheSize, cfg.CacheTTL),
		Logger:    log,
	}

	ctrl := controller.New(catalog, store, controller.Options{
		HomeReleasePages: cfg.HomeReleasePages,
		ReleasePages:     cfg.ReleasePages,
		PageConcurrency:  cfg.PageConcurrency,
		BannerInterval:   cfg.BannerInterval,
	}, log)

	log.Infof("[App] services initialized successfully")
	return &app{
		config:     cfg,
		logger:     log,
		services:   container,
		controller: ctrl,
		handler:    handlers.New(container, cfg, ctrl),
	}
}

func (a *app) close() {
	a.controller.Close()
	if err := a.services.Close(); err != nil {
		a.logger.Errorf("[App] failed to close store: %v", err)
	}
}
