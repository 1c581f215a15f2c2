// Package handlers implements the HTTP presentation boundary: state out,
// intents in, plus the same-origin image proxy.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/nekoview/internal/config"
	"github.com/amaumene/nekoview/internal/constants"
	"github.com/amaumene/nekoview/internal/controller"
	"github.com/amaumene/nekoview/internal/services"
	"github.com/amaumene/nekoview/pkg/helpers"
	"github.com/amaumene/nekoview/pkg/httputil"
	"github.com/amaumene/nekoview/pkg/logger"
	"github.com/amaumene/nekoview/pkg/security"
)

// Handler handles HTTP requests for the catalog browser.
type Handler struct {
	services   *services.Container
	config     *config.Config
	controller *controller.Controller
	proxy      *http.Client
	validator  *security.URLValidator
	// proxyValidator additionally refuses hosts resolving to internal addresses.
	proxyValidator *security.URLValidator
	logger         logger.Logger
}

// New creates a new Handler with the provided services and configuration.
func New(svc *services.Container, cfg *config.Config, ctrl *controller.Controller) *Handler {
	log := svc.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		services:       svc,
		config:         cfg,
		controller:     ctrl,
		proxy:          httputil.NewRestrictedHTTPClient(constants.ProxyTimeout, security.PublicDialControl),
		validator:      security.NewURLValidator(),
		proxyValidator: security.NewPublicURLValidator(),
		logger:         log.With("HTTP"),
	}
}

// SetProxyValidator replaces the validator applied to proxied image URLs.
func (h *Handler) SetProxyValidator(v *security.URLValidator) {
	h.proxyValidator = v
}

// SetProxyClient replaces the client used for upstream image fetches.
func (h *Handler) SetProxyClient(client *http.Client) {
	h.proxy = client
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleIndex)
	r.GET("/health", h.handleHealth)

	api := r.Group("/api")
	api.GET("/state", h.handleState)

	api.POST("/home", h.handleEnterHome)
	api.POST("/latest", h.handleEnterLatest)
	api.POST("/release", h.handleEnterRelease)
	api.POST("/favorites", h.handleShowFavorites)
	api.POST("/search", h.handleSearch)
	api.POST("/detail", h.handleOpenDetail)
	api.DELETE("/detail", h.handleCloseDetail)

	api.POST("/favorites/toggle", h.handleToggleFavorite)
	api.POST("/streams/:index", h.handleSelectStream)
	api.POST("/banner/:index", h.handleSelectBanner)

	r.GET(helpers.ProxyPath, h.handleProxy)
}

func (h *Handler) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    constants.AppName,
		"version": constants.AppVersion,
		"state":   "/api/state",
	})
}

func (h *Handler) handleHealth(c *gin.Context) {
	stats := h.services.Images.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"cache": gin.H{
			"entries": stats.Len,
			"hits":    stats.Hits,
			"misses":  stats.Misses,
		},
	})
}

func (h *Handler) handleState(c *gin.Context) {
	h.respondState(c)
}

func (h *Handler) respondState(c *gin.Context) {
	c.JSON(http.StatusOK, BuildState(h.controller.State()))
}

// intentContext keeps the request values but not its cancellation; intents
// run to completion or IntentTimeout even if the client goes away.
func (h *Handler) intentContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), constants.IntentTimeout)
}
