package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/nekoview/internal/middleware"
	"github.com/amaumene/nekoview/internal/models"
)

// Intent routes always answer with the resulting state. Remote failures are
// part of that state (its error field), not an HTTP error.

func (h *Handler) handleEnterHome(c *gin.Context) {
	ctx, cancel := h.intentContext(c)
	defer cancel()

	h.logIntentError(c, "home", h.controller.EnterHome(ctx))
	h.respondState(c)
}

func (h *Handler) handleEnterLatest(c *gin.Context) {
	ctx, cancel := h.intentContext(c)
	defer cancel()

	h.logIntentError(c, "latest", h.controller.EnterLatest(ctx))
	h.respondState(c)
}

func (h *Handler) handleEnterRelease(c *gin.Context) {
	ctx, cancel := h.intentContext(c)
	defer cancel()

	h.logIntentError(c, "release", h.controller.EnterRelease(ctx))
	h.respondState(c)
}

func (h *Handler) handleShowFavorites(c *gin.Context) {
	h.controller.ShowFavorites()
	h.respondState(c)
}

func (h *Handler) handleSearch(c *gin.Context) {
	ctx, cancel := h.intentContext(c)
	defer cancel()

	h.logIntentError(c, "search", h.controller.Search(ctx, c.Query("q")))
	h.respondState(c)
}

func (h *Handler) handleOpenDetail(c *gin.Context) {
	ref := c.Query("url")
	if ref != "" && !h.validator.IsValid(ref) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid detail url"})
		return
	}

	ctx, cancel := h.intentContext(c)
	defer cancel()

	h.logIntentError(c, "detail", h.controller.OpenDetail(ctx, ref))
	h.respondState(c)
}

func (h *Handler) handleCloseDetail(c *gin.Context) {
	h.controller.CloseDetail()
	h.respondState(c)
}

func (h *Handler) handleToggleFavorite(c *gin.Context) {
	var item models.CatalogItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item: " + err.Error()})
		return
	}

	h.controller.ToggleFavorite(item)
	h.respondState(c)
}

func (h *Handler) handleSelectStream(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.controller.SelectStream(index)
	h.respondState(c)
}

func (h *Handler) handleSelectBanner(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.controller.SelectBannerSlide(index)
	h.respondState(c)
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return 0, false
	}
	return index, true
}

func (h *Handler) logIntentError(c *gin.Context, intent string, err error) {
	if err != nil {
		h.logger.Debugf("%s %s intent: %v", middleware.GetRequestID(c), intent, err)
	}
}
