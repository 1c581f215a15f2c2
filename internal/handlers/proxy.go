package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/nekoview/internal/cache"
	"github.com/amaumene/nekoview/internal/constants"
	"github.com/amaumene/nekoview/pkg/httputil"
)

const proxyCacheControl = "public, max-age=86400"

// handleProxy serves a remote image from the same origin, caching the body.
func (h *Handler) handleProxy(c *gin.Context) {
	raw := c.Query("url")
	target, err := h.proxyValidator.Validate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key := target.String()

	if blob, ok := h.services.Images.Get(key); ok {
		c.Header("Cache-Control", proxyCacheControl)
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, blob.ContentType, blob.Data)
		return
	}

	blob, err := h.fetchImage(c, key)
	if err != nil {
		h.logger.Warnf("proxy %s: %v", h.validator.MaskURL(key), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch image"})
		return
	}

	h.services.Images.Set(key, blob)
	c.Header("Cache-Control", proxyCacheControl)
	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}

func (h *Handler) fetchImage(c *gin.Context, target string) (cache.Blob, error) {
	resp, err := httputil.GetAccept(c.Request.Context(), h.proxy, target, "image/*")
	if err != nil {
		return cache.Blob{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return cache.Blob{}, &httputil.StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err != nil || !strings.HasPrefix(mediaType, "image/") {
		return cache.Blob{}, fmt.Errorf("unexpected content type %q", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxProxyImageBytes+1))
	if err != nil {
		return cache.Blob{}, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > constants.MaxProxyImageBytes {
		return cache.Blob{}, fmt.Errorf("image exceeds %d bytes", constants.MaxProxyImageBytes)
	}

	return cache.Blob{ContentType: contentType, Data: data}, nil
}
