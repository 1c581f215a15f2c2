package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/amaumene/nekoview/internal/constants"
	apperrors "github.com/amaumene/nekoview/internal/errors"
	"github.com/amaumene/nekoview/internal/models"
	"github.com/amaumene/nekoview/pkg/httputil"
	"github.com/amaumene/nekoview/pkg/logger"
	"github.com/amaumene/nekoview/pkg/ratelimiter"
	"github.com/amaumene/nekoview/pkg/security"
)

// Catalog is the typed client of the remote catalog API. It does no caching.
type Catalog struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter ratelimiter.RateLimiter
	logger      logger.Logger
	validator   *security.URLValidator
}

func NewCatalog(baseURL string, log logger.Logger) *Catalog {
	if log == nil {
		log = logger.Discard()
	}
	if baseURL == "" {
		baseURL = constants.DefaultAPIBaseURL
	}

	return &Catalog{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httputil.NewHTTPClient(constants.RequestTimeout),
		rateLimiter: ratelimiter.NewTokenBucket(constants.CatalogRateBurst, constants.CatalogRateLimit),
		logger:      log.With("Catalog"),
		validator:   security.NewURLValidator(),
	}
}

func (c *Catalog) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

func (c *Catalog) SetRateLimiter(limiter ratelimiter.RateLimiter) {
	c.rateLimiter = limiter
}

// FetchLatest returns the latest items. success:false is a RemoteError.
func (c *Catalog) FetchLatest(ctx context.Context) ([]models.CatalogItem, error) {
	var resp models.LatestResponse
	if err := c.get(ctx, "/latest", &resp); err != nil {
		return nil, apperrors.NewRemoteError("failed to load latest", err)
	}
	if !resp.Success {
		return nil, apperrors.NewRemoteError("Failed to load data", nil)
	}

	c.logger.Debugf("latest returned %d items", len(resp.Results))
	return nonNil(resp.Results), nil
}

// FetchReleasePage returns one 1-indexed release page.
func (c *Catalog) FetchReleasePage(ctx context.Context, page int) ([]models.CatalogItem, error) {
	if page < 1 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid release page %d", page))
	}

	var resp models.PageResponse
	if err := c.get(ctx, "/release/"+strconv.Itoa(page), &resp); err != nil {
		return nil, apperrors.NewRemoteError(fmt.Sprintf("failed to load release page %d", page), err)
	}

	c.logger.Debugf("release page %d returned %d items", page, len(resp.Data))
	return nonNil(resp.Data), nil
}

// Search runs a catalog search. A blank query is rejected before any request;
// a response without data is an empty result, not an error.
func (c *Catalog) Search(ctx context.Context, query string) ([]models.CatalogItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("empty search query")
	}

	var resp models.PageResponse
	if err := c.get(ctx, "/search/"+url.PathEscape(query), &resp); err != nil {
		return nil, apperrors.NewRemoteError("search failed", err)
	}

	c.logger.Debugf("search %q returned %d items", query, len(resp.Data))
	return nonNil(resp.Data), nil
}

// FetchDetail loads the detail record for reference. A response without a
// payload is a NotFoundError; transport and decode failures are RemoteErrors.
func (c *Catalog) FetchDetail(ctx context.Context, reference string) (*models.ItemDetail, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, apperrors.NewValidationError("empty detail reference")
	}

	var resp models.DetailResponse
	err := c.get(ctx, "/get?url="+url.QueryEscape(reference), &resp)
	if err != nil {
		var statusErr *httputil.StatusError
		if stderrors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, apperrors.NewNotFoundError("Failed to load detail")
		}
		return nil, apperrors.NewRemoteError("failed to load detail", err)
	}
	if !resp.Success || resp.Data == nil {
		c.logger.Debugf("no detail payload for %s", c.validator.MaskURL(reference))
		return nil, apperrors.NewNotFoundError("Failed to load detail")
	}

	return resp.Data, nil
}

func (c *Catalog) get(ctx context.Context, path string, v interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path
	c.logger.Debugf("GET %s", endpoint)
	return httputil.GetJSON(ctx, c.httpClient, endpoint, v)
}

func nonNil(items []models.CatalogItem) []models.CatalogItem {
	if items == nil {
		return []models.CatalogItem{}
	}
	return items
}
