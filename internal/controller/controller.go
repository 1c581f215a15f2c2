// Package controller owns the browsing state: which surface is active, the
// items it shows, loading flags, the error slot, favorites, the banner and the
// open detail. All mutations go through the intent methods.
package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amaumene/nekoview/internal/banner"
	"github.com/amaumene/nekoview/internal/constants"
	apperrors "github.com/amaumene/nekoview/internal/errors"
	"github.com/amaumene/nekoview/internal/favorites"
	"github.com/amaumene/nekoview/internal/merge"
	"github.com/amaumene/nekoview/internal/models"
	"github.com/amaumene/nekoview/internal/services"
	"github.com/amaumene/nekoview/pkg/logger"
)

type Surface string

const (
	SurfaceHome      Surface = "home"
	SurfaceLatest    Surface = "latest"
	SurfaceRelease   Surface = "release"
	SurfaceFavorites Surface = "favorites"
	SurfaceSearch    Surface = "search"
	SurfaceDetail    Surface = "detail"
)

// Title returns the heading shown for a list surface.
func (s Surface) Title() string {
	switch s {
	case SurfaceLatest:
		return "Latest Anime"
	case SurfaceRelease:
		return "Latest Releases"
	case SurfaceFavorites:
		return "My Favorites"
	case SurfaceSearch:
		return "Search Results"
	case SurfaceDetail:
		return "Detail"
	default:
		return "Home"
	}
}

// Options tunes the fetch fan-out and banner timing. Zero values use the defaults.
type Options struct {
	HomeReleasePages int
	ReleasePages     int
	PageConcurrency  int
	BannerInterval   time.Duration
}

func (o Options) withDefaults() Options {
	if o.HomeReleasePages <= 0 {
		o.HomeReleasePages = constants.HomeReleasePages
	}
	if o.ReleasePages <= 0 {
		o.ReleasePages = constants.ReleasePages
	}
	if o.PageConcurrency <= 0 {
		o.PageConcurrency = constants.PageConcurrency
	}
	if o.BannerInterval <= 0 {
		o.BannerInterval = constants.BannerInterval
	}
	return o
}

type Loading struct {
	Home   bool `json:"home"`
	Page   bool `json:"page"`
	Detail bool `json:"detail"`
}

type HomeData struct {
	Latest   []models.CatalogItem `json:"latest"`
	Releases []models.CatalogItem `json:"releases"`
	Popular  []models.CatalogItem `json:"popular"`
}

// Snapshot is a copy of the controller state; callers may keep and modify it.
type Snapshot struct {
	Surface        Surface              `json:"surface"`
	Previous       Surface              `json:"previous,omitempty"`
	PageTitle      string               `json:"pageTitle"`
	Query          string               `json:"query,omitempty"`
	Items          []models.CatalogItem `json:"items"`
	Home           HomeData             `json:"home"`
	Banner         []models.CatalogItem `json:"banner"`
	BannerIndex    int                  `json:"bannerIndex"`
	Loading        Loading              `json:"loading"`
	Error          string               `json:"error,omitempty"`
	Favorites      []models.CatalogItem `json:"favorites"`
	FavoritesCount int                  `json:"favoritesCount"`
	Detail         *models.ItemDetail   `json:"detail,omitempty"`
	SelectedStream int                  `json:"selectedStream"`
}

// request tags one network operation with the navigation sequence it was
// issued under and the loading token it owns.
type request struct {
	id    string
	seq   uint64
	token uint64
	flag  *uint64
}

type Controller struct {
	mu      sync.Mutex
	catalog services.CatalogService
	store   *favorites.Store
	rotator *banner.Rotator
	logger  logger.Logger
	opts    Options

	surface  Surface
	previous Surface
	seq      uint64
	closed   bool

	items     []models.CatalogItem
	itemsOf   Surface
	query     string
	home      HomeData
	banner    []models.CatalogItem
	favs      []models.CatalogItem
	detail    *models.ItemDetail
	stream    int
	errMsg    string
	tokens    uint64
	homeTok   uint64
	pageTok   uint64
	detailTok uint64
}

// New creates a controller on the Home surface with favorites loaded from store.
func New(catalog services.CatalogService, store *favorites.Store, opts Options, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	opts = opts.withDefaults()

	c := &Controller{
		catalog: catalog,
		store:   store,
		rotator: banner.New(opts.BannerInterval),
		logger:  log.With("Controller"),
		opts:    opts,
		surface: SurfaceHome,
		itemsOf: SurfaceHome,
		items:   []models.CatalogItem{},
		favs:    []models.CatalogItem{},
	}
	if store != nil {
		c.favs = store.Load()
	}
	c.home = emptyHome()
	c.banner = []models.CatalogItem{}
	c.rotator.OnChange(func(index int) {
		c.logger.Debugf("banner advanced to slide %d", index)
	})
	return c
}

// State returns a deep copy of the current state.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Surface:        c.surface,
		PageTitle:      c.surface.Title(),
		Query:          c.query,
		Items:          models.CloneItems(c.items),
		Home:           cloneHome(c.home),
		Banner:         models.CloneItems(c.banner),
		BannerIndex:    c.rotator.Index(),
		Error:          c.errMsg,
		Favorites:      models.CloneItems(c.favs),
		FavoritesCount: len(c.favs),
		SelectedStream: c.stream,
		Loading: Loading{
			Home:   c.homeTok != 0,
			Page:   c.pageTok != 0,
			Detail: c.detailTok != 0,
		},
	}
	if c.surface == SurfaceDetail {
		s.Previous = c.previous
		if c.detail != nil {
			s.Detail = c.detail.Clone()
			if t := strings.TrimSpace(c.detail.Title); t != "" {
				s.PageTitle = t
			}
		}
	}
	return s
}

// EnterLatest shows the latest items.
func (c *Controller) EnterLatest(ctx context.Context) error {
	c.mu.Lock()
	c.enterList(SurfaceLatest, "")
	r := c.begin(&c.pageTok)
	c.mu.Unlock()
	defer c.release(r)

	items, err := c.catalog.FetchLatest(ctx)
	if err == nil {
		res := merge.MergeCounted([][]models.CatalogItem{items})
		c.logMerge(r.id, "latest", res)
		items = res.Items
	}
	return c.applyList(r, "latest", items, err)
}

// EnterRelease shows the merged release feed across the configured pages.
func (c *Controller) EnterRelease(ctx context.Context) error {
	c.mu.Lock()
	c.enterList(SurfaceRelease, "")
	r := c.begin(&c.pageTok)
	c.mu.Unlock()
	defer c.release(r)

	res, err := FetchAndMergeReleases(ctx, c.catalog, c.opts.ReleasePages, c.opts.PageConcurrency)
	if err == nil {
		c.logMerge(r.id, "release", res)
	}
	return c.applyList(r, "release", res.Items, err)
}

// ShowFavorites lists the saved items. It makes no network call.
func (c *Controller) ShowFavorites() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enterList(SurfaceFavorites, "")
	c.errMsg = ""
	c.items = favorites.Filter(c.favs, "")
}

// Search filters favorites in memory when the Favorites surface is active and
// queries the catalog otherwise. A blank query changes nothing.
func (c *Controller) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	c.mu.Lock()
	if c.surface == SurfaceFavorites {
		c.query = query
		c.errMsg = ""
		c.items = favorites.Filter(c.favs, query)
		c.mu.Unlock()
		return nil
	}
	c.enterList(SurfaceSearch, query)
	r := c.begin(&c.pageTok)
	c.mu.Unlock()
	defer c.release(r)

	items, err := c.catalog.Search(ctx, query)
	return c.applyList(r, "search", items, err)
}

// OpenDetail navigates to Detail and loads reference. On failure the previous
// surface is restored and the error recorded; Detail never shows an error.
func (c *Controller) OpenDetail(ctx context.Context, reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil
	}

	c.mu.Lock()
	if c.surface != SurfaceDetail {
		c.previous = c.surface
	}
	c.navigate(SurfaceDetail)
	c.detail = nil
	c.stream = 0
	r := c.begin(&c.detailTok)
	c.mu.Unlock()
	defer c.release(r)

	detail, err := c.catalog.FetchDetail(ctx, reference)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.settle(r) {
		c.logger.Debugf("[%s] discarding stale detail response", r.id)
		return nil
	}
	if err != nil {
		c.detail = nil
		c.stream = 0
		c.errMsg = apperrors.UserMessage(err)
		c.navigate(c.previous)
		c.logger.Warnf("[%s] detail failed: %v", r.id, err)
		return err
	}

	c.detail = detail
	c.stream = 0
	return nil
}

// CloseDetail drops the detail and returns to the surface it was opened from.
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.surface != SurfaceDetail {
		return
	}
	c.detail = nil
	c.stream = 0
	c.navigate(c.previous)
}

// ToggleFavorite adds or removes item and persists the result. It reports
// whether the item is a favorite afterwards.
func (c *Controller) ToggleFavorite(item models.CatalogItem) bool {
	if item.Identity() == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.favs = favorites.Toggle(item, c.favs)
	if c.itemsOf == SurfaceFavorites {
		c.items = favorites.Filter(c.favs, c.query)
	}
	if c.store != nil {
		if err := c.store.Save(c.favs); err != nil {
			c.logger.Warnf("favorites kept in memory only: %v", err)
		}
	}
	return favorites.Contains(c.favs, item)
}

// IsFavorite reports whether an item with item's identity is saved.
func (c *Controller) IsFavorite(item models.CatalogItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return favorites.Contains(c.favs, item)
}

// SelectStream picks a stream of the open detail, clamped to the valid range.
func (c *Controller) SelectStream(index int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.detail == nil {
		c.stream = 0
		return 0
	}
	c.stream = c.detail.ClampStream(index)
	return c.stream
}

// SelectBannerSlide jumps to slide index. Out of range indexes are ignored.
func (c *Controller) SelectBannerSlide(index int) bool {
	return c.rotator.Select(index)
}

// Close stops the banner timer and discards every in-flight response.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.seq++
	c.rotator.Stop()
}

// enterList switches to a list surface. Items from another surface are dropped.
func (c *Controller) enterList(s Surface, query string) {
	c.navigate(s)
	c.query = query
	if c.itemsOf != s {
		c.items = []models.CatalogItem{}
		c.itemsOf = s
	}
	c.detail = nil
	c.stream = 0
}

// navigate changes surface and invalidates every response issued before it.
// The banner only runs while Home is active.
func (c *Controller) navigate(s Surface) {
	c.surface = s
	c.seq++

	if s == SurfaceHome && len(c.banner) > 0 {
		c.rotator.SetCount(len(c.banner))
	} else if s != SurfaceHome {
		c.rotator.Stop()
	}
}

// begin starts a network operation: clears the error slot and takes
// ownership of the given loading flag.
func (c *Controller) begin(flag *uint64) request {
	c.tokens++
	*flag = c.tokens
	c.errMsg = ""
	return request{
		id:    uuid.NewString()[:8],
		seq:   c.seq,
		token: c.tokens,
		flag:  flag,
	}
}

// settle clears r's loading flag if r still owns it and reports whether r
// is still current. Callers hold the lock.
func (c *Controller) settle(r request) bool {
	if *r.flag == r.token {
		*r.flag = 0
	}
	return !c.closed && r.seq == c.seq
}

// release is the deferred counterpart of settle for paths that never apply.
func (c *Controller) release(r request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *r.flag == r.token {
		*r.flag = 0
	}
}

func (c *Controller) applyList(r request, op string, items []models.CatalogItem, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.settle(r) {
		c.logger.Debugf("[%s] discarding stale %s response", r.id, op)
		return nil
	}
	if err != nil {
		c.items = []models.CatalogItem{}
		c.errMsg = apperrors.UserMessage(err)
		c.logger.Warnf("[%s] %s failed: %v", r.id, op, err)
		return err
	}

	if items == nil {
		items = []models.CatalogItem{}
	}
	c.items = items
	c.logger.Debugf("[%s] %s loaded %d items", r.id, op, len(items))
	return nil
}

func emptyHome() HomeData {
	return HomeData{
		Latest:   []models.CatalogItem{},
		Releases: []models.CatalogItem{},
		Popular:  []models.CatalogItem{},
	}
}

func cloneHome(h HomeData) HomeData {
	return HomeData{
		Latest:   models.CloneItems(h.Latest),
		Releases: models.CloneItems(h.Releases),
		Popular:  models.CloneItems(h.Popular),
	}
}
