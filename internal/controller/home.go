package controller

import (
	"context"
	"sync"

	"github.com/amaumene/nekoview/internal/constants"
	apperrors "github.com/amaumene/nekoview/internal/errors"
	"github.com/amaumene/nekoview/internal/merge"
	"github.com/amaumene/nekoview/internal/models"
	"github.com/amaumene/nekoview/pkg/helpers"
)

// EnterHome navigates to Home and reloads its sections. The latest feed and
// the first release pages are fetched in parallel; any failure empties Home
// and records one error. The banner starts once the data is applied.
func (c *Controller) EnterHome(ctx context.Context) error {
	c.mu.Lock()
	c.enterList(SurfaceHome, "")
	r := c.begin(&c.homeTok)
	c.mu.Unlock()
	defer c.release(r)

	var (
		wg         sync.WaitGroup
		latest     []models.CatalogItem
		pages      [][]models.CatalogItem
		latestErr  error
		releaseErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		latest, latestErr = c.catalog.FetchLatest(ctx)
	}()
	go func() {
		defer wg.Done()
		pages, releaseErr = fetchReleasePages(ctx, c.catalog, c.opts.HomeReleasePages, c.opts.PageConcurrency)
	}()
	wg.Wait()

	err := latestErr
	if err == nil {
		err = releaseErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.settle(r) {
		c.logger.Debugf("[%s] discarding stale home response", r.id)
		return nil
	}
	if err != nil {
		c.home = emptyHome()
		c.banner = []models.CatalogItem{}
		c.rotator.Stop()
		c.errMsg = apperrors.UserMessage(err)
		c.logger.Warnf("[%s] home failed: %v", r.id, err)
		return err
	}

	c.home, c.banner = c.buildHome(r.id, latest, pages)
	c.rotator.SetCount(len(c.banner))
	c.logger.Debugf("[%s] home loaded: %d latest, %d releases, %d slides",
		r.id, len(c.home.Latest), len(c.home.Releases), len(c.banner))
	return nil
}

// buildHome derives the Home sections from the latest feed and the release pages.
func (c *Controller) buildHome(id string, latest []models.CatalogItem, pages [][]models.CatalogItem) (HomeData, []models.CatalogItem) {
	latestRes := merge.MergeCounted([][]models.CatalogItem{latest})
	c.logMerge(id, "home latest", latestRes)
	releaseRes := merge.MergeCounted(pages)
	c.logMerge(id, "home releases", releaseRes)

	latest = helpers.Truncate(latestRes.Items, constants.HomeLatestCount)
	releases := helpers.Truncate(releaseRes.Items, constants.HomeReleaseCount)

	slides := []models.CatalogItem{}
	if len(pages) > 0 {
		slides = helpers.Truncate(merge.Merge(pages[:1]), constants.BannerCount)
	}

	popular := merge.Merge([][]models.CatalogItem{
		helpers.Truncate(latest, constants.PopularPrefix),
		helpers.Truncate(releases, constants.PopularPrefix),
	})

	return HomeData{
		Latest:   models.CloneItems(latest),
		Releases: models.CloneItems(releases),
		Popular:  popular,
	}, models.CloneItems(slides)
}
