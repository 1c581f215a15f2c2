package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/amaumene/nekoview/internal/constants"
	"github.com/amaumene/nekoview/internal/merge"
	"github.com/amaumene/nekoview/internal/models"
)

// ReleaseFetcher is the part of the catalog client needed for aggregation.
type ReleaseFetcher interface {
	FetchReleasePage(ctx context.Context, page int) ([]models.CatalogItem, error)
}

// FetchAndMergeReleases fetches release pages 1..pages and merges them in page
// order. Every page must succeed; the first failure is returned once all
// in-flight pages have settled.
func FetchAndMergeReleases(ctx context.Context, client ReleaseFetcher, pages, concurrency int) (merge.Result, error) {
	fetched, err := fetchReleasePages(ctx, client, pages, concurrency)
	if err != nil {
		return merge.Result{}, err
	}
	return merge.MergeCounted(fetched), nil
}

// logMerge reports what a merge discarded.
func (c *Controller) logMerge(id, op string, res merge.Result) {
	if res.Dropped > 0 {
		c.logger.Warnf("[%s] %s: dropped %d items without identity", id, op, res.Dropped)
	}
	if res.Duplicates > 0 {
		c.logger.Debugf("[%s] %s: skipped %d duplicate items", id, op, res.Duplicates)
	}
}

func fetchReleasePages(ctx context.Context, client ReleaseFetcher, pages, concurrency int) ([][]models.CatalogItem, error) {
	if pages <= 0 {
		return [][]models.CatalogItem{}, nil
	}
	if concurrency <= 0 {
		concurrency = constants.PageConcurrency
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	results := make([][]models.CatalogItem, pages)
	sem := make(chan struct{}, concurrency)

	for i := 0; i < pages; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				if firstErr == nil {
					firstErr = ctx.Err()
				}
				mu.Unlock()
				return
			}

			items, err := client.FetchReleasePage(ctx, idx+1)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("release page %d: %w", idx+1, err)
					cancel()
				}
				return
			}
			results[idx] = items
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
