// Package merge combines multi-page catalog results into one ordered,
// duplicate-free collection.
package merge

import "github.com/amaumene/nekoview/internal/models"

// Result is the outcome of a merge.
type Result struct {
	Items []models.CatalogItem
	// Dropped counts items discarded for lacking an identity.
	Dropped int
	// Duplicates counts items discarded because their identity was already seen.
	Duplicates int
}

// MergeCounted concatenates pages in order and keeps the first occurrence of
// every identity. Items without an identity are dropped and counted.
func MergeCounted(pages [][]models.CatalogItem) Result {
	total := 0
	for _, page := range pages {
		total += len(page)
	}

	res := Result{Items: make([]models.CatalogItem, 0, total)}
	seen := make(map[string]struct{}, total)
	for _, page := range pages {
		for _, item := range page {
			id := item.Identity()
			if id == "" {
				res.Dropped++
				continue
			}
			if _, dup := seen[id]; dup {
				res.Duplicates++
				continue
			}
			seen[id] = struct{}{}
			res.Items = append(res.Items, item)
		}
	}
	return res
}

// Merge is MergeCounted without the counters.
func Merge(pages [][]models.CatalogItem) []models.CatalogItem {
	return MergeCounted(pages).Items
}
