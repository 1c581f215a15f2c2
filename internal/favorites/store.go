// Package favorites persists the user's saved catalog items and provides the
// pure set operations used to change them.
package favorites

import (
	"encoding/json"
	"strings"

	"github.com/amaumene/nekoview/internal/database"
	apperrors "github.com/amaumene/nekoview/internal/errors"
	"github.com/amaumene/nekoview/internal/models"
	"github.com/amaumene/nekoview/pkg/logger"
)

// Store reads and writes the favorites list as one JSON array under a fixed key.
type Store struct {
	kv     database.KV
	key    string
	logger logger.Logger
}

// NewStore creates a store over kv. A nil kv behaves as an unavailable store.
func NewStore(kv database.KV, key string, log logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		kv:     kv,
		key:    key,
		logger: log.With("Favorites"),
	}
}

// Load returns the persisted favorites. A missing key, an unparseable payload
// or an unavailable store all yield an empty list; the failure is only logged.
func (s *Store) Load() []models.CatalogItem {
	if s.kv == nil {
		s.logger.Warnf("store unavailable, starting with no favorites")
		return []models.CatalogItem{}
	}

	raw, found, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Errorf("%v", apperrors.NewPersistenceError("failed to read favorites", err))
		return []models.CatalogItem{}
	}
	if !found || strings.TrimSpace(raw) == "" {
		return []models.CatalogItem{}
	}

	var items []models.CatalogItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warnf("%v", apperrors.NewPersistenceError("discarding corrupt favorites payload", err))
		return []models.CatalogItem{}
	}
	if items == nil {
		items = []models.CatalogItem{}
	}

	s.logger.Debugf("loaded %d favorites", len(items))
	return items
}

// Save persists the full list. Failures come back as PersistenceError; the
// caller's in-memory list stays authoritative either way.
func (s *Store) Save(items []models.CatalogItem) error {
	if s.kv == nil {
		return apperrors.NewPersistenceError("store unavailable", nil)
	}
	if items == nil {
		items = []models.CatalogItem{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return apperrors.NewPersistenceError("failed to encode favorites", err)
	}
	if err := s.kv.Set(s.key, string(payload)); err != nil {
		return apperrors.NewPersistenceError("failed to write favorites", err)
	}
	return nil
}

// Toggle removes item from current when its identity is present and appends
// it otherwise. current is never modified. Items without identity are ignored.
func Toggle(item models.CatalogItem, current []models.CatalogItem) []models.CatalogItem {
	id := item.Identity()
	if id == "" {
		return append([]models.CatalogItem{}, current...)
	}

	next := make([]models.CatalogItem, 0, len(current)+1)
	removed := false
	for _, fav := range current {
		if fav.Identity() == id {
			removed = true
			continue
		}
		next = append(next, fav)
	}
	if !removed {
		next = append(next, item.Clone())
	}
	return next
}

// Contains reports whether an item with the same identity is in items.
func Contains(items []models.CatalogItem, item models.CatalogItem) bool {
	id := item.Identity()
	if id == "" {
		return false
	}
	for _, fav := range items {
		if fav.Identity() == id {
			return true
		}
	}
	return false
}

// Filter keeps items whose title contains query, ignoring case.
// A blank query returns a copy of items.
func Filter(items []models.CatalogItem, query string) []models.CatalogItem {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.CatalogItem, 0, len(items))
	for _, it := range items {
		if query == "" || strings.Contains(strings.ToLower(it.Title), query) {
			out = append(out, it)
		}
	}
	return out
}
