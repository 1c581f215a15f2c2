// Package models holds the catalog data types and the wire shapes of the catalog API.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CatalogItem is one listing as returned by the catalog API.
// The raw reference and image fields are kept so a persisted item
// round-trips exactly; use Identity and ImageRef to read them.
type CatalogItem struct {
	Link     string    `json:"link,omitempty"`
	URL      string    `json:"url,omitempty"`
	Title    string    `json:"title"`
	Image    string    `json:"image,omitempty"`
	Img      string    `json:"img,omitempty"`
	Duration string    `json:"duration,omitempty"`
	Upload   string    `json:"upload,omitempty"`
	Genres   GenreList `json:"genre"`
}

// Identity is the canonical reference URL: link first, then url.
func (i CatalogItem) Identity() string {
	if link := strings.TrimSpace(i.Link); link != "" {
		return link
	}
	return strings.TrimSpace(i.URL)
}

// Valid reports whether the item has a derivable identity.
func (i CatalogItem) Valid() bool {
	return i.Identity() != ""
}

// ImageRef returns the remote image URL: image first, then img.
func (i CatalogItem) ImageRef() string {
	if i.Image != "" {
		return i.Image
	}
	return i.Img
}

// Clone returns a copy that shares no slices with i.
func (i CatalogItem) Clone() CatalogItem {
	if i.Genres != nil {
		i.Genres = append(GenreList{}, i.Genres...)
	}
	return i
}

// CloneItems deep-copies a slice of items. nil stays nil.
func CloneItems(items []CatalogItem) []CatalogItem {
	if items == nil {
		return nil
	}
	out := make([]CatalogItem, len(items))
	for idx, it := range items {
		out[idx] = it.Clone()
	}
	return out
}

// GenreList decodes either a JSON array of strings or a comma separated string.
type GenreList []string

func (g *GenreList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*g = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode genre string: %w", err)
		}
		*g = SplitGenres(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("failed to decode genre list: %w", err)
	}
	*g = list
	return nil
}

// SplitGenres splits a comma separated genre line, trimming and dropping blanks.
func SplitGenres(line string) []string {
	var genres []string
	for _, part := range strings.Split(line, ",") {
		if part = strings.TrimSpace(part); part != "" {
			genres = append(genres, part)
		}
	}
	return genres
}

// ItemDetail is the expanded record for one catalog item.
type ItemDetail struct {
	Title     string          `json:"title"`
	Info      string          `json:"info"`
	Duration  string          `json:"duration"`
	Size      string          `json:"size"`
	Genre     string          `json:"genre"`
	Synopsis  string          `json:"sinopsis"`
	Streams   []Stream        `json:"streams"`
	Downloads []DownloadGroup `json:"download"`
}

// Stream is one online playback option.
type Stream struct {
	Label string `json:"name"`
	URL   string `json:"url"`
}

// DownloadGroup collects the download mirrors of one quality.
type DownloadGroup struct {
	Type  string         `json:"type"`
	Title string         `json:"title"`
	Links []DownloadLink `json:"links"`
}

type DownloadLink struct {
	Label string `json:"name"`
	URL   string `json:"link"`
}

// Genres splits the genre line on demand.
func (d *ItemDetail) Genres() []string {
	return SplitGenres(d.Genre)
}

// ClampStream bounds index to the available streams; 0 when there are none.
func (d *ItemDetail) ClampStream(index int) int {
	if d == nil || len(d.Streams) == 0 || index < 0 {
		return 0
	}
	if index >= len(d.Streams) {
		return len(d.Streams) - 1
	}
	return index
}

// Clone deep-copies the detail.
func (d *ItemDetail) Clone() *ItemDetail {
	if d == nil {
		return nil
	}
	out := *d
	if d.Streams != nil {
		out.Streams = append([]Stream(nil), d.Streams...)
	}
	if d.Downloads != nil {
		out.Downloads = make([]DownloadGroup, len(d.Downloads))
		for i, group := range d.Downloads {
			group.Links = append([]DownloadLink(nil), group.Links...)
			out.Downloads[i] = group
		}
	}
	return &out
}
