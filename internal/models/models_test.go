package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityPrecedence(t *testing.T) {
	tests := []struct {
		name string
		item CatalogItem
		want string
	}{
		{"both fields prefer link", CatalogItem{Link: "https://a/1", URL: "https://b/1"}, "https://a/1"},
		{"only url", CatalogItem{URL: "https://b/2"}, "https://b/2"},
		{"only link", CatalogItem{Link: "https://a/3"}, "https://a/3"},
		{"blank link falls back", CatalogItem{Link: "  ", URL: "https://b/4"}, "https://b/4"},
		{"neither", CatalogItem{Title: "orphan"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Identity())
			assert.Equal(t, tt.want != "", tt.item.Valid())
		})
	}
}

func TestImageRefPrecedence(t *testing.T) {
	assert.Equal(t, "i1", CatalogItem{Image: "i1", Img: "i2"}.ImageRef())
	assert.Equal(t, "i2", CatalogItem{Img: "i2"}.ImageRef())
}

func TestDecodeCatalogItem(t *testing.T) {
	raw := `[
		{"title":"[NEW] Show 01","url":"https://x/1","img":"https://x/1.jpg","duration":"24 min","genre":["Comedy","Drama"]},
		{"title":"Other","link":"https://x/2","genre":"Action, Romance ,"},
		{"title":"Bare","link":"https://x/3","genre":null}
	]`

	var items []CatalogItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	require.Len(t, items, 3)

	assert.Equal(t, "https://x/1", items[0].Identity())
	assert.Equal(t, "https://x/1.jpg", items[0].ImageRef())
	assert.Equal(t, GenreList{"Comedy", "Drama"}, items[0].Genres)
	assert.Equal(t, GenreList{"Action", "Romance"}, items[1].Genres)
	assert.Nil(t, items[2].Genres)
}

func TestGenreListRejectsGarbage(t *testing.T) {
	var item CatalogItem
	assert.Error(t, json.Unmarshal([]byte(`{"genre":42}`), &item))
}

func TestCloneItemsIsDeep(t *testing.T) {
	orig := []CatalogItem{{Link: "a", Genres: GenreList{"x"}}}
	cp := CloneItems(orig)
	cp[0].Genres[0] = "changed"

	assert.Equal(t, "x", orig[0].Genres[0])
	assert.Nil(t, CloneItems(nil))
}

func TestEmptyGenresSurviveCloneAndJSON(t *testing.T) {
	item := CatalogItem{Link: "a", Genres: GenreList{}}

	cp := item.Clone()
	assert.NotNil(t, cp.Genres)
	assert.Empty(t, cp.Genres)

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"genre":[]`)

	var decoded CatalogItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotNil(t, decoded.Genres)
	assert.Empty(t, decoded.Genres)

	assert.Nil(t, CatalogItem{Link: "b"}.Clone().Genres)
}

func TestDetailGenresAndClamp(t *testing.T) {
	d := &ItemDetail{
		Genre:   "Comedy, , Drama",
		Streams: []Stream{{Label: "A"}, {Label: "B"}},
	}
	assert.Equal(t, []string{"Comedy", "Drama"}, d.Genres())
	assert.Equal(t, 0, d.ClampStream(-3))
	assert.Equal(t, 1, d.ClampStream(1))
	assert.Equal(t, 1, d.ClampStream(9))
	assert.Equal(t, 0, (&ItemDetail{}).ClampStream(2))

	var nilDetail *ItemDetail
	assert.Equal(t, 0, nilDetail.ClampStream(1))
}

func TestDecodeDetail(t *testing.T) {
	raw := `{"success":true,"data":{"title":"T","info":"I","sinopsis":"S",
		"streams":[{"name":"Mirror 1","url":"https://p/1"}],
		"download":[{"type":"mp4","title":"720p","links":[{"name":"GDrive","link":"https://d/1"}]}]}}`

	var resp DetailResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	require.NotNil(t, resp.Data)

	assert.Equal(t, "S", resp.Data.Synopsis)
	assert.Equal(t, "Mirror 1", resp.Data.Streams[0].Label)
	assert.Equal(t, "https://d/1", resp.Data.Downloads[0].Links[0].URL)

	cp := resp.Data.Clone()
	cp.Downloads[0].Links[0].URL = "changed"
	assert.Equal(t, "https://d/1", resp.Data.Downloads[0].Links[0].URL)
}

func TestBadge(t *testing.T) {
	assert.Equal(t, "NEW", Badge("[NEW Release] Show"))
	assert.Equal(t, "UNCENSORED", Badge("Show [UNCENSORED]"))
	assert.Equal(t, "3D", Badge("[3D] Show"))
	assert.Equal(t, "L2D", Badge("[L2D] Show"))
	assert.Equal(t, "NEW", Badge("[L2D] [NEW] Show"))
	assert.Equal(t, "", Badge("Plain show"))
	assert.Equal(t, "", Badge(""))
	assert.Equal(t, "", Badge("Show [new]"))
	assert.Equal(t, "", Badge("[Uncensored] Show"))
	assert.Equal(t, "", Badge("[3d] Show"))
}

func TestParseTitleTags(t *testing.T) {
	info := ParseTitle("[NEW] [3D]  Some Show  ")
	assert.Equal(t, []string{"NEW", "3D"}, info.Tags)
	assert.Equal(t, "NEW", info.Badge)
	assert.Equal(t, "Some Show", info.Clean)

	empty := ParseTitle("[NEW]")
	assert.Equal(t, "", empty.Clean)
}
