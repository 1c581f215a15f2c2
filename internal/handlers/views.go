package handlers

import (
	"github.com/amaumene/nekoview/internal/constants"
	"github.com/amaumene/nekoview/internal/controller"
	"github.com/amaumene/nekoview/internal/favorites"
	"github.com/amaumene/nekoview/internal/models"
	"github.com/amaumene/nekoview/pkg/helpers"
)

// CardView is one catalog item as rendered in a grid or carousel.
type CardView struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	CleanTitle string             `json:"cleanTitle"`
	Image      string             `json:"image"`
	Badge      string             `json:"badge,omitempty"`
	Episode    int                `json:"episode,omitempty"`
	Resolution string             `json:"resolution,omitempty"`
	Duration   string             `json:"duration,omitempty"`
	Upload     string             `json:"upload,omitempty"`
	Genres     []string           `json:"genres"`
	MoreGenres int                `json:"moreGenres,omitempty"`
	Favorite   bool               `json:"favorite"`
	Item       models.CatalogItem `json:"item"`
}

type StreamView struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	Selected bool   `json:"selected"`
}

type DetailView struct {
	Title     string                 `json:"title"`
	Info      string                 `json:"info,omitempty"`
	Duration  string                 `json:"duration,omitempty"`
	Size      string                 `json:"size,omitempty"`
	Synopsis  string                 `json:"synopsis,omitempty"`
	Genres    []string               `json:"genres"`
	Streams   []StreamView           `json:"streams"`
	Player    string                 `json:"player,omitempty"`
	Downloads []models.DownloadGroup `json:"downloads"`
}

type HomeView struct {
	Latest   []CardView `json:"latest"`
	Releases []CardView `json:"releases"`
	Popular  []CardView `json:"popular"`
}

// StateView is the payload of every state-returning route.
type StateView struct {
	Surface        controller.Surface `json:"surface"`
	Previous       controller.Surface `json:"previous,omitempty"`
	PageTitle      string             `json:"pageTitle"`
	Query          string             `json:"query,omitempty"`
	Items          []CardView         `json:"items"`
	Home           HomeView           `json:"home"`
	Banner         []CardView         `json:"banner"`
	BannerIndex    int                `json:"bannerIndex"`
	Loading        controller.Loading `json:"loading"`
	Error          string             `json:"error,omitempty"`
	FavoritesCount int                `json:"favoritesCount"`
	Detail         *DetailView        `json:"detail,omitempty"`
}

// BuildState renders a controller snapshot for the presentation layer.
func BuildState(s controller.Snapshot) StateView {
	cards := func(items []models.CatalogItem) []CardView {
		out := make([]CardView, 0, len(items))
		for _, it := range items {
			out = append(out, BuildCard(it, favorites.Contains(s.Favorites, it)))
		}
		return out
	}

	view := StateView{
		Surface:        s.Surface,
		Previous:       s.Previous,
		PageTitle:      s.PageTitle,
		Query:          s.Query,
		Items:          cards(s.Items),
		Home:           HomeView{Latest: cards(s.Home.Latest), Releases: cards(s.Home.Releases), Popular: cards(s.Home.Popular)},
		Banner:         cards(s.Banner),
		BannerIndex:    s.BannerIndex,
		Loading:        s.Loading,
		Error:          s.Error,
		FavoritesCount: s.FavoritesCount,
	}
	if s.Detail != nil {
		view.Detail = BuildDetail(s.Detail, s.SelectedStream)
	}
	return view
}

// BuildCard renders one item. Images always go through the proxy.
func BuildCard(item models.CatalogItem, favorite bool) CardView {
	info := models.ParseTitle(item.Title)
	genres := []string(item.Genres)
	more := 0
	if len(genres) > constants.CardGenreLimit {
		more = len(genres) - constants.CardGenreLimit
		genres = genres[:constants.CardGenreLimit]
	}
	if genres == nil {
		genres = []string{}
	}

	return CardView{
		ID:         item.Identity(),
		Title:      item.Title,
		CleanTitle: info.Clean,
		Image:      helpers.ProxyImage(item.ImageRef()),
		Badge:      info.Badge,
		Episode:    info.Episode,
		Resolution: info.Resolution,
		Duration:   item.Duration,
		Upload:     item.Upload,
		Genres:     append([]string{}, genres...),
		MoreGenres: more,
		Favorite:   favorite,
		Item:       item,
	}
}

// BuildDetail renders a detail with the selected stream marked.
func BuildDetail(d *models.ItemDetail, selected int) *DetailView {
	selected = d.ClampStream(selected)

	streams := make([]StreamView, 0, len(d.Streams))
	player := ""
	for i, st := range d.Streams {
		streams = append(streams, StreamView{Label: st.Label, URL: st.URL, Selected: i == selected})
		if i == selected {
			player = st.URL
		}
	}

	downloads := d.Downloads
	if downloads == nil {
		downloads = []models.DownloadGroup{}
	}
	genres := d.Genres()
	if genres == nil {
		genres = []string{}
	}

	return &DetailView{
		Title:     d.Title,
		Info:      d.Info,
		Duration:  d.Duration,
		Size:      d.Size,
		Synopsis:  d.Synopsis,
		Genres:    genres,
		Streams:   streams,
		Player:    player,
		Downloads: downloads,
	}
}
