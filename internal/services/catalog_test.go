package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/amaumene/nekoview/internal/errors"
	"github.com/amaumene/nekoview/pkg/ratelimiter"
)

func newTestCatalog(t *testing.T, handler http.HandlerFunc) (*Catalog, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewCatalog(srv.URL+"/", nil)
	c.SetHTTPClient(srv.Client())
	c.SetRateLimiter(ratelimiter.Unlimited())
	return c, &hits
}

func TestFetchLatest(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		w.Write([]byte(`{"success":true,"results":[{"title":"A","url":"https://x/a"},{"title":"B","link":"https://x/b"}]}`))
	})

	items, err := c.FetchLatest(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://x/a", items[0].Identity())
}

func TestFetchLatestUnsuccessful(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	})

	_, err := c.FetchLatest(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsRemote(err))
}

func TestFetchLatestServerError(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.FetchLatest(context.Background())
	assert.True(t, apperrors.IsRemote(err))
}

func TestFetchLatestMalformedBody(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	})

	_, err := c.FetchLatest(context.Background())
	assert.True(t, apperrors.IsRemote(err))
}

func TestFetchReleasePage(t *testing.T) {
	c, hits := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/release/3", r.URL.Path)
		w.Write([]byte(`{"data":[{"title":"A","link":"https://x/a"}]}`))
	})

	items, err := c.FetchReleasePage(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = c.FetchReleasePage(context.Background(), 0)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestFetchReleasePageWithoutData(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	items, err := c.FetchReleasePage(context.Background(), 40)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSearchEncodesQuery(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/one%20piece%2Fred", r.URL.EscapedPath())
		w.Write([]byte(`{"data":[{"title":"One Piece","link":"https://x/op"}]}`))
	})

	items, err := c.Search(context.Background(), "  one piece/red ")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSearchWithoutDataIsEmptySuccess(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"nothing"}`))
	})

	items, err := c.Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearchBlankQueryMakesNoRequest(t *testing.T) {
	c, hits := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected request")
	})

	_, err := c.Search(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.False(t, apperrors.IsRemote(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestFetchDetail(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "https://x/a?ep=1", r.URL.Query().Get("url"))
		w.Write([]byte(`{"success":true,"data":{"title":"A","genre":"Comedy, Drama","streams":[{"name":"S1","url":"https://p/1"}]}}`))
	})

	detail, err := c.FetchDetail(context.Background(), "https://x/a?ep=1")
	require.NoError(t, err)
	assert.Equal(t, "A", detail.Title)
	assert.Equal(t, []string{"Comedy", "Drama"}, detail.Genres())
	assert.Len(t, detail.Streams, 1)
}

func TestFetchDetailNotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"success false", http.StatusOK, `{"success":false}`},
		{"missing data", http.StatusOK, `{"success":true}`},
		{"404", http.StatusNotFound, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.FetchDetail(context.Background(), "https://x/a")
			require.Error(t, err)
			assert.True(t, apperrors.IsNotFound(err))
			assert.False(t, apperrors.IsRemote(err))
		})
	}
}

func TestFetchDetailTransportFailure(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchDetail(context.Background(), "https://x/a")
	assert.True(t, apperrors.IsRemote(err))

	_, err = c.FetchDetail(context.Background(), " ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestCancelledContext(t *testing.T) {
	c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"results":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchLatest(ctx)
	assert.True(t, apperrors.IsRemote(err))
}
