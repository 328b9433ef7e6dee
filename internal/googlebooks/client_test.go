package googlebooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/config"
)

const twoVolumes = `{
	"totalItems": 3,
	"items": [
		{
			"id": "zyTCAlFPjgYC",
			"volumeInfo": {
				"title": "The Google Story",
				"authors": ["David A. Vise", "Mark Malseed"],
				"publisher": "Random House Publishing Group",
				"publishedDate": "2005-11-15",
				"description": "Here is the story behind one of the most remarkable Internet successes.",
				"industryIdentifiers": [
					{"type": "OTHER", "identifier": "UOM:39015061343026"},
					{"type": "ISBN_10", "identifier": "055380457X"},
					{"type": "ISBN_13", "identifier": "9780553804577"},
					{"type": "ISBN_13", "identifier": "9780553904577"}
				],
				"pageCount": 207,
				"categories": ["Business & Economics", "Biography"],
				"imageLinks": {
					"smallThumbnail": "http://books.google.com/small.jpg",
					"thumbnail": "http://books.google.com/thumb.jpg",
					"medium": "http://books.google.com/medium.jpg"
				},
				"language": "en",
				"previewLink": "http://books.google.com/preview",
				"infoLink": "http://books.google.com/info"
			}
		},
		{"id": "no-info"},
		{
			"id": "bare",
			"volumeInfo": {"title": "Bare"}
		}
	]
}`

func newTestClient(t *testing.T, h http.HandlerFunc, mutate func(*config.GoogleBooks)) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.GoogleBooks{BaseURL: srv.URL + "/volumes", Timeout: 2 * time.Second, MaxResults: 40}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, zap.NewNop()), &calls
}

func TestSearchShortQuerySkipsProvider(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(twoVolumes))
	}, nil)

	for _, q := range []string{"", "  ", "ab", "  ab  ", "é "} {
		got := c.Search(context.Background(), q, 10)
		require.NotNil(t, got)
		require.Empty(t, got, "query %q", q)
	}
	require.Zero(t, atomic.LoadInt32(calls))
}

func TestSearchNormalizesVolumes(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "/volumes", r.URL.Path)
		require.Equal(t, "google story", q.Get("q"))
		require.Equal(t, "5", q.Get("maxResults"))
		require.Equal(t, "books", q.Get("printType"))
		require.Equal(t, "lite", q.Get("projection"))
		require.Empty(t, q.Get("key"))
		_, _ = w.Write([]byte(twoVolumes))
	}, nil)

	got := c.Search(context.Background(), "  google story ", 5)
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
	require.Len(t, got, 2)

	s := got[0]
	require.Equal(t, "zyTCAlFPjgYC", s.ExternalID)
	require.Equal(t, "The Google Story", s.Title)
	require.Equal(t, "David A. Vise, Mark Malseed", s.Authors)
	require.Equal(t, "Business & Economics, Biography", s.Categories)
	require.Equal(t, "9780553804577", s.ISBN13)
	require.Equal(t, "055380457X", s.ISBN10)
	require.Equal(t, 207, s.PageCount)
	require.Equal(t, "2005-11-15", s.PublishedDate)
	require.Equal(t, "Random House Publishing Group", s.Publisher)
	require.Equal(t, "en", s.Language)
	require.Equal(t, "http://books.google.com/small.jpg", s.SmallThumbnail)
	require.Equal(t, "http://books.google.com/thumb.jpg", s.Thumbnail)
	require.Equal(t, "http://books.google.com/medium.jpg", s.Medium)
	require.Empty(t, s.Small)
	require.Empty(t, s.Large)
	require.Equal(t, "http://books.google.com/preview", s.PreviewLink)
	require.Equal(t, "http://books.google.com/info", s.InfoLink)

	bare := got[1]
	require.Equal(t, "bare", bare.ExternalID)
	require.Empty(t, bare.ISBN13)
	require.Empty(t, bare.ISBN10)
	require.Empty(t, bare.Authors)
	require.Empty(t, bare.Thumbnail)
}

func TestSearchCapsMaxResults(t *testing.T) {
	var seen []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Query().Get("maxResults"))
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	}, nil)

	c.Search(context.Background(), "golang", 500)
	c.Search(context.Background(), "golang", 0)
	c.Search(context.Background(), "golang", 40)
	require.Equal(t, []string{"40", "10", "40"}, seen)
}

func TestSearchSendsAPIKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"items":[]}`))
	}, func(cfg *config.GoogleBooks) { cfg.APIKey = "secret-key" })

	require.Empty(t, c.Search(context.Background(), "golang", 3))
}

func TestSearchDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		mutate  func(*config.GoogleBooks)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"items": [`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
			mutate: func(cfg *config.GoogleBooks) { cfg.Timeout = 50 * time.Millisecond },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newTestClient(t, tt.handler, tt.mutate)
			got := c.Search(context.Background(), "golang", 10)
			require.NotNil(t, got)
			require.Empty(t, got)
			require.EqualValues(t, 1, atomic.LoadInt32(calls))
		})
	}
}

func TestSearchUnreachableProvider(t *testing.T) {
	c := New(config.GoogleBooks{BaseURL: "http://127.0.0.1:1/volumes", Timeout: time.Second}, zap.NewNop())
	require.Empty(t, c.Search(context.Background(), "golang", 10))
}

func TestSearchLocalRateLimit(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(twoVolumes))
	}, func(cfg *config.GoogleBooks) {
		cfg.RPS = 0.001
		cfg.Burst = 1
	})

	require.Len(t, c.Search(context.Background(), "golang", 10), 2)
	require.Empty(t, c.Search(context.Background(), "golang", 10))
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
}
