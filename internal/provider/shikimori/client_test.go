package shikimori

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/frameguessr/frameguessr-server/internal/content"
	"github.com/frameguessr/frameguessr-server/internal/ratelimit"
	"github.com/frameguessr/frameguessr-server/internal/transport"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	limiter := ratelimit.New(time.Millisecond)
	tc := transport.New(limiter, time.Hour, slog.New(slog.DiscardHandler))

	c := New(tc, slog.New(slog.DiscardHandler))
	c.baseURL = srv.URL
	return c
}

func TestDiscoverPage(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/animes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write(fixture(t, "animes_page.json"))
	}))

	candidates, err := c.DiscoverPage(context.Background(), nil, 3)
	if err != nil {
		t.Fatalf("DiscoverPage() failed: %v", err)
	}

	if gotQuery.Get("page") != "3" {
		t.Errorf("page = %q, want 3", gotQuery.Get("page"))
	}
	if gotQuery.Get("limit") != "5" {
		t.Errorf("limit = %q, want 5", gotQuery.Get("limit"))
	}
	if gotQuery.Get("kind") != "tv" || gotQuery.Get("status") != "released" {
		t.Errorf("default params missing: kind=%q status=%q", gotQuery.Get("kind"), gotQuery.Get("status"))
	}

	if len(candidates) != 3 {
		t.Fatalf("got %d candidates, want 3", len(candidates))
	}

	first := candidates[0]
	if first.ID != 16498 {
		t.Errorf("ID = %d, want 16498", first.ID)
	}
	if first.PrimaryName != "Shingeki no Kyojin" {
		t.Errorf("PrimaryName = %q", first.PrimaryName)
	}
	if first.SecondaryName != "Атака титанов" {
		t.Errorf("SecondaryName = %q", first.SecondaryName)
	}
	if first.PosterImage != "https://shikimori.one/system/animes/original/16498.jpg" {
		t.Errorf("relative poster not expanded: %q", first.PosterImage)
	}
	if first.DetailURL != "https://shikimori.one/animes/16498" {
		t.Errorf("DetailURL = %q", first.DetailURL)
	}

	// Already-absolute image URLs pass through untouched.
	if candidates[2].PosterImage != "https://desu.shikimori.one/uploads/poster/animes/5114/main.webp" {
		t.Errorf("absolute poster mangled: %q", candidates[2].PosterImage)
	}
}

func TestFetchImages(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/animes/16498/screenshots" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(fixture(t, "screenshots.json"))
	}))

	images, err := c.FetchImages(context.Background(), 16498)
	if err != nil {
		t.Fatalf("FetchImages() failed: %v", err)
	}
	if len(images) != 7 {
		t.Fatalf("got %d images, want 7", len(images))
	}
	if images[0] != "https://shikimori.one/system/screenshots/original/1.jpg" {
		t.Errorf("image URL not expanded: %q", images[0])
	}
}

func TestSearch_ShortQuerySkipsNetwork(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("short query must not reach the network")
	}))

	// "я" is one rune but two bytes; the length guard counts runes.
	for _, q := range []string{"", "a", " a ", "я"} {
		results, err := c.Search(context.Background(), q, nil)
		if err != nil {
			t.Errorf("Search(%q) failed: %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("Search(%q) returned %d results, want 0", q, len(results))
		}
	}
}

func TestSearch(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write(fixture(t, "animes_page.json"))
	}))

	results, err := c.Search(context.Background(), "  titan  ", nil)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}

	if gotQuery.Get("search") != "titan" {
		t.Errorf("search = %q, want trimmed query", gotQuery.Get("search"))
	}
	if gotQuery.Get("limit") != "10" {
		t.Errorf("limit = %q, want 10", gotQuery.Get("limit"))
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].PreviewImage != "https://shikimori.one/system/animes/preview/16498.jpg" {
		t.Errorf("preview not expanded: %q", results[0].PreviewImage)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		filters content.FilterSet
		want    map[string]string
		absent  []string
	}{
		{
			name:    "defaults",
			filters: nil,
			want:    map[string]string{"kind": "tv", "status": "released", "order": "popularity"},
			absent:  []string{"score", "season", "duration", "genre"},
		},
		{
			name: "arrays comma joined",
			filters: content.FilterSet{
				"kind":  []any{"tv", "movie"},
				"genre": []any{float64(1), float64(22)},
			},
			want: map[string]string{"kind": "tv,movie", "genre": "1,22"},
		},
		{
			name:    "zero score omitted",
			filters: content.FilterSet{"score": float64(0)},
			absent:  []string{"score"},
		},
		{
			name:    "score set",
			filters: content.FilterSet{"score": float64(7.5)},
			want:    map[string]string{"score": "7.5"},
		},
		{
			name:    "season passthrough",
			filters: content.FilterSet{"season": "summer_2013"},
			want:    map[string]string{"season": "summer_2013"},
		},
		{
			name:    "duration single token",
			filters: content.FilterSet{"duration": []any{"D", "F"}},
			want:    map[string]string{"duration": "D"},
		},
		{
			name:    "unrecognized keys dropped",
			filters: content.FilterSet{"with_genres": []any{"28"}, "bogus": "x"},
			absent:  []string{"with_genres", "bogus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.filters)
			for key, want := range tt.want {
				if got.Get(key) != want {
					t.Errorf("%s = %q, want %q", key, got.Get(key), want)
				}
			}
			for _, key := range tt.absent {
				if got.Has(key) {
					t.Errorf("%s should be absent, got %q", key, got.Get(key))
				}
			}
		})
	}
}
