package tmdb

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

	c := New(tc, "test-token", slog.New(slog.DiscardHandler))
	c.baseURL = srv.URL
	return c
}

func TestDiscoverPage(t *testing.T) {
	var gotQuery url.Values
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Write(fixture(t, "discover_page.json"))
	}))

	candidates, err := c.DiscoverPage(context.Background(), nil, 2)
	if err != nil {
		t.Fatalf("DiscoverPage() failed: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotQuery.Get("page") != "2" {
		t.Errorf("page = %q, want 2", gotQuery.Get("page"))
	}
	if gotQuery.Get("sort_by") != "vote_average.desc" || gotQuery.Get("vote_count.gte") != "100" {
		t.Errorf("default sort missing: sort_by=%q vote_count.gte=%q",
			gotQuery.Get("sort_by"), gotQuery.Get("vote_count.gte"))
	}

	// Six results in the fixture, batch capped at five.
	if len(candidates) != 5 {
		t.Fatalf("got %d candidates, want 5", len(candidates))
	}

	first := candidates[0]
	if first.ID != 278 {
		t.Errorf("ID = %d, want 278", first.ID)
	}
	if first.PosterImage != "https://image.tmdb.org/t/p/w500/9cqNxx0GxF0bflZmeSMuL5tnGzr.jpg" {
		t.Errorf("PosterImage = %q", first.PosterImage)
	}
	if first.DetailURL != "https://www.themoviedb.org/movie/278" {
		t.Errorf("DetailURL = %q", first.DetailURL)
	}

	// Missing poster falls back to the backdrop.
	third := candidates[2]
	if third.PosterImage != "https://image.tmdb.org/t/p/w500/TU9NIjwzjoKPwQHoHshkFcQUCG.jpg" {
		t.Errorf("backdrop fallback missing: %q", third.PosterImage)
	}
	if third.PrimaryName != "Parasite" || third.SecondaryName != "기생충" {
		t.Errorf("names = %q / %q", third.PrimaryName, third.SecondaryName)
	}
}

func TestFetchImages_SortedByVoteAverage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/278/images" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(fixture(t, "images.json"))
	}))

	images, err := c.FetchImages(context.Background(), 278)
	if err != nil {
		t.Fatalf("FetchImages() failed: %v", err)
	}

	want := []string{
		"https://image.tmdb.org/t/p/original/best.jpg",
		"https://image.tmdb.org/t/p/original/mid.jpg",
		"https://image.tmdb.org/t/p/original/low.jpg",
	}
	if len(images) != len(want) {
		t.Fatalf("got %d images, want %d (empty paths dropped)", len(images), len(want))
	}
	for i := range want {
		if images[i] != want[i] {
			t.Errorf("images[%d] = %q, want %q", i, images[i], want[i])
		}
	}
}

func TestSearch(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write(fixture(t, "discover_page.json"))
	}))

	results, err := c.Search(context.Background(), "godfather", nil)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if gotQuery.Get("query") != "godfather" {
		t.Errorf("query = %q", gotQuery.Get("query"))
	}
	if gotQuery.Get("include_adult") != "false" {
		t.Errorf("include_adult = %q, want false", gotQuery.Get("include_adult"))
	}
	if len(results) != 6 {
		t.Fatalf("got %d results, want 6", len(results))
	}
	if results[0].PreviewImage != "https://image.tmdb.org/t/p/w300/9cqNxx0GxF0bflZmeSMuL5tnGzr.jpg" {
		t.Errorf("PreviewImage = %q", results[0].PreviewImage)
	}
}

func TestSearch_ShortQuerySkipsNetwork(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("short query must not reach the network")
	}))

	// "я" is one rune but two bytes; the length guard counts runes.
	for _, q := range []string{"g", "я"} {
		results, err := c.Search(context.Background(), q, nil)
		if err != nil {
			t.Fatalf("Search(%q) failed: %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("Search(%q) returned %d results, want 0", q, len(results))
		}
	}
}

func TestGenres(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre/movie/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(fixture(t, "genres.json"))
	}))

	options, err := c.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres() failed: %v", err)
	}
	if len(options) != 8 {
		t.Fatalf("got %d genres, want 8", len(options))
	}
	if options[0].ID != 28 || options[0].Label != "Action" {
		t.Errorf("first genre = %+v", options[0])
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
			want: map[string]string{
				"language":      "en-US",
				"include_adult": "false",
				"include_video": "false",
				"sort_by":       "vote_average.desc",
				"vote_count.gte": "100",
			},
		},
		{
			name:    "explicit sort drops vote count floor",
			filters: content.FilterSet{"sort_by": "popularity.desc"},
			want:    map[string]string{"sort_by": "popularity.desc"},
			absent:  []string{"vote_count.gte"},
		},
		{
			name:    "genres comma joined",
			filters: content.FilterSet{"with_genres": []any{float64(28), float64(12)}},
			want:    map[string]string{"with_genres": "28,12"},
		},
		{
			name:    "origin country narrows to first element",
			filters: content.FilterSet{"with_origin_country": []any{"KR", "JP"}},
			want:    map[string]string{"with_origin_country": "KR"},
		},
		{
			name:    "zero rating omitted",
			filters: content.FilterSet{"vote_average.gte": float64(0)},
			absent:  []string{"vote_average.gte"},
		},
		{
			name: "rating range",
			filters: content.FilterSet{
				"vote_average.gte": float64(7),
				"vote_average.lte": float64(9.5),
			},
			want: map[string]string{"vote_average.gte": "7", "vote_average.lte": "9.5"},
		},
		{
			name: "release date range passthrough",
			filters: content.FilterSet{
				"primary_release_date.gte": "1990-01-01",
				"primary_release_date.lte": "1999-12-31",
			},
			want: map[string]string{
				"primary_release_date.gte": "1990-01-01",
				"primary_release_date.lte": "1999-12-31",
			},
		},
		{
			name:    "unrecognized keys dropped",
			filters: content.FilterSet{"genre": "28", "ratingFrom": float64(7)},
			absent:  []string{"genre", "ratingFrom"},
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
