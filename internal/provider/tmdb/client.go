// Package tmdb is the movie catalog client for The Movie Database API.
// Auth is a bearer token on every request; images are addressed by path and
// expanded against the image CDN with an explicit size.
package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/frameguessr/frameguessr-server/internal/content"
	apperr "github.com/frameguessr/frameguessr-server/internal/errors"
	"github.com/frameguessr/frameguessr-server/internal/transport"
)

const (
	// RateKey selects this provider's rate-limiter bucket.
	RateKey = "tmdb"

	baseURL      = "https://api.themoviedb.org/3"
	imageBaseURL = "https://image.tmdb.org/t/p"
	detailBase   = "https://www.themoviedb.org/movie"

	maxPage  = 20
	pageSize = 5

	searchMinLength = 2
	maxSuggestions  = 10
)

// Client is the TMDB API client.
type Client struct {
	transport *transport.Client
	logger    *slog.Logger
	apiKey    string
	baseURL   string
}

// New creates a TMDB client. apiKey is the v4 read access token.
func New(tc *transport.Client, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		transport: tc,
		logger:    logger,
		apiKey:    apiKey,
		baseURL:   baseURL,
	}
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.apiKey)
	return h
}

// MaxPage returns the last page of the discovery range.
func (c *Client) MaxPage() int {
	return maxPage
}

// DiscoverPage fetches one page of the movie catalog, capped at the batch
// size. Bypasses the body cache so repeated rounds see fresh pages.
func (c *Client) DiscoverPage(ctx context.Context, filters content.FilterSet, page int) ([]content.Candidate, error) {
	query := normalize(filters)
	query.Set("page", strconv.Itoa(page))

	body, err := c.transport.Get(ctx, transport.Request{
		Key:    RateKey,
		URL:    c.baseURL + "/discover/movie?" + query.Encode(),
		Header: c.header(),
	})
	if err != nil {
		return nil, err
	}

	var resp discoverResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "parse tmdb discover page")
	}

	c.logger.Debug("tmdb discover page", "page", page, "candidates", len(resp.Results))

	movies := resp.Results
	if len(movies) > pageSize {
		movies = movies[:pageSize]
	}

	candidates := make([]content.Candidate, 0, len(movies))
	for _, m := range movies {
		candidates = append(candidates, content.Candidate{
			ID:            m.ID,
			PrimaryName:   primaryName(m),
			SecondaryName: secondaryName(m),
			PosterImage:   posterURL(m, "w500"),
			DetailURL:     c.DetailURL(m.ID),
		})
	}
	return candidates, nil
}

// FetchImages fetches the backdrop set for one movie, best-rated first.
func (c *Client) FetchImages(ctx context.Context, id int) ([]string, error) {
	body, err := c.transport.Get(ctx, transport.Request{
		Key:    RateKey,
		URL:    fmt.Sprintf("%s/movie/%d/images", c.baseURL, id),
		Header: c.header(),
	})
	if err != nil {
		return nil, err
	}

	var resp imagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "parse tmdb images")
	}

	backdrops := resp.Backdrops
	sort.SliceStable(backdrops, func(i, j int) bool {
		return backdrops[i].VoteAverage > backdrops[j].VoteAverage
	})

	urls := make([]string, 0, len(backdrops))
	for _, img := range backdrops {
		if u := imageURL(img.FilePath, "original"); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// Search runs a free-text title search. Queries shorter than two characters
// return empty without touching the network.
func (c *Client) Search(ctx context.Context, queryText string, filters content.FilterSet) ([]content.SearchResult, error) {
	queryText = strings.TrimSpace(queryText)
	if utf8.RuneCountInString(queryText) < searchMinLength {
		return nil, nil
	}

	query := url.Values{}
	query.Set("query", queryText)
	query.Set("language", "en-US")
	query.Set("page", "1")
	query.Set("include_adult", "false")

	body, err := c.transport.Get(ctx, transport.Request{
		Key:       RateKey,
		URL:       c.baseURL + "/search/movie?" + query.Encode(),
		Header:    c.header(),
		Cacheable: true,
	})
	if err != nil {
		return nil, err
	}

	var resp discoverResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "parse tmdb search results")
	}

	results := make([]content.SearchResult, 0, maxSuggestions)
	for _, m := range resp.Results {
		results = append(results, content.SearchResult{
			ID:            m.ID,
			PrimaryName:   primaryName(m),
			SecondaryName: secondaryName(m),
			PreviewImage:  posterURL(m, "w300"),
		})
		if len(results) == maxSuggestions {
			break
		}
	}
	return results, nil
}

// Genres fetches the movie genre list. Served from cache within the
// freshness window since the list changes rarely.
func (c *Client) Genres(ctx context.Context) ([]content.DynamicOption, error) {
	body, err := c.transport.Get(ctx, transport.Request{
		Key:       RateKey,
		URL:       c.baseURL + "/genre/movie/list?language=en-US",
		Header:    c.header(),
		Cacheable: true,
	})
	if err != nil {
		return nil, err
	}

	var resp genresResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "parse tmdb genres")
	}

	options := make([]content.DynamicOption, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		options = append(options, content.DynamicOption{ID: g.ID, Label: g.Name})
	}
	return options, nil
}

// DetailURL returns the canonical title page. Pure template, no network call.
func (c *Client) DetailURL(id int) string {
	return fmt.Sprintf("%s/%d", detailBase, id)
}

func primaryName(m rawMovie) string {
	if m.Title != "" {
		return m.Title
	}
	if m.OriginalTitle != "" {
		return m.OriginalTitle
	}
	return "Unknown"
}

func secondaryName(m rawMovie) string {
	if m.OriginalTitle != "" {
		return m.OriginalTitle
	}
	return m.Title
}

// posterURL picks the poster path with backdrop fallback and expands it.
func posterURL(m rawMovie, size string) string {
	path := m.PosterPath
	if path == "" {
		path = m.BackdropPath
	}
	return imageURL(path, size)
}

// imageURL expands a TMDB image path against the image CDN.
func imageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", imageBaseURL, size, path)
}

type rawMovie struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	PosterPath    string `json:"poster_path"`
	BackdropPath  string `json:"backdrop_path"`
	ReleaseDate   string `json:"release_date"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int    `json:"vote_count"`
}

type discoverResponse struct {
	Page         int        `json:"page"`
	Results      []rawMovie `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type rawImage struct {
	FilePath    string  `json:"file_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

type imagesResponse struct {
	ID        int        `json:"id"`
	Backdrops []rawImage `json:"backdrops"`
	Posters   []rawImage `json:"posters"`
}

type rawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genresResponse struct {
	Genres []rawGenre `json:"genres"`
}
