// Package kinopoisk is the TV-series catalog client for the unofficial
// Kinopoisk API. One endpoint serves both filtered discovery and keyword
// search; auth is an X-API-KEY header on every request.
package kinopoisk

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/frameguessr/frameguessr-server/internal/content"
	apperr "github.com/frameguessr/frameguessr-server/internal/errors"
	"github.com/frameguessr/frameguessr-server/internal/transport"
)

const (
	// RateKey selects this provider's rate-limiter bucket.
	RateKey = "kinopoisk"

	baseURL    = "https://kinopoiskapiunofficial.tech"
	detailBase = "https://www.kinopoisk.ru/film"

	// The filtered films endpoint serves at most 5 pages (100 titles).
	maxPage  = 5
	pageSize = 5

	searchMinLength = 2
	maxSuggestions  = 10
)

// Client is the Kinopoisk API client.
type Client struct {
	transport *transport.Client
	logger    *slog.Logger
	apiKey    string
	baseURL   string
}

// New creates a Kinopoisk client.
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
	h.Set("X-API-KEY", c.apiKey)
	return h
}

// MaxPage returns the last page of the discovery range.
func (c *Client) MaxPage() int {
	return maxPage
}

// DiscoverPage fetches one page of the series catalog, capped at the batch
// size. Bypasses the body cache so repeated rounds see fresh pages.
func (c *Client) DiscoverPage(ctx context.Context, filters content.FilterSet, page int) ([]content.Candidate, error) {
	query := normalize(filters)
	query.Set("page", strconv.Itoa(page))

	body, err := c.transport.Get(ctx, transport.Request{
		Key:    RateKey,
		URL:    c.baseURL + "/api/v2.2/films?" + query.Encode(),
		Header: c.header(),
	})
	if err != nil {
		return nil, err
	}

	var resp filmsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "parse kinopoisk films page")
	}

	c.logger.Debug("kinopoisk discover page", "page", page, "candidates", len(resp.Items))

	films := resp.Items
	if len(films) > pageSize {
		films = films[:pageSize]
	}

	candidates := make([]content.Candidate, 0, len(films))
	for _, f := range films {
		candidates = append(candidates, content.Candidate{
			ID:            f.KinopoiskID,
			PrimaryName:   primaryName(f),
			SecondaryName: secondaryName(f),
			PosterImage:   f.PosterURL,
			DetailURL:     c.DetailURL(f.KinopoiskID),
		})
	}
	return candidates, nil
}

// FetchImages fetches the still set for one film. Stills, not posters: the
// game needs in-episode frames.
func (c *Client) FetchImages(ctx context.Context, id int) ([]string, error) {
	body, err := c.transport.Get(ctx, transport.Request{
		Key:    RateKey,
		URL:    fmt.Sprintf("%s/api/v2.2/films/%d/images?type=STILL&page=1", c.baseURL, id),
		Header: c.header(),
	})
	if err != nil {
		return nil, err
	}

	var resp imagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "parse kinopoisk images")
	}

	urls := make([]string, 0, len(resp.Items))
	for _, img := range resp.Items {
		if img.ImageURL != "" {
			urls = append(urls, img.ImageURL)
		}
	}
	return urls, nil
}

// Search runs a keyword search through the same filtered films endpoint.
// Queries shorter than two characters return empty without touching the
// network.
func (c *Client) Search(ctx context.Context, queryText string, filters content.FilterSet) ([]content.SearchResult, error) {
	queryText = strings.TrimSpace(queryText)
	if utf8.RuneCountInString(queryText) < searchMinLength {
		return nil, nil
	}

	query := normalize(filters)
	query.Set("keyword", queryText)
	query.Set("page", "1")

	body, err := c.transport.Get(ctx, transport.Request{
		Key:       RateKey,
		URL:       c.baseURL + "/api/v2.2/films?" + query.Encode(),
		Header:    c.header(),
		Cacheable: true,
	})
	if err != nil {
		return nil, err
	}

	var resp filmsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "parse kinopoisk search results")
	}

	results := make([]content.SearchResult, 0, maxSuggestions)
	for _, f := range resp.Items {
		preview := f.PosterURLPreview
		if preview == "" {
			preview = f.PosterURL
		}
		results = append(results, content.SearchResult{
			ID:            f.KinopoiskID,
			PrimaryName:   primaryName(f),
			SecondaryName: secondaryName(f),
			PreviewImage:  preview,
		})
		if len(results) == maxSuggestions {
			break
		}
	}
	return results, nil
}

// Filters fetches the genre and country option lists. Served from cache
// within the freshness window since the lists change rarely.
func (c *Client) Filters(ctx context.Context) (genres, countries []content.DynamicOption, err error) {
	body, err := c.transport.Get(ctx, transport.Request{
		Key:       RateKey,
		URL:       c.baseURL + "/api/v2.2/films/filters",
		Header:    c.header(),
		Cacheable: true,
	})
	if err != nil {
		return nil, nil, err
	}

	var resp filtersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil, apperr.Wrap(err, apperr.CodeProvider, "parse kinopoisk filters")
	}

	for _, g := range resp.Genres {
		if g.Genre == "" {
			continue
		}
		genres = append(genres, content.DynamicOption{ID: g.ID, Label: g.Genre})
	}
	for _, co := range resp.Countries {
		if co.Country == "" {
			continue
		}
		countries = append(countries, content.DynamicOption{ID: co.ID, Label: co.Country})
	}
	return genres, countries, nil
}

// DetailURL returns the canonical title page. Pure template, no network call.
func (c *Client) DetailURL(id int) string {
	return fmt.Sprintf("%s/%d/", detailBase, id)
}

// primaryName resolves the display name through the localized-first fallback
// chain. Every name field is nullable upstream.
func primaryName(f rawFilm) string {
	for _, name := range []string{f.NameRu, f.NameEn, f.NameOriginal} {
		if name != "" {
			return name
		}
	}
	return "Unknown"
}

func secondaryName(f rawFilm) string {
	for _, name := range []string{f.NameOriginal, f.NameEn, f.NameRu} {
		if name != "" {
			return name
		}
	}
	return "Unknown"
}

type rawFilm struct {
	KinopoiskID      int    `json:"kinopoiskId"`
	NameRu           string `json:"nameRu"`
	NameEn           string `json:"nameEn"`
	NameOriginal     string `json:"nameOriginal"`
	PosterURL        string `json:"posterUrl"`
	PosterURLPreview string `json:"posterUrlPreview"`
	Year             int    `json:"year"`
	Type             string `json:"type"`
}

type filmsResponse struct {
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
	Items      []rawFilm `json:"items"`
}

type rawKPImage struct {
	ImageURL   string `json:"imageUrl"`
	PreviewURL string `json:"previewUrl"`
}

type imagesResponse struct {
	Total      int          `json:"total"`
	TotalPages int          `json:"totalPages"`
	Items      []rawKPImage `json:"items"`
}

type rawKPGenre struct {
	ID    int    `json:"id"`
	Genre string `json:"genre"`
}

type rawKPCountry struct {
	ID      int    `json:"id"`
	Country string `json:"country"`
}

type filtersResponse struct {
	Genres    []rawKPGenre   `json:"genres"`
	Countries []rawKPCountry `json:"countries"`
}
