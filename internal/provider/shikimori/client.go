// Package shikimori is the anime catalog client. Shikimori serves image paths
// relative to its site root, so every URL leaving this package is expanded to
// an absolute one.
package shikimori

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/frameguessr/frameguessr-server/internal/content"
	apperr "github.com/frameguessr/frameguessr-server/internal/errors"
	"github.com/frameguessr/frameguessr-server/internal/transport"
)

const (
	// RateKey selects this provider's rate-limiter bucket.
	RateKey = "shikimori"

	baseURL  = "https://shikimori.one/api"
	siteURL  = "https://shikimori.one"
	maxPage  = 10
	pageSize = 5

	searchMinLength = 2
	maxSuggestions  = 10
)

// Client is the Shikimori API client.
type Client struct {
	transport *transport.Client
	logger    *slog.Logger
	baseURL   string
}

// New creates a Shikimori client.
func New(tc *transport.Client, logger *slog.Logger) *Client {
	return &Client{
		transport: tc,
		logger:    logger,
		baseURL:   baseURL,
	}
}

// MaxPage returns the last page of the discovery range.
func (c *Client) MaxPage() int {
	return maxPage
}

// DiscoverPage fetches one page of the anime catalog. Pages served from this
// call bypass the body cache: a cached page would defeat random selection.
func (c *Client) DiscoverPage(ctx context.Context, filters content.FilterSet, page int) ([]content.Candidate, error) {
	query := normalize(filters)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(pageSize))

	body, err := c.transport.Get(ctx, transport.Request{
		Key: RateKey,
		URL: c.baseURL + "/animes?" + query.Encode(),
	})
	if err != nil {
		return nil, err
	}

	var animes []rawAnime
	if err := json.Unmarshal(body, &animes); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "parse shikimori catalog page")
	}

	c.logger.Debug("shikimori discover page", "page", page, "candidates", len(animes))

	candidates := make([]content.Candidate, 0, len(animes))
	for _, a := range animes {
		candidates = append(candidates, content.Candidate{
			ID:            a.ID,
			PrimaryName:   primaryName(a),
			SecondaryName: secondaryName(a),
			PosterImage:   fullImageURL(a.Image.Original),
			DetailURL:     c.DetailURL(a.ID),
		})
	}
	return candidates, nil
}

// FetchImages fetches the screenshot set for one anime.
func (c *Client) FetchImages(ctx context.Context, id int) ([]string, error) {
	body, err := c.transport.Get(ctx, transport.Request{
		Key: RateKey,
		URL: fmt.Sprintf("%s/animes/%d/screenshots", c.baseURL, id),
	})
	if err != nil {
		return nil, err
	}

	var screenshots []rawScreenshot
	if err := json.Unmarshal(body, &screenshots); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "parse shikimori screenshots")
	}

	urls := make([]string, 0, len(screenshots))
	for _, s := range screenshots {
		if u := fullImageURL(s.Original); u != "" {
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

	query := normalize(filters)
	query.Set("search", queryText)
	query.Set("limit", strconv.Itoa(maxSuggestions))

	body, err := c.transport.Get(ctx, transport.Request{
		Key:       RateKey,
		URL:       c.baseURL + "/animes?" + query.Encode(),
		Cacheable: true,
	})
	if err != nil {
		return nil, err
	}

	var animes []rawAnime
	if err := json.Unmarshal(body, &animes); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeProvider, "parse shikimori search results")
	}

	results := make([]content.SearchResult, 0, len(animes))
	for _, a := range animes {
		results = append(results, content.SearchResult{
			ID:            a.ID,
			PrimaryName:   primaryName(a),
			SecondaryName: secondaryName(a),
			PreviewImage:  fullImageURL(a.Image.Preview),
		})
		if len(results) == maxSuggestions {
			break
		}
	}
	return results, nil
}

// DetailURL returns the canonical title page. Pure template, no network call.
func (c *Client) DetailURL(id int) string {
	return fmt.Sprintf("%s/animes/%d", siteURL, id)
}

// primaryName resolves the display name. Romaji name first, localized second,
// never empty.
func primaryName(a rawAnime) string {
	if a.Name != "" {
		return a.Name
	}
	if a.Russian != "" {
		return a.Russian
	}
	return "Unknown"
}

func secondaryName(a rawAnime) string {
	if a.Russian != "" {
		return a.Russian
	}
	return a.Name
}

// fullImageURL expands a relative image path to an absolute URL.
func fullImageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return siteURL + path
}

// normalize converts a generic filter set into Shikimori query parameters.
// Unrecognized keys are dropped. The defaults keep discovery on released TV
// titles sorted by popularity unless the caller overrides them.
func normalize(filters content.FilterSet) url.Values {
	query := url.Values{}
	query.Set("kind", "tv")
	query.Set("status", "released")
	query.Set("order", "popularity")

	// Multi-valued filters join with commas.
	for _, key := range []string{"kind", "status", "rating", "genre"} {
		if vals := filters.Strings(key); len(vals) > 0 {
			query.Set(key, strings.Join(vals, ","))
		}
	}

	if season := filters.String("season"); season != "" {
		query.Set("season", season)
	}
	if order := filters.String("order"); order != "" {
		query.Set("order", order)
	}
	// Zero means "no minimum", same as absent.
	if score, ok := filters.Number("score"); ok {
		query.Set("score", strconv.FormatFloat(score, 'f', -1, 64))
	}
	if vals := filters.Strings("duration"); len(vals) > 0 {
		query.Set("duration", vals[0])
	}

	return query
}

type rawAnime struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Russian string   `json:"russian"`
	URL     string   `json:"url"`
	Image   rawImage `json:"image"`
}

type rawImage struct {
	Original string `json:"original"`
	Preview  string `json:"preview"`
}

type rawScreenshot struct {
	Original string `json:"original"`
	Preview  string `json:"preview"`
}
