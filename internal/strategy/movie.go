package strategy

import (
	"context"
	"log/slog"

	"github.com/frameguessr/frameguessr-server/internal/content"
	"github.com/frameguessr/frameguessr-server/internal/engine"
	"github.com/frameguessr/frameguessr-server/internal/provider/tmdb"
	"github.com/frameguessr/frameguessr-server/internal/verify"
)

// MovieCatalog is the provider surface the movie strategy needs.
type MovieCatalog interface {
	engine.Catalog
	Search(ctx context.Context, query string, filters content.FilterSet) ([]content.SearchResult, error)
	Genres(ctx context.Context) ([]content.DynamicOption, error)
}

// Movie is the movie category backed by TMDB.
type Movie struct {
	client MovieCatalog
	engine *engine.Engine
	logger *slog.Logger
}

// NewMovie creates the movie strategy.
func NewMovie(client MovieCatalog, eng *engine.Engine, logger *slog.Logger) *Movie {
	return &Movie{
		client: client,
		engine: eng,
		logger: logger,
	}
}

func (s *Movie) Category() content.Category {
	return content.CategoryMovie
}

func (s *Movie) Descriptor() Descriptor {
	return Descriptor{
		Category:     content.CategoryMovie,
		DisplayName:  "Movies",
		QuestionText: "What movie is this?",
		Placeholder:  "Enter movie name...",
		DetailLabel:  "View on TMDB",
	}
}

func (s *Movie) FetchRandom(ctx context.Context, filters content.FilterSet) (*content.Record, error) {
	record, err := s.engine.Acquire(ctx, s.client, filters)
	if err != nil {
		return nil, err
	}
	record.Category = content.CategoryMovie
	return record, nil
}

func (s *Movie) Search(ctx context.Context, query string, filters content.FilterSet) []content.SearchResult {
	results, err := s.client.Search(ctx, query, filters)
	if err != nil {
		s.logger.Warn("movie search failed", "error", err)
		return nil
	}
	for i := range results {
		results[i].Category = content.CategoryMovie
	}
	return results
}

func (s *Movie) CheckAnswer(answer, primaryName, secondaryName string) bool {
	return verify.Matches(answer, primaryName, secondaryName)
}

func (s *Movie) DescribeFilters() []content.FilterDescriptor {
	return []content.FilterDescriptor{
		{
			ID:    "vote_average.gte",
			Label: "Minimum Rating",
			Type:  FilterSlider,
			Min:   0,
			Max:   10,
			Step:  0.5,
		},
		{
			ID:          "primary_release_date.gte",
			Label:       "Released After",
			Type:        FilterText,
			Placeholder: "e.g., 1990-01-01",
		},
		{
			ID:          "primary_release_date.lte",
			Label:       "Released Before",
			Type:        FilterText,
			Placeholder: "e.g., 2024-12-31",
		},
		{
			ID:      "with_origin_country",
			Label:   "Country",
			Type:    FilterDynamicButtons,
			Dynamic: true,
		},
		{
			ID:      "with_genres",
			Label:   "Genre",
			Type:    FilterDynamicButtons,
			Dynamic: true,
		},
	}
}

// DynamicOptions serves the genre list from the provider and the curated
// country list locally.
func (s *Movie) DynamicOptions(ctx context.Context, filterID string) ([]content.DynamicOption, error) {
	switch filterID {
	case "with_genres":
		return s.client.Genres(ctx)
	case "with_origin_country":
		return tmdb.Countries(), nil
	}
	return nil, nil
}
