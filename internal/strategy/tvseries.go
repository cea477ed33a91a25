package strategy

import (
	"context"
	"log/slog"
	"time"

	"github.com/frameguessr/frameguessr-server/internal/content"
	"github.com/frameguessr/frameguessr-server/internal/engine"
	"github.com/frameguessr/frameguessr-server/internal/verify"
)

// SeriesCatalog is the provider surface the TV-series strategy needs.
type SeriesCatalog interface {
	engine.Catalog
	Search(ctx context.Context, query string, filters content.FilterSet) ([]content.SearchResult, error)
	Filters(ctx context.Context) (genres, countries []content.DynamicOption, err error)
}

// TVSeries is the TV-series category backed by Kinopoisk.
type TVSeries struct {
	client SeriesCatalog
	engine *engine.Engine
	logger *slog.Logger
}

// NewTVSeries creates the TV-series strategy.
func NewTVSeries(client SeriesCatalog, eng *engine.Engine, logger *slog.Logger) *TVSeries {
	return &TVSeries{
		client: client,
		engine: eng,
		logger: logger,
	}
}

func (s *TVSeries) Category() content.Category {
	return content.CategoryTVSeries
}

func (s *TVSeries) Descriptor() Descriptor {
	return Descriptor{
		Category:     content.CategoryTVSeries,
		DisplayName:  "TV Series",
		QuestionText: "What TV series is this?",
		Placeholder:  "Enter TV series name...",
		DetailLabel:  "View on Kinopoisk",
	}
}

func (s *TVSeries) FetchRandom(ctx context.Context, filters content.FilterSet) (*content.Record, error) {
	record, err := s.engine.Acquire(ctx, s.client, filters)
	if err != nil {
		return nil, err
	}
	record.Category = content.CategoryTVSeries
	return record, nil
}

func (s *TVSeries) Search(ctx context.Context, query string, filters content.FilterSet) []content.SearchResult {
	results, err := s.client.Search(ctx, query, filters)
	if err != nil {
		s.logger.Warn("tv series search failed", "error", err)
		return nil
	}
	for i := range results {
		results[i].Category = content.CategoryTVSeries
	}
	return results
}

func (s *TVSeries) CheckAnswer(answer, primaryName, secondaryName string) bool {
	return verify.Matches(answer, primaryName, secondaryName)
}

func (s *TVSeries) DescribeFilters() []content.FilterDescriptor {
	currentYear := float64(time.Now().Year())
	return []content.FilterDescriptor{
		{
			ID:    "ratingFrom",
			Label: "Minimum Rating",
			Type:  FilterSlider,
			Min:   0,
			Max:   10,
			Step:  0.5,
		},
		{
			ID:          "yearFrom",
			Label:       "Year From",
			Type:        FilterNumberRange,
			Min:         1900,
			Max:         currentYear,
			Placeholder: "e.g., 2010",
		},
		{
			ID:          "yearTo",
			Label:       "Year To",
			Type:        FilterNumberRange,
			Min:         1900,
			Max:         currentYear,
			Placeholder: "e.g., 2024",
		},
		{
			ID:      "countries",
			Label:   "Country",
			Type:    FilterDynamicButtons,
			Dynamic: true,
		},
		{
			ID:      "genres",
			Label:   "Genre",
			Type:    FilterDynamicButtons,
			Dynamic: true,
		},
	}
}

// DynamicOptions serves both lists from the provider's filters endpoint.
func (s *TVSeries) DynamicOptions(ctx context.Context, filterID string) ([]content.DynamicOption, error) {
	switch filterID {
	case "genres":
		genres, _, err := s.client.Filters(ctx)
		return genres, err
	case "countries":
		_, countries, err := s.client.Filters(ctx)
		return countries, err
	}
	return nil, nil
}
