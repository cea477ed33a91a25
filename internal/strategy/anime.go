package strategy

import (
	"context"
	"log/slog"

	"github.com/frameguessr/frameguessr-server/internal/content"
	"github.com/frameguessr/frameguessr-server/internal/engine"
	"github.com/frameguessr/frameguessr-server/internal/verify"
)

// AnimeCatalog is the provider surface the anime strategy needs.
type AnimeCatalog interface {
	engine.Catalog
	Search(ctx context.Context, query string, filters content.FilterSet) ([]content.SearchResult, error)
}

// Anime is the anime category backed by Shikimori.
type Anime struct {
	client AnimeCatalog
	engine *engine.Engine
	logger *slog.Logger
}

// NewAnime creates the anime strategy.
func NewAnime(client AnimeCatalog, eng *engine.Engine, logger *slog.Logger) *Anime {
	return &Anime{
		client: client,
		engine: eng,
		logger: logger,
	}
}

func (s *Anime) Category() content.Category {
	return content.CategoryAnime
}

func (s *Anime) Descriptor() Descriptor {
	return Descriptor{
		Category:     content.CategoryAnime,
		DisplayName:  "Anime",
		QuestionText: "What anime is this?",
		Placeholder:  "Enter anime name...",
		DetailLabel:  "View on Shikimori",
	}
}

func (s *Anime) FetchRandom(ctx context.Context, filters content.FilterSet) (*content.Record, error) {
	record, err := s.engine.Acquire(ctx, s.client, filters)
	if err != nil {
		return nil, err
	}
	record.Category = content.CategoryAnime
	return record, nil
}

func (s *Anime) Search(ctx context.Context, query string, filters content.FilterSet) []content.SearchResult {
	results, err := s.client.Search(ctx, query, filters)
	if err != nil {
		s.logger.Warn("anime search failed", "error", err)
		return nil
	}
	for i := range results {
		results[i].Category = content.CategoryAnime
	}
	return results
}

func (s *Anime) CheckAnswer(answer, primaryName, secondaryName string) bool {
	return verify.Matches(answer, primaryName, secondaryName)
}

func (s *Anime) DescribeFilters() []content.FilterDescriptor {
	return []content.FilterDescriptor{
		{
			ID:    "kind",
			Label: "Type",
			Type:  FilterButtonMulti,
			Options: []content.FilterOption{
				{Value: "tv", Label: "TV"},
				{Value: "movie", Label: "Movie"},
				{Value: "ova", Label: "OVA"},
				{Value: "ona", Label: "ONA"},
				{Value: "special", Label: "Special"},
				{Value: "music", Label: "Music"},
			},
		},
		{
			ID:    "status",
			Label: "Status",
			Type:  FilterButtonMulti,
			Options: []content.FilterOption{
				{Value: "released", Label: "Released"},
				{Value: "ongoing", Label: "Ongoing"},
				{Value: "anons", Label: "Announced"},
			},
		},
		{
			ID:    "rating",
			Label: "Age Rating",
			Type:  FilterButtonMulti,
			Options: []content.FilterOption{
				{Value: "g", Label: "G - All Ages"},
				{Value: "pg", Label: "PG - Children"},
				{Value: "pg_13", Label: "PG-13 - Teens 13+"},
				{Value: "r", Label: "R - 17+"},
				{Value: "r_plus", Label: "R+ - Mild Nudity"},
			},
		},
		{
			ID:          "season",
			Label:       `Season (e.g., "2020_2024", "summer_2023")`,
			Type:        FilterText,
			Placeholder: "e.g., 2020_2024",
		},
		{
			ID:    "score",
			Label: "Minimum Score",
			Type:  FilterSlider,
			Min:   0,
			Max:   9,
			Step:  1,
		},
		{
			ID:    "duration",
			Label: "Episode Duration",
			Type:  FilterSelect,
			Options: []content.FilterOption{
				{Value: "", Label: "Any"},
				{Value: "S", Label: "Short (<10 min)"},
				{Value: "D", Label: "Medium (<30 min)"},
				{Value: "F", Label: "Full (>30 min)"},
			},
		},
	}
}

// DynamicOptions is a no-op: every anime filter carries a static option list.
func (s *Anime) DynamicOptions(ctx context.Context, filterID string) ([]content.DynamicOption, error) {
	return nil, nil
}
