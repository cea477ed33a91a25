// Package strategy binds each content category to its provider client,
// filter vocabulary, and answer checking behind one interface.
package strategy

import (
	"context"
	"fmt"

	"github.com/frameguessr/frameguessr-server/internal/content"
	apperr "github.com/frameguessr/frameguessr-server/internal/errors"
)

// Filter control types understood by clients rendering a filter panel.
const (
	FilterButtonMulti    = "button-multi"
	FilterSlider         = "slider"
	FilterText           = "text"
	FilterNumberRange    = "number-range"
	FilterSelect         = "select"
	FilterDynamicButtons = "dynamic-buttons"
)

// Descriptor carries the presentation strings for one category.
type Descriptor struct {
	Category     content.Category `json:"category"`
	DisplayName  string           `json:"displayName"`
	QuestionText string           `json:"questionText"`
	Placeholder  string           `json:"placeholder"`
	DetailLabel  string           `json:"detailLabel"`
}

// Strategy is the uniform surface over one content category.
type Strategy interface {
	// Category returns the category this strategy produces records for.
	Category() content.Category

	// Descriptor returns the category's presentation strings.
	Descriptor() Descriptor

	// FetchRandom acquires one qualifying record. Failures propagate: a
	// round cannot proceed without content.
	FetchRandom(ctx context.Context, filters content.FilterSet) (*content.Record, error)

	// Search returns autocomplete suggestions. Search is advisory, so any
	// failure is absorbed into an empty list rather than surfaced.
	Search(ctx context.Context, query string, filters content.FilterSet) []content.SearchResult

	// CheckAnswer reports whether a free-text answer names the title.
	CheckAnswer(answer, primaryName, secondaryName string) bool

	// DescribeFilters returns the category's filter panel layout.
	DescribeFilters() []content.FilterDescriptor

	// DynamicOptions resolves the option list for a dynamic filter.
	// Categories without dynamic filters return an empty list.
	DynamicOptions(ctx context.Context, filterID string) ([]content.DynamicOption, error)
}

// Registry resolves category tokens to memoized strategy singletons.
type Registry struct {
	strategies map[content.Category]Strategy
	order      []content.Category
}

// NewRegistry builds a registry over the given strategies. Registration
// order is preserved for listing.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{
		strategies: make(map[content.Category]Strategy, len(strategies)),
	}
	for _, s := range strategies {
		cat := s.Category()
		if _, dup := r.strategies[cat]; dup {
			panic(fmt.Sprintf("strategy registered twice for category %q", cat))
		}
		r.strategies[cat] = s
		r.order = append(r.order, cat)
	}
	return r
}

// Get resolves a category to its strategy. Categories are a closed set, so
// an unknown one is a configuration error, not user input to tolerate.
func (r *Registry) Get(category content.Category) (Strategy, error) {
	s, ok := r.strategies[category]
	if !ok {
		return nil, apperr.UnknownCategory(fmt.Sprintf("no strategy for category %q", category))
	}
	return s, nil
}

// All returns every registered strategy in registration order.
func (r *Registry) All() []Strategy {
	out := make([]Strategy, 0, len(r.order))
	for _, cat := range r.order {
		out = append(out, r.strategies[cat])
	}
	return out
}
