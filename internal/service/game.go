// Package service implements the game's application boundary: acquisition,
// search, verification, filter description, and settings persistence.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frameguessr/frameguessr-server/internal/content"
	apperr "github.com/frameguessr/frameguessr-server/internal/errors"
	"github.com/frameguessr/frameguessr-server/internal/prefs"
	"github.com/frameguessr/frameguessr-server/internal/strategy"
	"github.com/frameguessr/frameguessr-server/internal/validation"
)

// GameService drives rounds of the game over the strategy registry.
type GameService struct {
	registry  *strategy.Registry
	prefs     *prefs.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewGameService creates the game service.
func NewGameService(registry *strategy.Registry, prefsStore *prefs.Store, logger *slog.Logger) *GameService {
	return &GameService{
		registry:  registry,
		prefs:     prefsStore,
		validator: validation.New(),
		logger:    logger,
	}
}

// Categories returns every playable category's presentation descriptor.
func (s *GameService) Categories() []strategy.Descriptor {
	all := s.registry.All()
	descriptors := make([]strategy.Descriptor, 0, len(all))
	for _, st := range all {
		descriptors = append(descriptors, st.Descriptor())
	}
	return descriptors
}

// FetchRandomContent acquires one qualifying record.
//
// An empty category token falls back to the client's persisted preference,
// and nil filters fall back to the client's saved filter map for that
// category. Acquisition failures always propagate: a round cannot proceed
// without content.
func (s *GameService) FetchRandomContent(ctx context.Context, clientID, categoryToken string, filters content.FilterSet) (*content.Record, error) {
	category := s.resolveCategory(clientID, categoryToken)

	st, err := s.registry.Get(category)
	if err != nil {
		return nil, err
	}

	if filters == nil {
		filters = s.prefs.Filters(clientID, category)
	}

	record, err := st.FetchRandom(ctx, filters)
	if err != nil {
		s.logger.Error("content acquisition failed",
			"category", category,
			"error", err,
		)
		return nil, err
	}
	return record, nil
}

// SearchSuggestions returns autocomplete suggestions. Search is advisory:
// every failure, including an unknown category, degrades to an empty list so
// the client can fall back to free-text submission.
func (s *GameService) SearchSuggestions(ctx context.Context, clientID, query, categoryToken string, filters content.FilterSet) []content.SearchResult {
	category := s.resolveCategory(clientID, categoryToken)

	st, err := s.registry.Get(category)
	if err != nil {
		s.logger.Warn("search against unknown category", "category", category)
		return nil
	}

	if filters == nil {
		filters = s.prefs.Filters(clientID, category)
	}
	return st.Search(ctx, query, filters)
}

// VerifyRequest is one answer submission.
type VerifyRequest struct {
	Category      string `json:"category" validate:"required,oneof=anime movie tv"`
	Answer        string `json:"answer" validate:"required_without=SelectedID"`
	CorrectID     int    `json:"correctId" validate:"required"`
	PrimaryName   string `json:"primaryName"`
	SecondaryName string `json:"secondaryName"`
	// SelectedID is set when the player picked a suggestion instead of
	// typing. Zero means free text.
	SelectedID int `json:"selectedId,omitempty"`
}

// VerifyAnswer checks one submission against the round's record.
//
// A suggestion pick short-circuits to exact ID equality and never consults
// the fuzzy matcher; free text goes through the category's answer checking.
func (s *GameService) VerifyAnswer(req VerifyRequest) (bool, error) {
	if err := s.validator.Validate(req); err != nil {
		return false, err
	}

	if req.SelectedID != 0 {
		return req.SelectedID == req.CorrectID, nil
	}

	st, err := s.registry.Get(content.Category(req.Category))
	if err != nil {
		return false, err
	}
	return st.CheckAnswer(req.Answer, req.PrimaryName, req.SecondaryName), nil
}

// DescribeFilters returns the filter panel layout for a category. The token
// is client input here, so a bad one is rejected rather than defaulted.
func (s *GameService) DescribeFilters(categoryToken string) ([]content.FilterDescriptor, error) {
	category := content.Category(categoryToken)
	if !category.Valid() {
		return nil, apperr.UnknownCategory(fmt.Sprintf("unknown category %q", categoryToken))
	}
	st, err := s.registry.Get(category)
	if err != nil {
		return nil, err
	}
	return st.DescribeFilters(), nil
}

// LoadDynamicOptions resolves a dynamic filter's option list from the
// category's provider.
func (s *GameService) LoadDynamicOptions(ctx context.Context, categoryToken, filterID string) ([]content.DynamicOption, error) {
	category := content.Category(categoryToken)
	if !category.Valid() {
		return nil, apperr.UnknownCategory(fmt.Sprintf("unknown category %q", categoryToken))
	}
	st, err := s.registry.Get(category)
	if err != nil {
		return nil, err
	}
	return st.DynamicOptions(ctx, filterID)
}

// Settings bundles a client's persisted preferences.
type Settings struct {
	Category content.Category                       `json:"category"`
	Filters  map[content.Category]content.FilterSet `json:"filters"`
}

// GetSettings returns a client's persisted category and per-category filters.
func (s *GameService) GetSettings(clientID string) Settings {
	settings := Settings{
		Category: s.prefs.Category(clientID),
		Filters:  make(map[content.Category]content.FilterSet, len(content.Categories())),
	}
	for _, cat := range content.Categories() {
		settings.Filters[cat] = s.prefs.Filters(clientID, cat)
	}
	return settings
}

// UpdateCategory persists a client's preferred category.
func (s *GameService) UpdateCategory(clientID, categoryToken string) error {
	return s.prefs.SetCategory(clientID, content.Category(categoryToken))
}

// UpdateFilters persists a client's filter map for a category. A nil map
// clears the saved filters.
func (s *GameService) UpdateFilters(clientID, categoryToken string, filters content.FilterSet) error {
	category := content.Category(categoryToken)
	if filters == nil {
		return s.prefs.ClearFilters(clientID, category)
	}
	return s.prefs.SetFilters(clientID, category, filters)
}

// resolveCategory maps a request token to a category, preferring the token,
// then the persisted preference.
func (s *GameService) resolveCategory(clientID, token string) content.Category {
	if token != "" {
		return content.ParseCategory(token)
	}
	return s.prefs.Category(clientID)
}
