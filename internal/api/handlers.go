package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frameguessr/frameguessr-server/internal/content"
	"github.com/frameguessr/frameguessr-server/internal/http/response"
	"github.com/frameguessr/frameguessr-server/internal/service"
)

// clientIDHeader carries the caller's stable identity for preference storage.
// Anonymous callers fall back to their IP, which loses preferences across
// network changes but keeps the API usable without registration.
const clientIDHeader = "X-Client-ID"

// clientID resolves the preference-storage key for a request.
func clientID(r *http.Request) string {
	if id := r.Header.Get(clientIDHeader); id != "" {
		return id
	}
	return getClientIP(r)
}

// handleListCategories returns every playable category with its presentation strings.
func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, s.game.Categories(), s.logger)
}

// handleRandomContent acquires one random title for a round.
// The category query parameter is optional; absent, the client's saved
// preference applies. Filters always come from the saved preference set.
func (s *Server) handleRandomContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	record, err := s.game.FetchRandomContent(ctx, clientID(r), r.URL.Query().Get("category"), nil)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, record, s.logger)
}

// handleSearch returns autocomplete suggestions for a partial answer.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	results := s.game.SearchSuggestions(ctx, clientID(r), query, r.URL.Query().Get("category"), nil)
	if results == nil {
		results = []content.SearchResult{}
	}

	response.Success(w, results, s.logger)
}

// handleVerify checks a submitted answer against the round's title.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req service.VerifyRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	correct, err := s.game.VerifyAnswer(req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]bool{"correct": correct}, s.logger)
}

// handleDescribeFilters returns the filter panel layout for a category.
func (s *Server) handleDescribeFilters(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		response.BadRequest(w, "category is required", s.logger)
		return
	}

	descriptors, err := s.game.DescribeFilters(category)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, descriptors, s.logger)
}

// handleFilterOptions resolves a dynamic filter's option list.
func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := r.URL.Query().Get("category")
	filterID := r.URL.Query().Get("filter")

	if category == "" || filterID == "" {
		response.BadRequest(w, "category and filter are required", s.logger)
		return
	}

	options, err := s.game.LoadDynamicOptions(ctx, category, filterID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if options == nil {
		options = []content.DynamicOption{}
	}

	response.Success(w, options, s.logger)
}

// handleGetSettings returns the client's saved category and filter maps.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.game.GetSettings(clientID(r)), s.logger)
}

// updateCategoryRequest is the body for the category preference update.
type updateCategoryRequest struct {
	Category string `json:"category"`
}

// handleUpdateCategory persists the client's preferred category.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	if err := s.game.UpdateCategory(clientID(r), req.Category); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleUpdateFilters persists the client's filter map for a category.
func (s *Server) handleUpdateFilters(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	var filters content.FilterSet
	if err := json.UnmarshalRead(r.Body, &filters); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	if err := s.game.UpdateFilters(clientID(r), category, filters); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleClearFilters removes the client's saved filter map for a category.
func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	if err := s.game.UpdateFilters(clientID(r), category, nil); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
