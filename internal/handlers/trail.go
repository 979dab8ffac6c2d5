package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"trailswipe-backend/internal/apperrors"
	"trailswipe-backend/internal/middleware"
	"trailswipe-backend/internal/models"
	"trailswipe-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// TrailHandler handles trail discovery HTTP requests
type TrailHandler struct {
	trailService *services.TrailService
}

// NewTrailHandler creates a new trail handler
func NewTrailHandler(trailService *services.TrailService) *TrailHandler {
	return &TrailHandler{trailService: trailService}
}

// TrailsResponse wraps a plain trail list.
type TrailsResponse struct {
	Trails []*models.Trail `json:"trails"`
}

// Cards handles GET /trails/cards. Filters come from query parameters:
// page, limit, maxDistance, difficulty (CSV), tags (CSV), elevation.
func (h *TrailHandler) Cards(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	q := r.URL.Query()

	page, okPage := parsePositiveInt(q.Get("page"), 1)
	limit, okLimit := parsePositiveInt(q.Get("limit"), 20)
	if !okPage || !okLimit {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:  apperrors.CodeValidation,
			Error: "Invalid query parameters",
		})
		return
	}

	filters := services.TrailFilters{
		Difficulty: splitCSV(q.Get("difficulty")),
		Tags:       splitCSV(q.Get("tags")),
		Elevation:  q.Get("elevation"),
	}
	if raw := q.Get("maxDistance"); raw != "" {
		maxDistance, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxDistance < 0 {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Code:  apperrors.CodeValidation,
				Error: "Invalid query parameters",
			})
			return
		}
		filters.MaxDistance = maxDistance
	}

	pageResult, err := h.trailService.GetTrailCards(r.Context(), userID, filters, page, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, pageResult)
}

// Saved handles GET /trails/saved and returns the trails the user swiped
// right on, in swipe order.
func (h *TrailHandler) Saved(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	trails, err := h.trailService.GetSavedTrails(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, TrailsResponse{Trails: trails})
}

// Get handles GET /trails/{id}
func (h *TrailHandler) Get(w http.ResponseWriter, r *http.Request) {
	trail, err := h.trailService.GetTrail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, trail)
}

// parsePositiveInt parses s as a positive integer, falling back to def when
// empty. ok is false for malformed or non-positive values.
func parsePositiveInt(s string, def int) (v int, ok bool) {
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// splitCSV splits a comma-separated query value, trimming blanks.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
