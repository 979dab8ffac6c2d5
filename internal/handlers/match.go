package handlers

import (
	"net/http"

	"trailswipe-backend/internal/middleware"
	"trailswipe-backend/internal/services"
)

// MatchHandler handles match HTTP requests
type MatchHandler struct {
	matchService *services.MatchService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// MatchesResponse wraps the match list.
type MatchesResponse struct {
	Matches []services.MatchEntry `json:"matches"`
}

// List handles GET /matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	matches, err := h.matchService.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, MatchesResponse{Matches: matches})
}
