package handlers

import (
	"net/http"
	"time"

	"trailswipe-backend/internal/middleware"
	"trailswipe-backend/internal/models"
	"trailswipe-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// SwipeHandler handles swipe HTTP requests
type SwipeHandler struct {
	swipeService *services.SwipeService
}

// NewSwipeHandler creates a new swipe handler
func NewSwipeHandler(swipeService *services.SwipeService) *SwipeHandler {
	return &SwipeHandler{swipeService: swipeService}
}

// SwipeRequest is the body of POST /swipes
type SwipeRequest struct {
	TrailID   string `json:"trailId" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=left right up"`
}

// MatchInfo is the match payload embedded in a swipe response when the
// swipe completed a match.
type MatchInfo struct {
	ID        string    `json:"id"`
	TrailID   string    `json:"trailId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SwipeResponse is the body of a successful POST /swipes
type SwipeResponse struct {
	ID        string     `json:"id"`
	TrailID   string     `json:"trailId"`
	Direction string     `json:"direction"`
	CreatedAt time.Time  `json:"createdAt"`
	Match     *MatchInfo `json:"match,omitempty"`
}

// SwipesResponse wraps the swipe history list.
type SwipesResponse struct {
	Swipes []*models.Swipe `json:"swipes"`
}

// ClearResponse is the body of POST /swipes/clear
type ClearResponse struct {
	Message   string `json:"message"`
	Cleared   int    `json:"cleared"`
	Remaining int    `json:"remaining"`
}

// Create handles POST /swipes
func (h *SwipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SwipeRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		respondJSON(w, apiErr.Status, ErrorResponse{Code: apiErr.Code, Error: apiErr.Message})
		return
	}

	swipe, match, err := h.swipeService.RecordSwipe(r.Context(), userID, req.TrailID, models.SwipeDirection(req.Direction))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := SwipeResponse{
		ID:        swipe.ID,
		TrailID:   swipe.TrailID,
		Direction: string(swipe.Direction),
		CreatedAt: swipe.CreatedAt,
	}
	if match != nil {
		resp.Match = &MatchInfo{
			ID:        match.ID,
			TrailID:   match.TrailID,
			CreatedAt: match.CreatedAt,
		}
		log.Info().
			Str("match_id", match.ID).
			Str("trail_id", match.TrailID).
			Str("user_a_id", match.UserAID).
			Str("user_b_id", match.UserBID).
			Msg("Match created")
	}

	respondJSON(w, http.StatusCreated, resp)
}

// List handles GET /swipes
func (h *SwipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	swipes, err := h.swipeService.ListSwipes(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, SwipesResponse{Swipes: swipes})
}

// Clear handles POST /swipes/clear, removing the caller's swipe history so
// every trail shows up in discovery again.
func (h *SwipeHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	cleared, remaining, err := h.swipeService.ClearSwipes(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", userID).Int("cleared", cleared).Msg("Swipes cleared")
	respondJSON(w, http.StatusOK, ClearResponse{
		Message:   "Swipe history cleared",
		Cleared:   cleared,
		Remaining: remaining,
	})
}
