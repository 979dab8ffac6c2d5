package handlers

import (
	"net/http"
	"time"

	"trailswipe-backend/internal/middleware"
	"trailswipe-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// FriendHandler handles friendship HTTP requests
type FriendHandler struct {
	friendService *services.FriendService
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// InviteRequest is the body of POST /friends/invite
type InviteRequest struct {
	FriendEmail string `json:"friendEmail" validate:"required,email"`
}

// FriendshipActionRequest is the body of accept and decline requests.
type FriendshipActionRequest struct {
	FriendshipID string `json:"friendshipId" validate:"required"`
}

// FriendshipResponse is the friendship row returned after invite and
// accept. UserID is the requester, FriendID the recipient.
type FriendshipResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FriendID  string    `json:"friendId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// FriendListResponse is the body of GET /friends
type FriendListResponse struct {
	Friends         []services.FriendEntry `json:"friends"`
	PendingRequests []services.FriendEntry `json:"pendingRequests"`
}

// RequestsResponse is the body of GET /friends/requests
type RequestsResponse struct {
	Requests []services.RequestEntry `json:"requests"`
}

// Invite handles POST /friends/invite
func (h *FriendHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req InviteRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		respondJSON(w, apiErr.Status, ErrorResponse{Code: apiErr.Code, Error: apiErr.Message})
		return
	}

	friendship, err := h.friendService.Invite(r.Context(), userID, req.FriendEmail)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().
		Str("friendship_id", friendship.ID).
		Str("user_id", userID).
		Msg("Friend request sent")
	respondJSON(w, http.StatusCreated, FriendshipResponse{
		ID:        friendship.ID,
		UserID:    friendship.UserID,
		FriendID:  friendship.FriendID,
		Status:    friendship.Status,
		CreatedAt: friendship.CreatedAt,
	})
}

// Accept handles POST /friends/accept
func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req FriendshipActionRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		respondJSON(w, apiErr.Status, ErrorResponse{Code: apiErr.Code, Error: apiErr.Message})
		return
	}

	friendship, err := h.friendService.Accept(r.Context(), userID, req.FriendshipID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().
		Str("friendship_id", friendship.ID).
		Str("user_id", userID).
		Msg("Friend request accepted")
	respondJSON(w, http.StatusOK, FriendshipResponse{
		ID:        friendship.ID,
		UserID:    friendship.UserID,
		FriendID:  friendship.FriendID,
		Status:    friendship.Status,
		CreatedAt: friendship.CreatedAt,
	})
}

// Decline handles POST /friends/decline
func (h *FriendHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req FriendshipActionRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		respondJSON(w, apiErr.Status, ErrorResponse{Code: apiErr.Code, Error: apiErr.Message})
		return
	}

	if err := h.friendService.Decline(r.Context(), userID, req.FriendshipID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Friend request declined"})
}

// List handles GET /friends
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	friends, pending, err := h.friendService.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, FriendListResponse{
		Friends:         friends,
		PendingRequests: pending,
	})
}

// Requests handles GET /friends/requests
func (h *FriendHandler) Requests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	requests, err := h.friendService.Requests(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, RequestsResponse{Requests: requests})
}
