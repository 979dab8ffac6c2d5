package handlers

import (
	"net/http"

	"trailswipe-backend/internal/middleware"
	"trailswipe-backend/internal/models"
	"trailswipe-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles auth and profile HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the body of PUT /auth/profile; both fields are
// optional patches.
type UpdateProfileRequest struct {
	Preferences *models.Preferences `json:"preferences"`
	Location    *models.GeoPoint    `json:"location" validate:"omitempty"`
}

// AuthResponse pairs a token with the user it identifies.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		respondJSON(w, apiErr.Status, ErrorResponse{Code: apiErr.Code, Error: apiErr.Message})
		return
	}

	user, token, err := h.userService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	respondJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		respondJSON(w, apiErr.Status, ErrorResponse{Code: apiErr.Code, Error: apiErr.Message})
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me handles GET /auth/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /auth/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		respondJSON(w, apiErr.Status, ErrorResponse{Code: apiErr.Code, Error: apiErr.Message})
		return
	}
	if req.Location != nil && len(req.Location.Coordinates) != 2 {
		respondError(w, "Location coordinates must be [longitude, latitude]", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, req.Preferences, req.Location)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Profile updated")
	respondJSON(w, http.StatusOK, user)
}
