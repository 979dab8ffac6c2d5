package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"trailswipe-backend/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse carries a machine-readable code and a human message.
type ErrorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// respondJSON writes v with the given status
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError sends a plain error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps service errors to responses: APIError keeps its
// status and code, everything else is logged and becomes a generic 500 so
// no internals leak.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		respondJSON(w, apiErr.Status, ErrorResponse{Code: apiErr.Code, Error: apiErr.Message})
		return
	}
	log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request failed")
	respondJSON(w, http.StatusInternalServerError, ErrorResponse{
		Code:  apperrors.CodeInternal,
		Error: "Internal server error",
	})
}

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. The caller gets a ready-to-send APIError.
func decodeAndValidate(r *http.Request, dst any) *apperrors.APIError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.Validation("Invalid input data")
	}
	return nil
}
