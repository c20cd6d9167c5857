package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/navigation"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error codes
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUnknownChannel = "UNKNOWN_CHANNEL"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeErrorWithDetails(w, status, code, message, nil)
}

// writeErrorWithDetails writes an error response with details.
func writeErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var notFound *boatdata.NotFoundError
	switch {
	case errors.As(err, &notFound):
		writeErrorWithDetails(w, http.StatusNotFound, ErrCodeNotFound, err.Error(), map[string]any{
			"suggestions": notFound.Suggestions,
		})
	case errors.Is(err, boatdata.ErrBoatNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, event.ErrUnknownChannel):
		writeError(w, http.StatusNotFound, ErrCodeUnknownChannel, err.Error())
	case errors.Is(err, boatdata.ErrInvalidReview),
		errors.Is(err, boatdata.ErrInvalidBoat),
		errors.Is(err, boatdata.ErrInvalidCriteria),
		errors.Is(err, event.ErrInvalidPayload),
		errors.Is(err, navigation.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}
