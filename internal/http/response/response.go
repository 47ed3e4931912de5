package response

import (
	"encoding/json"
	"net/http"

	"github.com/cthayes8/tlco-waitlist/pkg/logger"
)

// ErrorResponse is the body of every failure response. The message is
// short and human-readable; internals never leak to the caller.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the body of a successful intake. Warning is only
// present when the entry was saved but the confirmation email failed.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func MethodNotAllowed(w http.ResponseWriter) {
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func TooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
