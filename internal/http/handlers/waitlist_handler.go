package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cthayes8/tlco-waitlist/internal/domain"
	"github.com/cthayes8/tlco-waitlist/internal/http/response"
	"github.com/cthayes8/tlco-waitlist/pkg/logger"
)

// JoinWaitlist handles a waitlist signup submission.
func (h *Handlers) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(r.Context(), clientIP(r)) {
		response.TooManyRequests(w, "Too many signup attempts. Try again later.")
		return
	}

	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.signupService.Signup(r.Context(), &req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.BadRequest(w, vErr.Message)
		case errors.Is(err, domain.ErrDuplicateEmail):
			response.BadRequest(w, "This email is already on the waitlist")
		default:
			logger.ErrorContext(r.Context(), "Waitlist signup failed", "error", err)
			response.InternalError(w, "Failed to save to database")
		}
		return
	}

	response.WriteJSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Warning: result.Warning,
	})
}

// Subscribe handles a blog subscription request.
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req domain.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.signupService.Subscribe(r.Context(), &req); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			response.BadRequest(w, vErr.Message)
			return
		}
		logger.ErrorContext(r.Context(), "Subscription failed", "error", err)
		response.InternalError(w, "Failed to process subscription")
		return
	}

	response.WriteJSON(w, http.StatusOK, response.SuccessResponse{Success: true})
}
