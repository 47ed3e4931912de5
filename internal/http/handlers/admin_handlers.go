package handlers

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/cthayes8/tlco-waitlist/internal/domain"
	"github.com/cthayes8/tlco-waitlist/internal/http/response"
	"github.com/cthayes8/tlco-waitlist/pkg/logger"
)

type waitlistListResponse struct {
	Entries []domain.WaitlistEntry `json:"entries"`
	Total   int64                  `json:"total"`
}

// RequireAdminKey gates the internal portal routes behind a shared key
// supplied in the X-Admin-Key header.
func (h *Handlers) RequireAdminKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Admin-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.adminKey)) != 1 {
			response.Unauthorized(w, "Invalid admin key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListWaitlist returns waitlist entries newest-first for the agent
// portal, with the total row count for pagination.
func (h *Handlers) ListWaitlist(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	entries, total, err := h.signupService.ListEntries(r.Context(), limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list waitlist", "error", err)
		response.InternalError(w, "Failed to retrieve waitlist entries")
		return
	}

	if entries == nil {
		entries = []domain.WaitlistEntry{}
	}

	response.WriteJSON(w, http.StatusOK, waitlistListResponse{
		Entries: entries,
		Total:   total,
	})
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			offset = n
		}
	}
	return limit, offset
}
