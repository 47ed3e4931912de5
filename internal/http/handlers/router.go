package handlers

import (
	"net/http"

	"github.com/cthayes8/tlco-waitlist/internal/http/response"
	mw "github.com/cthayes8/tlco-waitlist/pkg/middleware"
	"github.com/go-chi/chi/v5"
)

// Router wires the public intake endpoints and, when an admin key is
// configured, the internal portal routes.
func Router(h *Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.CORS)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w)
	})

	r.Post("/waitlist", h.JoinWaitlist)
	r.Post("/subscribe", h.Subscribe)

	if h.adminKey != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequireAdminKey)
			r.Get("/waitlist", h.ListWaitlist)
		})
	}

	return r
}
