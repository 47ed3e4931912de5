package handlers

import (
	"net"
	"net/http"
	"strings"

	"github.com/cthayes8/tlco-waitlist/internal/ratelimit"
	"github.com/cthayes8/tlco-waitlist/internal/service"
)

type Handlers struct {
	signupService service.SignupService
	limiter       *ratelimit.Limiter
	adminKey      string
}

// New builds the handler set. limiter may be nil (rate limiting off);
// an empty adminKey leaves the admin routes unmounted.
func New(signupService service.SignupService, limiter *ratelimit.Limiter, adminKey string) *Handlers {
	return &Handlers{
		signupService: signupService,
		limiter:       limiter,
		adminKey:      adminKey,
	}
}

// clientIP identifies the caller for rate limiting. Only the first hop
// of X-Forwarded-For counts: later entries are appended by proxies and
// attacker-rotatable suffixes must not mint fresh rate-limit keys.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
