package auth

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// ModeAPIKey enables key checking. Any other mode disables it.
const ModeAPIKey = "apikey"

// DefaultHeader is the request header read when Settings.Header is empty.
const DefaultHeader = "X-API-Key"

// Settings is one immutable auth configuration.
type Settings struct {
	Mode   string
	Header string
	Key    string
}

func (s Settings) enforced() bool {
	return s.Mode == ModeAPIKey && s.Key != ""
}

func (s Settings) header() string {
	if s.Header == "" {
		return DefaultHeader
	}
	return s.Header
}

// Guard enforces Settings on wrapped handlers. The zero value is not usable;
// create one with NewGuard.
type Guard struct {
	settings atomic.Pointer[Settings]

	// OnReject, when set, is called for every refused request.
	OnReject func(r *http.Request)
}

// NewGuard returns a Guard enforcing s.
func NewGuard(s Settings) *Guard {
	g := &Guard{}
	g.Update(s)
	return g
}

// Update replaces the active settings. In-flight requests finish with the
// settings they started with.
func (g *Guard) Update(s Settings) {
	g.settings.Store(&s)
}

// Settings returns the active settings.
func (g *Guard) Settings() Settings {
	return *g.settings.Load()
}

// Middleware returns next wrapped with API key enforcement.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := g.settings.Load()
		if !s.enforced() {
			next.ServeHTTP(w, r)
			return
		}

		got := r.Header.Get(s.header())
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.Key)) != 1 {
			slog.Warn("auth: rejected request",
				"path", r.URL.Path, "remote", r.RemoteAddr, "header_present", got != "")
			if g.OnReject != nil {
				g.OnReject(r)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"}) //nolint:errcheck
			return
		}

		next.ServeHTTP(w, r)
	})
}
