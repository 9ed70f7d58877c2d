package dashboard

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"sync"

	"rentdash/internal/config"

	"golang.org/x/time/rate"
)

// authGuard provides API-key auth and per-key rate limiting.
type authGuard struct {
	cfg      config.ServerConfig
	limiters sync.Map // map[string]*rate.Limiter
}

func newAuthGuard(cfg config.ServerConfig) *authGuard {
	return &authGuard{cfg: cfg}
}

func (g *authGuard) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.cfg.Auth.Enabled {
			if !g.checkKey(r) {
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}
		}

		if !g.allow(r) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *authGuard) headerName() string {
	name := strings.TrimSpace(g.cfg.Auth.HeaderAPIKey)
	if name == "" {
		name = "x-api-key"
	}
	return name
}

func (g *authGuard) checkKey(r *http.Request) bool {
	candidate := strings.TrimSpace(r.Header.Get(g.headerName()))
	if candidate == "" {
		return false
	}

	// Compare against every configured key so timing does not reveal which
	// prefix matched.
	ok := false
	for _, k := range g.cfg.Auth.APIKeys {
		if subtle.ConstantTimeCompare([]byte(k.Key), []byte(candidate)) == 1 {
			ok = true
		}
	}
	return ok
}

func (g *authGuard) allow(r *http.Request) bool {
	if g.cfg.RateLimit.RPS <= 0 {
		return true
	}
	return g.getLimiter(g.clientKey(r)).Allow()
}

func (g *authGuard) clientKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(g.headerName())); key != "" {
		return key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (g *authGuard) getLimiter(key string) *rate.Limiter {
	if v, ok := g.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := g.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(g.cfg.RateLimit.RPS), burst)
	actual, loaded := g.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
