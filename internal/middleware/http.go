package middleware

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/metrics"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/security"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Observe logs every request and records it under route in m.
func Observe(route string, m *metrics.Metrics, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		m.RequestsInFlightInc()
		defer m.RequestsInFlightDec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r, ps)

		took := time.Since(start)
		m.ObserveRequest(r.Method, route, rec.status, took)
		logger.Debug("HTTP request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration_ms", took.Milliseconds(),
			"remote", ClientIP(r),
		)
	}
}

// Recover turns a panic in a handler into a 500 response.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("Panic in HTTP handler", "error", v, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// CORS sets permissive cross-origin headers for the configured origin and
// answers preflight requests.
func CORS(origin string, next http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if origin != "*" {
			h.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOrganizer rejects requests without an organizer bearer token when
// enabled.
func RequireOrganizer(enabled bool, secret string, next httprouter.Handle) httprouter.Handle {
	if !enabled {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := BearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Organizer token required")
			return
		}
		if !security.IsOrganizer(token, secret) {
			writeError(w, http.StatusForbidden, "Organizer access required")
			return
		}
		next(w, r, ps)
	}
}

type teamContextKey struct{}

// RequireTeam rejects requests without a valid team bearer token when
// enabled. The token's team name is available to the handler through
// TeamFromContext.
func RequireTeam(enabled bool, secret string, next httprouter.Handle) httprouter.Handle {
	if !enabled {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := BearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Team token required")
			return
		}
		claims, err := security.ValidateJWT(token, secret)
		if err != nil || claims.Role != security.RoleTeam || claims.TeamName == "" {
			writeError(w, http.StatusUnauthorized, "Invalid team token")
			return
		}
		ctx := context.WithValue(r.Context(), teamContextKey{}, claims.TeamName)
		next(w, r.WithContext(ctx), ps)
	}
}

// TeamFromContext returns the team name set by RequireTeam
func TeamFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(teamContextKey{}).(string)
	return name, ok
}

// LimitIP rejects requests from clients over their per-IP budget.
func LimitIP(rl *RateLimiter, next httprouter.Handle) httprouter.Handle {
	if rl == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ip := ClientIP(r)
		allowed := rl.CheckIPLimit(ip)
		SetRemaining(w, rl.GetIPRemaining(ip))
		if !allowed {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(w, r, ps)
	}
}

// SetRemaining writes the rate limit header unless the limit is disabled
func SetRemaining(w http.ResponseWriter, remaining int) {
	if remaining >= 0 {
		w.Header().Set(RemainingHeader, strconv.Itoa(remaining))
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// ClientIP returns the first X-Forwarded-For hop or the peer address
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
