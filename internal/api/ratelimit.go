package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bookclub/bookclub-server/internal/http/response"
	"github.com/bookclub/bookclub-server/internal/metrics"
)

const rateLimitInterval = time.Minute

const msgRateLimited = "Too many attempts. Please try again later."

// authAttempts are the requests that check or create credentials.
var authAttempts = map[string]bool{
	"/api/v1/auth/signup": true,
	"/api/v1/auth/signin": true,
	"/signup.html":        true,
	"/signin.html":        true,
}

// rateLimitAuth limits credential attempts per client IP. Other requests
// pass straight through.
func (s *Server) rateLimitAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !authAttempts[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		key := clientIP(r)
		if !s.authRateLimiter.Allow(key) {
			metrics.RateLimited.Inc()
			s.logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)

			if isAPIPath(r.URL.Path) {
				response.TooManyRequests(w, msgRateLimited, s.logger)
				return
			}
			http.Error(w, msgRateLimited, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP returns the request's client address without the port. RealIP
// middleware has already applied X-Forwarded-For and X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
