package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"vote-board/internal/metrics"
)

var log = zap.NewNop().Sugar()

// SetLogger installs the request logger used by the middleware stack.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		log = l
	}
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RateLimitVotes(r rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(r, burst, 10*time.Minute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.allow(ip) {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "リクエストが多すぎます",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(rw, r)

		status := rw.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		metrics.IncRequest(r.Method, route, status)

		log.Infow("request",
			"method", r.Method,
			"path", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	limit    rate.Limit
	burst    int
	entryTTL time.Duration
}

func newIPRateLimiter(limit rate.Limit, burst int, entryTTL time.Duration) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    limit,
		burst:    burst,
		entryTTL: entryTTL,
	}
}

func (l *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, ts := range l.lastSeen {
		if now.Sub(ts) > l.entryTTL {
			delete(l.limiters, key)
			delete(l.lastSeen, key)
		}
	}

	if limiter, ok := l.limiters[ip]; ok {
		l.lastSeen[ip] = now
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters[ip] = limiter
	l.lastSeen[ip] = now
	return limiter
}

func (l *ipRateLimiter) allow(ip string) bool {
	limiter := l.getLimiter(ip)
	return limiter.Allow()
}

func clientIP(r *http.Request) string {
	if xfwd := r.Header.Get("X-Forwarded-For"); xfwd != "" {
		parts := strings.Split(xfwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
