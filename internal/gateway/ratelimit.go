package gateway

import (
	"net"
	"net/http"
	"sync"
	"time"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/util"

	"golang.org/x/time/rate"
)

const visitorIdleTimeout = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter : token bucket на каждый IP клиента
type ClientLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewClientLimiter : nil, если rps не задан, лимит тогда не применяется
func NewClientLimiter(cfg config.RateLimitConfig) *ClientLimiter {
	if cfg.RPS <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(cfg.RPS) + 1
	}
	return &ClientLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(cfg.RPS),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow : забирает токен из корзины клиента
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[client]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[client] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Cleanup : удаляет клиентов, которых не было дольше visitorIdleTimeout
func (l *ClientLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-visitorIdleTimeout)
	for client, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, client)
		}
	}
}

func (l *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			util.HandleError(w, r, apperr.RateLimited())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP : адрес TCP-пира, заголовки пересылки не учитываются
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
