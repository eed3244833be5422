package api

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// ipRateLimiter is a fixed-window per-client limiter: each IP gets at
// most limit requests per wall-clock window.
type ipRateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string]*windowCount
	now    func() time.Time
}

type windowCount struct {
	window int64
	count  int
}

func newIPRateLimiter(limit int, window time.Duration) *ipRateLimiter {
	return &ipRateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string]*windowCount),
		now:    time.Now,
	}
}

// allow counts a request from key and reports whether it is within the
// current window's budget. Stale entries are dropped as windows roll
// over.
func (l *ipRateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	win := l.now().Unix() / int64(l.window.Seconds())
	wc, ok := l.hits[key]
	if !ok || wc.window != win {
		wc = &windowCount{window: win}
		l.hits[key] = wc
	}
	wc.count++

	if len(l.hits) > 1024 {
		for k, v := range l.hits {
			if v.window != win {
				delete(l.hits, k)
			}
		}
	}

	return wc.count <= l.limit
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		if !l.allow(ip) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
