package plugs

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/vitalvas/fenix/router"
)

// RateLimitConfig configures the RateLimit plug behaviour.
type RateLimitConfig struct {
	// Rate is the sustained request rate per key in requests/second.
	// Defaults to 10 when zero.
	Rate float64

	// Burst is the maximum burst size per key. Defaults to 20 when zero.
	Burst int

	// KeyFunc derives the limiter key from the request. Defaults to the
	// client IP (the host part of RemoteAddr).
	KeyFunc func(r *http.Request) string

	// MaxKeys caps the number of tracked keys. When the cap is reached
	// the whole key set is dropped and rebuilt, trading a momentary
	// limit reset for a hard memory bound. Defaults to 65536 when zero.
	MaxKeys int
}

// RateLimit returns a plug enforcing a token-bucket limit per key.
// Requests over the limit are rejected with 429 Too Many Requests and a
// Retry-After hint.
func RateLimit(cfg RateLimitConfig) router.Plug {
	limit := cfg.Rate
	if limit == 0 {
		limit = 10
	}

	burst := cfg.Burst
	if burst == 0 {
		burst = 20
	}

	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = clientIP
	}

	maxKeys := cfg.MaxKeys
	if maxKeys == 0 {
		maxKeys = 65536
	}

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	lookup := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		if l, ok := limiters[key]; ok {
			return l
		}

		if len(limiters) >= maxKeys {
			limiters = make(map[string]*rate.Limiter)
		}

		l := rate.NewLimiter(rate.Limit(limit), burst)
		limiters[key] = l
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lookup(keyFunc(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
