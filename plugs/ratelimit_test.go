package plugs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	t.Run("allows bursts within the limit", func(t *testing.T) {
		handler := RateLimit(RateLimitConfig{Rate: 1, Burst: 3})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("rejects requests over the burst", func(t *testing.T) {
		handler := RateLimit(RateLimitConfig{Rate: 0.001, Burst: 1})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})

	t.Run("tracks keys independently", func(t *testing.T) {
		handler := RateLimit(RateLimitConfig{Rate: 0.001, Burst: 1})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		first := httptest.NewRequest(http.MethodGet, "/", nil)
		first.RemoteAddr = "10.0.0.1:1234"
		second := httptest.NewRequest(http.MethodGet, "/", nil)
		second.RemoteAddr = "10.0.0.2:1234"

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, second)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("custom key func", func(t *testing.T) {
		cfg := RateLimitConfig{
			Rate:    0.001,
			Burst:   1,
			KeyFunc: func(r *http.Request) string { return r.Header.Get("X-API-Key") },
		}
		handler := RateLimit(cfg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		keyed := func(key string) *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-API-Key", key)
			return req
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, keyed("a"))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, keyed("a"))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, keyed("b"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("key cap resets the tracked set", func(t *testing.T) {
		cfg := RateLimitConfig{
			Rate:    0.001,
			Burst:   1,
			MaxKeys: 1,
			KeyFunc: func(r *http.Request) string { return r.Header.Get("X-API-Key") },
		}
		handler := RateLimit(cfg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		reqA := httptest.NewRequest(http.MethodGet, "/", nil)
		reqA.Header.Set("X-API-Key", "a")
		reqB := httptest.NewRequest(http.MethodGet, "/", nil)
		reqB.Header.Set("X-API-Key", "b")

		handler.ServeHTTP(httptest.NewRecorder(), reqA)

		// Adding key "b" evicts the full map, so "a" gets a fresh bucket.
		handler.ServeHTTP(httptest.NewRecorder(), reqB)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, reqA)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
