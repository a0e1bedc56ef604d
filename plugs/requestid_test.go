package plugs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	t.Run("generates uuid and sets header and context", func(t *testing.T) {
		var fromCtx string
		handler := RequestID(RequestIDConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromCtx = RequestIDFromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get("X-Request-ID")
		require.NotEmpty(t, id)
		assert.Equal(t, id, fromCtx)

		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("ignores incoming header by default", func(t *testing.T) {
		handler := RequestID(RequestIDConfig{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "spoofed")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.NotEqual(t, "spoofed", rec.Header().Get("X-Request-ID"))
	})

	t.Run("reuses incoming header when trusted", func(t *testing.T) {
		handler := RequestID(RequestIDConfig{TrustIncoming: true})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-id")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "upstream-id", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom header and generator", func(t *testing.T) {
		cfg := RequestIDConfig{
			HeaderName:   "X-Trace-ID",
			GenerateFunc: func(*http.Request) string { return "fixed" },
		}

		handler := RequestID(cfg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "fixed", rec.Header().Get("X-Trace-ID"))
	})

	t.Run("context without id yields empty string", func(t *testing.T) {
		assert.Empty(t, RequestIDFromContext(context.Background()))
	})
}
