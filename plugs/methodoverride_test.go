package plugs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func methodEcho(seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = r.Method
	})
}

func TestMethodOverride(t *testing.T) {
	t.Run("rewrites post via form parameter", func(t *testing.T) {
		var seen string
		handler := MethodOverride(MethodOverrideConfig{})(methodEcho(&seen))

		req := httptest.NewRequest(http.MethodPost, "/users/1", strings.NewReader("_method=DELETE"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, http.MethodDelete, seen)
	})

	t.Run("rewrites post via query parameter", func(t *testing.T) {
		var seen string
		handler := MethodOverride(MethodOverrideConfig{})(methodEcho(&seen))

		req := httptest.NewRequest(http.MethodPost, "/users/1?_method=put", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, http.MethodPut, seen)
	})

	t.Run("ignores overrides outside the allowed set", func(t *testing.T) {
		var seen string
		handler := MethodOverride(MethodOverrideConfig{})(methodEcho(&seen))

		req := httptest.NewRequest(http.MethodPost, "/users?_method=TRACE", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, http.MethodPost, seen)
	})

	t.Run("ignores non-post requests", func(t *testing.T) {
		var seen string
		handler := MethodOverride(MethodOverrideConfig{})(methodEcho(&seen))

		req := httptest.NewRequest(http.MethodGet, "/users?_method=DELETE", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, http.MethodGet, seen)
	})

	t.Run("custom parameter name", func(t *testing.T) {
		var seen string
		handler := MethodOverride(MethodOverrideConfig{ParamName: "_verb"})(methodEcho(&seen))

		req := httptest.NewRequest(http.MethodPost, "/users/1?_verb=PATCH", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, http.MethodPatch, seen)
	})
}
