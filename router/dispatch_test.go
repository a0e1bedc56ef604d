package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherServeHTTP(t *testing.T) {
	t.Run("dispatches to the matched target", func(t *testing.T) {
		table := mustCompile(t, func(b *Builder) {
			b.Get("/hello", ToPlug("Hello", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "world")
			}), nil))
		})
		d := NewDispatcher(table)

		w := httptest.NewRecorder()
		d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "world", w.Body.String())
	})

	t.Run("returns 404 when no route matches", func(t *testing.T) {
		table := mustCompile(t, func(b *Builder) {
			b.Get("/hello", testPlug("hello"))
		})
		d := NewDispatcher(table)

		w := httptest.NewRecorder()
		d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("uses a custom not-found handler", func(t *testing.T) {
		table := mustCompile(t, func(b *Builder) {})
		d := NewDispatcher(table, WithNotFoundHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "custom 404")
		})))

		w := httptest.NewRecorder()
		d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, "custom 404", w.Body.String())
	})

	t.Run("returns 400 for malformed encoding at a parameter", func(t *testing.T) {
		table := mustCompile(t, func(b *Builder) {
			b.Get("/users/:id", testPlug("show"))
		})
		d := NewDispatcher(table)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
		// Inject the malformed wire form directly; url.Parse would
		// reject it before a handler ever saw it.
		req.URL.RawPath = "/users/%zz"
		d.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("runs pipelines in declaration order around the target", func(t *testing.T) {
		var order []string
		step := func(name string) Plug {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		table := mustCompile(t, func(b *Builder) {
			b.Pipeline("browser", step("fetch_session"), step("protect_forgery"))
			b.Pipeline("admin", step("require_admin"))
			b.Get("/admin", ToPlug("Admin", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				order = append(order, "target")
			}), nil), PipeThrough("browser", "admin"))
		})
		d := NewDispatcher(table)

		d.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, []string{"fetch_session", "protect_forgery", "require_admin", "target"}, order)
	})

	t.Run("exposes the match and params in the request context", func(t *testing.T) {
		var params map[string]string
		var match *Match

		table := mustCompile(t, func(b *Builder) {
			b.Get("/users/:id", ToPlug("Show", http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				match = MatchFrom(r)
				params = Params(r)
			}), nil))
		})
		d := NewDispatcher(table)

		d.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/7?id=other&page=2", nil))
		require.NotNil(t, match)
		assert.Equal(t, "/users/:id", match.Route.Path())
		assert.Equal(t, map[string]string{"id": "7", "page": "2"}, params)
	})

	t.Run("unrouted requests have no match context", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, MatchFrom(r))
		assert.Nil(t, Params(r))
	})

	t.Run("forwarded requests see the stripped path", func(t *testing.T) {
		var seenPath string
		table := mustCompile(t, func(b *Builder) {
			b.Forward("/metrics", ToPlug("Exporter", http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seenPath = r.URL.Path
			}), nil))
		})
		d := NewDispatcher(table)

		d.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics/jobs/7", nil))
		assert.Equal(t, "/jobs/7", seenPath)

		d.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, "/", seenPath)
	})

	t.Run("swap atomically replaces the table", func(t *testing.T) {
		first := mustCompile(t, func(b *Builder) {
			b.Get("/r", ToPlug("One", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "one")
			}), nil))
		})
		second := mustCompile(t, func(b *Builder) {
			b.Get("/r", ToPlug("Two", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "two")
			}), nil))
		})

		d := NewDispatcher(first)
		assert.Same(t, first, d.Table())

		w := httptest.NewRecorder()
		d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/r", nil))
		assert.Equal(t, "one", w.Body.String())

		d.Swap(second)
		assert.Same(t, second, d.Table())

		w = httptest.NewRecorder()
		d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/r", nil))
		assert.Equal(t, "two", w.Body.String())
	})

	t.Run("instrumentation options do not disturb dispatch", func(t *testing.T) {
		table := mustCompile(t, func(b *Builder) {
			b.Get("/r", testPlug("t"))
		})
		d := NewDispatcher(table,
			WithLogger(NewLogger(nil)),
			WithMetrics(NewMetrics(nil)),
			WithTracing(NewTracer(nil)),
		)

		w := httptest.NewRecorder()
		d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/r", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTableHandlerCache(t *testing.T) {
	t.Run("composes the chain once per route", func(t *testing.T) {
		var wraps int
		table := mustCompile(t, func(b *Builder) {
			b.Pipeline("counted", func(next http.Handler) http.Handler {
				wraps++
				return next
			})
			b.Get("/r", testPlug("t"), PipeThrough("counted"))
		})
		d := NewDispatcher(table)

		for i := 0; i < 3; i++ {
			d.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/r", nil))
		}
		assert.Equal(t, 1, wraps)
	})
}
