package plugs

import (
	"net/http"

	"github.com/vitalvas/fenix/router"
)

// headResponseWriter discards the response body while preserving status
// and headers, so HEAD responses stay body-less per RFC 9110 Section 9.3.2.
type headResponseWriter struct {
	http.ResponseWriter
}

func (w *headResponseWriter) Write(b []byte) (int, error) {
	return len(b), nil
}

// Head returns a plug that rewrites HEAD requests to GET and discards
// the response body. The router core deliberately does not treat HEAD as
// an implicit GET; wrapping the Dispatcher in this plug restores that
// convention, since the rewrite must happen before matching.
func Head() router.Plug {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			r2 := r.Clone(r.Context())
			r2.Method = http.MethodGet
			next.ServeHTTP(&headResponseWriter{ResponseWriter: w}, r2)
		})
	}
}
