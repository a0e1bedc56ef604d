package plugs

import (
	"net/http"

	"github.com/vitalvas/fenix/router"
)

// SecureHeadersConfig configures the SecureHeaders plug behaviour.
type SecureHeadersConfig struct {
	// Headers overrides or extends the default header set. A key with an
	// empty value removes the corresponding default.
	Headers map[string]string
}

// defaultSecureHeaders is the baseline set applied by SecureHeaders,
// matching the conventional secure-browser-headers defaults.
var defaultSecureHeaders = map[string]string{
	"X-Frame-Options":                   "SAMEORIGIN",
	"X-Content-Type-Options":            "nosniff",
	"X-Permitted-Cross-Domain-Policies": "none",
	"Referrer-Policy":                   "strict-origin-when-cross-origin",
}

// SecureHeaders returns a plug that sets security response headers before
// the downstream handler runs, so the handler can still override any of
// them explicitly.
func SecureHeaders(cfg SecureHeadersConfig) router.Plug {
	headers := make(map[string]string, len(defaultSecureHeaders)+len(cfg.Headers))
	for k, v := range defaultSecureHeaders {
		headers[k] = v
	}
	for k, v := range cfg.Headers {
		if v == "" {
			delete(headers, k)
			continue
		}
		headers[k] = v
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for k, v := range headers {
				w.Header().Set(k, v)
			}

			next.ServeHTTP(w, r)
		})
	}
}
