package plugs

import (
	"net/http"
	"strings"

	"github.com/vitalvas/fenix/router"
)

// MethodOverrideConfig configures the MethodOverride plug behaviour.
type MethodOverrideConfig struct {
	// ParamName is the form/query parameter carrying the override.
	// Defaults to "_method" when empty.
	ParamName string

	// AllowedMethods restricts which methods may be used as overrides.
	// When nil, defaults to PUT, PATCH, DELETE: the methods HTML forms
	// cannot express.
	AllowedMethods []string
}

// defaultOverrideMethods is the set of methods allowed as overrides when
// AllowedMethods is nil.
var defaultOverrideMethods = []string{
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// MethodOverride returns a plug that lets HTML forms express PUT, PATCH
// and DELETE: a POST carrying a "_method" form or query parameter whose
// value is in the allowed set has its method rewritten before matching.
// Only POST requests are eligible; the override value is uppercased
// before the check. Wrap the Dispatcher in this plug so the rewrite
// happens before route matching.
func MethodOverride(cfg MethodOverrideConfig) router.Plug {
	param := cfg.ParamName
	if param == "" {
		param = "_method"
	}

	allowed := cfg.AllowedMethods
	if allowed == nil {
		allowed = defaultOverrideMethods
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, m := range allowed {
		allowedSet[strings.ToUpper(m)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			override := r.URL.Query().Get(param)
			if override == "" && hasFormBody(r) {
				if err := r.ParseForm(); err == nil {
					override = r.PostFormValue(param)
				}
			}

			if override != "" {
				override = strings.ToUpper(override)
				if _, ok := allowedSet[override]; ok {
					r2 := r.Clone(r.Context())
					r2.Method = override
					r = r2
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasFormBody(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded")
}
