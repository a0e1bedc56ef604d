package plugs

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/vitalvas/fenix/router"
)

// ErrNoAuthSource is returned when BasicAuthConfig has neither
// ValidateFunc nor Credentials configured.
var ErrNoAuthSource = errors.New("basic auth: at least one of ValidateFunc or Credentials must be set")

// BasicAuthConfig configures the BasicAuth plug behaviour.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc7617
type BasicAuthConfig struct {
	// Realm is the authentication realm sent in the WWW-Authenticate
	// header. Defaults to "Restricted" when empty.
	Realm string

	// ValidateFunc is called to validate credentials dynamically.
	// Takes priority over Credentials when both are set.
	ValidateFunc func(username, password string) bool

	// Credentials is a static map of username -> password pairs.
	// Compared using SHA-256 hashed constant-time comparison to prevent
	// timing attacks, including length-based leaks.
	Credentials map[string]string
}

// BasicAuth returns a plug implementing HTTP Basic Authentication per
// RFC 7617. It validates the Authorization header and responds with 401
// Unauthorized when credentials are missing or invalid.
//
// It returns ErrNoAuthSource if both ValidateFunc and Credentials are
// nil/empty.
func BasicAuth(cfg BasicAuthConfig) (router.Plug, error) {
	if cfg.ValidateFunc == nil && len(cfg.Credentials) == 0 {
		return nil, ErrNoAuthSource
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	wwwAuthenticate := fmt.Sprintf("Basic realm=%q", realm)

	validate := cfg.ValidateFunc
	credentials := cfg.Credentials

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, wwwAuthenticate)
				return
			}

			if validate != nil {
				if !validate(username, password) {
					unauthorized(w, wwwAuthenticate)
					return
				}
			} else {
				expectedPassword, exists := credentials[username]
				// Always perform the comparison so unknown usernames
				// take the same time as wrong passwords.
				expected := sha256.Sum256([]byte(expectedPassword))
				actual := sha256.Sum256([]byte(password))
				match := subtle.ConstantTimeCompare(expected[:], actual[:]) == 1

				if !exists || !match {
					unauthorized(w, wwwAuthenticate)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func unauthorized(w http.ResponseWriter, wwwAuthenticate string) {
	w.Header().Set("WWW-Authenticate", wwwAuthenticate)
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}
