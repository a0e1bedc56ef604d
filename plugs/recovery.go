package plugs

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/vitalvas/fenix/router"
)

// RecoveryConfig configures the Recovery plug behaviour.
type RecoveryConfig struct {
	// Log receives a stack-traced error entry for every recovered panic.
	// When nil, panics are still recovered but not logged.
	Log *zap.Logger
}

// Recovery returns a plug that recovers from panics in downstream plugs
// and targets, responding with 500 Internal Server Error instead of
// tearing down the connection.
func Recovery(cfg RecoveryConfig) router.Plug {
	log := cfg.Log

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if log != nil {
						log.Error("request panicked",
							zap.Any("panic", err),
							zap.String("method", r.Method),
							zap.String("path", r.URL.Path),
							zap.Stack("stack"),
						)
					}

					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
