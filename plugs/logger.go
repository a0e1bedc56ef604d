package plugs

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vitalvas/fenix/router"
)

// LoggerConfig configures the Logger plug behaviour.
type LoggerConfig struct {
	// Log receives the access log entries. When nil the plug is a no-op
	// passthrough.
	Log *zap.Logger

	// Message overrides the log message. Defaults to "request served".
	Message string
}

// statusResponseWriter captures the status code and bytes written for
// access logging.
type statusResponseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusResponseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// Logger returns a plug that logs one structured entry per request:
// method, path, status, response size, duration and the request ID when
// the RequestID plug ran earlier in the pipeline.
func Logger(cfg LoggerConfig) router.Plug {
	log := cfg.Log
	message := cfg.Message
	if message == "" {
		message = "request served"
	}

	return func(next http.Handler) http.Handler {
		if log == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusResponseWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int64("bytes", sw.written),
				zap.Duration("duration", time.Since(start)),
			}
			if id := RequestIDFromContext(r.Context()); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}

			log.Info(message, fields...)
		})
	}
}
