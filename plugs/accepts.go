package plugs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vitalvas/fenix/router"
)

// ErrNoAcceptedFormats is returned when AcceptsConfig.Formats is empty.
var ErrNoAcceptedFormats = errors.New("accepts: at least one format must be configured")

type formatKey struct{}

// FormatFromContext returns the format negotiated by Accepts, or an empty
// string when the request did not pass through the plug.
func FormatFromContext(ctx context.Context) string {
	if f, ok := ctx.Value(formatKey{}).(string); ok {
		return f
	}

	return ""
}

// formatMIMETypes maps short format names to the MIME types that select
// them during Accept-header negotiation.
var formatMIMETypes = map[string][]string{
	"html": {"text/html", "application/xhtml+xml"},
	"json": {"application/json"},
	"xml":  {"application/xml", "text/xml"},
	"text": {"text/plain"},
	"js":   {"text/javascript", "application/javascript"},
}

// AcceptsConfig configures the Accepts plug behaviour.
type AcceptsConfig struct {
	// Formats is the ordered list of short format names the pipeline
	// accepts (e.g. "html", "json"). The first entry is the default when
	// the request expresses no preference. Required.
	Formats []string

	// OverrideParam is the query parameter that forces a format,
	// bypassing the Accept header. Defaults to "_format" when empty.
	OverrideParam string
}

// Accepts returns a plug performing content negotiation per RFC 9110
// Section 12.5.1. The negotiated short format name is stored in the
// request context for downstream handlers; requests accepting none of
// the configured formats are rejected with 406 Not Acceptable.
//
// A wildcard Accept header (or none at all) selects the first configured
// format. The override query parameter always wins when it names a
// configured format.
func Accepts(cfg AcceptsConfig) (router.Plug, error) {
	if len(cfg.Formats) == 0 {
		return nil, ErrNoAcceptedFormats
	}

	param := cfg.OverrideParam
	if param == "" {
		param = "_format"
	}

	formats := cfg.Formats

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			format := negotiate(r, formats, param)
			if format == "" {
				http.Error(w, http.StatusText(http.StatusNotAcceptable), http.StatusNotAcceptable)
				return
			}

			r = r.WithContext(context.WithValue(r.Context(), formatKey{}, format))
			next.ServeHTTP(w, r)
		})
	}, nil
}

func negotiate(r *http.Request, formats []string, param string) string {
	if override := r.URL.Query().Get(param); override != "" {
		for _, f := range formats {
			if f == override {
				return f
			}
		}
		return ""
	}

	accept := r.Header.Get("Accept")
	if accept == "" || strings.Contains(accept, "*/*") {
		return formats[0]
	}

	for _, f := range formats {
		for _, mime := range formatMIMETypes[f] {
			if acceptsMIME(accept, mime) {
				return f
			}
		}
	}

	return ""
}

// acceptsMIME reports whether the Accept header admits a MIME type,
// including type wildcards like "text/*". Quality values are ignored: the
// configured format order, not the client's q-weights, decides priority.
func acceptsMIME(accept, mime string) bool {
	slash := strings.Index(mime, "/")
	typeWildcard := mime[:slash] + "/*"

	for _, part := range strings.Split(accept, ",") {
		media := strings.TrimSpace(part)
		if i := strings.Index(media, ";"); i >= 0 {
			media = strings.TrimSpace(media[:i])
		}
		if media == mime || media == typeWildcard {
			return true
		}
	}

	return false
}
