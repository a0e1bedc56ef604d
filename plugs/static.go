package plugs

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vitalvas/fenix/digest"
	"github.com/vitalvas/fenix/router"
)

// ErrNoStaticSource is returned when StaticConfig is missing the URL
// prefix or the filesystem directory.
var ErrNoStaticSource = errors.New("static: both At and From must be set")

// StaticConfig configures the Static plug behaviour.
type StaticConfig struct {
	// At is the URL prefix the assets are served under, e.g. "/assets".
	At string

	// From is the filesystem directory the assets are read from.
	From string

	// Manifest enables digested asset serving: requests for
	// fingerprinted names get a strong ETag derived from the content
	// digest, and requests carrying ?vsn=d get an immutable
	// Cache-Control so browsers never revalidate them.
	Manifest *digest.Manifest

	// Gzip serves a precompressed sibling file (name + ".gz") when the
	// client accepts gzip.
	Gzip bool

	// Brotli serves a precompressed sibling file (name + ".br") when
	// the client accepts br. Preferred over gzip when both apply.
	Brotli bool

	// CacheControl is sent for requests without ?vsn=d. Defaults to
	// "public".
	CacheControl string
}

// Static returns a plug serving files from a directory under a URL
// prefix. Requests that do not match the prefix, or name a file that
// does not exist, fall through to the next handler.
//
// Only GET and HEAD requests are served.
func Static(cfg StaticConfig) (router.Plug, error) {
	if cfg.At == "" || cfg.From == "" {
		return nil, ErrNoStaticSource
	}

	prefix := "/" + strings.Trim(cfg.At, "/")
	if prefix == "/" {
		prefix = ""
	}

	cacheControl := cfg.CacheControl
	if cacheControl == "" {
		cacheControl = "public"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rel, ok := staticRelPath(r.URL.Path, prefix)
			if !ok || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
				next.ServeHTTP(w, r)
				return
			}

			full := filepath.Join(cfg.From, filepath.FromSlash(rel))
			info, err := os.Stat(full)
			if err != nil || info.IsDir() {
				next.ServeHTTP(w, r)
				return
			}

			var etag string
			if cfg.Manifest != nil {
				if entry, ok := cfg.Manifest.Lookup(rel); ok {
					etag = `"` + entry.Digest + `"`
				}
			}

			if etag != "" {
				w.Header().Set("ETag", etag)
				if r.Header.Get("If-None-Match") == etag {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}

			if r.URL.Query().Get("vsn") == "d" {
				w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
			} else {
				w.Header().Set("Cache-Control", cacheControl)
			}

			if ctype := mime.TypeByExtension(path.Ext(rel)); ctype != "" {
				w.Header().Set("Content-Type", ctype)
			}

			if cfg.Brotli || cfg.Gzip {
				w.Header().Add("Vary", "Accept-Encoding")

				accepted := r.Header.Get("Accept-Encoding")
				if cfg.Brotli && acceptsEncoding(accepted, "br") {
					if f, fi, err := openVariant(full + ".br"); err == nil {
						defer f.Close()
						w.Header().Set("Content-Encoding", "br")
						http.ServeContent(w, r, "", fi.ModTime(), f)
						return
					}
				}
				if cfg.Gzip && acceptsEncoding(accepted, "gzip") {
					if f, fi, err := openVariant(full + ".gz"); err == nil {
						defer f.Close()
						w.Header().Set("Content-Encoding", "gzip")
						http.ServeContent(w, r, "", fi.ModTime(), f)
						return
					}
				}
			}

			f, err := os.Open(full)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			defer f.Close()

			http.ServeContent(w, r, "", info.ModTime(), f)
		})
	}, nil
}

// staticRelPath strips the serving prefix and normalizes the remainder,
// rejecting traversal outside the asset root.
func staticRelPath(urlPath, prefix string) (string, bool) {
	if prefix != "" {
		if !strings.HasPrefix(urlPath, prefix+"/") {
			return "", false
		}
		urlPath = strings.TrimPrefix(urlPath, prefix)
	}

	cleaned := path.Clean("/" + urlPath)
	if cleaned == "/" || strings.Contains(cleaned, "..") {
		return "", false
	}

	return strings.TrimPrefix(cleaned, "/"), true
}

// acceptsEncoding reports whether an Accept-Encoding header lists the
// given coding with a non-zero quality.
func acceptsEncoding(header, coding string) bool {
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(name), coding) {
			continue
		}
		if strings.Contains(params, "q=0") && !strings.Contains(params, "q=0.") {
			return false
		}
		return true
	}
	return false
}

func openVariant(path string) (*os.File, os.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return f, fi, nil
}
