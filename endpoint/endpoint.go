package endpoint

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vitalvas/fenix/digest"
)

// Endpoint holds the runtime view of a configuration: derived URL
// strings, the static asset manifest and the listener settings. Reads
// are lock-free; ReloadConfig swaps the whole view atomically.
type Endpoint struct {
	state atomic.Pointer[endpointState]
	log   *zap.Logger
}

// endpointState is an immutable snapshot derived from one Config.
type endpointState struct {
	cfg       *Config
	url       string
	staticURL string
	manifest  *digest.Manifest
}

// Option configures an Endpoint.
type Option func(*Endpoint)

// WithLogger sets the logger used for reload events.
func WithLogger(log *zap.Logger) Option {
	return func(e *Endpoint) {
		e.log = log
	}
}

// New builds an Endpoint from a configuration. Zero config values take
// defaults; when CacheStaticManifest is set the digest manifest is
// loaded eagerly so asset lookups never touch the disk per request.
func New(cfg *Config, opts ...Option) (*Endpoint, error) {
	e := &Endpoint{}
	for _, opt := range opts {
		opt(e)
	}

	state, err := deriveState(cfg)
	if err != nil {
		return nil, err
	}

	e.state.Store(state)
	return e, nil
}

func deriveState(cfg *Config) (*endpointState, error) {
	cfg = cfg.Merge(DefaultConfig())

	state := &endpointState{
		cfg:       cfg,
		url:       buildURL(cfg.URL),
		staticURL: buildURL(cfg.URL),
	}

	if cfg.StaticURL != nil {
		static := mergeURL(*cfg.StaticURL, cfg.URL)
		state.staticURL = buildURL(static)
	}

	if cfg.CacheStaticManifest != "" {
		manifest, err := digest.LoadManifest(cfg.CacheStaticManifest)
		if err != nil {
			return nil, fmt.Errorf("endpoint: load static manifest: %w", err)
		}
		state.manifest = manifest
	}

	return state, nil
}

// buildURL assembles scheme://host[:port][path], omitting the port when
// it is the scheme default.
func buildURL(u URLConfig) string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Host)

	if u.Port != 0 && u.Port != schemeDefaultPort(u.Scheme) {
		fmt.Fprintf(&b, ":%d", u.Port)
	}

	if u.Path != "" && u.Path != "/" {
		b.WriteString("/" + strings.Trim(u.Path, "/"))
	}

	return b.String()
}

func schemeDefaultPort(scheme string) int {
	switch scheme {
	case "https":
		return 443
	default:
		return 80
	}
}

// Config returns the active configuration snapshot.
func (e *Endpoint) Config() *Config {
	return e.state.Load().cfg
}

// URL returns the derived endpoint URL, e.g. "https://example.com:8443".
func (e *Endpoint) URL() string {
	return e.state.Load().url
}

// StaticURL returns the derived static asset base URL. Falls back to
// URL when no static URL is configured.
func (e *Endpoint) StaticURL() string {
	return e.state.Load().staticURL
}

// Host returns the public host name.
func (e *Endpoint) Host() string {
	return e.state.Load().cfg.URL.Host
}

// Port returns the public port, or the scheme default when unset.
func (e *Endpoint) Port() int {
	cfg := e.state.Load().cfg
	if cfg.URL.Port != 0 {
		return cfg.URL.Port
	}
	return schemeDefaultPort(cfg.URL.Scheme)
}

// StaticPath resolves an asset path against the cache manifest: known
// logical paths map to their fingerprinted name with a ?vsn=d cache
// marker, unknown paths pass through unchanged.
func (e *Endpoint) StaticPath(path string) string {
	logical := strings.TrimPrefix(path, "/")

	state := e.state.Load()
	if state.manifest != nil {
		if digested, ok := state.manifest.DigestedPath(logical); ok {
			return "/" + digested + "?vsn=d"
		}
	}

	return "/" + logical
}

// StaticURLFor returns the absolute static URL for an asset path,
// applying the same manifest resolution as StaticPath.
func (e *Endpoint) StaticURLFor(path string) string {
	return e.StaticURL() + e.StaticPath(path)
}

// StaticIntegrity returns the subresource integrity value for an asset
// known to the manifest, e.g. "sha256-…".
func (e *Endpoint) StaticIntegrity(path string) (string, bool) {
	logical := strings.TrimPrefix(path, "/")

	state := e.state.Load()
	if state.manifest == nil {
		return "", false
	}

	digested, ok := state.manifest.DigestedPath(logical)
	if !ok {
		return "", false
	}

	entry, ok := state.manifest.Lookup(digested)
	if !ok {
		return "", false
	}

	return "sha256-" + entry.SHA256, true
}

// Manifest returns the loaded cache manifest, or nil when the endpoint
// runs without digested assets.
func (e *Endpoint) Manifest() *digest.Manifest {
	return e.state.Load().manifest
}

// ReloadConfig derives a fresh snapshot from the configuration and
// swaps it in. In-flight readers keep the old snapshot; a derivation
// error leaves the endpoint untouched.
func (e *Endpoint) ReloadConfig(cfg *Config) error {
	state, err := deriveState(cfg)
	if err != nil {
		return err
	}

	e.state.Store(state)

	if e.log != nil {
		e.log.Info("endpoint config reloaded",
			zap.String("url", state.url),
			zap.String("static_url", state.staticURL),
		)
	}

	return nil
}
