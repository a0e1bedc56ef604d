package endpoint

// URLConfig describes how one public URL of the endpoint is assembled.
type URLConfig struct {
	// Scheme is "http" or "https". Defaults to "http".
	Scheme string `yaml:"scheme" json:"scheme"`

	// Host is the public host name. Defaults to "localhost".
	Host string `yaml:"host" json:"host"`

	// Port is the public port. Zero means the scheme default, which is
	// omitted from generated URLs.
	Port int `yaml:"port" json:"port"`

	// Path is an optional mount path prefix.
	Path string `yaml:"path" json:"path"`
}

// HTTPConfig holds the listener settings.
type HTTPConfig struct {
	// Port is the port the HTTP listener binds. Defaults to 4000.
	Port int `yaml:"port" json:"port"`

	// Host is the bind address. Defaults to "0.0.0.0".
	Host string `yaml:"host" json:"host"`
}

// Config is the endpoint configuration. Zero values fall back to
// DefaultConfig during Merge.
type Config struct {
	// URL shapes the URLs the endpoint generates for itself.
	URL URLConfig `yaml:"url" json:"url"`

	// StaticURL shapes static asset URLs. When nil, URL is used.
	StaticURL *URLConfig `yaml:"static_url" json:"static_url"`

	// HTTP configures the listener.
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Server marks this endpoint as the one serving requests.
	Server bool `yaml:"server" json:"server"`

	// SecretKeyBase is the secret used for signing tokens. Typically
	// interpolated from the environment, never committed.
	SecretKeyBase string `yaml:"secret_key_base" json:"-"`

	// CacheStaticManifest points at the digested asset directory whose
	// cache manifest should be loaded at boot.
	CacheStaticManifest string `yaml:"cache_static_manifest" json:"cache_static_manifest"`

	// StaticPath is the filesystem directory static assets are served
	// from.
	StaticPath string `yaml:"static_path" json:"static_path"`

	// RenderErrors enables rendering error pages instead of bare
	// status responses.
	RenderErrors bool `yaml:"render_errors" json:"render_errors"`

	// CodeReloader enables the config file watcher.
	CodeReloader bool `yaml:"code_reloader" json:"code_reloader"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		URL: URLConfig{
			Scheme: "http",
			Host:   "localhost",
		},
		HTTP: HTTPConfig{
			Port: 4000,
			Host: "0.0.0.0",
		},
		RenderErrors: true,
	}
}

// Merge fills zero values of the configuration from base and returns
// the result. The receiver is not modified.
func (c *Config) Merge(base *Config) *Config {
	if base == nil {
		return c
	}
	if c == nil {
		return base
	}

	result := *c

	result.URL = mergeURL(result.URL, base.URL)
	if result.StaticURL == nil {
		result.StaticURL = base.StaticURL
	}

	if result.HTTP.Port == 0 {
		result.HTTP.Port = base.HTTP.Port
	}
	if result.HTTP.Host == "" {
		result.HTTP.Host = base.HTTP.Host
	}

	if result.SecretKeyBase == "" {
		result.SecretKeyBase = base.SecretKeyBase
	}
	if result.CacheStaticManifest == "" {
		result.CacheStaticManifest = base.CacheStaticManifest
	}
	if result.StaticPath == "" {
		result.StaticPath = base.StaticPath
	}

	return &result
}

func mergeURL(u, base URLConfig) URLConfig {
	if u.Scheme == "" {
		u.Scheme = base.Scheme
	}
	if u.Host == "" {
		u.Host = base.Host
	}
	if u.Port == 0 {
		u.Port = base.Port
	}
	if u.Path == "" {
		u.Path = base.Path
	}
	return u
}
