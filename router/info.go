package router

// RouteInfo is the introspection view of a matched route, the shape
// handed to tooling and diagnostics rather than to dispatch.
type RouteInfo struct {
	// Route is the path template of the matched route.
	Route string `json:"route" yaml:"route"`

	// Plug and PlugOpts identify the target: controller name and action,
	// or plug name and init options.
	Plug     string `json:"plug" yaml:"plug"`
	PlugOpts any    `json:"plug_opts,omitempty" yaml:"plug_opts,omitempty"`

	// PipeThrough lists the route's pipelines in execution order.
	PipeThrough []string `json:"pipe_through,omitempty" yaml:"pipe_through,omitempty"`

	// Log is the route's match-logging level.
	Log LogLevel `json:"log" yaml:"log"`

	// PathParams holds the parameters bound from the request path.
	PathParams map[string]string `json:"path_params,omitempty" yaml:"path_params,omitempty"`

	// Metadata is the declaration metadata, verbatim.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Helper is the route's helper name, or "".
	Helper string `json:"helper,omitempty" yaml:"helper,omitempty"`

	// Verb is the route's method, or "*".
	Verb string `json:"verb" yaml:"verb"`

	// Host is the route's host pattern, or "" for any host.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
}

// RouteInfo matches (method, host, path) and returns the introspection
// view of the winner. It shares Match's outcomes: ErrNoRoute when nothing
// matches, *MalformedURIError on invalid encoding at a bound position.
func (t *Table) RouteInfo(method, host, path string) (*RouteInfo, error) {
	m, err := t.Match(method, host, path)
	if err != nil {
		return nil, err
	}
	return m.info(), nil
}

// RouteInfoSegments is RouteInfo over a pre-split raw path; it produces
// identical results for equivalent input.
func (t *Table) RouteInfoSegments(method, host string, segments []string) (*RouteInfo, error) {
	m, err := t.MatchSegments(method, host, segments)
	if err != nil {
		return nil, err
	}
	return m.info(), nil
}

func (m *Match) info() *RouteInfo {
	plug, opts := m.Route.target.Describe()
	return &RouteInfo{
		Route:       m.Route.path,
		Plug:        plug,
		PlugOpts:    opts,
		PipeThrough: m.Route.PipeThrough(),
		Log:         m.Route.logLevel,
		PathParams:  m.PathParams,
		Metadata:    m.Route.Metadata(),
		Helper:      m.Route.helper,
		Verb:        m.Route.verb,
		Host:        m.Route.Host(),
	}
}
