package router

import (
	"fmt"
	"strings"
)

// VerbAny is the wildcard verb: a route declared with it matches every
// request method.
const VerbAny = "*"

// LogLevel controls the level at which a matched route is logged. The
// zero value is LogDebug, matching the declaration default.
type LogLevel int

const (
	// LogDebug logs matches at debug level (the default).
	LogDebug LogLevel = iota

	// LogInfo logs matches at info level.
	LogInfo

	// LogWarn logs matches at warn level.
	LogWarn

	// LogError logs matches at error level.
	LogError

	// LogDisabled suppresses match logging for the route.
	LogDisabled
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	case LogDisabled:
		return "false"
	default:
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
}

// ParseLogLevel parses "debug", "info", "warn", "error" or "false".
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LogDebug, nil
	case "info":
		return LogInfo, nil
	case "warn":
		return LogWarn, nil
	case "error":
		return LogError, nil
	case "false":
		return LogDisabled, nil
	default:
		return LogDebug, fmt.Errorf("router: unknown log level %q", s)
	}
}

// Route is one compiled mapping from (verb, host pattern, path template)
// to a dispatch target. Routes are immutable after Compile and shared
// read-only between concurrent matches.
type Route struct {
	verb        string
	path        string
	segments    []Segment
	host        hostPattern
	target      Target
	pipeThrough []string
	logLevel    LogLevel
	metadata    map[string]any
	helper      string

	// forward marks a route declared via Forward: its implicit trailing
	// splat may bind zero segments, and matches carry the script-name /
	// path-info split.
	forward bool
}

// Verb returns the uppercase route method, or VerbAny.
func (r *Route) Verb() string { return r.verb }

// Path returns the original path template.
func (r *Route) Path() string { return r.path }

// Segments returns a copy of the parsed template segments.
func (r *Route) Segments() []Segment {
	segs := make([]Segment, len(r.segments))
	copy(segs, r.segments)
	return segs
}

// Host returns the host pattern in source form: "" for any host, an exact
// host, or "*.suffix".
func (r *Route) Host() string { return r.host.pattern() }

// Target returns the dispatch target.
func (r *Route) Target() Target { return r.target }

// PipeThrough returns a copy of the pipeline names the route runs through
// before dispatch, in execution order.
func (r *Route) PipeThrough() []string {
	if len(r.pipeThrough) == 0 {
		return nil
	}
	names := make([]string, len(r.pipeThrough))
	copy(names, r.pipeThrough)
	return names
}

// LogLevel returns the route's match-logging level.
func (r *Route) LogLevel() LogLevel { return r.logLevel }

// Metadata returns a copy of the metadata attached at declaration.
func (r *Route) Metadata() map[string]any {
	if len(r.metadata) == 0 {
		return nil
	}
	md := make(map[string]any, len(r.metadata))
	for k, v := range r.metadata {
		md[k] = v
	}
	return md
}

// Helper returns the helper name for reverse URL generation, or "".
func (r *Route) Helper() string { return r.helper }

// Forwarded reports whether the route was declared via Forward.
func (r *Route) Forwarded() bool { return r.forward }

// options is the merged declaration-time option set for a route or scope.
type options struct {
	helper   string
	host     string
	hostSet  bool
	pipes    []string
	log      LogLevel
	logSet   bool
	metadata map[string]any
}

// Option configures a route or scope declaration. The same options apply
// to both: on a scope they become defaults inherited by every route
// declared within it.
type Option func(*options)

// As sets the helper name used for reverse URL generation. On a scope it
// becomes a prefix joined to nested helper names with "_".
func As(helper string) Option {
	return func(o *options) { o.helper = helper }
}

// OnHost constrains the route to a host: exact ("api.example.com") or
// leading-wildcard ("*.example.com"). On a scope it applies to every
// nested route that does not set its own host.
func OnHost(pattern string) Option {
	return func(o *options) {
		o.host = pattern
		o.hostSet = true
	}
}

// PipeThrough appends named pipelines to run before dispatch. Pipelines
// accumulate: scope pipelines run before route pipelines.
func PipeThrough(names ...string) Option {
	return func(o *options) { o.pipes = append(o.pipes, names...) }
}

// Log sets the level at which a match is logged. Use LogDisabled to turn
// match logging off for the route.
func Log(level LogLevel) Option {
	return func(o *options) {
		o.log = level
		o.logSet = true
	}
}

// Metadata attaches key/value metadata to the route, surfaced verbatim by
// RouteInfo. Keys merge with scope metadata; route keys win.
func Metadata(md map[string]any) Option {
	return func(o *options) {
		if o.metadata == nil {
			o.metadata = make(map[string]any, len(md))
		}
		for k, v := range md {
			o.metadata[k] = v
		}
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
