package router

import (
	"fmt"
	"net/http"
	"strings"
)

// Plug is one request-processing step. Pipelines are ordered lists of
// plugs run before a route's target.
type Plug func(http.Handler) http.Handler

// Builder collects route declarations in order and compiles them into an
// immutable Table. It is build-time, single-goroutine state; only the
// compiled Table is safe to share.
//
// Declaration order is the match priority: more specific routes must be
// declared before catch-alls.
type Builder struct {
	state *builderState

	// scope context inherited by nested declarations
	prefix       string
	host         string
	hostSet      bool
	pipes        []string
	helperPrefix string
	metadata     map[string]any
}

// builderState is shared between a root builder and its scopes so every
// declaration lands in one ordered list.
type builderState struct {
	decls     []decl
	pipelines []pipelineDecl
	pipeNames map[string]struct{}
	forwards  map[string]string
	errs      []error
}

type decl struct {
	verb     string
	path     string
	target   Target
	helper   string
	host     string
	pipes    []string
	log      LogLevel
	metadata map[string]any
	forward  bool
}

type pipelineDecl struct {
	name  string
	plugs []Plug
}

// New returns an empty route builder.
func New() *Builder {
	return &Builder{
		state: &builderState{
			pipeNames: make(map[string]struct{}),
			forwards:  make(map[string]string),
		},
	}
}

// Pipeline declares a named, ordered sequence of plugs that routes can
// reference via PipeThrough. Declaring the same name twice is a build
// error reported by Compile.
func (b *Builder) Pipeline(name string, plugs ...Plug) *Builder {
	if name == "" {
		b.state.errs = append(b.state.errs, fmt.Errorf("router: pipeline name must not be empty"))
		return b
	}
	if _, dup := b.state.pipeNames[name]; dup {
		b.state.errs = append(b.state.errs, fmt.Errorf("router: pipeline %q declared twice", name))
		return b
	}
	b.state.pipeNames[name] = struct{}{}
	b.state.pipelines = append(b.state.pipelines, pipelineDecl{name: name, plugs: plugs})
	return b
}

// Scope returns a child builder rooted at prefix. Routes declared on the
// child inherit the scope's host, accumulate its pipelines (scope
// pipelines run first), merge its metadata (route keys win) and join its
// helper prefix with "_".
func (b *Builder) Scope(prefix string, opts ...Option) *Builder {
	o := applyOptions(opts)

	helperPrefix := b.helperPrefix
	if o.helper != "" {
		helperPrefix = joinHelpers(b.helperPrefix, o.helper)
	}

	child := &Builder{
		state:        b.state,
		prefix:       joinPaths(b.prefix, prefix),
		host:         b.host,
		hostSet:      b.hostSet,
		pipes:        append(append([]string(nil), b.pipes...), o.pipes...),
		helperPrefix: helperPrefix,
		metadata:     mergeMetadata(b.metadata, o.metadata),
	}
	if o.hostSet {
		child.host = o.host
		child.hostSet = true
	}
	return child
}

// Match declares a route. verb is an HTTP method or VerbAny; path is a
// template with :param, prefix-:param and trailing *splat segments.
func (b *Builder) Match(verb, path string, target Target, opts ...Option) *Builder {
	b.declare(verb, path, target, false, opts)
	return b
}

// Get declares a GET route.
func (b *Builder) Get(path string, target Target, opts ...Option) *Builder {
	return b.Match(http.MethodGet, path, target, opts...)
}

// Post declares a POST route.
func (b *Builder) Post(path string, target Target, opts ...Option) *Builder {
	return b.Match(http.MethodPost, path, target, opts...)
}

// Put declares a PUT route.
func (b *Builder) Put(path string, target Target, opts ...Option) *Builder {
	return b.Match(http.MethodPut, path, target, opts...)
}

// Patch declares a PATCH route.
func (b *Builder) Patch(path string, target Target, opts ...Option) *Builder {
	return b.Match(http.MethodPatch, path, target, opts...)
}

// Delete declares a DELETE route.
func (b *Builder) Delete(path string, target Target, opts ...Option) *Builder {
	return b.Match(http.MethodDelete, path, target, opts...)
}

// Options declares an OPTIONS route.
func (b *Builder) Options(path string, target Target, opts ...Option) *Builder {
	return b.Match(http.MethodOptions, path, target, opts...)
}

// Head declares a HEAD route.
func (b *Builder) Head(path string, target Target, opts ...Option) *Builder {
	return b.Match(http.MethodHead, path, target, opts...)
}

// Connect declares a CONNECT route.
func (b *Builder) Connect(path string, target Target, opts ...Option) *Builder {
	return b.Match(http.MethodConnect, path, target, opts...)
}

// Trace declares a TRACE route.
func (b *Builder) Trace(path string, target Target, opts ...Option) *Builder {
	return b.Match(http.MethodTrace, path, target, opts...)
}

// Any declares a route matching every request method.
func (b *Builder) Any(path string, target Target, opts ...Option) *Builder {
	return b.Match(VerbAny, path, target, opts...)
}

// Forward mounts a target under a prefix: every method and every path at
// or below the prefix dispatches to it. On a match the consumed prefix is
// surfaced as Match.ScriptName and the remainder as Match.PathInfo, so
// the downstream handler sees a request rooted at the prefix.
//
// A target may be forwarded to only once; a second Forward to the same
// plug name is a build error reported by Compile.
func (b *Builder) Forward(prefix string, target Target, opts ...Option) *Builder {
	if target != nil {
		plug, _ := target.Describe()
		if existing, dup := b.state.forwards[plug]; dup {
			b.state.errs = append(b.state.errs,
				fmt.Errorf("router: %q is already forwarded to at %q", plug, existing))
			return b
		}
		b.state.forwards[plug] = joinPaths(b.prefix, prefix)
	}
	b.declare(VerbAny, prefix, target, true, opts)
	return b
}

func (b *Builder) declare(verb, path string, target Target, forward bool, opts []Option) {
	o := applyOptions(opts)

	d := decl{
		verb:     normalizeVerb(verb),
		path:     joinPaths(b.prefix, path),
		target:   target,
		helper:   joinHelpers(b.helperPrefix, o.helper),
		host:     b.host,
		pipes:    append(append([]string(nil), b.pipes...), o.pipes...),
		metadata: mergeMetadata(b.metadata, o.metadata),
		forward:  forward,
	}
	if o.hostSet {
		d.host = o.host
	}
	if o.logSet {
		d.log = o.log
	}
	b.state.decls = append(b.state.decls, d)
}

// normalizeVerb uppercases a method, leaving VerbAny alone.
func normalizeVerb(verb string) string {
	if verb == VerbAny {
		return verb
	}
	return strings.ToUpper(verb)
}

// joinPaths concatenates a scope prefix and a path, always yielding a
// single leading slash.
func joinPaths(prefix, path string) string {
	joined := strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
	if !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	if joined != "/" {
		joined = strings.TrimSuffix(joined, "/")
	}
	return joined
}

// joinHelpers joins a scope helper prefix and a helper name with "_". An
// empty helper stays empty: only explicitly named routes get helpers.
func joinHelpers(prefix, helper string) string {
	if helper == "" {
		return ""
	}
	if prefix == "" {
		return helper
	}
	return prefix + "_" + helper
}

func mergeMetadata(scope, route map[string]any) map[string]any {
	if len(scope) == 0 && len(route) == 0 {
		return nil
	}
	md := make(map[string]any, len(scope)+len(route))
	for k, v := range scope {
		md[k] = v
	}
	for k, v := range route {
		md[k] = v
	}
	return md
}
