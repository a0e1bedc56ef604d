package router

import (
	"fmt"
	"slices"
	"sync"
)

// Table is the compiled, immutable route table: an ordered list of routes
// matched first-declared-wins. A Table is built once and read concurrently
// by any number of request-handling goroutines without synchronization;
// nothing in it is mutated after Compile.
type Table struct {
	routes    []*Route
	pipelines map[string][]Plug

	// helpers indexes helper name -> action -> earliest declared route,
	// for reverse URL building.
	helpers map[string]map[string]*Route

	// handlers caches the pipeline-wrapped handler per route so the
	// chain is composed once, not on every request.
	handlers sync.Map // map[*Route]http.Handler
}

// Compile validates every declaration and builds the Table. Declaration
// order is preserved verbatim: no deduplication and no reordering by
// specificity, so two routes that could both match are disambiguated
// purely by which was declared first.
//
// All build errors are collected and returned together; a Table is never
// partially built.
func (b *Builder) Compile() (*Table, error) {
	errs := slices.Clone(b.state.errs)

	pipelines := make(map[string][]Plug, len(b.state.pipelines))
	for _, p := range b.state.pipelines {
		pipelines[p.name] = p.plugs
	}

	t := &Table{
		routes:    make([]*Route, 0, len(b.state.decls)),
		pipelines: pipelines,
		helpers:   make(map[string]map[string]*Route),
	}

	for _, d := range b.state.decls {
		route, declErrs := compileDecl(d, pipelines)
		if len(declErrs) > 0 {
			errs = append(errs, declErrs...)
			continue
		}

		if err := t.indexHelper(route); err != nil {
			errs = append(errs, err)
			continue
		}

		t.routes = append(t.routes, route)
	}

	if len(errs) > 0 {
		return nil, buildErrors(errs)
	}

	return t, nil
}

func compileDecl(d decl, pipelines map[string][]Plug) (*Route, []error) {
	var errs []error

	if d.verb == "" {
		errs = append(errs, fmt.Errorf("%w (path %q)", ErrEmptyVerb, d.path))
	}
	if d.target == nil {
		errs = append(errs, fmt.Errorf("%w (path %q)", ErrNilTarget, d.path))
	} else if v, ok := d.target.(validatable); ok {
		if err := v.validate(); err != nil {
			errs = append(errs, err)
		}
	}

	segments, err := parseTemplate(d.path)
	if err != nil {
		errs = append(errs, err)
	}

	host, err := parseHostPattern(d.host)
	if err != nil {
		errs = append(errs, err)
	}

	for _, name := range d.pipes {
		if _, ok := pipelines[name]; !ok {
			errs = append(errs, &UnknownPipelineError{Pipeline: name, Route: d.path})
		}
	}

	if d.forward {
		for _, seg := range segments {
			if seg.Kind == SegmentSplat {
				errs = append(errs, fmt.Errorf("router: forward prefix %q must not contain a splat", d.path))
				break
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &Route{
		verb:        d.verb,
		path:        d.path,
		segments:    segments,
		host:        host,
		target:      d.target,
		pipeThrough: d.pipes,
		logLevel:    d.log,
		metadata:    d.metadata,
		helper:      d.helper,
		forward:     d.forward,
	}, nil
}

// indexHelper records a route under its helper name, rejecting helper
// collisions with incompatible parameter sets. Two routes may share a
// helper and action only when they bind the same ordered parameter names
// (duplicate declarations stay permitted; the earlier one wins for URL
// building, exactly as it wins for matching).
func (t *Table) indexHelper(route *Route) error {
	if route.helper == "" {
		return nil
	}

	byAction := t.helpers[route.helper]
	if byAction == nil {
		byAction = make(map[string]*Route)
		t.helpers[route.helper] = byAction
	}

	action := targetAction(route.target)
	existing, ok := byAction[action]
	if !ok {
		byAction[action] = route
		return nil
	}

	if !slices.Equal(paramNames(existing.segments), paramNames(route.segments)) {
		return &AmbiguousHelperError{
			Helper:      route.helper,
			Existing:    existing.path,
			Conflicting: route.path,
		}
	}

	return nil
}

// targetAction extracts the action identity used to key helper lookups:
// the action name for controllers, the plug options when they are a
// string, "" otherwise.
func targetAction(target Target) string {
	_, opts := target.Describe()
	if s, ok := opts.(string); ok {
		return s
	}
	return ""
}

// Routes returns the routes in declaration order. The slice is a copy;
// the routes themselves are immutable.
func (t *Table) Routes() []*Route {
	return slices.Clone(t.routes)
}

// Lookup returns the earliest route declared under a helper name and
// action.
func (t *Table) Lookup(helper, action string) (*Route, bool) {
	route, ok := t.helpers[helper][action]
	return route, ok
}

// Pipeline returns the plugs of a named pipeline.
func (t *Table) Pipeline(name string) ([]Plug, bool) {
	plugs, ok := t.pipelines[name]
	return plugs, ok
}
