package router

import (
	"net/url"
	"strings"
)

// Match is the result of a successful table lookup: the winning route and
// the parameters bound from the request path. A Match is transient
// per-request state; the Route it references is shared and immutable.
type Match struct {
	// Route is the winning route.
	Route *Route

	// PathParams maps parameter names to their decoded values. A splat
	// parameter is stored as its decoded segments joined with "/"; the
	// individual segments are in Splat.
	PathParams map[string]string

	// Splat holds the decoded segments bound by a trailing *splat, in
	// order. Nil when the route has no splat.
	Splat []string

	// ScriptName and PathInfo carry the prefix/remainder split for
	// routes declared via Forward: ScriptName is the decoded consumed
	// prefix and PathInfo the decoded remaining segments. Both nil for
	// ordinary routes.
	ScriptName []string
	PathInfo   []string
}

// Match finds the first route accepting (verb, host, path), in
// declaration order. path is the raw, still percent-encoded request path.
//
// It returns ErrNoRoute when no route accepts the request, and
// *MalformedURIError when a segment at a bound parameter position has
// invalid percent-encoding. The two are distinct outcomes: the first is
// normal, the second is a client error. Matching is pure and lock-free;
// the table is never mutated.
func (t *Table) Match(verb, host, path string) (*Match, error) {
	return t.MatchSegments(verb, host, splitPath(path))
}

// MatchSegments is Match over a pre-split raw path. Match(v, h, p) and
// MatchSegments(v, h, splitPath(p)) always agree.
func (t *Table) MatchSegments(verb, host string, segments []string) (*Match, error) {
	verb = normalizeVerb(verb)

	for _, route := range t.routes {
		if route.verb != VerbAny && route.verb != verb {
			continue
		}
		if !route.host.match(host) {
			continue
		}

		m, ok, err := route.matchSegments(segments)
		if err != nil {
			// Invalid encoding at a bound position is ambiguous across
			// every candidate, so it aborts the whole match instead of
			// skipping to the next route.
			return nil, err
		}
		if ok {
			return m, nil
		}
	}

	return nil, ErrNoRoute
}

// matchSegments walks the route's template against raw request segments.
// Returns (match, true, nil) on success, (nil, false, nil) when the route
// simply does not apply, and a *MalformedURIError when a bound-parameter
// segment fails to decode.
func (r *Route) matchSegments(segs []string) (*Match, bool, error) {
	params := make(map[string]string, len(r.segments))
	var splat []string

	for i, seg := range r.segments {
		if seg.Kind == SegmentSplat {
			rest := segs[i:]
			if len(rest) == 0 {
				// A splat needs at least one segment; a shorter request
				// falls through to later routes.
				return nil, false, nil
			}
			decoded, err := decodeAll(rest)
			if err != nil {
				return nil, false, err
			}
			splat = decoded
			params[seg.Name] = strings.Join(decoded, "/")
			return &Match{Route: r, PathParams: params, Splat: splat}, true, nil
		}

		if i >= len(segs) {
			return nil, false, nil
		}
		raw := segs[i]

		switch seg.Kind {
		case SegmentLiteral:
			decoded, err := decodeSegment(raw)
			if err != nil {
				// Undecodable against a literal: this candidate is out,
				// but the request may still match another route.
				return nil, false, nil
			}
			if decoded != seg.Literal {
				return nil, false, nil
			}

		case SegmentParam:
			decoded, err := decodeSegment(raw)
			if err != nil {
				return nil, false, &MalformedURIError{Segment: raw}
			}
			params[seg.Name] = decoded

		case SegmentSuffixed:
			decoded, err := decodeSegment(raw)
			if err != nil {
				return nil, false, &MalformedURIError{Segment: raw}
			}
			if !strings.HasPrefix(decoded, seg.Literal) {
				return nil, false, nil
			}
			params[seg.Name] = decoded[len(seg.Literal):]
		}
	}

	if r.forward {
		// Forward routes consume their prefix and hand the remainder
		// (possibly empty) downstream.
		script, err := decodeAll(segs[:len(r.segments)])
		if err != nil {
			return nil, false, err
		}
		info, err := decodeAll(segs[len(r.segments):])
		if err != nil {
			return nil, false, err
		}
		return &Match{Route: r, PathParams: params, ScriptName: script, PathInfo: info}, true, nil
	}

	if len(segs) != len(r.segments) {
		return nil, false, nil
	}

	return &Match{Route: r, PathParams: params}, true, nil
}

// decodeAll decodes raw segments, promoting any failure to a
// *MalformedURIError: these positions are all bound, never literal.
func decodeAll(raw []string) ([]string, error) {
	decoded := make([]string, len(raw))
	for i, s := range raw {
		d, err := decodeSegment(s)
		if err != nil {
			return nil, &MalformedURIError{Segment: s}
		}
		decoded[i] = d
	}
	return decoded, nil
}

// Params merges path parameters with query parameters. Path parameters
// always win on key collision; this precedence is a contract surface, not
// an accident of ordering.
func (m *Match) Params(query url.Values) map[string]string {
	merged := make(map[string]string, len(m.PathParams)+len(query))
	for k, vs := range query {
		if len(vs) > 0 {
			merged[k] = vs[0]
		}
	}
	for k, v := range m.PathParams {
		merged[k] = v
	}
	return merged
}

// PipeThrough returns the matched route's pipeline names.
func (m *Match) PipeThrough() []string { return m.Route.PipeThrough() }

// LogLevel returns the matched route's logging level.
func (m *Match) LogLevel() LogLevel { return m.Route.LogLevel() }

// Metadata returns the matched route's metadata.
func (m *Match) Metadata() map[string]any { return m.Route.Metadata() }
