package router

import "strings"

// SegmentKind discriminates the four path segment forms.
type SegmentKind int

const (
	// SegmentLiteral matches its text exactly.
	SegmentLiteral SegmentKind = iota

	// SegmentParam (":name") matches any single non-empty segment and
	// binds its decoded value.
	SegmentParam

	// SegmentSuffixed ("prefix-:name") matches a segment beginning with
	// a literal prefix and binds the decoded remainder.
	SegmentSuffixed

	// SegmentSplat ("*name") matches all remaining segments and binds
	// them as an ordered list. It must be the last segment of a template.
	SegmentSplat
)

// Segment is one /-delimited component of a parsed path template. Segments
// are immutable values produced once at compile time.
type Segment struct {
	// Kind discriminates how the segment matches.
	Kind SegmentKind

	// Literal holds the full text for SegmentLiteral and the literal
	// prefix for SegmentSuffixed. Empty otherwise.
	Literal string

	// Name is the bound parameter name for SegmentParam, SegmentSuffixed
	// and SegmentSplat. Empty for SegmentLiteral.
	Name string
}

// parseTemplate parses a path template into segments. Templates are split
// on "/" with empty segments dropped, so "/", "" and "//" all parse to
// zero segments (the root).
//
// Malformed percent-escapes inside literal text are not rejected here;
// literals are compared against decoded request segments at match time,
// where a decode failure simply skips the candidate route.
func parseTemplate(tpl string) ([]Segment, error) {
	parts := splitPath(tpl)

	segments := make([]Segment, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	bind := func(part, name string) error {
		if !validParamName(name) {
			return &ParseError{Template: tpl, Segment: part, Reason: InvalidParamName}
		}
		if _, dup := seen[name]; dup {
			return &ParseError{Template: tpl, Segment: part, Reason: DuplicateParamName}
		}
		seen[name] = struct{}{}
		return nil
	}

	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, "*"):
			name := part[1:]
			if i != len(parts)-1 {
				return nil, &ParseError{Template: tpl, Segment: part, Reason: SplatNotLast}
			}
			if err := bind(part, name); err != nil {
				return nil, err
			}
			segments = append(segments, Segment{Kind: SegmentSplat, Name: name})

		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if err := bind(part, name); err != nil {
				return nil, err
			}
			segments = append(segments, Segment{Kind: SegmentParam, Name: name})

		case strings.Contains(part, ":"):
			idx := strings.Index(part, ":")
			prefix, name := part[:idx], part[idx+1:]
			if err := bind(part, name); err != nil {
				return nil, err
			}
			segments = append(segments, Segment{Kind: SegmentSuffixed, Literal: prefix, Name: name})

		default:
			segments = append(segments, Segment{Kind: SegmentLiteral, Literal: part})
		}
	}

	return segments, nil
}

// splitPath splits a path on "/" discarding empty segments. An empty or
// all-slash path yields zero segments, i.e. the root.
func splitPath(path string) []string {
	var segs []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segs = append(segs, part)
		}
	}
	return segs
}

// validParamName reports whether name is identifier-like:
// [A-Za-z_][A-Za-z0-9_]*.
func validParamName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// paramNames returns the ordered parameter names bound by a template. Used
// for helper compatibility checks and reverse URL building.
func paramNames(segments []Segment) []string {
	var names []string
	for _, seg := range segments {
		if seg.Name != "" {
			names = append(names, seg.Name)
		}
	}
	return names
}
