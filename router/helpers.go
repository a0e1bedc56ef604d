package router

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// PathFor builds the path for a helper/action pair from key/value pairs:
//
//	table.PathFor("user", "show", "id", "42")  // "/users/42"
//
// Path parameter values are percent-escaped; a splat value may contain
// "/" and each of its segments is escaped individually. Pairs left over
// after filling the template become query parameters. Missing parameters,
// odd pair counts and unknown helpers are errors.
func (t *Table) PathFor(helper, action string, pairs ...string) (string, error) {
	route, ok := t.Lookup(helper, action)
	if !ok {
		return "", fmt.Errorf("router: no route for helper %q action %q", helper, action)
	}

	values, err := mapFromPairs(pairs...)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, seg := range route.segments {
		switch seg.Kind {
		case SegmentLiteral:
			sb.WriteString("/")
			sb.WriteString(seg.Literal)

		case SegmentParam, SegmentSuffixed:
			v, ok := values[seg.Name]
			if !ok {
				return "", fmt.Errorf("router: missing parameter %q for helper %q", seg.Name, helper)
			}
			delete(values, seg.Name)
			sb.WriteString("/")
			sb.WriteString(seg.Literal)
			sb.WriteString(url.PathEscape(v))

		case SegmentSplat:
			v, ok := values[seg.Name]
			if !ok {
				return "", fmt.Errorf("router: missing parameter %q for helper %q", seg.Name, helper)
			}
			delete(values, seg.Name)
			for _, part := range splitPath(v) {
				sb.WriteString("/")
				sb.WriteString(url.PathEscape(part))
			}
		}
	}

	path := sb.String()
	if path == "" {
		path = "/"
	}

	if len(values) > 0 {
		query := make(url.Values, len(values))
		for k, v := range values {
			query.Set(k, v)
		}
		path += "?" + query.Encode()
	}

	return path, nil
}

// URLFor composes PathFor with a base URL such as "https://example.com".
func (t *Table) URLFor(base, helper, action string, pairs ...string) (string, error) {
	path, err := t.PathFor(helper, action, pairs...)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("router: invalid base URL %q: %w", base, err)
	}

	return strings.TrimSuffix(u.String(), "/") + path, nil
}

// Helpers returns the helper names known to the table, sorted.
func (t *Table) Helpers() []string {
	names := make([]string, 0, len(t.helpers))
	for name := range t.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkPairs returns an error if the list of key/value pairs has odd length.
func checkPairs(pairs ...string) (int, error) {
	if len(pairs)%2 != 0 {
		return 0, fmt.Errorf("router: number of parameters must be multiple of 2, got %v", pairs)
	}
	return len(pairs) / 2, nil
}

// mapFromPairs converts variadic string parameters to a string map.
func mapFromPairs(pairs ...string) (map[string]string, error) {
	length, err := checkPairs(pairs...)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, length)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	return m, nil
}
