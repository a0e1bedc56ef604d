package router

import (
	"net"
	"strings"

	"golang.org/x/net/idna"
)

type hostKind int

const (
	hostAny hostKind = iota
	hostExact
	hostWildcard
)

// hostPattern is a compiled host constraint: any host (the default), an
// exact host, or a single leading-wildcard form "*.example.com". The
// wildcard keeps its dot, so "*.example.com" matches "api.example.com"
// but neither "example.com" nor "badexample.com".
type hostPattern struct {
	kind hostKind

	// host is the normalized exact host, or the ".example.com" suffix
	// for a wildcard pattern.
	host string
}

// parseHostPattern compiles a host pattern. Patterns are normalized to
// lowercase ASCII (punycode A-labels per RFC 5890) so Unicode and A-label
// spellings of the same host compare equal.
func parseHostPattern(pattern string) (hostPattern, error) {
	if pattern == "" {
		return hostPattern{kind: hostAny}, nil
	}

	wildcard := false
	host := pattern
	if strings.HasPrefix(pattern, "*.") {
		wildcard = true
		host = pattern[2:]
	}

	if host == "" || strings.Contains(host, "*") {
		return hostPattern{}, &HostPatternError{Pattern: pattern, Detail: "wildcard is only allowed as a leading *. label"}
	}

	normalized, err := normalizeHost(host)
	if err != nil {
		return hostPattern{}, &HostPatternError{Pattern: pattern, Detail: err.Error()}
	}

	if wildcard {
		return hostPattern{kind: hostWildcard, host: "." + normalized}, nil
	}

	return hostPattern{kind: hostExact, host: normalized}, nil
}

// match reports whether a request host satisfies the pattern. Comparison
// is case-insensitive, ignores any port, and normalizes Unicode labels to
// punycode. A request host that fails normalization is compared verbatim
// in lowercase rather than rejected.
func (p hostPattern) match(host string) bool {
	if p.kind == hostAny {
		return true
	}

	host = stripPort(host)
	normalized, err := normalizeHost(host)
	if err != nil {
		normalized = strings.ToLower(host)
	}

	switch p.kind {
	case hostExact:
		return normalized == p.host
	case hostWildcard:
		return strings.HasSuffix(normalized, p.host)
	default:
		return false
	}
}

// pattern returns the source-form pattern for introspection.
func (p hostPattern) pattern() string {
	switch p.kind {
	case hostExact:
		return p.host
	case hostWildcard:
		return "*" + p.host
	default:
		return ""
	}
}

// normalizeHost lowercases a host and converts Unicode labels to their
// punycode form per RFC 5890.
func normalizeHost(host string) (string, error) {
	return idna.Lookup.ToASCII(strings.ToLower(host))
}

// stripPort removes a trailing :port from a host, if present.
func stripPort(host string) string {
	if !strings.Contains(host, ":") {
		return host
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
