package router

import (
	"errors"
	"fmt"
	"strings"
)

// Matching sentinels.
var (
	// ErrNoRoute is returned by Match and RouteInfo when no route in the
	// table accepts the request. It is a normal outcome, not a failure:
	// callers distinguish it from *MalformedURIError, which signals a
	// client error.
	ErrNoRoute = errors.New("router: no route matched")
)

// Build errors.
var (
	// ErrNilTarget is returned by Compile when a route was declared
	// without a dispatch target.
	ErrNilTarget = errors.New("router: route target must not be nil")

	// ErrEmptyVerb is returned by Compile when a route was declared with
	// an empty method.
	ErrEmptyVerb = errors.New("router: route verb must not be empty")
)

// ParseReason classifies why a path template failed to parse.
type ParseReason int

const (
	// InvalidParamName means a :param or *splat name is not a valid
	// identifier.
	InvalidParamName ParseReason = iota

	// SplatNotLast means a *splat segment is followed by further
	// segments.
	SplatNotLast

	// DuplicateParamName means the same parameter name is bound twice in
	// one template.
	DuplicateParamName
)

func (r ParseReason) String() string {
	switch r {
	case InvalidParamName:
		return "invalid parameter name"
	case SplatNotLast:
		return "splat segment must be last"
	case DuplicateParamName:
		return "duplicate parameter name"
	default:
		return "unknown"
	}
}

// ParseError reports a malformed path template. It is returned during
// Compile and aborts table construction.
type ParseError struct {
	// Template is the full path template that failed to parse.
	Template string

	// Segment is the offending segment within the template.
	Segment string

	// Reason classifies the failure.
	Reason ParseReason
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("router: invalid template %q: %s in segment %q", e.Template, e.Reason, e.Segment)
}

// HostPatternError reports a malformed host pattern. Only exact hosts and
// a single leading-wildcard form (*.example.com) are supported.
type HostPatternError struct {
	Pattern string
	Detail  string
}

func (e *HostPatternError) Error() string {
	return fmt.Sprintf("router: invalid host pattern %q: %s", e.Pattern, e.Detail)
}

// AmbiguousHelperError reports two routes sharing a helper name with
// incompatible parameter sets, which would make reverse URL generation
// ambiguous. Returned during Compile.
type AmbiguousHelperError struct {
	// Helper is the colliding helper name.
	Helper string

	// Existing and Conflicting are the path templates of the two routes.
	Existing    string
	Conflicting string
}

func (e *AmbiguousHelperError) Error() string {
	return fmt.Sprintf("router: helper %q is ambiguous: %q conflicts with %q",
		e.Helper, e.Conflicting, e.Existing)
}

// UnknownPipelineError reports a route piped through a pipeline that was
// never declared on the builder. Returned during Compile.
type UnknownPipelineError struct {
	Pipeline string
	Route    string
}

func (e *UnknownPipelineError) Error() string {
	return fmt.Sprintf("router: route %q pipes through unknown pipeline %q", e.Route, e.Pipeline)
}

// MalformedURIError reports invalid percent-encoding in a request path
// segment at a bound parameter position. It aborts the whole match: the
// request is malformed for every candidate route, so falling through to a
// catch-all with a garbled value would be wrong. Callers are expected to
// translate it to a 400-class response.
type MalformedURIError struct {
	// Segment is the raw request segment that failed to decode.
	Segment string
}

func (e *MalformedURIError) Error() string {
	return fmt.Sprintf("router: malformed URI: invalid percent-encoding in segment %q", e.Segment)
}

// buildErrors collects every validation failure found during Compile so a
// single pass reports them all.
type buildErrors []error

func (e buildErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e buildErrors) Unwrap() []error { return e }
