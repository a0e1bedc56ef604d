package router

import (
	"context"
	"net/http"
)

type matchContextKey struct{}

// withMatch stores a match in the request context for downstream plugs
// and targets.
func withMatch(r *http.Request, m *Match) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), matchContextKey{}, m))
}

// MatchFrom returns the Match stored in the request context by the
// Dispatcher, or nil when the request was not routed.
func MatchFrom(r *http.Request) *Match {
	if m, ok := r.Context().Value(matchContextKey{}).(*Match); ok {
		return m
	}
	return nil
}

// Params returns the merged path and query parameters for a routed
// request, path parameters winning on collision. Returns nil when the
// request was not routed.
func Params(r *http.Request) map[string]string {
	m := MatchFrom(r)
	if m == nil {
		return nil
	}
	return m.Params(r.URL.Query())
}
