package router

import (
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// Dispatcher serves HTTP requests by matching them against a Table and
// running the winning route's pipelines and target. It implements
// http.Handler.
//
// The table reference is swappable atomically: Swap replaces the whole
// table at once, never mutating the one in-flight requests are reading.
type Dispatcher struct {
	table atomic.Pointer[Table]

	notFound   http.Handler
	badRequest http.Handler
	logger     *Logger
	metrics    *Metrics
	tracer     *Tracer
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithNotFoundHandler replaces the default 404 handler invoked when no
// route matches.
func WithNotFoundHandler(h http.Handler) DispatcherOption {
	return func(d *Dispatcher) { d.notFound = h }
}

// WithBadRequestHandler replaces the default 400 handler invoked when the
// request path carries invalid percent-encoding at a parameter position.
func WithBadRequestHandler(h http.Handler) DispatcherOption {
	return func(d *Dispatcher) { d.badRequest = h }
}

// WithLogger enables match logging.
func WithLogger(l *Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithTracing enables OpenTelemetry dispatch spans.
func WithTracing(t *Tracer) DispatcherOption {
	return func(d *Dispatcher) { d.tracer = t }
}

// NewDispatcher builds a Dispatcher serving the given table.
func NewDispatcher(t *Table, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		notFound:   http.NotFoundHandler(),
		badRequest: defaultBadRequestHandler(),
	}
	d.table.Store(t)

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Table returns the table currently being served.
func (d *Dispatcher) Table() *Table {
	return d.table.Load()
}

// Swap atomically replaces the served table. In-flight requests finish
// against the table they started with.
func (d *Dispatcher) Swap(t *Table) {
	d.table.Store(t)
}

// ServeHTTP matches the request and dispatches it through the route's
// pipelines to its target. No route yields 404; invalid percent-encoding
// at a bound parameter position yields 400.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	table := d.table.Load()
	start := time.Now()

	m, err := table.Match(r.Method, r.Host, requestPath(r))
	if err != nil {
		var malformed *MalformedURIError
		switch {
		case errors.As(err, &malformed):
			d.metrics.observeMalformed()
			d.badRequest.ServeHTTP(w, r)
		case errors.Is(err, ErrNoRoute):
			d.metrics.observeNoRoute(normalizeVerb(r.Method), time.Since(start))
			d.notFound.ServeHTTP(w, r)
		default:
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	if d.logger != nil {
		d.logger.LogMatch(m, m.Params(r.URL.Query()))
	}

	ctx := r.Context()
	if d.tracer != nil {
		spanCtx, span := d.tracer.startDispatch(ctx, m)
		defer span.End()
		ctx = spanCtx
	}

	r = withMatch(r.WithContext(ctx), m)

	if m.Route.forward {
		r = forwardRequest(r, m)
	}

	handler := table.handler(m.Route)
	handler.ServeHTTP(w, r)

	d.metrics.observeDispatch(m.Route.verb, m.Route.path, time.Since(start))
}

// handler returns the route's target wrapped in its pipelines, composing
// the chain once per route and caching it for subsequent requests.
func (t *Table) handler(route *Route) http.Handler {
	if cached, ok := t.handlers.Load(route); ok {
		return cached.(http.Handler)
	}

	var handler http.Handler = route.target
	// Wrap innermost-last so pipelines run in declaration order.
	for i := len(route.pipeThrough) - 1; i >= 0; i-- {
		for _, plug := range reversePlugs(t.pipelines[route.pipeThrough[i]]) {
			handler = plug(handler)
		}
	}

	actual, _ := t.handlers.LoadOrStore(route, handler)
	return actual.(http.Handler)
}

func reversePlugs(plugs []Plug) []Plug {
	out := make([]Plug, len(plugs))
	for i, p := range plugs {
		out[len(plugs)-1-i] = p
	}
	return out
}

// forwardRequest rewrites the URL of a forwarded request so the mounted
// target sees a path rooted at the forward prefix.
func forwardRequest(r *http.Request, m *Match) *http.Request {
	r2 := r.Clone(r.Context())
	u := *r.URL
	u.Path = "/" + strings.Join(m.PathInfo, "/")
	u.RawPath = ""
	r2.URL = &u
	return r2
}

// requestPath returns the wire form of the request path: the raw path
// when the URL preserved one, the re-escaped path otherwise.
func requestPath(r *http.Request) string {
	if r.URL.RawPath != "" {
		return r.URL.RawPath
	}
	return r.URL.EscapedPath()
}

func defaultBadRequestHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
	})
}
