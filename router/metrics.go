package router

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedRoute is the label value for requests that match no route,
// keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics holds the Prometheus instrumentation for dispatch.
type Metrics struct {
	dispatchDuration *prometheus.HistogramVec
	noRoute          prometheus.Counter
	malformedURI     prometheus.Counter
}

// NewMetrics registers the router metrics on reg. A nil Registerer gets a
// private registry, so the metrics are still recorded but not exposed.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		dispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "fenix_router_dispatch_duration_seconds",
				Help: "Time spent matching and dispatching a request",
				Buckets: []float64{
					.0001, .0005, .001, .005, .01,
					.025, .05, .1, .25, .5, 1, 2.5,
				},
			},
			[]string{"verb", "route"},
		),
		noRoute: factory.NewCounter(prometheus.CounterOpts{
			Name: "fenix_router_no_route_total",
			Help: "Requests that matched no route",
		}),
		malformedURI: factory.NewCounter(prometheus.CounterOpts{
			Name: "fenix_router_malformed_uri_total",
			Help: "Requests rejected for invalid percent-encoding",
		}),
	}
}

// observeDispatch records the duration of a dispatched request. The route
// template is the label, never the concrete path, to keep cardinality
// bounded.
func (m *Metrics) observeDispatch(verb, route string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dispatchDuration.WithLabelValues(verb, route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeNoRoute(verb string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.noRoute.Inc()
	m.dispatchDuration.WithLabelValues(verb, unmatchedRoute).Observe(elapsed.Seconds())
}

func (m *Metrics) observeMalformed() {
	if m == nil {
		return
	}
	m.malformedURI.Inc()
}
