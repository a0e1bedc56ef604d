// Package plugs provides the building blocks for router pipelines: small,
// composable request-processing steps in the func(http.Handler)
// http.Handler shape expected by router.Plug.
//
// Each plug is configured through an explicit Config struct whose zero
// value selects sensible defaults. Constructors that can reject their
// configuration return (router.Plug, error); the rest return the plug
// directly:
//
//	b := router.New()
//	b.Pipeline("browser",
//		plugs.RequestID(plugs.RequestIDConfig{}),
//		plugs.Logger(plugs.LoggerConfig{Log: log}),
//		plugs.Head(),
//		plugs.SecureHeaders(plugs.SecureHeadersConfig{}),
//	)
//
// The set mirrors the conventional pipeline of a server-rendered web
// application: content negotiation, request identity, access logging,
// HEAD rewriting, method override, security headers, static assets,
// basic auth, rate limiting and panic recovery.
package plugs
