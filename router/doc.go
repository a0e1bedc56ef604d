// Package router compiles an ordered list of route declarations into an
// immutable table and matches incoming requests against it.
//
// Routing semantics are based on:
//   - RFC 9110 (HTTP Semantics)
//   - RFC 3986 (URIs, percent-encoding)
//   - RFC 5890 (IDNA host labels)
//
// # Declaring routes
//
// Routes are declared on a Builder and compiled once into a Table:
//
//	users := router.NewController("UserController")
//	users.Action("show", showUser)
//	users.Action("index", listUsers)
//
//	b := router.New()
//	b.Pipeline("browser", plugs...)
//	b.Get("/users", users.To("index"), router.As("users"))
//	b.Get("/users/:id", users.To("show"), router.As("user"), router.PipeThrough("browser"))
//	b.Any("/*path", router.ToPlug("Fallback", fallback, nil))
//
//	table, err := b.Compile()
//
// Path templates support four segment forms:
//
//	/users          literal
//	/users/:id      named parameter, binds one segment
//	/p/profile-:id  suffixed parameter, literal prefix plus binding
//	/files/*path    splat, binds all remaining segments (must be last)
//
// # Matching
//
// Matching is first-declared-wins: the table preserves declaration order
// exactly and never reorders by specificity, so catch-alls must be
// declared last. A compiled Table is immutable and safe for unlimited
// concurrent use without locking.
//
//	m, err := table.Match("GET", "example.com", "/users/42")
//	// m.PathParams["id"] == "42"
//
// Match returns ErrNoRoute when no route accepts the request. Invalid
// percent-encoding at a bound parameter position returns a
// *MalformedURIError instead: the request is malformed for every
// candidate route, so it is reported rather than falling through to a
// catch-all with a garbled value. The same encoding problem against a
// literal segment only skips that one candidate.
//
// # Scopes, resources and forwarding
//
// Scope groups declarations under a shared path prefix, host, pipeline
// list and helper prefix. Resources expands the conventional RESTful
// route set for a controller. Forward mounts a handler under a prefix and
// hands it the remaining path.
//
// # Dispatch
//
// Dispatcher is the http.Handler façade over a Table: it matches,
// composes the route's pipelines around its target, injects the Match
// into the request context and invokes the result. Tables are hot
// swappable via Dispatcher.Swap, a full atomic replacement that never
// disturbs in-flight requests.
package router
