package router

import (
	"fmt"
	"net/http"
)

// Target is a dispatch destination: something that handles the request
// once a route has matched, and can describe itself to introspection as a
// (plug, plug options) pair.
type Target interface {
	http.Handler

	// Describe returns the target identity surfaced by RouteInfo and the
	// route manifest: the plug name, and its options (the action name for
	// controllers, the init arguments for plugs).
	Describe() (plug string, opts any)
}

// validatable is implemented by targets that can be checked at compile
// time. Compile reports the returned error and aborts.
type validatable interface {
	validate() error
}

// Controller is a named set of actions. Routes reference individual
// actions via To, mirroring a controller/action dispatch pair:
//
//	users := router.NewController("UserController")
//	users.Action("show", showUser)
//	b.Get("/users/:id", users.To("show"))
type Controller struct {
	name    string
	actions map[string]http.Handler
}

// NewController returns an empty controller with the given name.
func NewController(name string) *Controller {
	return &Controller{
		name:    name,
		actions: make(map[string]http.Handler),
	}
}

// Name returns the controller name.
func (c *Controller) Name() string {
	return c.name
}

// Action registers a handler under an action name, replacing any previous
// registration. Returns the controller for chaining.
func (c *Controller) Action(name string, h http.HandlerFunc) *Controller {
	c.actions[name] = h
	return c
}

// ActionHandler registers an http.Handler under an action name.
func (c *Controller) ActionHandler(name string, h http.Handler) *Controller {
	c.actions[name] = h
	return c
}

// To returns a Target dispatching to the named action. The action does
// not need to be registered yet; Compile verifies it exists.
func (c *Controller) To(action string) Target {
	return &controllerTarget{controller: c, action: action}
}

type controllerTarget struct {
	controller *Controller
	action     string
}

func (t *controllerTarget) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, ok := t.controller.actions[t.action]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.ServeHTTP(w, r)
}

func (t *controllerTarget) Describe() (string, any) {
	return t.controller.name, t.action
}

func (t *controllerTarget) validate() error {
	if _, ok := t.controller.actions[t.action]; !ok {
		return fmt.Errorf("router: controller %s has no action %q", t.controller.name, t.action)
	}
	return nil
}

// ToPlug wraps an arbitrary http.Handler as a Target. The name and opts
// are what RouteInfo reports as plug and plug_opts.
func ToPlug(name string, h http.Handler, opts any) Target {
	return &plugTarget{name: name, handler: h, opts: opts}
}

type plugTarget struct {
	name    string
	handler http.Handler
	opts    any
}

func (t *plugTarget) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.handler.ServeHTTP(w, r)
}

func (t *plugTarget) Describe() (string, any) {
	return t.name, t.opts
}

func (t *plugTarget) validate() error {
	if t.handler == nil {
		return fmt.Errorf("router: plug %q has a nil handler", t.name)
	}
	return nil
}
