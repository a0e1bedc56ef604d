package router

import (
	"fmt"
	"strings"
)

// resourceActions is the full RESTful action set in expansion order. The
// order matters: literal paths ("new", "edit") are declared before the
// parameter routes that would otherwise capture them.
var resourceActions = []string{"index", "edit", "new", "show", "create", "update", "delete"}

type resourceOptions struct {
	only      []string
	except    []string
	singleton bool
	param     string
	name      string
	routeOpts []Option
}

// ResourceOption configures a Resources declaration.
type ResourceOption func(*resourceOptions)

// Only restricts the generated routes to the named actions.
func Only(actions ...string) ResourceOption {
	return func(o *resourceOptions) { o.only = actions }
}

// Except generates all routes but the named actions.
func Except(actions ...string) ResourceOption {
	return func(o *resourceOptions) { o.except = actions }
}

// Singleton generates routes for a resource without an identifier: no
// index action and no :id segment (e.g. /account instead of /accounts/:id).
func Singleton() ResourceOption {
	return func(o *resourceOptions) { o.singleton = true }
}

// Param renames the resource identifier segment from the default "id".
func Param(name string) ResourceOption {
	return func(o *resourceOptions) { o.param = name }
}

// Name overrides the helper base name derived from the resource path.
func Name(name string) ResourceOption {
	return func(o *resourceOptions) { o.name = name }
}

// With applies route options to every generated route.
func With(opts ...Option) ResourceOption {
	return func(o *resourceOptions) { o.routeOpts = append(o.routeOpts, opts...) }
}

// Resources declares the RESTful route set for a controller under path:
//
//	index   GET     /users
//	edit    GET     /users/:id/edit
//	new     GET     /users/new
//	show    GET     /users/:id
//	create  POST    /users
//	update  PATCH   /users/:id
//	        PUT     /users/:id
//	delete  DELETE  /users/:id
//
// Each generated route dispatches to the controller action of the same
// name; actions excluded via Only/Except are not required to exist. The
// returned builder is scoped at /users/:user_id for declaring nested
// resources.
func (b *Builder) Resources(path string, controller *Controller, opts ...ResourceOption) *Builder {
	o := resourceOptions{param: "id"}
	for _, opt := range opts {
		opt(&o)
	}

	name := o.name
	if name == "" {
		name = resourceName(path)
	}

	param := ":" + o.param

	for _, action := range resourceActions {
		if !actionWanted(action, &o) {
			continue
		}

		var verbs []string
		var suffix string
		switch action {
		case "index":
			verbs, suffix = []string{"GET"}, ""
		case "edit":
			verbs, suffix = []string{"GET"}, "/"+param+"/edit"
			if o.singleton {
				suffix = "/edit"
			}
		case "new":
			verbs, suffix = []string{"GET"}, "/new"
		case "show":
			verbs, suffix = []string{"GET"}, "/"+param
			if o.singleton {
				suffix = ""
			}
		case "create":
			verbs, suffix = []string{"POST"}, ""
		case "update":
			verbs, suffix = []string{"PATCH", "PUT"}, "/"+param
			if o.singleton {
				suffix = ""
			}
		case "delete":
			verbs, suffix = []string{"DELETE"}, "/"+param
			if o.singleton {
				suffix = ""
			}
		}

		routeOpts := append(append([]Option(nil), o.routeOpts...), As(name))
		for _, verb := range verbs {
			b.declareResource(verb, path+suffix, controller, action, routeOpts)
		}
	}

	// Nested resources hang off /users/:user_id so the parent id stays
	// bound alongside the child's params.
	nestedParam := fmt.Sprintf(":%s_%s", singularize(name), o.param)
	nested := b.Scope(path+"/"+nestedParam, As(singularize(name)))
	return nested
}

func (b *Builder) declareResource(verb, path string, controller *Controller, action string, opts []Option) {
	b.declare(verb, path, controller.To(action), false, opts)
}

func actionWanted(action string, o *resourceOptions) bool {
	if o.singleton && action == "index" {
		return false
	}
	if len(o.only) > 0 {
		for _, a := range o.only {
			if a == action {
				return true
			}
		}
		return false
	}
	for _, a := range o.except {
		if a == action {
			return false
		}
	}
	return true
}

// resourceName derives the helper base from the last path segment:
// "/admin/users" becomes "users".
func resourceName(path string) string {
	segs := splitPath(path)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// singularize trims a plural "s"; good enough for conventional resource
// names ("users" to "user"). Name overrides it when the convention does
// not hold.
func singularize(name string) string {
	if strings.HasSuffix(name, "s") && len(name) > 1 {
		return strings.TrimSuffix(name, "s")
	}
	return name
}
