// Package routes declares HTTP route groups and registers them on a ServeMux.
package routes

import "net/http"

// Group organizes routes under a common prefix. Group middleware applies to
// every route in the group and in its children.
type Group struct {
	Prefix     string
	Middleware []Middleware
	Routes     []Route
	Children   []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", nil, group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, inherited []Middleware, group Group) {
	fullPrefix := parentPrefix + group.Prefix

	chain := make([]Middleware, 0, len(inherited)+len(group.Middleware))
	chain = append(chain, inherited...)
	chain = append(chain, group.Middleware...)

	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.Handle(pattern, wrap(route.Handler, chain, route.Middleware))
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, chain, child)
	}
}

// wrap applies outer then inner middleware so the first listed runs first.
func wrap(h http.Handler, outer, inner []Middleware) http.Handler {
	for i := len(inner) - 1; i >= 0; i-- {
		h = inner[i](h)
	}
	for i := len(outer) - 1; i >= 0; i-- {
		h = outer[i](h)
	}
	return h
}
