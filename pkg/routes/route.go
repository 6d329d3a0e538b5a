package routes

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Route binds an HTTP method and pattern to a handler. Middleware listed on the
// route wraps the handler inside any group middleware.
type Route struct {
	Method     string
	Pattern    string
	Handler    http.HandlerFunc
	Middleware []Middleware
}
