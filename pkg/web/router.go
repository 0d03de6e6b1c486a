package web

import (
	"net/http"

	"github.com/JaimeStill/coursecast/pkg/routes"
)

// Router dispatches page routes and hands unmatched paths to a fallback,
// typically a rendered not-found page. A path registered under another
// method keeps ServeMux's 405 response.
type Router struct {
	mux      *http.ServeMux
	fallback http.Handler
}

// NewRouter creates a Router. A nil fallback leaves ServeMux's plain 404.
func NewRouter(fallback http.Handler) *Router {
	return &Router{mux: http.NewServeMux(), fallback: fallback}
}

// Handle registers a handler for a method-qualified ServeMux pattern.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// HandleFunc registers a handler function for a method-qualified pattern.
func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.mux.HandleFunc(pattern, handler)
}

// Add registers each route under "METHOD pattern".
func (r *Router) Add(rs ...routes.Route) {
	for _, route := range rs {
		r.mux.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.fallback != nil && !r.known(req) {
		r.fallback.ServeHTTP(w, req)
		return
	}
	r.mux.ServeHTTP(w, req)
}

var probeMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// known reports whether any route matches the request path under any
// common method.
func (r *Router) known(req *http.Request) bool {
	if _, pattern := r.mux.Handler(req); pattern != "" {
		return true
	}

	probe := *req
	for _, m := range probeMethods {
		if m == req.Method {
			continue
		}
		probe.Method = m
		if _, pattern := r.mux.Handler(&probe); pattern != "" {
			return true
		}
	}
	return false
}
