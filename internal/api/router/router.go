// Package router is the table-driven request dispatcher: the first route
// whose exact path or pattern matches wins, its middleware run in order and
// may short-circuit, and handler failures are turned into the 500 envelope.
package router

import (
	"context"
	"net/http"
	"regexp"
	"runtime/debug"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/SpiderCare/internal/apierr"
)

// Handler serves a matched route. params holds the pattern's capture groups.
type Handler func(r *http.Request, params []string) (*Response, error)

// Middleware either returns the context for the next step or a response
// that ends dispatch.
type Middleware func(r *http.Request) (context.Context, *Response)

// Methods maps HTTP methods to handlers.
type Methods map[string]Handler

// Route is either an exact path or a pattern route.
type Route struct {
	Path       string
	Pattern    *regexp.Regexp
	Methods    Methods
	Middleware []Middleware
}

// Exact matches path literally.
func Exact(path string, methods Methods, mw ...Middleware) Route {
	return Route{Path: path, Methods: methods, Middleware: mw}
}

// Pattern matches expr against the whole path; capture groups become params.
func Pattern(expr string, methods Methods, mw ...Middleware) Route {
	return Route{Pattern: regexp.MustCompile(expr), Methods: methods, Middleware: mw}
}

// match reports whether the route accepts path and returns its captures.
func (rt *Route) match(path string) ([]string, bool) {
	if rt.Path != "" {
		return nil, rt.Path == path
	}
	if rt.Pattern == nil {
		return nil, false
	}
	m := rt.Pattern.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

func (rt *Route) allowed() []string {
	out := make([]string, 0, len(rt.Methods))
	for m := range rt.Methods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Router holds an ordered, read-only route table.
type Router struct {
	routes []Route
}

func New(routes ...Route) *Router {
	return &Router{routes: routes}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.Dispatch(r).Write(w)
}

// Dispatch resolves r to a response. It never panics.
func (rt *Router) Dispatch(r *http.Request) *Response {
	if r.Method == http.MethodOptions {
		return Preflight()
	}

	route, params := rt.find(r.URL.Path)
	if route == nil {
		return NotFound()
	}

	handler, ok := route.Methods[r.Method]
	if !ok {
		return MethodNotAllowed(route.allowed())
	}

	return rt.invoke(r, route, handler, params)
}

// Label names the route r would dispatch to, for metrics. Unmatched paths
// share one label.
func (rt *Router) Label(r *http.Request) string {
	route, _ := rt.find(r.URL.Path)
	switch {
	case route == nil:
		return "unmatched"
	case route.Path != "":
		return route.Path
	}
	return route.Pattern.String()
}

func (rt *Router) find(path string) (*Route, []string) {
	for i := range rt.routes {
		if params, ok := rt.routes[i].match(path); ok {
			return &rt.routes[i], params
		}
	}
	return nil, nil
}

func (rt *Router) invoke(r *http.Request, route *Route, handler Handler, params []string) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("route handler panic")
			resp = InternalError()
		}
	}()

	for _, mw := range route.Middleware {
		ctx, short := mw(r)
		if short != nil {
			return short
		}
		if ctx != nil {
			r = r.WithContext(ctx)
		}
	}

	resp, err := handler(r, params)
	if err != nil {
		return errorResponse(r, err)
	}
	if resp == nil {
		log.Error().Str("method", r.Method).Str("path", r.URL.Path).Msg("route handler returned no response")
		return InternalError()
	}
	return resp
}

func errorResponse(r *http.Request, err error) *Response {
	if e, ok := apierr.As(err); ok {
		if e.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("route handler error")
		}
		msg := e.Message
		if msg == "" {
			msg = http.StatusText(e.Status)
		}
		return Error(e.Status, msg, e.Fields)
	}
	log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("route handler error")
	return InternalError()
}
