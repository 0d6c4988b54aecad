package httpserver

import (
	"regexp"
	"strings"
)

// HandlerFunc handles one dispatched request.
type HandlerFunc func(w *ResponseWriter, r *Request)

type route struct {
	method  string
	pattern *regexp.Regexp
	names   []string
	handler HandlerFunc
}

// Router matches a request's method and path against registered routes,
// capturing named path segments explicitly (spec.md §9: "reimplement via
// a router that explicitly captures segments and passes them as
// parameters", replacing the source's "first captured regex group" bug).
type Router struct {
	routes     []route
	notFound   HandlerFunc
	notAllowed HandlerFunc
}

func NewRouter(notFound, notAllowed HandlerFunc) *Router {
	return &Router{notFound: notFound, notAllowed: notAllowed}
}

// Handle registers a route. pattern segments wrapped in "{name}" capture
// that path segment under Request.Params[name].
func (rt *Router) Handle(method, pattern string, handler HandlerFunc) {
	re, names := compilePattern(pattern)
	rt.routes = append(rt.routes, route{method: method, pattern: re, names: names, handler: handler})
}

func compilePattern(pattern string) (*regexp.Regexp, []string) {
	segments := strings.Split(strings.Trim(pattern, "/"), "/")
	var names []string
	var sb strings.Builder
	sb.WriteString("^/")
	for i, seg := range segments {
		if i > 0 {
			sb.WriteString("/")
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			name := seg[1 : len(seg)-1]
			names = append(names, name)
			sb.WriteString("([^/]+)")
		} else {
			sb.WriteString(regexp.QuoteMeta(seg))
		}
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String()), names
}

// dispatch finds the first route whose pattern matches r.Path. If a
// path matches but no route matches both path and method, 405 is
// reported (method-not-allowed path tried before falling through to
// 404); otherwise 404.
func (rt *Router) dispatch(w *ResponseWriter, r *Request) {
	pathMatched := false
	for _, rte := range rt.routes {
		m := rte.pattern.FindStringSubmatch(r.Path)
		if m == nil {
			continue
		}
		pathMatched = true
		if rte.method != r.Method {
			continue
		}
		for i, name := range rte.names {
			r.Params[name] = m[i+1]
		}
		rte.handler(w, r)
		return
	}
	if pathMatched {
		rt.notAllowed(w, r)
		return
	}
	rt.notFound(w, r)
}
