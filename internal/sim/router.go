// Package sim provides the synthetic request boundary the pilot runs
// against: a route table with first-match-wins resolution, a latency
// decorator approximating a remote backend, and uniform envelope wrapping
// around handler results.
package sim

import (
	"context"
	"net/url"
	"strings"
)

type (
	// Match selects how a route path is compared against a request path
	Match string

	// Handler produces response data for a matched request. Errors are
	// classified and enveloped by the dispatcher, never by handlers
	Handler func(ctx context.Context, req *Request) (any, error)

	// Route is one entry in the routing table
	Route struct {
		Method  string
		Match   Match
		Path    string
		Handler Handler
	}

	// Request is the synthetic request shape handlers receive
	Request struct {
		Method string
		Path   string
		Query  url.Values
		Body   []byte
	}

	// Router resolves requests against registered routes in registration
	// order; the first match wins
	Router struct {
		routes []Route
	}
)

const (
	// MatchExact requires the request path to equal the route path
	MatchExact Match = "EXACT"

	// MatchPrefix requires the request path to start with the route path
	MatchPrefix Match = "PREFIX"
)

// NewRouter creates an empty routing table
func NewRouter() *Router {
	return &Router{}
}

// Register appends routes to the table. Registration order is significant
func (r *Router) Register(routes ...Route) {
	r.routes = append(r.routes, routes...)
}

// Resolve returns the first route matching the request method and path
func (r *Router) Resolve(method, path string) (Handler, bool) {
	for _, route := range r.routes {
		if route.Method != method {
			continue
		}
		switch route.Match {
		case MatchExact:
			if path == route.Path {
				return route.Handler, true
			}
		case MatchPrefix:
			if strings.HasPrefix(path, route.Path) {
				return route.Handler, true
			}
		}
	}
	return nil, false
}
