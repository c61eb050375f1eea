package navigation

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

var ErrUnknownRoute = errors.New("unknown route")

// Destination is a resolved path.
type Destination struct {
	Route  Route
	Params map[string]string
}

// Int returns an integer parameter.
func (d Destination) Int(name string) (int, error) {
	raw, ok := d.Params[name]
	if !ok {
		return 0, fmt.Errorf("route %s has no parameter %s", d.Route.Name(), name)
	}
	return strconv.Atoi(raw)
}

// Value returns a raw parameter.
func (d Destination) Value(name string) string {
	return d.Params[name]
}

// Graph matches paths against a route table with a chi tree.
type Graph struct {
	mux    *chi.Mux
	routes map[string]Route
}

func NewGraph(routes ...Route) *Graph {
	g := &Graph{mux: chi.NewRouter(), routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		pattern := "/" + r.Pattern
		g.routes[pattern] = r
		g.mux.Get(pattern, func(http.ResponseWriter, *http.Request) {})
	}
	return g
}

// Default is the graph of every app route.
func Default() *Graph {
	return NewGraph(All...)
}

// Resolve matches path and validates its typed parameters.
func (g *Graph) Resolve(path string) (Destination, error) {
	rctx := chi.NewRouteContext()
	if !g.mux.Match(rctx, http.MethodGet, "/"+strings.TrimPrefix(path, "/")) {
		return Destination{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}
	r, ok := g.routes[rctx.RoutePattern()]
	if !ok {
		return Destination{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}
	d := Destination{Route: r, Params: make(map[string]string, len(r.Params))}
	for _, p := range r.Params {
		raw := rctx.URLParam(p.Name)
		if err := p.validate(raw); err != nil {
			return Destination{}, fmt.Errorf("route %s: %w", r.Name(), err)
		}
		d.Params[p.Name] = raw
	}
	return d, nil
}
