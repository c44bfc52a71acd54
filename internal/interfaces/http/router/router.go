// Package router mounts the API route table under a versioned prefix.
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Access says who may call a route.
type Access int

const (
	Public Access = iota
	// Admin routes run the router's guard before their handler.
	Admin
)

// Route is one endpoint, relative to its group's prefix.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler gin.HandlerFunc
}

// Group holds the routes of one resource.
type Group struct {
	Prefix string
	Routes []Route
}

// Router mounts groups under /api/<version>.
type Router struct {
	engine     *gin.Engine
	version    string
	guard      gin.HandlerFunc
	middleware []gin.HandlerFunc
}

type Option func(*Router)

// WithAPIVersion sets the version segment of the prefix. Default "v1".
func WithAPIVersion(version string) Option {
	return func(r *Router) { r.version = version }
}

// WithMiddleware adds handlers that run before every versioned route.
func WithMiddleware(middleware ...gin.HandlerFunc) Option {
	return func(r *Router) { r.middleware = append(r.middleware, middleware...) }
}

// New returns a Router for engine. guard authorizes Admin routes.
func New(engine *gin.Engine, guard gin.HandlerFunc, opts ...Option) *Router {
	r := &Router{engine: engine, version: "v1", guard: guard}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) BasePath() string {
	return "/api/" + r.version
}

// Mount registers groups on the engine. Mounting an Admin route without a
// guard panics, like any other route table mistake gin reports at startup.
func (r *Router) Mount(groups ...Group) {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, g := range groups {
		rg := api.Group(g.Prefix)
		for _, route := range g.Routes {
			rg.Handle(route.Method, route.Path, r.chain(g.Prefix, route)...)
		}
	}
}

func (r *Router) chain(prefix string, route Route) []gin.HandlerFunc {
	if route.Access != Admin {
		return []gin.HandlerFunc{route.Handler}
	}
	if r.guard == nil {
		panic(fmt.Sprintf("router: admin route %s %s%s has no guard", route.Method, prefix, route.Path))
	}
	return []gin.HandlerFunc{r.guard, route.Handler}
}
