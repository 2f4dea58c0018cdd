// Package router binds controllers to conventional REST paths: the five CRUD
// routes per resource, plus explicit extra routes and sub-router composition.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CRUDController is the handler set a resource must provide. Any controller
// works, not only the generic one.
type CRUDController interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

// Route declares a non-conventional route. Handlers holds the middleware
// chain with the final handler last.
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

// Resource binds a controller to a base path with the conventional routes.
// Individual routes can be disabled; Extra routes are registered after the
// conventional ones so they can shadow nothing.
type Resource struct {
	BasePath   string
	Controller CRUDController
	Middleware []gin.HandlerFunc

	DisableList   bool
	DisableGet    bool
	DisableCreate bool
	DisableUpdate bool
	DisableDelete bool

	Extra []Route
}

// Register mounts the resource on the given router group.
func (r Resource) Register(rg *gin.RouterGroup) {
	g := rg.Group(r.BasePath, r.Middleware...)

	if r.Controller != nil {
		if !r.DisableList {
			g.GET("", r.Controller.List)
		}
		if !r.DisableGet {
			g.GET("/:id", r.Controller.Get)
		}
		if !r.DisableCreate {
			g.POST("", r.Controller.Create)
		}
		if !r.DisableUpdate {
			g.PUT("/:id", r.Controller.Update)
		}
		if !r.DisableDelete {
			g.DELETE("/:id", r.Controller.Delete)
		}
	}

	for _, route := range r.Extra {
		method := route.Method
		if method == "" {
			method = http.MethodGet
		}
		g.Handle(method, route.Path, route.Handlers...)
	}
}

// Mount registers resources under a shared prefix, composing sub-routers.
func Mount(rg *gin.RouterGroup, prefix string, resources ...Resource) *gin.RouterGroup {
	g := rg.Group(prefix)
	for _, r := range resources {
		r.Register(g)
	}
	return g
}
