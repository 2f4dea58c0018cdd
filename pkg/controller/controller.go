// Package controller translates HTTP requests into service calls and wraps
// results in the uniform response envelope. Handlers never write error
// responses themselves: every failure is attached to the gin context and
// rendered by the error-handling middleware, one wrapping contract for all
// handlers.
package controller

import (
	"net/http"

	"github.com/PrjctQ/qcore/pkg/response"
	"github.com/PrjctQ/qcore/pkg/service"
	"github.com/gin-gonic/gin"
)

// Controller exposes the conventional CRUD handlers for one resource.
type Controller[T any] struct {
	svc *service.Service[T]
}

// New creates a controller over a service.
func New[T any](svc *service.Service[T]) *Controller[T] {
	return &Controller[T]{svc: svc}
}

// Service returns the underlying service for custom handlers.
func (ct *Controller[T]) Service() *service.Service[T] {
	return ct.svc
}

// List handles GET / with filter, limit, skip and sort query parameters.
func (ct *Controller[T]) List(c *gin.Context) {
	filter, opts, err := ParseListQuery(c)
	if err != nil {
		Abort(c, err)
		return
	}

	result, err := ct.svc.FindAll(c.Request.Context(), filter, opts)
	if err != nil {
		Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, response.New(http.StatusOK, "Successfully retrieved data", result))
}

// Get handles GET /:id.
func (ct *Controller[T]) Get(c *gin.Context) {
	result, err := ct.svc.FindByID(c.Request.Context(), ParseID(c.Param("id")))
	if err != nil {
		Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, response.New(http.StatusOK, "Successfully retrieved data", result))
}

// Create handles POST /.
func (ct *Controller[T]) Create(c *gin.Context) {
	input, err := BindBody(c)
	if err != nil {
		Abort(c, err)
		return
	}

	result, err := ct.svc.Create(c.Request.Context(), input)
	if err != nil {
		Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.New(http.StatusCreated, "Successfully created data", result))
}

// Update handles PUT /:id.
func (ct *Controller[T]) Update(c *gin.Context) {
	input, err := BindBody(c)
	if err != nil {
		Abort(c, err)
		return
	}

	result, err := ct.svc.Update(c.Request.Context(), ParseID(c.Param("id")), input)
	if err != nil {
		Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, response.New(http.StatusOK, "Successfully updated data", result))
}

// Delete handles DELETE /:id.
func (ct *Controller[T]) Delete(c *gin.Context) {
	result, err := ct.svc.Delete(c.Request.Context(), ParseID(c.Param("id")))
	if err != nil {
		Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, response.New(http.StatusOK, "Successfully deleted data", result))
}

// BindBody reads the request body as a raw JSON object. Validation happens in
// the DTO layer, so no struct binding is involved.
func BindBody(c *gin.Context) (map[string]any, error) {
	var input map[string]any
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, err
	}
	return input, nil
}

// Abort hands the error to the error-handling middleware.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
