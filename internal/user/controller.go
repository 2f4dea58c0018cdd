package user

import (
	"net/http"

	"github.com/PrjctQ/qcore/pkg/apierror"
	"github.com/PrjctQ/qcore/pkg/controller"
	"github.com/PrjctQ/qcore/pkg/middleware"
	"github.com/PrjctQ/qcore/pkg/response"
	"github.com/PrjctQ/qcore/pkg/router"
	"github.com/PrjctQ/qcore/pkg/token"
	"github.com/gin-gonic/gin"
)

// Controller shadows the generic Create handler so the password is hashed
// before persistence; everything else is the scaffolded behavior.
type Controller struct {
	*controller.Controller[User]
	users *Service
}

func NewController(users *Service) *Controller {
	return &Controller{
		Controller: controller.New(users.Service),
		users:      users,
	}
}

func (ct *Controller) Create(c *gin.Context) {
	input, err := controller.BindBody(c)
	if err != nil {
		controller.Abort(c, err)
		return
	}

	result, err := ct.users.Create(c.Request.Context(), input)
	if err != nil {
		controller.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.New(http.StatusCreated, "Successfully created data", result))
}

// Login handles POST /login as an extra, non-conventional route.
func (ct *Controller) Login(c *gin.Context) {
	input, err := controller.BindBody(c)
	if err != nil {
		controller.Abort(c, err)
		return
	}

	email, _ := input["email"].(string)
	password, _ := input["password"].(string)
	if email == "" || password == "" {
		controller.Abort(c, apierror.NewBadRequest("", "Email and password are required"))
		return
	}

	result, err := ct.users.Login(c.Request.Context(), email, password)
	if err != nil {
		controller.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, response.New(http.StatusOK, "Successfully logged in", result))
}

// Me returns the authenticated user's own record. The subject is set by the
// auth middleware from the validated token.
func (ct *Controller) Me(c *gin.Context) {
	subject := c.GetString(middleware.SubjectKey)

	result, err := ct.users.FindByID(c.Request.Context(), controller.ParseID(subject))
	if err != nil {
		controller.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, response.New(http.StatusOK, "Successfully retrieved data", result))
}

// NewResource binds the user controller to its conventional routes plus the
// login route. The /me route lives outside the resource because its path
// would collide with the conventional GET /:id wildcard.
func NewResource(ct *Controller) router.Resource {
	return router.Resource{
		BasePath:   "/users",
		Controller: ct,
		Extra: []router.Route{
			{Method: http.MethodPost, Path: "/login", Handlers: []gin.HandlerFunc{ct.Login}},
		},
	}
}

// RegisterProtected mounts the token-guarded routes on the given group.
func RegisterProtected(rg *gin.RouterGroup, ct *Controller, tokens token.Manager) {
	rg.GET("/me", middleware.Auth(tokens), ct.Me)
}
