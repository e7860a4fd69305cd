package user

import (
	"go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	Controller *UserController
	Config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) api.Route {
	return &UserApi{
		Controller: controller,
		Config:     config,
	}
}

func (a *UserApi) Setup(app *fiber.App) {
	group := app.Group("/api/users", middleware.AuthMiddleware(a.Config.SkipAuth))

	group.Post("/", a.Controller.CreateUser)
	group.Get("/", a.Controller.ListUsers)
	group.Get("/:id", a.Controller.GetUser)
}
