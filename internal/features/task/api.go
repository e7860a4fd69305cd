package task

import (
	"go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TaskApi struct {
	Controller *TaskController
	Config     *config.Config
}

func NewTaskApi(controller *TaskController, config *config.Config) api.Route {
	return &TaskApi{
		Controller: controller,
		Config:     config,
	}
}

func (a *TaskApi) Setup(app *fiber.App) {
	group := app.Group("/api/tasks", middleware.AuthMiddleware(a.Config.SkipAuth))

	group.Post("/", a.Controller.CreateTask)
	group.Get("/", a.Controller.ListTasks)
	group.Get("/:id", a.Controller.GetTask)
}
