package email

import (
	"go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EmailApi struct {
	Controller *EmailController
	Config     *config.Config
}

func NewEmailApi(controller *EmailController, config *config.Config) api.Route {
	return &EmailApi{
		Controller: controller,
		Config:     config,
	}
}

func (a *EmailApi) Setup(app *fiber.App) {
	group := app.Group("/api/emails", middleware.AuthMiddleware(a.Config.SkipAuth))

	group.Get("/", a.Controller.ListEmails)
	group.Get("/export", a.Controller.ExportEmails)
	group.Get("/:id", a.Controller.GetEmail)
}
