package settings

import (
	"go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SettingsApi struct {
	Controller *SettingsController
	Config     *config.Config
}

func NewSettingsApi(controller *SettingsController, config *config.Config) api.Route {
	return &SettingsApi{
		Controller: controller,
		Config:     config,
	}
}

func (a *SettingsApi) Setup(app *fiber.App) {
	group := app.Group("/api/settings", middleware.AuthMiddleware(a.Config.SkipAuth))

	group.Get("/email", a.Controller.GetEmailConfig)
	group.Put("/email", a.Controller.UpdateEmailConfig)
	group.Get("/general", a.Controller.GetGeneralConfig)
	group.Put("/general", a.Controller.UpdateGeneralConfig)
}
