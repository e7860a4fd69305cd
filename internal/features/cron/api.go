package cron_feature

import (
	"go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CronApi struct {
	Controller *CronController
	Config     *config.Config
}

func NewCronApi(controller *CronController, config *config.Config) api.Route {
	return &CronApi{
		Controller: controller,
		Config:     config,
	}
}

func (h *CronApi) Setup(app *fiber.App) {
	group := app.Group("/api/cron", middleware.AuthMiddleware(h.Config.SkipAuth))

	group.Post("/sweep", h.Controller.ExecuteSweep)
	group.Get("/sweeps", h.Controller.GetSweepLogs)
}
