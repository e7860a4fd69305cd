package approval

import (
	"go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApprovalApi struct {
	Controller *ApprovalController
	Config     *config.Config
}

func NewApprovalApi(controller *ApprovalController, config *config.Config) api.Route {
	return &ApprovalApi{
		Controller: controller,
		Config:     config,
	}
}

func (a *ApprovalApi) Setup(app *fiber.App) {
	// Issuing is a service-to-service call and stays behind auth.
	app.Post("/api/approvals/email", middleware.AuthMiddleware(a.Config.SkipAuth), a.Controller.SendApprovalEmail)

	// The click endpoints are public: the signed token is the credential.
	app.Get("/approvals/respond", a.Controller.RespondGet)
	app.Post("/approvals/respond", a.Controller.RespondPost)
	app.Get("/approvals/remarks", a.Controller.RemarksForm)
}
