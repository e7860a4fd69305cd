package settings

import (
	"github.com/gofiber/fiber/v2"
)

type SettingsController struct {
	Service SettingsService
}

func NewSettingsController(service SettingsService) *SettingsController {
	return &SettingsController{
		Service: service,
	}
}

// GetEmailConfig godoc
// @Summary Get email configuration
// @Description Get the current SMTP settings
// @Tags settings
// @Produce json
// @Success 200 {object} EmailConfig
// @Failure 500 {object} map[string]interface{}
// @Router /api/settings/email [get]
func (c *SettingsController) GetEmailConfig(ctx *fiber.Ctx) error {
	config, err := c.Service.GetEmailConfig(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if config == nil {
		return ctx.JSON(fiber.Map{})
	}
	return ctx.JSON(config)
}

// UpdateEmailConfig godoc
// @Summary Update email configuration
// @Description Update the SMTP settings used for approval emails
// @Tags settings
// @Accept json
// @Produce json
// @Param config body EmailConfig true "Email Configuration"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/settings/email [put]
func (c *SettingsController) UpdateEmailConfig(ctx *fiber.Ctx) error {
	var config EmailConfig
	if err := ctx.BodyParser(&config); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateEmailConfig(ctx.UserContext(), config); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"message": "Settings updated successfully"})
}

// GetGeneralConfig godoc
// @Summary Get general configuration
// @Description Get branding and base URL settings
// @Tags settings
// @Produce json
// @Success 200 {object} GeneralConfig
// @Failure 500 {object} map[string]interface{}
// @Router /api/settings/general [get]
func (c *SettingsController) GetGeneralConfig(ctx *fiber.Ctx) error {
	config, err := c.Service.GetGeneralConfig(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(config)
}

// UpdateGeneralConfig godoc
// @Summary Update general configuration
// @Description Update branding and base URL settings
// @Tags settings
// @Accept json
// @Produce json
// @Param config body GeneralConfig true "General Configuration"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/settings/general [put]
func (c *SettingsController) UpdateGeneralConfig(ctx *fiber.Ctx) error {
	var config GeneralConfig
	if err := ctx.BodyParser(&config); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateGeneralConfig(ctx.UserContext(), config); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"message": "Settings updated successfully"})
}
