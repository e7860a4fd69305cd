package email

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type EmailController struct {
	Service EmailService
}

func NewEmailController(service EmailService) *EmailController {
	return &EmailController{Service: service}
}

// ListEmails godoc
// @Summary List sent emails
// @Description List email delivery records, newest first, filterable by module, source and status
// @Tags emails
// @Produce json
// @Param module query string false "Module name"
// @Param source_id query string false "Source record ID"
// @Param status query string false "Delivery status" Enums(PENDING, SENT, FAILED)
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {array} SentEmail
// @Failure 500 {object} map[string]interface{}
// @Router /api/emails [get]
func (c *EmailController) ListEmails(ctx *fiber.Ctx) error {
	filter := buildFilter(ctx)

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}

	emails, err := c.Service.ListEmails(ctx.UserContext(), filter, limit, (page-1)*limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(emails)
}

// GetEmail godoc
// @Summary Get a sent email
// @Description Fetch one email delivery record by ID
// @Tags emails
// @Produce json
// @Param id path string true "Email record ID"
// @Success 200 {object} SentEmail
// @Failure 404 {object} map[string]interface{}
// @Router /api/emails/{id} [get]
func (c *EmailController) GetEmail(ctx *fiber.Ctx) error {
	record, err := c.Service.GetEmail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "email not found"})
	}
	return ctx.JSON(record)
}

// ExportEmails godoc
// @Summary Export sent emails
// @Description Download email delivery records as an xlsx workbook
// @Tags emails
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param module query string false "Module name"
// @Param status query string false "Delivery status"
// @Success 200 {file} binary
// @Failure 500 {object} map[string]interface{}
// @Router /api/emails/export [get]
func (c *EmailController) ExportEmails(ctx *fiber.Ctx) error {
	data, err := c.Service.ExportEmails(ctx.UserContext(), buildFilter(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="sent_emails.xlsx"`)
	return ctx.Send(data)
}

func buildFilter(ctx *fiber.Ctx) map[string]interface{} {
	filter := map[string]interface{}{}
	if module := ctx.Query("module"); module != "" {
		filter["module"] = module
	}
	if sourceID := ctx.Query("source_id"); sourceID != "" {
		filter["source_id"] = sourceID
	}
	if status := ctx.Query("status"); status != "" {
		filter["status"] = status
	}
	return filter
}
