package approval

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

const remarksFormHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.ActionLabel}} - remarks required</title>
  <style>
    body { font-family: Arial, Helvetica, sans-serif; background: #f4f5f7; margin: 0; padding: 40px 16px; }
    .card { max-width: 480px; margin: 0 auto; background: #fff; border-radius: 8px; padding: 32px; box-shadow: 0 1px 4px rgba(0,0,0,.12); }
    h1 { font-size: 18px; margin: 0 0 8px; }
    p { color: #555; font-size: 14px; }
    textarea { width: 100%; min-height: 96px; padding: 8px; font-size: 14px; box-sizing: border-box; }
    button { margin-top: 16px; background: #c62828; color: #fff; border: 0; border-radius: 4px; padding: 10px 24px; font-size: 14px; cursor: pointer; }
  </style>
</head>
<body>
  <div class="card">
    <h1>{{.ActionLabel}} {{.SourceModule}} {{.SourceID}}</h1>
    <p>Remarks are required for this action. They will be recorded with your decision.</p>
    <form method="POST" action="/approvals/respond">
      <input type="hidden" name="token" value="{{.Token}}">
      <input type="hidden" name="action" value="{{.Action}}">
      <textarea name="remarks" placeholder="Your remarks" required></textarea>
      <button type="submit">Confirm {{.ActionLabel}}</button>
    </form>
  </div>
</body>
</html>`

var remarksForm = template.Must(template.New("remarks").Parse(remarksFormHTML))

type ApprovalController struct {
	Service ApprovalService
}

func NewApprovalController(service ApprovalService) *ApprovalController {
	return &ApprovalController{Service: service}
}

// SendApprovalEmail godoc
// @Summary Issue an email approval request
// @Description Mint action tokens, render the approval email and send it to the approver
// @Tags approvals
// @Accept json
// @Produce json
// @Param request body SendEmailApprovalRequest true "Approval request"
// @Success 200 {object} IssueResult
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/approvals/email [post]
func (c *ApprovalController) SendApprovalEmail(ctx *fiber.Ctx) error {
	var req SendEmailApprovalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := c.Service.Issue(ctx.UserContext(), req)
	if err != nil {
		if result != nil {
			// Email record exists but transport failed.
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":  err.Error(),
				"result": result,
			})
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}

// RespondGet handles the button click from the email. Everything,
// including failure, ends in a redirect.
func (c *ApprovalController) RespondGet(ctx *fiber.Ctx) error {
	result := c.Service.Process(ctx.UserContext(), ProcessEmailApprovalRequest{
		Token:   ctx.Query("token"),
		Action:  ctx.Query("action"),
		Remarks: ctx.Query("remarks"),
	})
	return ctx.Redirect(result.RedirectURL, fiber.StatusFound)
}

// RespondPost handles the remarks form submission.
func (c *ApprovalController) RespondPost(ctx *fiber.Ctx) error {
	var req ProcessEmailApprovalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).SendString("invalid form submission")
	}
	result := c.Service.Process(ctx.UserContext(), req)
	return ctx.Redirect(result.RedirectURL, fiber.StatusFound)
}

// RemarksForm serves the small HTML page collecting remarks for actions
// that require them.
func (c *ApprovalController) RemarksForm(ctx *fiber.Ctx) error {
	prompt, err := c.Service.PrepareRemarks(ctx.UserContext(), ctx.Query("token"), ctx.Query("action"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).SendString("This approval link is no longer valid.")
	}

	var buf bytes.Buffer
	if err := remarksForm.Execute(&buf, prompt); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).SendString("failed to render form")
	}
	ctx.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return ctx.Send(buf.Bytes())
}
