package template

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
)

var ErrRenderFailed = errors.New("approval email render failed")

// Button is a fully resolved action link: the URL already carries the
// minted token and the action, so one click specifies the whole decision.
type Button struct {
	Label string
	URL   string
	Style string
}

const emailLayout = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #f4f5f7; margin: 0; padding: 24px;">
  <div style="max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 6px; padding: 32px;">
    <h2 style="margin-top: 0; color: #1e2530;">{{.CompanyName}}</h2>
    <p>Hello {{.ApproverName}},</p>
    <p>The following {{.SourceModule}} request is waiting for your decision:</p>
    <table style="width: 100%; border-collapse: collapse; margin: 16px 0;">
      {{range .Rows}}
      <tr>
        <td style="padding: 6px 8px; border-bottom: 1px solid #e5e8ec; color: #6b7280;">{{.Label}}</td>
        <td style="padding: 6px 8px; border-bottom: 1px solid #e5e8ec;">{{.Value}}</td>
      </tr>
      {{end}}
    </table>
    <div style="margin: 24px 0;">
      {{range .Buttons}}
      <a href="{{.URL}}" style="display: inline-block; margin-right: 12px; padding: 10px 24px; border-radius: 4px; color: #ffffff; text-decoration: none; background: {{.Color}};">{{.Label}}</a>
      {{end}}
    </div>
    <p style="color: #6b7280; font-size: 12px;">This link is personal and single use. If you were not expecting this request, you can ignore this email.</p>
  </div>
</body>
</html>`

type renderButton struct {
	Label string
	URL   string
	Color string
}

type renderData struct {
	CompanyName  string
	ApproverName string
	SourceModule string
	Rows         []Row
	Buttons      []renderButton
}

type Renderer struct {
	layout *htmltemplate.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		layout: htmltemplate.Must(htmltemplate.New("approval-email").Parse(emailLayout)),
	}
}

// Render produces the subject and HTML body for one approval email.
func (r *Renderer) Render(cfg Config, tctx Context, buttons []Button) (string, string, error) {
	if tctx.ApproverName == "" || tctx.ApproverEmail == "" {
		return "", "", fmt.Errorf("%w: approver identity missing", ErrRenderFailed)
	}
	if len(buttons) == 0 {
		return "", "", fmt.Errorf("%w: no action buttons", ErrRenderFailed)
	}

	subject := replacePlaceholders(cfg.Subject, subjectValues(tctx))
	if strings.Contains(subject, "{{") {
		return "", "", fmt.Errorf("%w: unresolved subject placeholder in %q", ErrRenderFailed, subject)
	}

	data := renderData{
		CompanyName:  tctx.CompanyName,
		ApproverName: tctx.ApproverName,
		SourceModule: tctx.SourceModule,
		Rows:         cfg.DataMapper(tctx.ApprovalData),
	}
	for _, b := range buttons {
		data.Buttons = append(data.Buttons, renderButton{
			Label: b.Label,
			URL:   b.URL,
			Color: styleColor(b.Style),
		})
	}

	var buf bytes.Buffer
	if err := r.layout.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return subject, buf.String(), nil
}

func subjectValues(tctx Context) map[string]interface{} {
	values := map[string]interface{}{
		"source_id":     tctx.SourceID,
		"source_module": tctx.SourceModule,
		"approver_name": tctx.ApproverName,
		"company_name":  tctx.CompanyName,
		"task_id":       tctx.TaskID,
	}
	for key, value := range tctx.ApprovalData {
		values[key] = value
	}
	return values
}

func replacePlaceholders(text string, values map[string]interface{}) string {
	for key, value := range values {
		placeholder := fmt.Sprintf("{{%s}}", key)
		text = strings.ReplaceAll(text, placeholder, fmt.Sprintf("%v", value))
	}
	return text
}

func styleColor(style string) string {
	switch style {
	case "danger":
		return "#c62828"
	case "neutral":
		return "#546e7a"
	default:
		return "#2e7d32"
	}
}
