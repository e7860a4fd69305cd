package approval

import "go-approvals/internal/features/email"

// SendEmailApprovalRequest asks the issuer to mail one approver a set of
// action links for a pending task.
type SendEmailApprovalRequest struct {
	TaskID         int                    `json:"task_id" validate:"required"`
	ApproverID     string                 `json:"approver_id" validate:"required"`
	Module         string                 `json:"module" validate:"required"`
	SourceID       string                 `json:"source_id" validate:"required"`
	TemplateName   string                 `json:"template_name" validate:"required"`
	ApprovalData   map[string]interface{} `json:"approval_data"`
	RecipientEmail string                 `json:"recipient_email" validate:"omitempty,email"`
}

// ProcessEmailApprovalRequest is one click (or form submit) coming back
// from an approval email.
type ProcessEmailApprovalRequest struct {
	Token   string `json:"token" form:"token" validate:"required"`
	Action  string `json:"action" form:"action" validate:"required"`
	Remarks string `json:"remarks" form:"remarks"`
}

// Outcome reasons surfaced through redirect query params, never as raw
// errors to the approver.
const (
	ReasonInvalidToken     = "invalid_token"
	ReasonTokenExpired     = "token_expired"
	ReasonInvalidAction    = "invalid_action"
	ReasonAlreadyProcessed = "already_processed"
	ReasonRemarksRequired  = "remarks_required"
	ReasonTaskFailed       = "task_failed"
)

// ActionResult is the terminal state of processing one approval click.
// RedirectURL is always set; the approver lands there regardless of outcome.
type ActionResult struct {
	Success     bool   `json:"success"`
	Reason      string `json:"reason,omitempty"`
	RedirectURL string `json:"redirect_url"`
}

// IssueResult reports what the issuer minted and whether the email left.
type IssueResult struct {
	TaskID      int               `json:"task_id"`
	EmailID     string            `json:"email_id"`
	EmailStatus email.EmailStatus `json:"email_status"`
	Actions     []string          `json:"actions"`
}

// RemarksPrompt carries what the remarks form needs to render.
type RemarksPrompt struct {
	Token        string
	Action       string
	ActionLabel  string
	SourceModule string
	SourceID     string
	TaskID       int
}
