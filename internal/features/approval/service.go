package approval

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-approvals/internal/common/models"
	"go-approvals/internal/features/audit"
	"go-approvals/internal/features/email"
	"go-approvals/internal/features/settings"
	"go-approvals/internal/features/system"
	"go-approvals/internal/features/task"
	"go-approvals/internal/features/template"
	"go-approvals/internal/features/token"
	"go-approvals/internal/features/user"
	"go-approvals/internal/notifier"
	"go-approvals/pkg/utils"

	"go.uber.org/zap"
)

type ApprovalService interface {
	// Issue mints one token per template action, renders the approval
	// email and sends it. The sent-email record is written for every
	// attempt; a transport failure is both recorded and returned.
	Issue(ctx context.Context, req SendEmailApprovalRequest) (*IssueResult, error)
	// Process handles one approval click end to end. It never returns an
	// error; every outcome maps to a redirect.
	Process(ctx context.Context, req ProcessEmailApprovalRequest) ActionResult
	// PrepareRemarks validates a token/action pair for the remarks form.
	PrepareRemarks(ctx context.Context, tokenString, action string) (*RemarksPrompt, error)
}

type ApprovalServiceImpl struct {
	Codec           *token.Codec
	TokenRepo       token.TokenRepository
	Registry        *template.Registry
	Renderer        *template.Renderer
	UserService     user.UserService
	TaskService     task.TaskService
	EmailService    email.EmailService
	SettingsService settings.SettingsService
	AuditService    audit.AuditService
	Hub             *system.Hub
	Notifier        notifier.Sink
	Logger          *zap.Logger
}

func NewApprovalService(
	codec *token.Codec,
	tokenRepo token.TokenRepository,
	registry *template.Registry,
	renderer *template.Renderer,
	userService user.UserService,
	taskService task.TaskService,
	emailService email.EmailService,
	settingsService settings.SettingsService,
	auditService audit.AuditService,
	hub *system.Hub,
	sink notifier.Sink,
	logger *zap.Logger,
) ApprovalService {
	return &ApprovalServiceImpl{
		Codec:           codec,
		TokenRepo:       tokenRepo,
		Registry:        registry,
		Renderer:        renderer,
		UserService:     userService,
		TaskService:     taskService,
		EmailService:    emailService,
		SettingsService: settingsService,
		AuditService:    auditService,
		Hub:             hub,
		Notifier:        sink,
		Logger:          logger,
	}
}

func (s *ApprovalServiceImpl) Issue(ctx context.Context, req SendEmailApprovalRequest) (*IssueResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("invalid approval request: %w", err)
	}

	tmpl, err := s.Registry.Resolve(req.TemplateName)
	if err != nil {
		return nil, err
	}

	pending, err := s.TaskService.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", req.TaskID, err)
	}
	if pending.Status != task.TaskPending {
		return nil, fmt.Errorf("task %d is %s, approval emails only go out for pending tasks", req.TaskID, pending.Status)
	}

	approver, err := s.UserService.GetApprover(ctx, req.ApproverID)
	if err != nil {
		return nil, err
	}

	general, err := s.SettingsService.GetGeneralConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load general settings: %w", err)
	}

	tctx := template.Context{
		TaskID:        req.TaskID,
		ApproverID:    req.ApproverID,
		ApproverName:  approver.Name,
		ApproverEmail: approver.Email,
		SourceModule:  req.Module,
		SourceID:      req.SourceID,
		TemplateName:  req.TemplateName,
		ApprovalData:  req.ApprovalData,
		BaseURL:       general.BaseURL,
		CompanyName:   general.CompanyName,
	}

	// One token per offered action; each is independently one-time-use.
	buttons := make([]template.Button, 0, len(tmpl.Actions))
	actions := make([]string, 0, len(tmpl.Actions))
	for _, action := range tmpl.Actions {
		signed, data, err := s.Codec.Mint(token.TokenData{
			TaskID:       req.TaskID,
			ApproverID:   req.ApproverID,
			SourceModule: req.Module,
			SourceID:     req.SourceID,
			Action:       action.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to mint token for action %q: %w", action.Name, err)
		}

		record := &token.Record{
			Nonce:        data.Nonce,
			TaskID:       data.TaskID,
			ApproverID:   data.ApproverID,
			SourceModule: data.SourceModule,
			SourceID:     data.SourceID,
			TemplateName: req.TemplateName,
			Action:       data.Action,
		}
		if err := s.TokenRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to persist token record: %w", err)
		}

		buttons = append(buttons, template.Button{
			Label: action.Label,
			URL:   s.actionURL(general.BaseURL, signed, action),
			Style: action.Style,
		})
		actions = append(actions, action.Name)
	}

	subject, html, err := s.Renderer.Render(tmpl, tctx, buttons)
	if err != nil {
		return nil, err
	}

	recipient := req.RecipientEmail
	if recipient == "" {
		recipient = approver.Email
	}

	record, sendErr := s.EmailService.Deliver(ctx, &email.SentEmail{
		Module:   req.Module,
		SourceID: req.SourceID,
		To:       []string{recipient},
		Subject:  subject,
		HtmlBody: html,
		Metadata: map[string]interface{}{
			"task_id":  req.TaskID,
			"template": req.TemplateName,
		},
	})

	result := &IssueResult{
		TaskID:  req.TaskID,
		Actions: actions,
	}
	if record != nil {
		result.EmailID = record.ID.Hex()
		result.EmailStatus = record.Status
	}

	s.AuditService.LogChange(ctx, models.AuditActionIssue, req.Module, strconv.Itoa(req.TaskID), map[string]models.Change{
		"template":  {New: req.TemplateName},
		"approver":  {New: req.ApproverID},
		"recipient": {New: recipient},
	})

	if sendErr != nil {
		s.Notifier.Notify(ctx, notifier.Event{
			Kind:    "issue_failed",
			Module:  req.Module,
			TaskID:  req.TaskID,
			Message: fmt.Sprintf("approval email for %s/%s failed: %v", req.Module, req.SourceID, sendErr),
		})
		return result, sendErr
	}

	s.Logger.Info("approval request issued",
		zap.String("module", req.Module),
		zap.Int("taskId", req.TaskID),
		zap.String("template", req.TemplateName),
		zap.String("approverId", req.ApproverID))
	return result, nil
}

func (s *ApprovalServiceImpl) Process(ctx context.Context, req ProcessEmailApprovalRequest) ActionResult {
	base := s.baseURL(ctx)

	data, err := s.Codec.Decode(req.Token)
	if err != nil {
		reason := ReasonInvalidToken
		if errors.Is(err, token.ErrTokenExpired) {
			reason = ReasonTokenExpired
		}
		return s.fail(base, nil, "", reason)
	}

	record, err := s.TokenRepo.GetByNonce(ctx, data.Nonce)
	if err != nil {
		return s.fail(base, data, "", ReasonInvalidToken)
	}

	tmpl, err := s.Registry.Resolve(record.TemplateName)
	if err != nil {
		return s.fail(base, data, "", ReasonInvalidToken)
	}
	errorURL := absoluteURL(base, tmpl.RedirectURLs.Error)

	// The clicked action must be the one the token was minted for and
	// must still exist on the template.
	spec, known := tmpl.Action(req.Action)
	if !known || req.Action != data.Action {
		return s.fail(base, data, errorURL, ReasonInvalidAction)
	}

	// Remarks are checked before consuming so a remarks-less attempt
	// leaves the token live for resubmission.
	remarks := strings.TrimSpace(req.Remarks)
	if spec.RequiresRemarks && remarks == "" {
		return ActionResult{
			Success:     false,
			Reason:      ReasonRemarksRequired,
			RedirectURL: remarksURL(base, req.Token, req.Action),
		}
	}

	if _, err := s.TokenRepo.Consume(ctx, data.Nonce, remarks); err != nil {
		if errors.Is(err, token.ErrAlreadyUsed) {
			return s.fail(base, data, errorURL, ReasonAlreadyProcessed)
		}
		return s.fail(base, data, errorURL, ReasonInvalidToken)
	}

	status := task.TaskApproved
	if spec.Rejects {
		status = task.TaskRejected
	}
	resolved, err := s.TaskService.ApplyDecision(ctx, data.TaskID, data.ApproverID, req.Action, remarks, status)
	if err != nil {
		// Give the approver their retry back.
		if releaseErr := s.TokenRepo.Release(ctx, data.Nonce); releaseErr != nil {
			s.Logger.Error("failed to release token after task failure",
				zap.String("module", data.SourceModule),
				zap.Int("taskId", data.TaskID),
				zap.Error(releaseErr))
		}
		s.Notifier.Notify(ctx, notifier.Event{
			Kind:    "process_failed",
			Module:  data.SourceModule,
			TaskID:  data.TaskID,
			Message: fmt.Sprintf("decision %q on task %d failed: %v", req.Action, data.TaskID, err),
		})
		return s.fail(base, data, errorURL, ReasonTaskFailed)
	}

	s.Hub.Broadcast(system.DecisionEvent{
		TaskID:     resolved.ID,
		Module:     resolved.Module,
		Action:     req.Action,
		ApproverID: data.ApproverID,
		At:         time.Now().UTC(),
	})
	s.Notifier.Notify(ctx, notifier.Event{
		Kind:    "decision",
		Module:  resolved.Module,
		TaskID:  resolved.ID,
		Message: fmt.Sprintf("task %d %s by %s", resolved.ID, resolved.Status, data.ApproverID),
	})
	s.Logger.Info("approval action processed",
		zap.String("module", resolved.Module),
		zap.Int("taskId", resolved.ID),
		zap.String("action", req.Action))

	redirect := tmpl.RedirectURLs.Success
	if spec.Rejects {
		redirect = tmpl.RedirectURLs.Rejection
	}
	return ActionResult{Success: true, RedirectURL: absoluteURL(base, redirect)}
}

func (s *ApprovalServiceImpl) PrepareRemarks(ctx context.Context, tokenString, action string) (*RemarksPrompt, error) {
	data, err := s.Codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}
	record, err := s.TokenRepo.GetByNonce(ctx, data.Nonce)
	if err != nil {
		return nil, err
	}
	if record.IsUsed {
		return nil, token.ErrAlreadyUsed
	}
	tmpl, err := s.Registry.Resolve(record.TemplateName)
	if err != nil {
		return nil, err
	}
	spec, ok := tmpl.Action(action)
	if !ok || action != data.Action {
		return nil, fmt.Errorf("action %q is not valid for this approval", action)
	}
	return &RemarksPrompt{
		Token:        tokenString,
		Action:       action,
		ActionLabel:  spec.Label,
		SourceModule: data.SourceModule,
		SourceID:     data.SourceID,
		TaskID:       data.TaskID,
	}, nil
}

// fail audits the failed attempt and points the approver at the error
// page. errorURL may be empty when the template is unknown.
func (s *ApprovalServiceImpl) fail(base string, data *token.TokenData, errorURL, reason string) ActionResult {
	if errorURL == "" {
		errorURL = absoluteURL(base, "/approval-error")
	}
	if data != nil {
		s.Logger.Warn("approval action rejected",
			zap.String("module", data.SourceModule),
			zap.Int("taskId", data.TaskID),
			zap.String("reason", reason))
	} else {
		s.Logger.Warn("approval action rejected", zap.String("reason", reason))
	}
	return ActionResult{
		Success:     false,
		Reason:      reason,
		RedirectURL: errorURL + "?reason=" + url.QueryEscape(reason),
	}
}

func (s *ApprovalServiceImpl) baseURL(ctx context.Context) string {
	general, err := s.SettingsService.GetGeneralConfig(ctx)
	if err != nil || general == nil {
		return ""
	}
	return general.BaseURL
}

// actionURL builds the link behind an email button. Remarks-required
// actions land on the remarks form instead of firing immediately.
func (s *ApprovalServiceImpl) actionURL(base, signed string, action template.ActionSpec) string {
	if action.RequiresRemarks {
		return remarksURL(base, signed, action.Name)
	}
	return fmt.Sprintf("%s/approvals/respond?token=%s&action=%s",
		strings.TrimRight(base, "/"), url.QueryEscape(signed), url.QueryEscape(action.Name))
}

func remarksURL(base, signed, action string) string {
	return fmt.Sprintf("%s/approvals/remarks?token=%s&action=%s",
		strings.TrimRight(base, "/"), url.QueryEscape(signed), url.QueryEscape(action))
}

func absoluteURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + path
}
