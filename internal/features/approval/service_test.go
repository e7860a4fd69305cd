package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go-approvals/internal/common/models"
	"go-approvals/internal/config"
	"go-approvals/internal/features/email"
	"go-approvals/internal/features/settings"
	"go-approvals/internal/features/system"
	"go-approvals/internal/features/task"
	"go-approvals/internal/features/template"
	"go-approvals/internal/features/token"
	"go-approvals/internal/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testBaseURL = "https://hr.acme.test"

type memTokenRepo struct {
	mu      sync.Mutex
	records map[string]*token.Record
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{records: map[string]*token.Record{}}
}

func (r *memTokenRepo) Create(ctx context.Context, record *token.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.CreatedAt = time.Now()
	stored := *record
	r.records[record.Nonce] = &stored
	return nil
}

func (r *memTokenRepo) GetByNonce(ctx context.Context, nonce string) (*token.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[nonce]
	if !ok {
		return nil, token.ErrRecordNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *memTokenRepo) Consume(ctx context.Context, nonce string, remarks string) (*token.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[nonce]
	if !ok {
		return nil, token.ErrRecordNotFound
	}
	if rec.IsUsed {
		return nil, token.ErrAlreadyUsed
	}
	now := time.Now()
	rec.IsUsed = true
	rec.UsedAt = &now
	rec.Remarks = remarks
	copied := *rec
	return &copied, nil
}

func (r *memTokenRepo) Release(ctx context.Context, nonce string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[nonce]
	if !ok || !rec.IsUsed {
		return token.ErrRecordNotFound
	}
	rec.IsUsed = false
	rec.UsedAt = nil
	rec.Remarks = ""
	return nil
}

func (r *memTokenRepo) DeleteConsumedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *memTokenRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeTaskService struct {
	mu       sync.Mutex
	tasks    map[int]*task.Task
	applied  int
	failNext bool
}

func newFakeTaskService() *fakeTaskService {
	return &fakeTaskService{tasks: map[int]*task.Task{}}
}

func (f *fakeTaskService) addPending(id int, module string) {
	f.tasks[id] = &task.Task{ID: id, Module: module, SourceID: fmt.Sprintf("SRC-%d", id), Status: task.TaskPending}
}

func (f *fakeTaskService) CreateTask(ctx context.Context, req task.CreateTaskRequest) (*task.Task, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskService) GetTask(ctx context.Context, taskID int) (*task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, task.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTaskService) ListTasks(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]task.Task, error) {
	return nil, nil
}

func (f *fakeTaskService) ApplyDecision(ctx context.Context, taskID int, approverID, action, remarks string, status task.TaskStatus) (*task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, errors.New("task store unavailable")
	}
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, task.ErrTaskNotFound
	}
	if t.Status != task.TaskPending {
		return nil, task.ErrTaskNotPending
	}
	f.applied++
	t.Status = status
	t.Decision = &task.Decision{Action: action, ApproverID: approverID, Remarks: remarks, At: time.Now()}
	copied := *t
	return &copied, nil
}

type fakeUserService struct{}

func (fakeUserService) CreateUser(ctx context.Context, user *models.User) error { return nil }

func (fakeUserService) GetApprover(ctx context.Context, id string) (*models.User, error) {
	if id != "mgr-1" {
		return nil, errors.New("approver not found")
	}
	return &models.User{ID: primitive.NewObjectID(), Name: "Maya Iyer", Email: "maya@acme.test", Active: true}, nil
}

func (fakeUserService) ListUsers(ctx context.Context, limit, offset int64) ([]models.User, error) {
	return nil, nil
}

type fakeEmailService struct {
	mu        sync.Mutex
	delivered []*email.SentEmail
	sendErr   error
}

func (f *fakeEmailService) Deliver(ctx context.Context, e *email.SentEmail) (*email.SentEmail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = primitive.NewObjectID()
	if f.sendErr != nil {
		e.Status = email.EmailFailed
		e.ErrorMsg = f.sendErr.Error()
		f.delivered = append(f.delivered, e)
		return e, f.sendErr
	}
	e.Status = email.EmailSent
	f.delivered = append(f.delivered, e)
	return e, nil
}

func (f *fakeEmailService) GetEmail(ctx context.Context, id string) (*email.SentEmail, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEmailService) ListEmails(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]email.SentEmail, error) {
	return nil, nil
}

func (f *fakeEmailService) ExportEmails(ctx context.Context, filter map[string]interface{}) ([]byte, error) {
	return nil, nil
}

type fakeSettingsService struct{}

func (fakeSettingsService) GetEmailConfig(ctx context.Context) (*settings.EmailConfig, error) {
	return &settings.EmailConfig{SMTPHost: "smtp.acme.test", SMTPPort: 587}, nil
}

func (fakeSettingsService) UpdateEmailConfig(ctx context.Context, config settings.EmailConfig) error {
	return nil
}

func (fakeSettingsService) GetGeneralConfig(ctx context.Context) (*settings.GeneralConfig, error) {
	return &settings.GeneralConfig{AppName: "go-approvals", CompanyName: "Acme Corp", BaseURL: testBaseURL}, nil
}

func (fakeSettingsService) UpdateGeneralConfig(ctx context.Context, config settings.GeneralConfig) error {
	return nil
}

type fakeAuditService struct {
	mu      sync.Mutex
	actions []models.AuditAction
}

func (f *fakeAuditService) LogChange(ctx context.Context, action models.AuditAction, module string, recordID string, changes map[string]models.Change) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAuditService) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]models.AuditLog, error) {
	return nil, nil
}

type captureSink struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (c *captureSink) Notify(ctx context.Context, event notifier.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

type fixture struct {
	service  ApprovalService
	codec    *token.Codec
	tokens   *memTokenRepo
	tasks    *fakeTaskService
	emails   *fakeEmailService
	audit    *fakeAuditService
	sink     *captureSink
	registry *template.Registry
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()
	codec := token.NewCodec(&config.Config{TokenSecret: "test-secret", TokenTTL: ttl})
	f := &fixture{
		codec:    codec,
		tokens:   newMemTokenRepo(),
		tasks:    newFakeTaskService(),
		emails:   &fakeEmailService{},
		audit:    &fakeAuditService{},
		sink:     &captureSink{},
		registry: template.NewRegistry(),
	}
	f.service = NewApprovalService(
		codec,
		f.tokens,
		f.registry,
		template.NewRenderer(),
		fakeUserService{},
		f.tasks,
		f.emails,
		fakeSettingsService{},
		f.audit,
		system.NewHub(zap.NewNop()),
		f.sink,
		zap.NewNop(),
	)
	return f
}

// mintFor issues a signed token plus matching record directly, skipping
// the email leg.
func (f *fixture) mintFor(t *testing.T, taskID int, action string) string {
	return f.mintForTemplate(t, taskID, action, "leave-approval")
}

func (f *fixture) mintForTemplate(t *testing.T, taskID int, action, templateName string) string {
	t.Helper()
	signed, data, err := f.codec.Mint(token.TokenData{
		TaskID:       taskID,
		ApproverID:   "mgr-1",
		SourceModule: "leave",
		SourceID:     fmt.Sprintf("SRC-%d", taskID),
		Action:       action,
	})
	require.NoError(t, err)
	require.NoError(t, f.tokens.Create(context.Background(), &token.Record{
		Nonce:        data.Nonce,
		TaskID:       data.TaskID,
		ApproverID:   data.ApproverID,
		SourceModule: data.SourceModule,
		SourceID:     data.SourceID,
		TemplateName: templateName,
		Action:       data.Action,
	}))
	return signed
}

func TestIssueMintsOneTokenPerAction(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.tasks.addPending(7, "leave")

	result, err := f.service.Issue(context.Background(), SendEmailApprovalRequest{
		TaskID:       7,
		ApproverID:   "mgr-1",
		Module:       "leave",
		SourceID:     "LR-204",
		TemplateName: "leave-approval",
		ApprovalData: map[string]interface{}{"employee_name": "Ravi Kumar", "leave_type": "Casual", "days": 2},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"approve", "reject"}, result.Actions)
	assert.Equal(t, email.EmailSent, result.EmailStatus)
	assert.Len(t, f.tokens.records, 2)

	require.Len(t, f.emails.delivered, 1)
	sent := f.emails.delivered[0]
	assert.Equal(t, []string{"maya@acme.test"}, sent.To)
	assert.Contains(t, sent.Subject, "LR-204")
	assert.Contains(t, sent.Subject, "Ravi Kumar")
	assert.Contains(t, sent.HtmlBody, testBaseURL+"/approvals/respond?token=")
	// Reject requires remarks, so its button goes through the form.
	assert.Contains(t, sent.HtmlBody, testBaseURL+"/approvals/remarks?token=")
}

func TestIssueRejectsNonPendingTask(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.tasks.addPending(8, "leave")
	f.tasks.tasks[8].Status = task.TaskApproved

	_, err := f.service.Issue(context.Background(), SendEmailApprovalRequest{
		TaskID:       8,
		ApproverID:   "mgr-1",
		Module:       "leave",
		SourceID:     "LR-205",
		TemplateName: "leave-approval",
	})
	require.Error(t, err)
}

func TestIssueSurfacesTransportFailure(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.tasks.addPending(9, "expense")
	f.emails.sendErr = email.ErrTransportFailure

	result, err := f.service.Issue(context.Background(), SendEmailApprovalRequest{
		TaskID:       9,
		ApproverID:   "mgr-1",
		Module:       "expense",
		SourceID:     "EXP-11",
		TemplateName: "expense-approval",
		ApprovalData: map[string]interface{}{"amount": "₹4,200"},
	})
	require.Error(t, err)
	require.NotNil(t, result)

	assert.Equal(t, email.EmailFailed, result.EmailStatus)
	require.Len(t, f.sink.events, 1)
	assert.Equal(t, "issue_failed", f.sink.events[0].Kind)
}

func TestProcessApproveRedirectsToSuccess(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.tasks.addPending(10, "leave")
	signed := f.mintFor(t, 10, "approve")

	result := f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: signed, Action: "approve"})

	assert.True(t, result.Success)
	assert.Equal(t, testBaseURL+"/approved", result.RedirectURL)

	resolved, err := f.tasks.GetTask(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, task.TaskApproved, resolved.Status)
	require.Len(t, f.sink.events, 1)
	assert.Equal(t, "decision", f.sink.events[0].Kind)
}

func TestProcessReplayIsAlreadyProcessed(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.tasks.addPending(11, "leave")
	signed := f.mintFor(t, 11, "approve")

	first := f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: signed, Action: "approve"})
	require.True(t, first.Success)

	second := f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: signed, Action: "approve"})
	assert.False(t, second.Success)
	assert.Equal(t, ReasonAlreadyProcessed, second.Reason)
	assert.Contains(t, second.RedirectURL, "/approval-error")
	assert.Contains(t, second.RedirectURL, "reason=already_processed")
	assert.Equal(t, 1, f.tasks.applied)
}

func TestProcessConcurrentClicksConsumeOnce(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.tasks.addPending(12, "leave")
	signed := f.mintFor(t, 12, "approve")

	const clicks = 32
	results := make([]ActionResult, clicks)
	var wg sync.WaitGroup
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: signed, Action: "approve"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	replayed := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		} else if r.Reason == ReasonAlreadyProcessed {
			replayed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, clicks-1, replayed)
	assert.Equal(t, 1, f.tasks.applied)
}

func TestProcessRejectWithoutRemarksKeepsTokenLive(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.tasks.addPending(13, "leave")
	signed := f.mintFor(t, 13, "reject")

	bare := f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: signed, Action: "reject"})
	assert.False(t, bare.Success)
	assert.Equal(t, ReasonRemarksRequired, bare.Reason)
	assert.Contains(t, bare.RedirectURL, "/approvals/remarks?token=")

	// The remarks-less attempt must not consume the token.
	pending, err := f.tasks.GetTask(context.Background(), 13)
	require.NoError(t, err)
	assert.Equal(t, task.TaskPending, pending.Status)

	retried := f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: signed, Action: "reject", Remarks: "Project freeze this week"})
	assert.True(t, retried.Success)
	assert.Equal(t, testBaseURL+"/rejected", retried.RedirectURL)

	resolved, err := f.tasks.GetTask(context.Background(), 13)
	require.NoError(t, err)
	assert.Equal(t, task.TaskRejected, resolved.Status)
	assert.Equal(t, "Project freeze this week", resolved.Decision.Remarks)
}

// A rejecting action keeps its outcome regardless of what it is named;
// only the Rejects flag decides the status and redirect bucket.
func TestProcessRejectingActionIgnoresName(t *testing.T) {
	f := newFixture(t, time.Hour)
	require.NoError(t, f.registry.Register(template.Config{
		Name:    "equipment-return",
		Subject: "Equipment return {{source_id}} needs your approval",
		Actions: []template.ActionSpec{
			{Name: "accept", Label: "Accept", Style: "primary"},
			{Name: "decline", Label: "Decline", Style: "danger", Rejects: true},
		},
		RedirectURLs: template.RedirectURLs{
			Success:   "/returns/accepted",
			Rejection: "/returns/declined",
			Error:     "/approval-error",
		},
	}))

	f.tasks.addPending(21, "equipment")
	declined := f.service.Process(context.Background(), ProcessEmailApprovalRequest{
		Token:  f.mintForTemplate(t, 21, "decline", "equipment-return"),
		Action: "decline",
	})
	require.True(t, declined.Success)
	assert.Equal(t, testBaseURL+"/returns/declined", declined.RedirectURL)
	resolved, err := f.tasks.GetTask(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, task.TaskRejected, resolved.Status)

	f.tasks.addPending(22, "equipment")
	accepted := f.service.Process(context.Background(), ProcessEmailApprovalRequest{
		Token:  f.mintForTemplate(t, 22, "accept", "equipment-return"),
		Action: "accept",
	})
	require.True(t, accepted.Success)
	assert.Equal(t, testBaseURL+"/returns/accepted", accepted.RedirectURL)
	resolved, err = f.tasks.GetTask(context.Background(), 22)
	require.NoError(t, err)
	assert.Equal(t, task.TaskApproved, resolved.Status)
}

func TestProcessExpiredToken(t *testing.T) {
	f := newFixture(t, -time.Minute)
	f.tasks.addPending(14, "leave")
	signed := f.mintFor(t, 14, "approve")

	result := f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: signed, Action: "approve"})
	assert.False(t, result.Success)
	assert.Equal(t, ReasonTokenExpired, result.Reason)
	assert.Contains(t, result.RedirectURL, "reason=token_expired")
}

func TestProcessGarbageToken(t *testing.T) {
	f := newFixture(t, time.Hour)

	result := f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: "not-a-token", Action: "approve"})
	assert.False(t, result.Success)
	assert.Equal(t, ReasonInvalidToken, result.Reason)
	assert.True(t, strings.HasPrefix(result.RedirectURL, testBaseURL))
}

func TestProcessActionMismatch(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.tasks.addPending(15, "leave")
	signed := f.mintFor(t, 15, "approve")

	result := f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: signed, Action: "reject", Remarks: "x"})
	assert.False(t, result.Success)
	assert.Equal(t, ReasonInvalidAction, result.Reason)
	assert.Equal(t, 0, f.tasks.applied)
}

func TestProcessTaskFailureReleasesToken(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.tasks.addPending(16, "leave")
	signed := f.mintFor(t, 16, "approve")
	f.tasks.failNext = true

	failed := f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: signed, Action: "approve"})
	assert.False(t, failed.Success)
	assert.Equal(t, ReasonTaskFailed, failed.Reason)

	// Token must be usable again after the compensating release.
	retried := f.service.Process(context.Background(), ProcessEmailApprovalRequest{Token: signed, Action: "approve"})
	assert.True(t, retried.Success)
	assert.Equal(t, 1, f.tasks.applied)
}

func TestPrepareRemarks(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.tasks.addPending(17, "leave")
	signed := f.mintFor(t, 17, "reject")

	prompt, err := f.service.PrepareRemarks(context.Background(), signed, "reject")
	require.NoError(t, err)
	assert.Equal(t, "Reject", prompt.ActionLabel)
	assert.Equal(t, 17, prompt.TaskID)

	_, err = f.service.PrepareRemarks(context.Background(), signed, "approve")
	require.Error(t, err)
}
