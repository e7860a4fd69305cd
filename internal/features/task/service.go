package task

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-approvals/internal/common/models"
	"go-approvals/internal/features/audit"
	"go-approvals/pkg/utils"

	"go.uber.org/zap"
)

type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error)
	GetTask(ctx context.Context, taskID int) (*Task, error)
	ListTasks(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Task, error)
	ApplyDecision(ctx context.Context, taskID int, approverID, action, remarks string, status TaskStatus) (*Task, error)
}

type TaskServiceImpl struct {
	Repo         TaskRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewTaskService(repo TaskRepository, auditService audit.AuditService, logger *zap.Logger) TaskService {
	return &TaskServiceImpl{
		Repo:         repo,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	task := &Task{
		Module:      req.Module,
		SourceID:    req.SourceID,
		Title:       req.Title,
		RequesterID: req.RequesterID,
		ApproverID:  req.ApproverID,
	}
	if err := s.Repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.AuditService.LogChange(ctx, models.AuditActionCreate, task.Module, strconv.Itoa(task.ID), map[string]models.Change{
		"status": {New: string(TaskPending)},
		"title":  {New: task.Title},
	})
	s.Logger.Info("task created",
		zap.String("module", task.Module),
		zap.Int("taskId", task.ID),
		zap.String("approverId", task.ApproverID))
	return task, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID int) (*Task, error) {
	return s.Repo.FindByID(ctx, taskID)
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Task, error) {
	return s.Repo.List(ctx, filter, limit, offset)
}

// ApplyDecision resolves a pending task. The caller decides the outcome;
// the action name is recorded verbatim but never interpreted here.
func (s *TaskServiceImpl) ApplyDecision(ctx context.Context, taskID int, approverID, action, remarks string, status TaskStatus) (*Task, error) {
	if status != TaskApproved && status != TaskRejected {
		return nil, fmt.Errorf("status %q is not a decision outcome", status)
	}

	decision := Decision{
		Action:     action,
		ApproverID: approverID,
		Remarks:    remarks,
		At:         time.Now().UTC(),
	}

	task, err := s.Repo.ApplyDecision(ctx, taskID, decision, status)
	if err != nil {
		return nil, err
	}

	s.AuditService.LogChange(ctx, models.AuditActionApproval, task.Module, strconv.Itoa(task.ID), map[string]models.Change{
		"status":          {Old: string(TaskPending), New: string(status)},
		"decision.action": {New: action},
	})
	s.Logger.Info("task resolved",
		zap.String("module", task.Module),
		zap.Int("taskId", task.ID),
		zap.String("action", action))
	return task, nil
}
