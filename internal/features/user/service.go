package user

import (
	"context"
	"errors"

	common_models "go-approvals/internal/common/models"
	"go-approvals/internal/features/audit"
	"go-approvals/pkg/utils"
)

var ErrApproverNotFound = errors.New("approver not found")

type UserService interface {
	CreateUser(ctx context.Context, user *common_models.User) error
	GetApprover(ctx context.Context, id string) (*common_models.User, error)
	ListUsers(ctx context.Context, limit, offset int64) ([]common_models.User, error)
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user *common_models.User) error {
	if user.Email == "" {
		return errors.New("email is required")
	}
	if err := utils.ValidateEmail(user.Email); err != nil {
		return err
	}

	existing, err := s.Repo.FindByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("a user with this email already exists")
	}

	user.Active = true
	err = s.Repo.Create(ctx, user)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "users", user.ID.Hex(), map[string]common_models.Change{
			"user": {New: user},
		})
	}
	return err
}

// GetApprover returns an active approver identity; inactive users cannot
// receive new approval requests.
func (s *UserServiceImpl) GetApprover(ctx context.Context, id string) (*common_models.User, error) {
	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, ErrApproverNotFound
	}
	return user, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, limit, offset int64) ([]common_models.User, error) {
	if limit < 1 {
		limit = 20
	}
	return s.Repo.List(ctx, limit, offset)
}
