package cron_feature

import (
	"context"
	"fmt"
	"time"

	common_models "go-approvals/internal/common/models"
	"go-approvals/internal/config"
	"go-approvals/internal/features/audit"
	"go-approvals/internal/features/email"
	"go-approvals/internal/features/token"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Daily, off-peak. The sweeper only reclaims storage; token expiry is
// enforced at decode time, never here.
const sweepSchedule = "0 3 * * *"

type CronService interface {
	RunRetentionSweep(ctx context.Context) (*SweepLog, error)
	GetSweepLogs(ctx context.Context, limit int) ([]SweepLog, error)
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type CronServiceImpl struct {
	repo         CronRepository
	tokenRepo    token.TokenRepository
	emailRepo    email.EmailRepository
	auditRepo    audit.AuditRepository
	auditService audit.AuditService
	config       *config.Config
	logger       *zap.Logger

	scheduler *cron.Cron
}

func NewCronService(
	repo CronRepository,
	tokenRepo token.TokenRepository,
	emailRepo email.EmailRepository,
	auditRepo audit.AuditRepository,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) CronService {
	return &CronServiceImpl{
		repo:         repo,
		tokenRepo:    tokenRepo,
		emailRepo:    emailRepo,
		auditRepo:    auditRepo,
		auditService: auditService,
		config:       cfg,
		logger:       logger,
	}
}

func (s *CronServiceImpl) RunRetentionSweep(ctx context.Context) (*SweepLog, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.config.RetentionDays)

	logEntry := &SweepLog{
		StartTime: time.Now().UTC(),
		Status:    "running",
		Cutoff:    cutoff,
	}
	if err := s.repo.CreateLog(ctx, logEntry); err != nil {
		s.logger.Error("failed to create sweep log", zap.Error(err))
	}

	var sweepErr error

	if n, err := s.tokenRepo.DeleteConsumedBefore(ctx, cutoff); err != nil {
		sweepErr = fmt.Errorf("token sweep: %w", err)
	} else {
		logEntry.TokensDeleted = n
	}

	// Unconsumed records are reclaimable once their token is past the
	// TTL: decode rejects the token before the record is ever read, so
	// the sibling actions of a decided approval and the records of
	// emails never acted on can go. The cutoff takes whichever of the
	// retention window and the TTL reaches further back, so a live
	// token always keeps its record.
	if sweepErr == nil {
		expiredCutoff := cutoff
		if ttlCutoff := time.Now().UTC().Add(-s.config.TokenTTL); ttlCutoff.Before(expiredCutoff) {
			expiredCutoff = ttlCutoff
		}
		if n, err := s.tokenRepo.DeleteExpiredBefore(ctx, expiredCutoff); err != nil {
			sweepErr = fmt.Errorf("expired token sweep: %w", err)
		} else {
			logEntry.ExpiredTokensDeleted = n
		}
	}

	if sweepErr == nil {
		if n, err := s.emailRepo.DeleteBefore(ctx, cutoff); err != nil {
			sweepErr = fmt.Errorf("email sweep: %w", err)
		} else {
			logEntry.EmailsDeleted = n
		}
	}

	if sweepErr == nil {
		if n, err := s.auditRepo.DeleteBefore(ctx, cutoff); err != nil {
			sweepErr = fmt.Errorf("audit sweep: %w", err)
		} else {
			logEntry.AuditDeleted = n
		}
	}

	if sweepErr == nil {
		if n, err := s.repo.DeleteAppLogsBefore(ctx, cutoff); err != nil {
			sweepErr = fmt.Errorf("log sweep: %w", err)
		} else {
			logEntry.LogsDeleted = n
		}
	}

	endTime := time.Now().UTC()
	logEntry.EndTime = &endTime
	if sweepErr != nil {
		logEntry.Status = "failed"
		logEntry.Error = sweepErr.Error()
	} else {
		logEntry.Status = "success"
	}
	if err := s.repo.UpdateLog(ctx, logEntry); err != nil {
		s.logger.Error("failed to update sweep log", zap.Error(err))
	}

	s.auditService.LogChange(ctx, common_models.AuditActionCron, "retention", logEntry.ID.Hex(), map[string]common_models.Change{
		"status":                 {New: logEntry.Status},
		"tokens_deleted":         {New: logEntry.TokensDeleted},
		"expired_tokens_deleted": {New: logEntry.ExpiredTokensDeleted},
		"emails_deleted":         {New: logEntry.EmailsDeleted},
	})

	if sweepErr != nil {
		s.logger.Error("retention sweep failed", zap.Error(sweepErr))
		return logEntry, sweepErr
	}

	s.logger.Info("retention sweep completed",
		zap.Time("cutoff", cutoff),
		zap.Int64("tokensDeleted", logEntry.TokensDeleted),
		zap.Int64("expiredTokensDeleted", logEntry.ExpiredTokensDeleted),
		zap.Int64("emailsDeleted", logEntry.EmailsDeleted),
		zap.Int64("auditDeleted", logEntry.AuditDeleted),
		zap.Int64("logsDeleted", logEntry.LogsDeleted))
	return logEntry, nil
}

func (s *CronServiceImpl) GetSweepLogs(ctx context.Context, limit int) ([]SweepLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetLogs(ctx, limit)
}

func (s *CronServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.logger.Info("initializing retention scheduler", zap.String("schedule", sweepSchedule))
	s.scheduler = cron.New()

	_, err := s.scheduler.AddFunc(sweepSchedule, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.RunRetentionSweep(sweepCtx); err != nil {
			s.logger.Error("scheduled retention sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	s.scheduler.Start()
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}
