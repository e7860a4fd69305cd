package settings

import (
	"context"
	"time"

	common_models "go-approvals/internal/common/models"
	"go-approvals/internal/config"
	"go-approvals/internal/features/audit"
)

type SettingsService interface {
	GetEmailConfig(ctx context.Context) (*EmailConfig, error)
	UpdateEmailConfig(ctx context.Context, config EmailConfig) error
	GetGeneralConfig(ctx context.Context) (*GeneralConfig, error)
	UpdateGeneralConfig(ctx context.Context, config GeneralConfig) error
}

type SettingsServiceImpl struct {
	Repo         SettingsRepository
	Config       *config.Config
	AuditService audit.AuditService
}

func NewSettingsService(repo SettingsRepository, cfg *config.Config, auditService audit.AuditService) SettingsService {
	return &SettingsServiceImpl{
		Repo:         repo,
		Config:       cfg,
		AuditService: auditService,
	}
}

func (s *SettingsServiceImpl) GetEmailConfig(ctx context.Context) (*EmailConfig, error) {
	settings, err := s.Repo.GetByType(ctx, SettingsTypeEmail)
	if err != nil {
		return nil, err
	}
	if settings == nil || settings.Email == nil {
		return nil, nil
	}
	return settings.Email, nil
}

func (s *SettingsServiceImpl) UpdateEmailConfig(ctx context.Context, config EmailConfig) error {
	oldConfig, _ := s.GetEmailConfig(ctx)

	settings := &Settings{
		Type:      SettingsTypeEmail,
		Email:     &config,
		UpdatedAt: time.Now(),
	}
	err := s.Repo.Upsert(ctx, settings)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettings, "settings", "email_config", map[string]common_models.Change{
			"email_config": {
				Old: oldConfig,
				New: config,
			},
		})
	}
	return err
}

// GetGeneralConfig falls back to env defaults when nothing is stored, so
// link building and branding always have a value.
func (s *SettingsServiceImpl) GetGeneralConfig(ctx context.Context) (*GeneralConfig, error) {
	settings, err := s.Repo.GetByType(ctx, SettingsTypeGeneral)
	if err != nil {
		return nil, err
	}
	if settings == nil || settings.General == nil {
		return &GeneralConfig{
			AppName:     s.Config.AppId,
			CompanyName: s.Config.CompanyName,
			BaseURL:     s.Config.BaseURL,
		}, nil
	}

	general := settings.General
	if general.CompanyName == "" {
		general.CompanyName = s.Config.CompanyName
	}
	if general.BaseURL == "" {
		general.BaseURL = s.Config.BaseURL
	}
	return general, nil
}

func (s *SettingsServiceImpl) UpdateGeneralConfig(ctx context.Context, config GeneralConfig) error {
	oldConfig, _ := s.GetGeneralConfig(ctx)

	settings := &Settings{
		Type:      SettingsTypeGeneral,
		General:   &config,
		UpdatedAt: time.Now(),
	}
	err := s.Repo.Upsert(ctx, settings)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettings, "settings", "general_config", map[string]common_models.Change{
			"general_config": {
				Old: oldConfig,
				New: config,
			},
		})
	}
	return err
}
