package main

import (
	"context"
	"fmt"

	common_models "go-approvals/internal/common/models"
	"go-approvals/internal/config"
	"go-approvals/internal/database"
	"go-approvals/internal/features/audit"
	"go-approvals/internal/features/settings"
	"go-approvals/internal/features/task"
	"go-approvals/internal/features/user"
	"go-approvals/internal/logger"
	"go-approvals/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed populates demo approvers, a couple of pending tasks and the
// runtime settings, then prints a service JWT for driving the API.
func Seed(
	lc fx.Lifecycle,
	cfg *config.Config,
	userService user.UserService,
	taskService task.TaskService,
	settingsService settings.SettingsService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding...")

				approvers := []common_models.User{
					{Name: "Maya Iyer", Email: "maya@acme.test", Active: true},
					{Name: "Daniel Okafor", Email: "daniel@acme.test", Active: true},
				}
				approverIDs := make([]string, 0, len(approvers))
				for i := range approvers {
					if err := userService.CreateUser(ctx, &approvers[i]); err != nil {
						logger.Warn("Approver exists or failed, skipping",
							zap.String("email", approvers[i].Email), zap.Error(err))
						continue
					}
					approverIDs = append(approverIDs, approvers[i].ID.Hex())
					logger.Info("Approver created",
						zap.String("name", approvers[i].Name),
						zap.String("id", approvers[i].ID.Hex()))
				}

				if len(approverIDs) > 0 {
					demo := []task.CreateTaskRequest{
						{Module: "leave", SourceID: "LR-204", Title: "Casual leave, 2 days", RequesterID: "emp-1042", ApproverID: approverIDs[0]},
						{Module: "expense", SourceID: "EXP-11", Title: "Client travel reimbursement", RequesterID: "emp-1042", ApproverID: approverIDs[0]},
					}
					for _, req := range demo {
						created, err := taskService.CreateTask(ctx, req)
						if err != nil {
							logger.Error("Failed to create task", zap.String("sourceId", req.SourceID), zap.Error(err))
							continue
						}
						logger.Info("Task created", zap.Int("taskId", created.ID), zap.String("sourceId", created.SourceID))
					}
				}

				if err := settingsService.UpdateGeneralConfig(ctx, settings.GeneralConfig{
					AppName:     "go-approvals",
					CompanyName: cfg.CompanyName,
					BaseURL:     cfg.BaseURL,
				}); err != nil {
					logger.Error("Failed to seed general settings", zap.Error(err))
				}

				jwt, err := utils.GenerateToken("seed-service", []string{"service"})
				if err != nil {
					logger.Error("Failed to mint service token", zap.Error(err))
				} else {
					fmt.Printf("\nService JWT (Authorization: Bearer ...):\n%s\n\n", jwt)
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,

			user.NewUserRepository,
			task.NewTaskRepository,
			settings.NewSettingsRepository,
			audit.NewAuditRepository,

			audit.NewAuditService,
			user.NewUserService,
			task.NewTaskService,
			settings.NewSettingsService,

			func(r user.UserRepository) audit.UserFinder { return r },
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},
			Seed,
		),
	)

	app.Run()
}
