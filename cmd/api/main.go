package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/database"
	"go-approvals/internal/features/approval"
	"go-approvals/internal/features/audit"
	cron_feature "go-approvals/internal/features/cron"
	"go-approvals/internal/features/email"
	"go-approvals/internal/features/settings"
	"go-approvals/internal/features/system"
	"go-approvals/internal/features/task"
	"go-approvals/internal/features/template"
	"go-approvals/internal/features/token"
	"go-approvals/internal/features/user"
	"go-approvals/internal/logger"
	"go-approvals/internal/middleware"
	"go-approvals/internal/notifier"
	"go-approvals/pkg/utils"

	_ "go-approvals/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// @title           Approvals API
// @version         1.0
// @description     Email-based approval workflow service built on Fiber, Uber Fx and MongoDB.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			token.NewTokenRepository,
			email.NewEmailRepository,
			task.NewTaskRepository,
			user.NewUserRepository,
			settings.NewSettingsRepository,
			audit.NewAuditRepository,
			cron_feature.NewCronRepository,

			// Services
			token.NewCodec,
			template.NewRegistry,
			template.NewRenderer,
			email.NewSMTPSender,
			email.NewEmailService,
			task.NewTaskService,
			user.NewUserService,
			settings.NewSettingsService,
			audit.NewAuditService,
			approval.NewApprovalService,
			cron_feature.NewCronService,
			system.NewHub,
			notifier.NewSink,

			// Interface adapters to satisfy Fx
			func(r user.UserRepository) audit.UserFinder { return r },

			// Controllers
			email.NewEmailController,
			task.NewTaskController,
			user.NewUserController,
			settings.NewSettingsController,
			audit.NewAuditController,
			approval.NewApprovalController,
			cron_feature.NewCronController,

			// API Routes
			AsRoute(email.NewEmailApi),
			AsRoute(task.NewTaskApi),
			AsRoute(user.NewUserApi),
			AsRoute(settings.NewSettingsApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(approval.NewApprovalApi),
			AsRoute(cron_feature.NewCronApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, cronService cron_feature.CronService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return cronService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return cronService.StopScheduler()
					},
				})
			},
		),
	)

	app.Run()
}
