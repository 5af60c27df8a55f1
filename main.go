package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/config"
	"github.com/taskhive-io/taskhive-engine/pkg/database"
	"github.com/taskhive-io/taskhive-engine/pkg/handlers"
	"github.com/taskhive-io/taskhive-engine/pkg/middleware"
	"github.com/taskhive-io/taskhive-engine/pkg/repositories"
	"github.com/taskhive-io/taskhive-engine/pkg/retry"
	"github.com/taskhive-io/taskhive-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Configuration loaded:")
	log.Printf("  Environment: %s", cfg.Env)
	log.Printf("  Base URL: %s", cfg.BaseURL)
	log.Printf("  Database: %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// The database may still be starting alongside us; retry transient
	// connection failures before giving up.
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return database.Connect(connectCtx, cfg.Database.ConnectionString(), cfg.Database.MaxConnections)
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// golang-migrate speaks database/sql, so hand it a stdlib view of the pool.
	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.Migrate(sqlDB, cfg.MigrationsPath, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	// Repositories.
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	boardRepo := repositories.NewBoardRepository(db)
	cardRepo := repositories.NewCardRepository(db)
	subtaskRepo := repositories.NewSubtaskRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	timeLogRepo := repositories.NewTimeLogRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Authorization core.
	resourceStore := repositories.NewResourceStore(
		projectRepo, boardRepo, cardRepo, subtaskRepo,
		commentRepo, timeLogRepo, assignmentRepo, reviewRepo,
	)
	evaluator := authz.NewEvaluator(membershipRepo, resourceStore)

	// Services.
	userService := services.NewUserService(userRepo, logger)
	projectService := services.NewProjectService(projectRepo, logger)
	membershipService := services.NewMembershipService(membershipRepo, userRepo, logger)
	boardService := services.NewBoardService(boardRepo, logger)
	cardService := services.NewCardService(cardRepo, logger)
	subtaskService := services.NewSubtaskService(subtaskRepo, logger)
	commentService := services.NewCommentService(commentRepo, logger)
	timeLogService := services.NewTimeLogService(timeLogRepo, subtaskRepo, logger)
	assignmentService := services.NewAssignmentService(assignmentRepo, cardRepo, notificationRepo, logger)
	reviewService := services.NewReviewService(reviewRepo, cardRepo, assignmentRepo, notificationRepo, logger)
	notificationService := services.NewNotificationService(notificationRepo, logger)
	reportService := services.NewReportService(reportRepo, projectRepo, logger)

	// Authentication.
	authService := auth.NewService([]byte(cfg.Auth.SigningKey), cfg.Auth.Issuer)
	authMiddleware := auth.NewMiddleware(authService, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewUsersHandler(userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewProjectsHandler(projectService, evaluator, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewMembershipsHandler(membershipService, evaluator, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewBoardsHandler(boardService, evaluator, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewCardsHandler(cardService, evaluator, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSubtasksHandler(subtaskService, evaluator, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewCommentsHandler(commentService, evaluator, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewTimeLogsHandler(timeLogService, evaluator, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAssignmentsHandler(assignmentService, evaluator, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewReviewsHandler(reviewService, evaluator, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewNotificationsHandler(notificationService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewReportsHandler(reportService, evaluator, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	log.Printf("Starting taskhive-engine on %s (version: %s)", addr, cfg.Version)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newLogger builds a production logger, or a development one for local runs.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
