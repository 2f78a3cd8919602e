package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/loga115/ticketflow/internal/api/http"
	"github.com/loga115/ticketflow/internal/api/http/handlers"
	"github.com/loga115/ticketflow/internal/auth"
	"github.com/loga115/ticketflow/internal/config"
	"github.com/loga115/ticketflow/internal/events"
	"github.com/loga115/ticketflow/internal/observability"
	"github.com/loga115/ticketflow/internal/persistence"
	"github.com/loga115/ticketflow/internal/repository"
	"github.com/loga115/ticketflow/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	summaryRepo := repository.NewSummaryRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)
	timeLogRepo := repository.NewTimeLogRepository(pool)
	workloadRepo := repository.NewWorkloadRepository(pool)

	dispatcher := events.NewRedisDispatcher(redis.Client, cfg.Redis.EventChannel, logger)

	metrics := observability.NewMetrics()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		SummaryRepo:  summaryRepo,
		CategoryRepo: categoryRepo,
		EmployeeRepo: employeeRepo,
		CommentRepo:  commentRepo,
		HistoryRepo:  historyRepo,
		Dispatcher:   dispatcher,
		Config:       cfg.Tickets,
		Logger:       logger,
	})
	categoryService := service.NewCategoryService(categoryRepo)
	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo: employeeRepo,
		TicketRepo:   ticketRepo,
		TimeLogRepo:  timeLogRepo,
		WorkloadRepo: workloadRepo,
		SummaryRepo:  summaryRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	workloadService := service.NewWorkloadService(workloadRepo)
	recommendationService := service.NewRecommendationService(service.RecommendationDependencies{
		TicketRepo:   ticketRepo,
		CategoryRepo: categoryRepo,
		WorkloadRepo: workloadRepo,
		Rand:         service.NewTimeSeededRand(),
	})
	timeLogService := service.NewTimeLogService(service.TimeLogDependencies{
		TimeLogRepo:  timeLogRepo,
		EmployeeRepo: employeeRepo,
		TicketRepo:   ticketRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	timesheetService := service.NewTimesheetService(service.TimesheetDependencies{
		TimeLogRepo:  timeLogRepo,
		TicketRepo:   ticketRepo,
		EmployeeRepo: employeeRepo,
		SummaryRepo:  summaryRepo,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	notificationService.RegisterHandlers()

	verifier, err := auth.NewVerifier(cfg.Auth, logger)
	if err != nil {
		logger.Fatal("failed to configure auth", zap.Error(err))
	}
	authMiddleware := auth.NewMiddleware(verifier)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.CORSOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:        handlers.NewTicketsHandler(ticketService, recommendationService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Employees:      handlers.NewEmployeesHandler(employeeService, workloadService),
		TimeLogs:       handlers.NewTimeLogsHandler(timeLogService),
		TimeAnalytics:  handlers.NewTimeAnalyticsHandler(timesheetService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
