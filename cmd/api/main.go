package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/b-learning-api/internal/config"
	"github.com/noah-isme/b-learning-api/internal/database"
	"github.com/noah-isme/b-learning-api/internal/events"
	"github.com/noah-isme/b-learning-api/internal/handler"
	"github.com/noah-isme/b-learning-api/internal/middleware"
	"github.com/noah-isme/b-learning-api/internal/observability"
	"github.com/noah-isme/b-learning-api/internal/repository"
	"github.com/noah-isme/b-learning-api/internal/router"
	"github.com/noah-isme/b-learning-api/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if !cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger = logger.With().Str("service", cfg.AppName).Str("env", cfg.AppEnv).Logger()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, statistics will not be cached")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, submission events disabled")
			natsConn = nil
		} else {
			defer natsConn.Drain()
		}
	}

	observability.RegisterMetrics()
	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	lectureRepo := repository.NewLectureRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	statsCache := service.NewStatsCache(redisClient, cfg.StatsCacheTTL, logger)

	courseService := service.NewCourseService(courseRepo, statsCache, validate, logger)
	moduleService := service.NewModuleService(moduleRepo, courseRepo, statsCache, validate, logger)
	lectureService := service.NewLectureService(lectureRepo, moduleRepo, statsCache, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, studentRepo, statsCache, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, service.SubmissionServiceConfig{
		Stats:             statsCache,
		Publisher:         events.NewPublisher(natsConn, cfg.NATSSubjectPrefix, logger),
		LatePolicy:        cfg.LatePolicy,
		AcceptSubmittedAt: cfg.AcceptSubmittedAt,
	}, validate, logger)

	seedService := service.NewSeedService(service.SeedDependencies{
		Courses:     courseService,
		Modules:     moduleService,
		Lectures:    lectureService,
		Students:    studentService,
		Enrollments: enrollmentService,
	}, cfg.SeedEnabled, cfg.SeedToken, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:         &logger,
		AllowOrigins:   cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		AccessLog:      !cfg.IsProduction(),
	})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		ModuleHandler:     handler.NewModuleHandler(moduleService, logger),
		LectureHandler:    handler.NewLectureHandler(lectureService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		StudentHandler:    handler.NewStudentHandler(studentService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(
			submissionService,
			middleware.RateLimit("submissions", cfg.SubmissionRatePerMinute, time.Minute),
			logger,
		),
		SeedHandler: handler.NewSeedHandler(seedService, logger),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("late_policy", string(cfg.LatePolicy)).Msg("starting server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
