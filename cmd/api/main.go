package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/exam-portal-api/internal/config"
	"github.com/campushq/exam-portal-api/internal/database"
	"github.com/campushq/exam-portal-api/internal/handler"
	"github.com/campushq/exam-portal-api/internal/importer"
	"github.com/campushq/exam-portal-api/internal/middleware"
	"github.com/campushq/exam-portal-api/internal/models"
	"github.com/campushq/exam-portal-api/internal/repository"
	"github.com/campushq/exam-portal-api/internal/router"
	"github.com/campushq/exam-portal-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Teacher{},
		&models.Student{},
		&models.Exam{},
		&models.ExamQuestion{},
		&models.Submission{},
		&models.SubmissionAnswer{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	examRepo := repository.NewExamRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	examService := service.NewExamService(examRepo, redisClient, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, examRepo, redisClient, validate, logger)
	resultService := service.NewResultService(examRepo, submissionRepo, studentRepo, redisClient, cfg.ResultsCacheTTL, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)

	parser := importer.NewXLSXParser()

	examHandler := handler.NewExamHandler(examService, resultService, parser, logger)
	studentExamHandler := handler.NewStudentExamHandler(submissionService, logger)
	rosterHandler := handler.NewRosterHandler(studentService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.UploadLimitMB * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ExamHandler:        examHandler,
		StudentExamHandler: studentExamHandler,
		RosterHandler:      rosterHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
