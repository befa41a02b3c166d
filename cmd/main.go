package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub-backend/config"
	"coursehub-backend/internal/domain"
	httpDelivery "coursehub-backend/internal/delivery/http"
	"coursehub-backend/internal/repository"
	"coursehub-backend/internal/usecase"
	"coursehub-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const memoryActivityCapacity = 10000

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{
		Mode:     cfg.Log.Mode,
		Level:    cfg.Log.Level,
		Redact:   cfg.Log.Redact,
		HashSalt: cfg.Log.HashSalt,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to databases
	db, err := config.ConnectDB(ctx, cfg, log)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	defer db.Close(context.Background())

	// Auto migrate
	if err := config.AutoMigrate(db.SQL); err != nil {
		log.Fatal("migration failed", "error", err)
	}

	var activity domain.ActivityLog
	if db.Mongo != nil {
		activity = repository.NewActivityLog(db.Mongo)
	} else {
		log.Warn("MONGO_URI not set, keeping activity in memory")
		activity = repository.NewMemoryActivityLog(memoryActivityCapacity)
	}

	var cache domain.StatsCache
	if db.Redis != nil {
		cache = repository.NewStatsCache(db.Redis, cfg.StatsTTL())
	}

	deps := usecase.Deps{
		Repos:    repository.NewRepositories(db.SQL),
		UoW:      repository.NewUnitOfWork(db.SQL),
		Activity: activity,
		Cache:    cache,
		Log:      log,
	}
	autoComplete := cfg.Learning.AutoCompleteCourses

	// Initialize usecases
	courseUsecase := usecase.NewCourseUsecase(deps)
	enrollmentUsecase := usecase.NewEnrollmentUsecase(deps, autoComplete)
	quizUsecase := usecase.NewQuizUsecase(deps, autoComplete)
	reviewUsecase := usecase.NewReviewUsecase(deps)
	reportUsecase := usecase.NewReportUsecase(deps)

	// Initialize handlers
	if cfg.Log.Mode != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httpDelivery.NewHandler(courseUsecase, enrollmentUsecase, quizUsecase, reviewUsecase, reportUsecase, log)
	router := httpDelivery.InitRouter(handler, []byte(cfg.Auth.JWTSecret), log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", "port", cfg.Server.Port, "auto_complete", autoComplete)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
