package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/khedma/sunday-school-backend/internal/config"
	"github.com/khedma/sunday-school-backend/internal/database"
	"github.com/khedma/sunday-school-backend/internal/handler"
	"github.com/khedma/sunday-school-backend/internal/logger"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/repository"
	"github.com/khedma/sunday-school-backend/internal/router"
	"github.com/khedma/sunday-school-backend/internal/service"
	"github.com/khedma/sunday-school-backend/internal/timewindow"
	"github.com/khedma/sunday-school-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Sunday School Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Resolve Attendance Schedule ───────────────────────────────────
	resolver, err := timewindow.NewFromConfig(cfg.CivilTimezone, cfg.AttendanceWeekday, cfg.SessionStart, cfg.SessionCutoff)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid attendance schedule")
	}
	log.Info().
		Str("timezone", cfg.CivilTimezone).
		Str("weekday", resolver.AttendanceWeekday().String()).
		Str("start", cfg.SessionStart).
		Str("cutoff", cfg.SessionCutoff).
		Msg("Attendance schedule loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Store ──────────────────────────────────────────────
	store := repository.NewStore(pool)
	clock := timewindow.SystemClock{}
	feed := service.NewAttendanceFeed(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, store, service.NewRedisSessionRegistry(rdb), log)
	attendanceService := service.NewAttendanceService(store, resolver, clock, feed, log)
	pointsService := service.NewPointsService(store, clock, log)
	purchaseService := service.NewPurchaseService(store, log)
	studentService := service.NewStudentService(store)
	classService := service.NewClassService(store)
	gradeService := service.NewGradeService(store)
	reasonService := service.NewReasonService(store)
	rewardService := service.NewRewardService(store)
	userService := service.NewUserService(store, authService, log)
	assignmentService := service.NewAssignmentService(store)
	auditService := service.NewAuditService(store)
	reportService := service.NewReportService(store)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, cfg),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Student:    handler.NewStudentHandler(studentService, pointsService),
		Class:      handler.NewClassHandler(classService),
		Grade:      handler.NewGradeHandler(gradeService),
		Points:     handler.NewPointsHandler(pointsService),
		Reason:     handler.NewReasonHandler(reasonService),
		Reward:     handler.NewRewardHandler(rewardService, purchaseService),
		User:       handler.NewUserHandler(userService, assignmentService),
		Report:     handler.NewReportHandler(reportService, auditService, resolver, clock),
		WS:         handler.NewWSHandler(feed, resolver, clock, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(map[string]handler.Pinger{
			"postgres": pool,
			"redis":    handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		}, log),
	}

	// ─── Start Background Cleanup ─────────────────────────────────────
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	stopCleanup := make(chan struct{})
	go loginLimiter.RunCleanup(stopCleanup)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, loginLimiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout). In-flight
	// transactions finish or roll back with their request context.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background cleanup.
	close(stopCleanup)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
