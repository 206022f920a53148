package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trakby/trakby-backend-go/internal/config"
	appHTTP "github.com/trakby/trakby-backend-go/internal/handler/http"
	"github.com/trakby/trakby-backend-go/internal/pkg/cron"
	"github.com/trakby/trakby-backend-go/internal/pkg/database"
	"github.com/trakby/trakby-backend-go/internal/pkg/geocode"
	"github.com/trakby/trakby-backend-go/internal/pkg/jwt"
	"github.com/trakby/trakby-backend-go/internal/pkg/sse"
	"github.com/trakby/trakby-backend-go/internal/repository/postgresql"
	attendanceService "github.com/trakby/trakby-backend-go/internal/service/attendance"
	jobService "github.com/trakby/trakby-backend-go/internal/service/job"
	notificationService "github.com/trakby/trakby-backend-go/internal/service/notification"
	performanceService "github.com/trakby/trakby-backend-go/internal/service/performance"
	staffService "github.com/trakby/trakby-backend-go/internal/service/staff"
	trackingService "github.com/trakby/trakby-backend-go/internal/service/tracking"
	"github.com/trakby/trakby-backend-go/migrations"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "trakby"), slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, db.Pool); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		version, err := migrations.Version(ctx, db.Pool)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		slog.Info("Database migrations applied", "version", version)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	var geocoder geocode.ReverseGeocoder = geocode.Disabled{}
	if cfg.Geocoding.Enabled {
		geocoder = geocode.NewNominatimClient(geocode.Config{
			BaseURL: cfg.Geocoding.BaseURL,
			Timeout: cfg.Geocoding.Timeout,
		})
	}

	// Repositories
	staffRepo := postgresql.NewStaffRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	jobRepo := postgresql.NewJobRepository(db)
	photoRepo := postgresql.NewPhotoRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	trackingRepo := postgresql.NewTrackingRepository(db)

	// Services
	hub := sse.NewHub(32)
	notifSvc := notificationService.NewNotificationService(notificationRepo, staffRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.Workers,
		QueueSize:     cfg.Notification.QueueSize,
	})
	defer notifSvc.Stop()

	perfSvc := performanceService.NewPerformanceService(staffRepo, jobRepo, attendanceRepo, photoRepo, cfg.App.Location, cfg.Leaderboard.CacheTTL)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, staffRepo, geocoder, notifSvc, cfg.App.Location)
	jobSvc := jobService.NewJobService(jobRepo, perfSvc, notifSvc)
	trackingSvc := trackingService.NewTrackingService(trackingRepo, staffRepo, geocoder)
	staffSvc := staffService.NewStaffService(staffRepo)

	// Background jobs
	scheduler := cron.NewScheduler()
	scheduler.AddJob("leaderboard_refresh", cfg.Leaderboard.RefreshInterval, perfSvc.Refresh)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(ctx, appHTTP.RouterConfig{
		Env:                cfg.App.Env,
		Version:            version,
		LogLevel:           cfg.SlogLevel(),
		CORSOrigins:        cfg.App.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimit.RequestsPerMinute,
		RateLimitBurst:     cfg.RateLimit.Burst,
	}, JWTService, appHTTP.Handlers{
		Health:       appHTTP.NewHealthHandler(db),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Performance:  appHTTP.NewPerformanceHandler(perfSvc),
		Job:          appHTTP.NewJobHandler(jobSvc),
		Tracking:     appHTTP.NewTrackingHandler(trackingSvc),
		Staff:        appHTTP.NewStaffHandler(staffSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, JWTService),
	})

	// No WriteTimeout: notification streams stay open until shutdown cancels them.
	streamCtx, cancelStreams := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streamCtx },
	}
	server.RegisterOnShutdown(cancelStreams)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server started", "port", cfg.App.Port, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exited properly")
	return nil
}
