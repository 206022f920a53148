package http

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/trakby/trakby-backend-go/internal/handler/http/middleware"
	"github.com/trakby/trakby-backend-go/internal/pkg/jwt"
)

// RouterConfig carries the settings the router needs from the app config.
type RouterConfig struct {
	Env                string
	Version            string
	LogLevel           slog.Level
	CORSOrigins        []string
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Health       HealthHandler
	Attendance   AttendanceHandler
	Performance  PerformanceHandler
	Job          JobHandler
	Tracking     TrackingHandler
	Staff        StaffHandler
	Notification NotificationHandler
}

// NewRouter builds the API. ctx bounds background work owned by the router.
func NewRouter(ctx context.Context, cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "trakby"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", h.Health.Healthz)

	limit := middleware.RateLimit(ctx, cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot send an Authorization header; the stream checks its own token.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Route("/attendance", func(r chi.Router) {
				r.With(limit).Post("/check-in", h.Attendance.CheckIn)
				r.With(limit).Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/my", h.Attendance.GetMyAttendance)
				r.With(middleware.RequireAdmin).Get("/", h.Attendance.List)
			})

			r.Route("/performance", func(r chi.Router) {
				r.Get("/me", h.Performance.MyReport)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/staff/{id}", h.Performance.StaffReport)
					r.Get("/leaderboard", h.Performance.Leaderboard)
					r.Get("/summary", h.Performance.Summary)
				})
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/my", h.Job.ListMine)
				r.Patch("/{id}/status", h.Job.UpdateStatus)
			})

			r.Route("/tracking", func(r chi.Router) {
				r.With(limit).Post("/positions", h.Tracking.RecordPosition)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/latest", h.Tracking.Latest)
					r.Get("/staff/{id}", h.Tracking.History)
				})
			})

			r.Route("/staff", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", h.Staff.List)
				r.Get("/{id}", h.Staff.Get)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Get("/sse-token", h.Notification.GetSSEToken)
			})
		})
	})

	return r
}
