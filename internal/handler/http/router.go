package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/config"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

const appVersion = "v1.0.0"

// NewLogger builds the ECS-formatted JSON logger shared by the request
// logger and the rest of the process.
func NewLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fg-dashboard"),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
}

type Handlers struct {
	Metrics    MetricsHandler
	Events     EventsHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
}

func NewRouter(cfg *config.Config, logger *slog.Logger, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst))

		// EventSource cannot set headers, so the stream also accepts ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequirePermission(user.PermissionMetricsView))
			r.Get("/dashboard/events", h.Events.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/dashboard/metrics", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionMetricsView))
				r.Use(middleware.RateLimitByUser(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst))
				r.Get("/", h.Metrics.GetGroupMetrics)
				r.Get("/all", h.Metrics.GetAllGroupsMetrics)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionEmployeeView))
				r.Get("/", h.Employee.ListEmployees)
				r.Get("/groups", h.Employee.ListGroups)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceView)).Get("/", h.Attendance.List)
				r.With(middleware.RequirePermission(user.PermissionAttendanceWrite)).Post("/", h.Attendance.Upsert)
			})
		})
	})

	return r
}
