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

	"github.com/cmlabs-hris/fg-dashboard-go/internal/config"
	appHTTP "github.com/cmlabs-hris/fg-dashboard-go/internal/handler/http"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/cache"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/cron"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/database"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/sse"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/fg-dashboard-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/fg-dashboard-go/internal/service/employee"
	metricsService "github.com/cmlabs-hris/fg-dashboard-go/internal/service/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	metricsCache, redisClient, err := cache.NewMetricsCache(cfg.Cache)
	if err != nil {
		slog.Error("Error connecting to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	completionRepo := postgresql.NewCompletionRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	baseMetricsSvc := metricsService.NewMetricsService(employeeRepo, attendanceRepo, completionRepo, time.Now)
	metricsSvc := metricsService.NewCachedMetricsService(baseMetricsSvc, metricsCache, time.Now)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, transactor, metricsCache, hub)

	scheduler := cron.NewScheduler()
	if cfg.Cache.Enabled {
		warmer := metricsService.NewCacheWarmer(baseMetricsSvc, metricsCache, employeeRepo, time.Now)
		scheduler.AddJob("warm_metrics_cache", cfg.Cache.WarmInterval, warmer.Warm)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, logger, JWTService, appHTTP.Handlers{
		Metrics:    appHTTP.NewMetricsHandler(metricsSvc),
		Events:     appHTTP.NewEventsHandler(hub),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Cancelled on shutdown so open event streams return.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", srv.Addr, "cache_enabled", cfg.Cache.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
