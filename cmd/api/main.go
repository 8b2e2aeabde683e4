package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/config"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/leave"
	appHTTP "github.com/cmlabs-hris/hris-leave-ledger/internal/handler/http"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/repository/static"
	attendanceService "github.com/cmlabs-hris/hris-leave-ledger/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-leave-ledger/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logLevel, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx := context.Background()

	catalogRepo := static.NewCatalogRepository(cfg.Leave.CatalogFile)
	leaveTypes, err := catalogRepo.List(ctx)
	if err != nil {
		slog.Error("Failed to load leave catalog", "file", cfg.Leave.CatalogFile, "error", err)
		os.Exit(1)
	}

	ledger, err := leave.NewLedger(leaveTypes,
		leave.WithAllowOverdraw(cfg.Leave.AllowOverdraw),
		leave.WithMaxRequestDays(cfg.Leave.MaxRequestDays),
	)
	if err != nil {
		slog.Error("Failed to initialize leave ledger", "error", err)
		os.Exit(1)
	}

	hub := sse.NewHub()
	leaveSvc := leaveService.NewLeaveService(ledger, hub)

	attendanceRepo := static.NewAttendanceLogRepository(cfg.Attendance.LogFile)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, cfg.Attendance.CacheTTL, time.Now)
	if err := attendanceSvc.Reload(ctx); err != nil {
		slog.Error("Failed to load attendance log", "file", cfg.Attendance.LogFile, "error", err)
		os.Exit(1)
	}

	scheduler := cron.NewScheduler()
	if cfg.Scheduler.Enabled {
		attendanceJobs := cron.NewAttendanceJobs(attendanceSvc, cfg.Scheduler.AttendanceReloadSpec)
		if err := attendanceJobs.RegisterJobs(scheduler); err != nil {
			slog.Error("Failed to register cron jobs", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitPerMin > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitPerMin, cfg.HTTP.RateLimitBurst)
	}

	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			LogLevel:       logLevel,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RateLimiter:    rateLimiter,
		},
		leaveHandler,
		attendanceHandler,
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+cfg.Addr(), "leave_types", len(leaveTypes))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	// open event streams would otherwise hold Shutdown until the timeout
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}

	if cfg.Scheduler.Enabled {
		scheduler.Stop()
	}
	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	slog.Info("Server stopped")
}
