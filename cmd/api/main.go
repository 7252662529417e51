package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/config"
	appHTTP "github.com/tempohq/attendance-backend-go/internal/handler/http"
	"github.com/tempohq/attendance-backend-go/internal/pkg/cron"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
	"github.com/tempohq/attendance-backend-go/internal/pkg/email"
	"github.com/tempohq/attendance-backend-go/internal/pkg/jwt"
	"github.com/tempohq/attendance-backend-go/internal/pkg/sse"
	"github.com/tempohq/attendance-backend-go/internal/pkg/storage"
	"github.com/tempohq/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/tempohq/attendance-backend-go/internal/service/attendance"
	authService "github.com/tempohq/attendance-backend-go/internal/service/auth"
	employeeService "github.com/tempohq/attendance-backend-go/internal/service/employee"
	"github.com/tempohq/attendance-backend-go/internal/service/file"
	leaveService "github.com/tempohq/attendance-backend-go/internal/service/leave"
	payslipService "github.com/tempohq/attendance-backend-go/internal/service/payslip"
	projectService "github.com/tempohq/attendance-backend-go/internal/service/project"
	timesheetService "github.com/tempohq/attendance-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	emailSvc, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	authSvc := authService.NewAuthService(db, userRepo, employeeRepo, jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, hub, cfg)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	leaveSvc := leaveService.NewLeaveService(db, leaveRepo, attendanceRepo, employeeRepo, emailSvc)
	payslipSvc := payslipService.NewPayslipService(payslipRepo, attendanceRepo, employeeRepo, emailSvc)
	timesheetSvc := timesheetService.NewTimesheetService(attendanceRepo, employeeRepo)
	projectSvc := projectService.NewProjectService(projectRepo, employeeRepo)
	fileSvc := file.NewFileService(documentRepo, fileStorage, cfg.Storage.MaxFileSize)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, jwtService, hub)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	payslipHandler := appHTTP.NewPayslipHandler(payslipSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	projectHandler := appHTTP.NewProjectHandler(projectSvc)
	documentHandler := appHTTP.NewDocumentHandler(fileSvc, cfg.Storage.MaxFileSize)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		authHandler,
		attendanceHandler,
		employeeHandler,
		leaveHandler,
		payslipHandler,
		timesheetHandler,
		projectHandler,
		documentHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewLedgerJobs(attendanceRepo, employeeRepo, cfg).Register(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
