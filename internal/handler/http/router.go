package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/tempohq/attendance-backend-go/internal/config"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/middleware"
	"github.com/tempohq/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	employeeHandler EmployeeHandler,
	leaveHandler LeaveHandler,
	payslipHandler PayslipHandler,
	timesheetHandler TimesheetHandler,
	projectHandler ProjectHandler,
	documentHandler DocumentHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		// SSE stream authenticates via a short-lived token in the query
		// string because EventSource cannot set headers.
		r.Get("/attendance/stream", attendanceHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Post("/lunch-break/start", attendanceHandler.StartLunchBreak)
				r.Post("/lunch-break/end", attendanceHandler.EndLunchBreak)
				r.Get("/today", attendanceHandler.TodayStatus)
				r.Get("/me", attendanceHandler.GetMyAttendance)
				r.Get("/stream-token", attendanceHandler.StreamToken)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", attendanceHandler.List)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", employeeHandler.Create)
					r.Get("/", employeeHandler.List)
					r.Put("/{id}", employeeHandler.Update)
					r.Delete("/{id}", employeeHandler.Delete)
				})

				r.Get("/{id}", employeeHandler.Get)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Post("/", leaveHandler.Submit)
				r.Get("/my", leaveHandler.ListMy)
				r.Post("/{id}/cancel", leaveHandler.Cancel)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", leaveHandler.List)
					r.Post("/{id}/approve", leaveHandler.Approve)
					r.Post("/{id}/reject", leaveHandler.Reject)
				})
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Get("/my", payslipHandler.ListMy)
				r.Get("/{id}", payslipHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", payslipHandler.Generate)
					r.Get("/", payslipHandler.List)
					r.Post("/{id}/publish", payslipHandler.Publish)
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/my", timesheetHandler.GetMy)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", timesheetHandler.Get)
					r.Get("/summary", timesheetHandler.Summary)
				})
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/mine", projectHandler.ListMine)
				r.Get("/{id}", projectHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", projectHandler.Create)
					r.Get("/", projectHandler.List)
					r.Put("/{id}", projectHandler.Update)
					r.Post("/{id}/members", projectHandler.AssignMember)
					r.Delete("/{id}/members/{employeeID}", projectHandler.UnassignMember)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/my", documentHandler.ListMy)
				r.Get("/{id}/download", documentHandler.Download)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", documentHandler.Upload)
					r.Delete("/{id}", documentHandler.Delete)
					r.Get("/employee/{employeeID}", documentHandler.ListByEmployee)
				})
			})
		})
	})

	return r
}
