package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/xrocketry/attendee-backend-go/internal/config"
	"github.com/xrocketry/attendee-backend-go/internal/handler/http/middleware"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler AuthHandler,
	userHandler UserHandler,
	attendanceHandler AttendanceHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendee-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: false,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	tokenAuth := jwtService.JWTAuth()

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			// New accounts are provisioned by admins, not self-signup.
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Use(middleware.AuthRequired(tokenAuth))
				r.Use(middleware.AdminOnly)
				r.Post("/register", authHandler.Register)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			// Reader-facing scan endpoint; firmware is unauthenticated.
			r.Post("/", attendanceHandler.Scan)

			// Public live view; elevated tokens widen what it shows.
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Get("/today", attendanceHandler.Today)
			})

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Use(middleware.AuthRequired(tokenAuth))

				r.Get("/my", attendanceHandler.MyHistory)
				r.Get("/user/{userID}", attendanceHandler.UserHistory)

				// Elevated roles
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOrMentor)
					r.Post("/manual", attendanceHandler.Manual)
					r.Get("/history", attendanceHandler.History)
					r.Get("/stats", attendanceHandler.Stats)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Delete("/{id}", attendanceHandler.Delete)
					r.Post("/auto-exit", attendanceHandler.TriggerCleanup)
					r.Post("/check-low-attendance", attendanceHandler.TriggerLowAttendanceCheck)
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(middleware.AuthRequired(tokenAuth))

			r.Get("/me", userHandler.Me)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOrMentor)
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.Get("/stats/overview", userHandler.StatsOverview)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})
		})
	})

	return r
}
