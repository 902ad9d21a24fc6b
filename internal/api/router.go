package api

import (
	"net/http"
	"time"

	"solvehub/internal/api/handler"
	"solvehub/internal/api/middleware"
	"solvehub/internal/app/service"
	"solvehub/internal/common/security"
	"solvehub/internal/platform/config"
	"solvehub/internal/platform/realtime"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	tokens *security.TokenIssuer,
	authService *service.AuthService,
	subjectService *service.SubjectService,
	exerciseService *service.ExerciseService,
	answerService *service.AnswerService,
	userService *service.UserService,
	notificationService *service.NotificationService,
	reportService *service.ReportService,
	uploadService *service.UploadService,
	channel *realtime.RedisChannel,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Verifies the bearer token when present and puts claims in context.
	// Authenticator / OptionalAuthenticator decide per route what to do
	// with a missing or invalid token.
	r.Use(jwtauth.Verifier(tokens.Auth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		subjectHandler := handler.NewSubjectHandler(subjectService)
		v1.Route("/subjects", subjectHandler.RegisterRoutes)

		exerciseHandler := handler.NewExerciseHandler(exerciseService, answerService, userService)
		v1.Route("/exercises", exerciseHandler.RegisterRoutes)

		answerHandler := handler.NewAnswerHandler(answerService)
		v1.Route("/answers", answerHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService)
		v1.Route("/users", userHandler.RegisterRoutes)

		notificationHandler := handler.NewNotificationHandler(notificationService, channel)
		v1.Route("/notifications", notificationHandler.RegisterRoutes)

		reportHandler := handler.NewReportHandler(reportService)
		v1.Route("/reports", reportHandler.RegisterRoutes)

		uploadHandler := handler.NewUploadHandler(uploadService, cfg.MaxUploadFiles, cfg.MaxUploadSizeBytes)
		v1.Route("/uploads", uploadHandler.RegisterRoutes)

		// Moderation surface (admin only)
		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.Authenticator, middleware.AdminOnly)
			admin.Route("/reports", reportHandler.RegisterAdminRoutes)
			admin.Route("/users", userHandler.RegisterAdminRoutes)
		})
	})

	return r
}
