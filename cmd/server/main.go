package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solvehub/internal/api"
	"solvehub/internal/app/service"
	"solvehub/internal/common/security"
	"solvehub/internal/domain/repository"
	"solvehub/internal/platform/config"
	"solvehub/internal/platform/database"
	"solvehub/internal/platform/realtime"
	"solvehub/internal/platform/storage"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Configuration loaded.")

	// 2. Initialize JWT
	tokens := security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp)

	// 3. Initialize Database (runs pending migrations)
	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected.")

	// 4. Initialize the realtime channel
	rdb, err := realtime.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()
	channel := realtime.NewRedisChannel(rdb)
	log.Println("Redis connected.")

	// 5. Initialize hosted storage
	var store storage.Store
	if cfg.CloudinaryURL != "" {
		store, err = storage.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		log.Println("Hosted storage configured.")
	} else {
		log.Println("WARN: CLOUDINARY_URL not set, uploads disabled")
	}

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	subjectRepo := repository.NewPgSubjectRepository(db)
	exerciseRepo := repository.NewPgExerciseRepository(db)
	answerRepo := repository.NewPgAnswerRepository(db)
	tagRepo := repository.NewPgTagRepository(db)
	attachmentRepo := repository.NewPgAttachmentRepository(db)
	notificationRepo := repository.NewPgNotificationRepository(db)
	reportRepo := repository.NewPgReportRepository(db)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo, tokens)
	subjectService := service.NewSubjectService(subjectRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, channel)
	exerciseService := service.NewExerciseService(exerciseRepo, tagRepo, attachmentRepo, subjectRepo, notificationService, db)
	answerService := service.NewAnswerService(answerRepo, exerciseRepo, attachmentRepo, notificationService, db)
	userService := service.NewUserService(userRepo, exerciseRepo)
	reportService := service.NewReportService(reportRepo, exerciseRepo, answerRepo)
	uploadService := service.NewUploadService(store, cfg.MaxUploadFiles, cfg.MaxUploadSizeBytes)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(
		cfg, tokens,
		authService, subjectService, exerciseService, answerService,
		userService, notificationService, reportService, uploadService,
		channel,
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
