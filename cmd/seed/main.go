// Command seed creates the initial admin account and a set of canonical
// subjects. Existing records are left alone, so the tool can run on every
// deploy.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"solvehub/internal/app/service"
	"solvehub/internal/common"
	"solvehub/internal/common/security"
	"solvehub/internal/domain/model"
	"solvehub/internal/domain/repository"
	"solvehub/internal/platform/config"
	"solvehub/internal/platform/database"

	"github.com/google/uuid"
)

var subjects = []string{
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"Computer Science",
	"History",
	"Portuguese",
	"English",
}

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Printf("FATAL: database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	userRepo := repository.NewPgUserRepository(db)
	subjectService := service.NewSubjectService(repository.NewPgSubjectRepository(db))

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		seedAdmin(ctx, userRepo, adminEmail, adminPassword)
	} else {
		log.Println("SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD not set, skipping admin user")
	}

	for _, name := range subjects {
		_, err := subjectService.Create(ctx, service.CreateSubjectRequest{Name: name, IsPopular: true})
		if err != nil {
			if errors.Is(err, common.ErrConflict) {
				continue // already seeded
			}
			log.Printf("ERROR: subject %q: %v", name, err)
			continue
		}
		log.Printf("Created subject %q", name)
	}
}

func seedAdmin(ctx context.Context, userRepo repository.UserRepository, email, password string) {
	if _, err := userRepo.FindByEmail(ctx, email); err == nil {
		log.Printf("Admin %s already exists", email)
		return
	}

	hashed, err := security.HashPassword(password)
	if err != nil {
		log.Printf("ERROR: hash admin password: %v", err)
		return
	}
	admin := &model.User{
		ID:             uuid.NewString(),
		Username:       "admin",
		Email:          email,
		HashedPassword: hashed,
		DisplayName:    "Administrator",
		Role:           model.RoleAdmin,
		IsActive:       true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Printf("ERROR: create admin: %v", err)
		return
	}
	log.Printf("Created admin %s", email)
}
