// Command migrate-subjects backfills Subject references on legacy exercises
// that only carry a free-text subject name. Re-running is safe: exercises with
// a subject reference are never selected again, and existing subjects are
// reused by exact name.
package main

import (
	"context"
	"log"
	"os"

	"solvehub/internal/app/service"
	"solvehub/internal/domain/repository"
	"solvehub/internal/platform/config"
	"solvehub/internal/platform/database"
)

const batchSize = 500

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Printf("FATAL: database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	exerciseRepo := repository.NewPgExerciseRepository(db)
	subjectRepo := repository.NewPgSubjectRepository(db)
	resolver := service.NewSubjectResolver(subjectRepo)

	ctx := context.Background()
	var migrated, failed int

	for {
		exercises, err := exerciseRepo.ListMissingSubjectID(ctx, batchSize)
		if err != nil {
			log.Printf("FATAL: list exercises: %v", err)
			os.Exit(1)
		}
		if len(exercises) == 0 {
			break
		}

		batchMigrated := 0
		for _, exercise := range exercises {
			subject, err := resolver.Resolve(ctx, exercise.SubjectName)
			if err != nil {
				log.Printf("ERROR: exercise %s (%q): resolve subject %q: %v", exercise.ID, exercise.Title, exercise.SubjectName, err)
				failed++
				continue
			}
			if err := exerciseRepo.SetSubjectID(ctx, exercise.ID, subject.ID); err != nil {
				log.Printf("ERROR: exercise %s: set subject: %v", exercise.ID, err)
				failed++
				continue
			}
			migrated++
			batchMigrated++
		}

		// A batch full of failures would loop forever on the same rows.
		if len(exercises) < batchSize || batchMigrated == 0 {
			break
		}
	}

	log.Printf("Done. migrated=%d failed=%d subjects_created=%d", migrated, failed, resolver.Created)
}
