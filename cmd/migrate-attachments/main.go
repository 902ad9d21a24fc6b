// Command migrate-attachments moves legacy attachments from local disk to
// hosted storage. Only records tagged local_legacy are selected; the record is
// left untouched when an upload fails, so re-running picks up where a previous
// run stopped.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"solvehub/internal/domain/model"
	"solvehub/internal/domain/repository"
	"solvehub/internal/platform/config"
	"solvehub/internal/platform/database"
	"solvehub/internal/platform/storage"
)

const batchSize = 200

func main() {
	deleteLocal := flag.Bool("delete-local", false, "delete the local file after a successful upload")
	flag.Parse()

	cfg := config.Load()
	if cfg.CloudinaryURL == "" {
		log.Printf("FATAL: CLOUDINARY_URL is required")
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Printf("FATAL: database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := storage.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	if err != nil {
		log.Printf("FATAL: storage: %v", err)
		os.Exit(1)
	}

	attachmentRepo := repository.NewPgAttachmentRepository(db)
	ctx := context.Background()
	var migrated, failed int

	for {
		attachments, err := attachmentRepo.ListLocalLegacy(ctx, batchSize)
		if err != nil {
			log.Printf("FATAL: list attachments: %v", err)
			os.Exit(1)
		}
		if len(attachments) == 0 {
			break
		}

		batchMigrated := 0
		for _, attachment := range attachments {
			if migrateOne(ctx, attachmentRepo, store, attachment, *deleteLocal) {
				migrated++
				batchMigrated++
			} else {
				failed++
			}
		}
		if len(attachments) < batchSize || batchMigrated == 0 {
			break
		}
	}

	log.Printf("Done. migrated=%d failed=%d", migrated, failed)
}

func migrateOne(ctx context.Context, repo repository.AttachmentRepository, store storage.Store, attachment model.Attachment, deleteLocal bool) bool {
	f, err := os.Open(attachment.URL)
	if err != nil {
		log.Printf("ERROR: attachment %s: open %s: %v", attachment.ID, attachment.URL, err)
		return false
	}
	defer f.Close()

	uploaded, err := store.Upload(ctx, f, attachment.URL)
	if err != nil {
		log.Printf("ERROR: attachment %s: upload: %v", attachment.ID, err)
		return false
	}

	if err := repo.MarkHosted(ctx, attachment.ID, uploaded.PublicID, uploaded.SecureURL, uploaded.Bytes); err != nil {
		log.Printf("ERROR: attachment %s: mark hosted: %v", attachment.ID, err)
		return false
	}

	if deleteLocal {
		// Best-effort cleanup; the hosted copy is already authoritative.
		if err := os.Remove(attachment.URL); err != nil {
			log.Printf("WARN: attachment %s: remove local file %s: %v", attachment.ID, attachment.URL, err)
		}
	}
	return true
}
