package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
	"solvehub/internal/domain/repository"

	"github.com/google/uuid"
)

type ExerciseService struct {
	exerciseRepo   repository.ExerciseRepository
	tagRepo        repository.TagRepository
	attachmentRepo repository.AttachmentRepository
	subjectRepo    repository.SubjectRepository
	notifications  *NotificationService
	db             *sql.DB // For transactions
}

func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	tagRepo repository.TagRepository,
	attachmentRepo repository.AttachmentRepository,
	subjectRepo repository.SubjectRepository,
	notifications *NotificationService,
	db *sql.DB,
) *ExerciseService {
	return &ExerciseService{
		exerciseRepo:   exerciseRepo,
		tagRepo:        tagRepo,
		attachmentRepo: attachmentRepo,
		subjectRepo:    subjectRepo,
		notifications:  notifications,
		db:             db,
	}
}

// AttachmentInput references a file already placed in hosted storage by the
// upload endpoint.
type AttachmentInput struct {
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	SizeBytes int64  `json:"size_bytes"`
}

type CreateExerciseRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	SubjectID   string            `json:"subject_id"`
	SubjectName string            `json:"subject_name"` // Used when no subject_id is given
	Tags        []string          `json:"tags"`
	Attachments []AttachmentInput `json:"attachments"`
}

const maxAttachmentsPerEntity = 5

func (s *ExerciseService) Create(ctx context.Context, userID string, req CreateExerciseRequest) (*model.Exercise, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("title and description are required: %w", common.ErrValidation)
	}
	if req.SubjectID == "" && strings.TrimSpace(req.SubjectName) == "" {
		return nil, fmt.Errorf("subject is required: %w", common.ErrValidation)
	}
	if len(req.Attachments) > maxAttachmentsPerEntity {
		return nil, fmt.Errorf("at most %d attachments allowed: %w", maxAttachmentsPerEntity, common.ErrValidation)
	}

	exercise := &model.Exercise{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		SubjectName: strings.TrimSpace(req.SubjectName),
		AuthorID:    userID,
	}
	if req.SubjectID != "" {
		subject, err := s.subjectRepo.FindByID(ctx, req.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("subject lookup: %w", err)
		}
		exercise.SubjectID = &subject.ID
		exercise.SubjectName = subject.Name
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.exerciseRepo.Create(ctx, tx, exercise); err != nil {
		return nil, err
	}

	tagIDs, tags, err := s.findOrCreateTags(ctx, tx, req.Tags)
	if err != nil {
		return nil, common.Errorf("failed to process tags: %w", err)
	}
	if len(tagIDs) > 0 {
		if err := s.exerciseRepo.AddTags(ctx, tx, exercise.ID, tagIDs); err != nil {
			return nil, common.Errorf("failed to add tags to exercise: %w", err)
		}
	}

	for _, in := range req.Attachments {
		attachment := hostedAttachment(in)
		attachment.ExerciseID = &exercise.ID
		if err := s.attachmentRepo.Create(ctx, tx, attachment); err != nil {
			return nil, common.Errorf("failed to add attachment: %w", err)
		}
		exercise.Attachments = append(exercise.Attachments, *attachment)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	exercise.Tags = tags
	return exercise, nil
}

func hostedAttachment(in AttachmentInput) *model.Attachment {
	publicID := in.PublicID
	size := in.SizeBytes
	return &model.Attachment{
		ID:        uuid.NewString(),
		Kind:      model.AttachmentHosted,
		URL:       in.URL,
		PublicID:  &publicID,
		SizeBytes: &size,
	}
}

func (s *ExerciseService) findOrCreateTags(ctx context.Context, tx *sql.Tx, names []string) ([]string, []model.Tag, error) {
	var tagIDs []string
	var tags []model.Tag
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tag, err := s.tagRepo.FindOrCreate(ctx, tx, name)
		if err != nil {
			return nil, nil, fmt.Errorf("tag %s: %w", name, err)
		}
		tagIDs = append(tagIDs, tag.ID)
		tags = append(tags, *tag)
	}
	return tagIDs, tags, nil
}

// Get returns the exercise with tags, attachments and the viewer's vote.
// viewerID may be empty for anonymous reads.
func (s *ExerciseService) Get(ctx context.Context, id, viewerID string) (*model.Exercise, error) {
	exercise, err := s.exerciseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.exerciseRepo.GetTagsByExerciseID(ctx, id)
	if err != nil {
		log.Printf("WARN: failed to fetch tags for exercise %s: %v", id, err)
	}
	exercise.Tags = tags

	attachments, err := s.attachmentRepo.ListByExerciseID(ctx, id)
	if err != nil {
		log.Printf("WARN: failed to fetch attachments for exercise %s: %v", id, err)
	}
	exercise.Attachments = attachments

	if viewerID != "" {
		vote, err := s.exerciseRepo.GetVote(ctx, id, viewerID)
		if err != nil {
			log.Printf("WARN: failed to fetch viewer vote for exercise %s: %v", id, err)
		}
		exercise.ViewerVote = vote
	}
	return exercise, nil
}

func (s *ExerciseService) List(ctx context.Context, page, pageSize int, filter repository.ExerciseFilter) ([]model.Exercise, int, error) {
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	exercises, total, err := s.exerciseRepo.List(ctx, limit, offset, filter)
	if err != nil {
		return nil, 0, err
	}

	for i := range exercises {
		tags, err := s.exerciseRepo.GetTagsByExerciseID(ctx, exercises[i].ID)
		if err == nil {
			exercises[i].Tags = tags
		}
	}
	return exercises, total, nil
}

// ToggleVote records or clears a like/dislike. Repeating the same vote clears
// it. A newly placed like on someone else's exercise notifies the author.
func (s *ExerciseService) ToggleVote(ctx context.Context, exerciseID, userID string, isLike bool) (*model.Exercise, error) {
	exercise, err := s.exerciseRepo.FindByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	current, err := s.exerciseRepo.GetVote(ctx, exerciseID, userID)
	if err != nil {
		return nil, err
	}

	if current != nil && *current == isLike {
		if err := s.exerciseRepo.ClearVote(ctx, exerciseID, userID); err != nil {
			return nil, err
		}
	} else {
		if err := s.exerciseRepo.SetVote(ctx, exerciseID, userID, isLike); err != nil {
			return nil, err
		}
		if isLike && exercise.AuthorID != userID {
			s.notifications.Dispatch(ctx, DispatchInput{
				RecipientID: exercise.AuthorID,
				Type:        model.NotificationLike,
				Message:     fmt.Sprintf("Your exercise %q received a like", exercise.Title),
				Link:        "/exercises/" + exercise.ID,
				ExerciseID:  &exercise.ID,
			})
		}
	}

	return s.Get(ctx, exerciseID, userID)
}
