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

type AnswerService struct {
	answerRepo     repository.AnswerRepository
	exerciseRepo   repository.ExerciseRepository
	attachmentRepo repository.AttachmentRepository
	notifications  *NotificationService
	db             *sql.DB
}

func NewAnswerService(
	answerRepo repository.AnswerRepository,
	exerciseRepo repository.ExerciseRepository,
	attachmentRepo repository.AttachmentRepository,
	notifications *NotificationService,
	db *sql.DB,
) *AnswerService {
	return &AnswerService{
		answerRepo:     answerRepo,
		exerciseRepo:   exerciseRepo,
		attachmentRepo: attachmentRepo,
		notifications:  notifications,
		db:             db,
	}
}

type CreateAnswerRequest struct {
	Content        string            `json:"content"`
	ParentAnswerID string            `json:"parent_answer_id"` // Empty = top-level answer
	Attachments    []AttachmentInput `json:"attachments"`
}

func (s *AnswerService) Create(ctx context.Context, exerciseID, userID string, req CreateAnswerRequest) (*model.Answer, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("content is required: %w", common.ErrValidation)
	}
	if len(req.Attachments) > maxAttachmentsPerEntity {
		return nil, fmt.Errorf("at most %d attachments allowed: %w", maxAttachmentsPerEntity, common.ErrValidation)
	}

	exercise, err := s.exerciseRepo.FindByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	var parent *model.Answer
	answer := &model.Answer{
		ID:         uuid.NewString(),
		Content:    req.Content,
		ExerciseID: exercise.ID,
		AuthorID:   userID,
	}
	if req.ParentAnswerID != "" {
		parent, err = s.answerRepo.FindByID(ctx, req.ParentAnswerID)
		if err != nil {
			return nil, fmt.Errorf("parent answer lookup: %w", err)
		}
		if parent.ExerciseID != exercise.ID {
			return nil, fmt.Errorf("parent answer belongs to another exercise: %w", common.ErrValidation)
		}
		answer.ParentAnswerID = &parent.ID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.answerRepo.Create(ctx, tx, answer); err != nil {
		return nil, err
	}
	if err := s.exerciseRepo.IncrementAnswerCount(ctx, tx, exercise.ID); err != nil {
		return nil, err
	}
	for _, in := range req.Attachments {
		attachment := hostedAttachment(in)
		attachment.AnswerID = &answer.ID
		if err := s.attachmentRepo.Create(ctx, tx, attachment); err != nil {
			return nil, common.Errorf("failed to add attachment: %w", err)
		}
		answer.Attachments = append(answer.Attachments, *attachment)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	// Notify after commit; dispatch is best-effort and never fails the answer.
	link := "/exercises/" + exercise.ID
	if parent != nil {
		if parent.AuthorID != userID {
			s.notifications.Dispatch(ctx, DispatchInput{
				RecipientID: parent.AuthorID,
				Type:        model.NotificationReply,
				Message:     "Someone replied to your answer",
				Link:        link,
				ExerciseID:  &exercise.ID,
				AnswerID:    &answer.ID,
			})
		}
	} else if exercise.AuthorID != userID {
		s.notifications.Dispatch(ctx, DispatchInput{
			RecipientID: exercise.AuthorID,
			Type:        model.NotificationComment,
			Message:     fmt.Sprintf("New answer on your exercise %q", exercise.Title),
			Link:        link,
			ExerciseID:  &exercise.ID,
			AnswerID:    &answer.ID,
		})
	}

	return answer, nil
}

func (s *AnswerService) ListByExercise(ctx context.Context, exerciseID, viewerID string, order repository.AnswerOrder) ([]model.Answer, error) {
	if _, err := s.exerciseRepo.FindByID(ctx, exerciseID); err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.ListByExerciseID(ctx, exerciseID, order)
	if err != nil {
		return nil, err
	}

	for i := range answers {
		attachments, err := s.attachmentRepo.ListByAnswerID(ctx, answers[i].ID)
		if err != nil {
			log.Printf("WARN: failed to fetch attachments for answer %s: %v", answers[i].ID, err)
			continue
		}
		answers[i].Attachments = attachments
	}
	if viewerID != "" {
		for i := range answers {
			vote, err := s.answerRepo.GetVote(ctx, answers[i].ID, viewerID)
			if err == nil {
				answers[i].ViewerVote = vote
			}
		}
	}
	return answers, nil
}

// ToggleVote mirrors ExerciseService.ToggleVote for answers. Likes on answers
// do not notify; only exercise likes carry a preference flag.
func (s *AnswerService) ToggleVote(ctx context.Context, answerID, userID string, isLike bool) (*model.Answer, error) {
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}

	current, err := s.answerRepo.GetVote(ctx, answerID, userID)
	if err != nil {
		return nil, err
	}

	if current != nil && *current == isLike {
		if err := s.answerRepo.ClearVote(ctx, answerID, userID); err != nil {
			return nil, err
		}
	} else {
		if err := s.answerRepo.SetVote(ctx, answerID, userID, isLike); err != nil {
			return nil, err
		}
	}

	answer, err = s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	vote, err := s.answerRepo.GetVote(ctx, answerID, userID)
	if err == nil {
		answer.ViewerVote = vote
	}
	return answer, nil
}
