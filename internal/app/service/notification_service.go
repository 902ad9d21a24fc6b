package service

import (
	"context"
	"errors"
	"log"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
	"solvehub/internal/domain/repository"
	"solvehub/internal/platform/realtime"

	"github.com/google/uuid"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	publisher        realtime.Publisher // may be nil when no realtime channel is configured
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher realtime.Publisher,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
	}
}

type DispatchInput struct {
	RecipientID string
	Type        model.NotificationType
	Message     string
	Link        string
	ExerciseID  *string
	AnswerID    *string
}

// Dispatch persists and pushes a notification for an event, gated by the
// recipient's preferences. It never returns an error: notification delivery is
// best-effort and must not fail the action that triggered it. A nil result
// means the notification was skipped or dropped.
func (s *NotificationService) Dispatch(ctx context.Context, in DispatchInput) *model.Notification {
	if !model.ValidNotificationType(in.Type) {
		log.Printf("WARN: dispatch called with unknown notification type %q", in.Type)
		return nil
	}

	recipient, err := s.userRepo.FindByID(ctx, in.RecipientID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Printf("ERROR: dispatch failed to resolve recipient %s: %v", in.RecipientID, err)
		}
		return nil
	}

	prefs := recipient.EffectivePreferences()
	var allowed bool
	switch in.Type {
	case model.NotificationComment:
		allowed = prefs.ReplyToExercise
	case model.NotificationReply:
		allowed = prefs.ReplyToComment
	case model.NotificationLike:
		allowed = prefs.LikeOnExercise
	}
	if !allowed {
		return nil
	}

	notification := &model.Notification{
		ID:         uuid.NewString(),
		UserID:     recipient.ID,
		Type:       in.Type,
		Message:    in.Message,
		Link:       in.Link,
		ExerciseID: in.ExerciseID,
		AnswerID:   in.AnswerID,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("ERROR: dispatch failed to persist notification for user %s: %v", recipient.ID, err)
		return nil
	}

	// The persisted record is the durable fallback; a failed push only means
	// the recipient picks it up on the next poll.
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, recipient.ID, notification); err != nil {
			log.Printf("WARN: dispatch failed to push notification %s to user %s: %v", notification.ID, recipient.ID, err)
		}
	}
	return notification
}

// GetPreferences returns the user's effective notification preferences.
func (s *NotificationService) GetPreferences(ctx context.Context, userID string) (*model.EffectivePreferences, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs := user.EffectivePreferences()
	return &prefs, nil
}

// UpdatePreferences stores the provided flags; nil fields keep their value.
func (s *NotificationService) UpdatePreferences(ctx context.Context, userID string, prefs model.NotificationPreferences) (*model.EffectivePreferences, error) {
	if err := s.userRepo.UpdatePreferences(ctx, userID, prefs); err != nil {
		return nil, err
	}
	return s.GetPreferences(ctx, userID)
}

func (s *NotificationService) List(ctx context.Context, userID string, page, pageSize int) ([]model.Notification, error) {
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.ListByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
