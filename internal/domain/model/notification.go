package model

import "time"

type NotificationType string

const (
	// NotificationComment is a top-level answer on one of the recipient's exercises.
	NotificationComment NotificationType = "comment"
	// NotificationReply is a reply to one of the recipient's answers.
	NotificationReply NotificationType = "reply"
	// NotificationLike is a like on one of the recipient's exercises.
	NotificationLike NotificationType = "like"
)

func ValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationComment, NotificationReply, NotificationLike:
		return true
	}
	return false
}

type Notification struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"` // Recipient
	Type       NotificationType `json:"type"`
	Message    string           `json:"message"`
	Link       string           `json:"link"`
	IsRead     bool             `json:"is_read"`
	ExerciseID *string          `json:"exercise_id,omitempty"`
	AnswerID   *string          `json:"answer_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
