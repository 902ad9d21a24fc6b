package model

import "time"

type AttachmentKind string

const (
	// AttachmentLocalLegacy points at a file on local disk that predates
	// hosted storage. The migration tool moves these to AttachmentHosted.
	AttachmentLocalLegacy AttachmentKind = "local_legacy"
	AttachmentHosted      AttachmentKind = "hosted"
)

// Attachment is a tagged variant: the kind, not the URL shape, says whether
// the file already lives in durable object storage.
type Attachment struct {
	ID         string         `json:"id"`
	ExerciseID *string        `json:"exercise_id,omitempty"`
	AnswerID   *string        `json:"answer_id,omitempty"`
	Kind       AttachmentKind `json:"kind"`
	URL        string         `json:"url"`
	PublicID   *string        `json:"public_id,omitempty"`
	SizeBytes  *int64         `json:"size_bytes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
