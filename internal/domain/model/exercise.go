package model

import "time"

type Exercise struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	SubjectName string  `json:"subject_name"`          // Legacy free-text name, kept during migration
	SubjectID   *string `json:"subject_id,omitempty"`  // Reference to a Subject, set by backfill or at creation
	AuthorID    string  `json:"author_id"`
	AnswerCount int     `json:"answer_count"`

	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tags        []Tag        `json:"tags,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	SubjectSlug    *string `json:"subject_slug,omitempty"`    // For display
	AuthorUsername *string `json:"author_username,omitempty"` // For display
	ViewerVote     *bool   `json:"viewer_vote,omitempty"`     // true=like, false=dislike, nil=no vote
}
