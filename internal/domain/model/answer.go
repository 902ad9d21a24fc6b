package model

import "time"

type Answer struct {
	ID             string  `json:"id"`
	Content        string  `json:"content"`
	ExerciseID     string  `json:"exercise_id"`
	ParentAnswerID *string `json:"parent_answer_id,omitempty"` // nil = top-level answer
	AuthorID       string  `json:"author_id"`

	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Attachments []Attachment `json:"attachments,omitempty"`

	AuthorUsername *string `json:"author_username,omitempty"` // For display
	ViewerVote     *bool   `json:"viewer_vote,omitempty"`
}
