package model

import "time"

type ReportTargetType string
type ReportReason string
type ReportStatus string

const (
	ReportTargetExercise ReportTargetType = "exercise"
	ReportTargetAnswer   ReportTargetType = "answer"

	ReasonSpam      ReportReason = "SPAM"
	ReasonOffensive ReportReason = "OFFENSIVE"
	ReasonFalseInfo ReportReason = "FALSE_INFO"
	ReasonOther     ReportReason = "OTHER"

	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
)

const ReportDetailsMaxLen = 500

func ValidReportTargetType(t ReportTargetType) bool {
	return t == ReportTargetExercise || t == ReportTargetAnswer
}

func ValidReportReason(r ReportReason) bool {
	switch r {
	case ReasonSpam, ReasonOffensive, ReasonFalseInfo, ReasonOther:
		return true
	}
	return false
}

type Report struct {
	ID         string           `json:"id"`
	ReporterID string           `json:"reporter_id"`
	TargetType ReportTargetType `json:"target_type"`
	TargetID   string           `json:"target_id"`
	// ExerciseID is denormalized: for an answer target it is the answer's
	// parent exercise, resolved at intake.
	ExerciseID *string      `json:"exercise_id,omitempty"`
	Reason     ReportReason `json:"reason"`
	Details    string       `json:"details"`
	Status     ReportStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	ReporterUsername *string `json:"reporter_username,omitempty"` // For display
}
