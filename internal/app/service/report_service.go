package service

import (
	"context"
	"fmt"
	"strings"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
	"solvehub/internal/domain/repository"

	"github.com/google/uuid"
)

type ReportService struct {
	reportRepo   repository.ReportRepository
	exerciseRepo repository.ExerciseRepository
	answerRepo   repository.AnswerRepository
}

func NewReportService(
	reportRepo repository.ReportRepository,
	exerciseRepo repository.ExerciseRepository,
	answerRepo repository.AnswerRepository,
) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		exerciseRepo: exerciseRepo,
		answerRepo:   answerRepo,
	}
}

type CreateReportRequest struct {
	TargetType model.ReportTargetType `json:"target_type"`
	TargetID   string                 `json:"target_id"`
	Reason     model.ReportReason     `json:"reason"`
	Details    string                 `json:"details"`
}

// Create validates the intake before touching persistence: target type and
// reason must be members of their enums, details bounded. The target must
// exist; reporting an answer stores its parent exercise id on the report.
func (s *ReportService) Create(ctx context.Context, reporterID string, req CreateReportRequest) (*model.Report, error) {
	if req.TargetID == "" {
		return nil, fmt.Errorf("target_id is required: %w", common.ErrValidation)
	}
	if !model.ValidReportTargetType(req.TargetType) {
		return nil, fmt.Errorf("target_type must be one of exercise, answer: %w", common.ErrValidation)
	}
	if !model.ValidReportReason(req.Reason) {
		return nil, fmt.Errorf("invalid report reason %q: %w", req.Reason, common.ErrValidation)
	}
	details := strings.TrimSpace(req.Details)
	if len(details) > model.ReportDetailsMaxLen {
		return nil, fmt.Errorf("details must be at most %d characters: %w", model.ReportDetailsMaxLen, common.ErrValidation)
	}

	var exerciseID *string
	switch req.TargetType {
	case model.ReportTargetExercise:
		exercise, err := s.exerciseRepo.FindByID(ctx, req.TargetID)
		if err != nil {
			return nil, err // common.ErrNotFound when the target is gone
		}
		exerciseID = &exercise.ID
	case model.ReportTargetAnswer:
		answer, err := s.answerRepo.FindByID(ctx, req.TargetID)
		if err != nil {
			return nil, err
		}
		exerciseID = &answer.ExerciseID
	}

	report := &model.Report{
		ID:         uuid.NewString(),
		ReporterID: reporterID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		ExerciseID: exerciseID,
		Reason:     req.Reason,
		Details:    details,
		Status:     model.ReportPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, status model.ReportStatus, page, pageSize int) ([]model.Report, int, error) {
	if status != "" && status != model.ReportPending && status != model.ReportResolved {
		return nil, 0, fmt.Errorf("invalid report status %q: %w", status, common.ErrValidation)
	}
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return s.reportRepo.ListByStatus(ctx, status, limit, offset)
}

func (s *ReportService) Resolve(ctx context.Context, id string) (*model.Report, error) {
	if err := s.reportRepo.UpdateStatus(ctx, id, model.ReportResolved); err != nil {
		return nil, err
	}
	return s.reportRepo.FindByID(ctx, id)
}
