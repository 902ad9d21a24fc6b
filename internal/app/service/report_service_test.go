package service

import (
	"context"
	"strings"
	"testing"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(exercises []*model.Exercise, answers []*model.Answer) (*ReportService, *reportRepoRecorder, *fakeExerciseRepo) {
	recorder := &reportRepoRecorder{}
	exerciseRepo := newFakeExerciseRepo(exercises...)
	svc := NewReportService(recorder, exerciseRepo, newFakeAnswerRepo(answers...))
	return svc, recorder, exerciseRepo
}

func TestReportCreateExercise(t *testing.T) {
	svc, recorder, _ := newReportService([]*model.Exercise{{ID: "e1", AuthorID: "author"}}, nil)

	report, err := svc.Create(context.Background(), "u1", CreateReportRequest{
		TargetType: model.ReportTargetExercise,
		TargetID:   "e1",
		Reason:     model.ReasonSpam,
		Details:    "  duplicated content  ",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportPending, report.Status)
	assert.Equal(t, "duplicated content", report.Details)
	require.NotNil(t, report.ExerciseID)
	assert.Equal(t, "e1", *report.ExerciseID)
	assert.Len(t, recorder.created, 1)
}

func TestReportAnswerCarriesParentExercise(t *testing.T) {
	svc, _, _ := newReportService(
		[]*model.Exercise{{ID: "e1"}},
		[]*model.Answer{{ID: "a1", ExerciseID: "e1", AuthorID: "author"}},
	)

	report, err := svc.Create(context.Background(), "u1", CreateReportRequest{
		TargetType: model.ReportTargetAnswer,
		TargetID:   "a1",
		Reason:     model.ReasonOffensive,
	})
	require.NoError(t, err)
	require.NotNil(t, report.ExerciseID)
	assert.Equal(t, "e1", *report.ExerciseID)
}

func TestReportInvalidInputRejectedBeforePersistence(t *testing.T) {
	cases := []struct {
		name string
		req  CreateReportRequest
	}{
		{"missing target id", CreateReportRequest{TargetType: model.ReportTargetExercise, Reason: model.ReasonSpam}},
		{"unknown target type", CreateReportRequest{TargetType: "comment", TargetID: "e1", Reason: model.ReasonSpam}},
		{"unknown reason", CreateReportRequest{TargetType: model.ReportTargetExercise, TargetID: "e1", Reason: "BORING"}},
		{"oversized details", CreateReportRequest{
			TargetType: model.ReportTargetExercise,
			TargetID:   "e1",
			Reason:     model.ReasonOther,
			Details:    strings.Repeat("x", model.ReportDetailsMaxLen+1),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, recorder, exerciseRepo := newReportService([]*model.Exercise{{ID: "e1"}}, nil)

			_, err := svc.Create(context.Background(), "u1", tc.req)
			require.ErrorIs(t, err, common.ErrValidation)
			assert.Empty(t, recorder.created)
			assert.Zero(t, exerciseRepo.findCalls, "validation failures must not hit the repositories")
		})
	}
}

func TestReportMissingTargetNotFound(t *testing.T) {
	svc, recorder, _ := newReportService(nil, nil)

	_, err := svc.Create(context.Background(), "u1", CreateReportRequest{
		TargetType: model.ReportTargetExercise,
		TargetID:   "gone",
		Reason:     model.ReasonFalseInfo,
	})
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, recorder.created)
}

func TestReportListRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newReportService(nil, nil)

	_, _, err := svc.List(context.Background(), model.ReportStatus("open"), 1, 20)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestReportResolve(t *testing.T) {
	svc, _, _ := newReportService([]*model.Exercise{{ID: "e1"}}, nil)

	created, err := svc.Create(context.Background(), "u1", CreateReportRequest{
		TargetType: model.ReportTargetExercise,
		TargetID:   "e1",
		Reason:     model.ReasonSpam,
	})
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportResolved, resolved.Status)

	pending, total, err := svc.List(context.Background(), model.ReportPending, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Zero(t, total)
}
