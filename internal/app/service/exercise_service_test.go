package service

import (
	"context"
	"testing"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exerciseFixture struct {
	svc          *ExerciseService
	exerciseRepo *fakeExerciseRepo
	tagRepo      *fakeTagRepo
	notifRepo    *fakeNotificationRepo
}

func newExerciseFixture(t *testing.T, users []*model.User, subjects []*model.Subject, exercises ...*model.Exercise) *exerciseFixture {
	t.Helper()
	notifRepo := &fakeNotificationRepo{}
	notifications := NewNotificationService(notifRepo, newFakeUserRepo(users...), &fakePublisher{})
	exerciseRepo := newFakeExerciseRepo(exercises...)
	tagRepo := newFakeTagRepo()
	db := stubDB()
	t.Cleanup(func() { db.Close() })
	return &exerciseFixture{
		svc:          NewExerciseService(exerciseRepo, tagRepo, &fakeAttachmentRepo{}, newFakeSubjectRepo(subjects...), notifications, db),
		exerciseRepo: exerciseRepo,
		tagRepo:      tagRepo,
		notifRepo:    notifRepo,
	}
}

func TestCreateExerciseWithSubjectID(t *testing.T) {
	subject := &model.Subject{ID: "s1", Name: "Cálculo II", Slug: "calculo-ii"}
	fx := newExerciseFixture(t, nil, []*model.Subject{subject})

	exercise, err := fx.svc.Create(context.Background(), "author", CreateExerciseRequest{
		Title:       "Integral por partes",
		Description: "Resolva a integral de x e^x dx.",
		SubjectID:   "s1",
		Tags:        []string{"Integrais", " integrais ", "provas"},
	})
	require.NoError(t, err)
	require.NotNil(t, exercise.SubjectID)
	assert.Equal(t, "s1", *exercise.SubjectID)
	assert.Equal(t, "Cálculo II", exercise.SubjectName)
	// Tag names are normalized and de-duplicated.
	require.Len(t, exercise.Tags, 2)
	assert.Equal(t, "integrais", exercise.Tags[0].Name)
	assert.Equal(t, "provas", exercise.Tags[1].Name)
}

func TestCreateExerciseWithLegacySubjectName(t *testing.T) {
	fx := newExerciseFixture(t, nil, nil)

	exercise, err := fx.svc.Create(context.Background(), "author", CreateExerciseRequest{
		Title:       "Limites laterais",
		Description: "Calcule o limite.",
		SubjectName: "Cálculo I",
	})
	require.NoError(t, err)
	assert.Nil(t, exercise.SubjectID)
	assert.Equal(t, "Cálculo I", exercise.SubjectName)
}

func TestCreateExerciseValidation(t *testing.T) {
	fx := newExerciseFixture(t, nil, nil)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, "author", CreateExerciseRequest{Description: "d", SubjectName: "s"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = fx.svc.Create(ctx, "author", CreateExerciseRequest{Title: "t", Description: "d"})
	assert.ErrorIs(t, err, common.ErrValidation, "a subject id or name is required")

	tooMany := make([]AttachmentInput, maxAttachmentsPerEntity+1)
	_, err = fx.svc.Create(ctx, "author", CreateExerciseRequest{
		Title: "t", Description: "d", SubjectName: "s", Attachments: tooMany,
	})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = fx.svc.Create(ctx, "author", CreateExerciseRequest{
		Title: "t", Description: "d", SubjectID: "missing",
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestToggleVoteLifecycle(t *testing.T) {
	fx := newExerciseFixture(t,
		[]*model.User{activeUser("author")},
		nil,
		&model.Exercise{ID: "e1", AuthorID: "author"},
	)
	ctx := context.Background()

	got, err := fx.svc.ToggleVote(ctx, "e1", "voter", true)
	require.NoError(t, err)
	require.NotNil(t, got.ViewerVote)
	assert.True(t, *got.ViewerVote)

	// Switching to a dislike replaces the vote.
	got, err = fx.svc.ToggleVote(ctx, "e1", "voter", false)
	require.NoError(t, err)
	require.NotNil(t, got.ViewerVote)
	assert.False(t, *got.ViewerVote)

	// Repeating the same vote clears it.
	got, err = fx.svc.ToggleVote(ctx, "e1", "voter", false)
	require.NoError(t, err)
	assert.Nil(t, got.ViewerVote)
}

func TestToggleVoteLikeNotificationGatedByPreference(t *testing.T) {
	author := activeUser("author")
	author.Preferences.LikeOnExercise = boolPtr(true)
	fx := newExerciseFixture(t,
		[]*model.User{author},
		nil,
		&model.Exercise{ID: "e1", AuthorID: "author", Title: "Integral por partes"},
	)
	ctx := context.Background()

	_, err := fx.svc.ToggleVote(ctx, "e1", "voter", true)
	require.NoError(t, err)
	require.Len(t, fx.notifRepo.notifications, 1)
	assert.Equal(t, model.NotificationLike, fx.notifRepo.notifications[0].Type)
	assert.Equal(t, "/exercises/e1", fx.notifRepo.notifications[0].Link)

	// Dislikes never notify.
	_, err = fx.svc.ToggleVote(ctx, "e1", "other", false)
	require.NoError(t, err)
	assert.Len(t, fx.notifRepo.notifications, 1)
}

func TestToggleVoteLikeDefaultOff(t *testing.T) {
	fx := newExerciseFixture(t,
		[]*model.User{activeUser("author")},
		nil,
		&model.Exercise{ID: "e1", AuthorID: "author"},
	)

	_, err := fx.svc.ToggleVote(context.Background(), "e1", "voter", true)
	require.NoError(t, err)
	assert.Empty(t, fx.notifRepo.notifications, "like notifications are opt-in")
}

func TestToggleVoteOwnExerciseNoNotification(t *testing.T) {
	author := activeUser("author")
	author.Preferences.LikeOnExercise = boolPtr(true)
	fx := newExerciseFixture(t,
		[]*model.User{author},
		nil,
		&model.Exercise{ID: "e1", AuthorID: "author"},
	)

	_, err := fx.svc.ToggleVote(context.Background(), "e1", "author", true)
	require.NoError(t, err)
	assert.Empty(t, fx.notifRepo.notifications)
}
