package service

import (
	"context"
	"testing"

	"solvehub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverCreatesSubjectWithSlug(t *testing.T) {
	repo := newFakeSubjectRepo()
	resolver := NewSubjectResolver(repo)

	subject, err := resolver.Resolve(context.Background(), "Cálculo II")
	require.NoError(t, err)
	assert.Equal(t, "Cálculo II", subject.Name)
	assert.Equal(t, "calculo-ii", subject.Slug)
	assert.Equal(t, 1, resolver.Created)
}

func TestResolverCachesWithinRun(t *testing.T) {
	repo := newFakeSubjectRepo()
	resolver := NewSubjectResolver(repo)

	first, err := resolver.Resolve(context.Background(), "Física I")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "Física I")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, repo.findCalls, "cache hit must not touch the repository")
	assert.Equal(t, 1, resolver.Created)
}

func TestResolverReusesExistingSubject(t *testing.T) {
	existing := &model.Subject{ID: "s1", Name: "Álgebra Linear", Slug: "algebra-linear"}
	repo := newFakeSubjectRepo(existing)
	resolver := NewSubjectResolver(repo)

	subject, err := resolver.Resolve(context.Background(), "Álgebra Linear")
	require.NoError(t, err)
	assert.Equal(t, "s1", subject.ID)
	assert.Equal(t, 0, resolver.Created)
}

func TestResolverTrimsAndRejectsEmpty(t *testing.T) {
	repo := newFakeSubjectRepo()
	resolver := NewSubjectResolver(repo)

	subject, err := resolver.Resolve(context.Background(), "  Geometria  ")
	require.NoError(t, err)
	assert.Equal(t, "Geometria", subject.Name)

	_, err = resolver.Resolve(context.Background(), "   ")
	assert.Error(t, err)
}

func TestSubjectBackfillIdempotent(t *testing.T) {
	// Two exercises share a legacy subject name; the backfill must create the
	// subject once and a second pass must find nothing left to do.
	exerciseRepo := newFakeExerciseRepo(
		&model.Exercise{ID: "e1", SubjectName: "Cálculo II"},
		&model.Exercise{ID: "e2", SubjectName: "Cálculo II"},
		&model.Exercise{ID: "e3", SubjectName: "Física I"},
	)
	subjectRepo := newFakeSubjectRepo()
	ctx := context.Background()

	runBackfill := func() (migrated int) {
		resolver := NewSubjectResolver(subjectRepo)
		pending, err := exerciseRepo.ListMissingSubjectID(ctx, 100)
		require.NoError(t, err)
		for _, e := range pending {
			subject, err := resolver.Resolve(ctx, e.SubjectName)
			require.NoError(t, err)
			require.NoError(t, exerciseRepo.SetSubjectID(ctx, e.ID, subject.ID))
			migrated++
		}
		return migrated
	}

	assert.Equal(t, 3, runBackfill())
	assert.Len(t, subjectRepo.byName, 2, "duplicate names must collapse onto one subject")
	assert.Equal(t, 0, runBackfill(), "second run must be a no-op")

	calc, err := subjectRepo.FindByName(ctx, "Cálculo II")
	require.NoError(t, err)
	assert.Equal(t, calc.ID, *exerciseRepo.exercises["e1"].SubjectID)
	assert.Equal(t, calc.ID, *exerciseRepo.exercises["e2"].SubjectID)
}
