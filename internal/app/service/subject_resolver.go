package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
	"solvehub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// SubjectResolver maps free-text subject names on legacy exercises to Subject
// records, creating them on first sight. The name cache lives for one batch
// run; the backfill tool is single-threaded so no locking is needed.
type SubjectResolver struct {
	subjectRepo repository.SubjectRepository
	cache       map[string]*model.Subject

	Created int // subjects created during this run
}

func NewSubjectResolver(subjectRepo repository.SubjectRepository) *SubjectResolver {
	return &SubjectResolver{
		subjectRepo: subjectRepo,
		cache:       map[string]*model.Subject{},
	}
}

func (r *SubjectResolver) Resolve(ctx context.Context, name string) (*model.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty subject name: %w", common.ErrValidation)
	}

	if subject, ok := r.cache[name]; ok {
		return subject, nil
	}

	subject, err := r.subjectRepo.FindByName(ctx, name)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		subject = &model.Subject{
			ID:   uuid.NewString(),
			Name: name,
			Slug: slug.Make(name),
		}
		if err := r.subjectRepo.Create(ctx, subject); err != nil {
			return nil, err
		}
		r.Created++
	}

	r.cache[name] = subject
	return subject, nil
}
