package service

import (
	"context"
	"fmt"
	"strings"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
	"solvehub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug" // For slug generation
)

type SubjectService struct {
	subjectRepo repository.SubjectRepository
}

func NewSubjectService(subjectRepo repository.SubjectRepository) *SubjectService {
	return &SubjectService{subjectRepo: subjectRepo}
}

type CreateSubjectRequest struct {
	Name      string `json:"name"`
	IsPopular bool   `json:"is_popular"`
}

func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*model.Subject, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("subject name is required: %w", common.ErrValidation)
	}

	subject := &model.Subject{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug.Make(name),
		IsPopular: req.IsPopular,
	}
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err // common.ErrConflict on duplicate name/slug
	}
	return subject, nil
}

func (s *SubjectService) List(ctx context.Context, popularOnly bool) ([]model.Subject, error) {
	return s.subjectRepo.List(ctx, popularOnly)
}

func (s *SubjectService) GetBySlug(ctx context.Context, subjectSlug string) (*model.Subject, error) {
	return s.subjectRepo.FindBySlug(ctx, subjectSlug)
}

func (s *SubjectService) SetPopular(ctx context.Context, id string, popular bool) error {
	return s.subjectRepo.SetPopular(ctx, id, popular)
}
