package service

import (
	"context"
	"strings"

	"solvehub/internal/domain/model"
	"solvehub/internal/domain/repository"
)

type UserService struct {
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
}

func NewUserService(userRepo repository.UserRepository, exerciseRepo repository.ExerciseRepository) *UserService {
	return &UserService{userRepo: userRepo, exerciseRepo: exerciseRepo}
}

type Profile struct {
	User               *model.User `json:"user"`
	SavedExercises     []string    `json:"saved_exercises"`
	CompletedExercises []string    `json:"completed_exercises"`
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""

	saved, err := s.userRepo.ListSavedExerciseIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.userRepo.ListCompletedExerciseIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, SavedExercises: saved, CompletedExercises: completed}, nil
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	displayName := user.DisplayName
	if req.DisplayName != nil {
		displayName = strings.TrimSpace(*req.DisplayName)
	}
	avatarURL := user.AvatarURL
	if req.AvatarURL != nil {
		avatarURL = strings.TrimSpace(*req.AvatarURL)
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, displayName, avatarURL); err != nil {
		return nil, err
	}

	user, err = s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// SetSaved toggles whether the exercise is on the user's saved list. The
// write is idempotent on conflict, matching the toggle endpoints.
func (s *UserService) SetSaved(ctx context.Context, userID, exerciseID string, saved bool) error {
	if _, err := s.exerciseRepo.FindByID(ctx, exerciseID); err != nil {
		return err
	}
	if saved {
		return s.userRepo.SaveExercise(ctx, userID, exerciseID)
	}
	return s.userRepo.UnsaveExercise(ctx, userID, exerciseID)
}

func (s *UserService) SetCompleted(ctx context.Context, userID, exerciseID string, completed bool) error {
	if _, err := s.exerciseRepo.FindByID(ctx, exerciseID); err != nil {
		return err
	}
	if completed {
		return s.userRepo.CompleteExercise(ctx, userID, exerciseID)
	}
	return s.userRepo.UncompleteExercise(ctx, userID, exerciseID)
}

// SetActive is the admin moderation switch; deactivated users cannot log in.
func (s *UserService) SetActive(ctx context.Context, userID string, active bool) error {
	return s.userRepo.SetActive(ctx, userID, active)
}
