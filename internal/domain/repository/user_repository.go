package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id, displayName, avatarURL string) error
	UpdatePreferences(ctx context.Context, id string, prefs model.NotificationPreferences) error
	SetActive(ctx context.Context, id string, active bool) error

	SaveExercise(ctx context.Context, userID, exerciseID string) error
	UnsaveExercise(ctx context.Context, userID, exerciseID string) error
	CompleteExercise(ctx context.Context, userID, exerciseID string) error
	UncompleteExercise(ctx context.Context, userID, exerciseID string) error
	ListSavedExerciseIDs(ctx context.Context, userID string) ([]string, error)
	ListCompletedExerciseIDs(ctx context.Context, userID string) ([]string, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, email, hashed_password, display_name, avatar_url, role, is_active,
	pref_reply_to_exercise, pref_reply_to_comment, pref_like_on_exercise, created_at, updated_at`

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, hashed_password, display_name, role)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.HashedPassword, user.DisplayName, user.Role)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) scanUser(row *sql.Row, caller string) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.DisplayName,
		&user.AvatarURL, &user.Role, &user.IsActive,
		&user.Preferences.ReplyToExercise, &user.Preferences.ReplyToComment, &user.Preferences.LikeOnExercise,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", caller, err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email), "pgUserRepository.FindByEmail")
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username), "pgUserRepository.FindByUsername")
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id), "pgUserRepository.FindByID")
}

func (r *pgUserRepository) UpdateProfile(ctx context.Context, id, displayName, avatarURL string) error {
	query := `UPDATE users SET display_name = $1, avatar_url = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, displayName, avatarURL, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateProfile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) UpdatePreferences(ctx context.Context, id string, prefs model.NotificationPreferences) error {
	query := `UPDATE users SET
	            pref_reply_to_exercise = COALESCE($1, pref_reply_to_exercise),
	            pref_reply_to_comment  = COALESCE($2, pref_reply_to_comment),
	            pref_like_on_exercise  = COALESCE($3, pref_like_on_exercise),
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, prefs.ReplyToExercise, prefs.ReplyToComment, prefs.LikeOnExercise, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdatePreferences: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE users SET is_active = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.SetActive: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) SaveExercise(ctx context.Context, userID, exerciseID string) error {
	query := `INSERT INTO saved_exercises (user_id, exercise_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, exerciseID); err != nil {
		return fmt.Errorf("pgUserRepository.SaveExercise: %w", err)
	}
	return nil
}

func (r *pgUserRepository) UnsaveExercise(ctx context.Context, userID, exerciseID string) error {
	query := `DELETE FROM saved_exercises WHERE user_id = $1 AND exercise_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, exerciseID); err != nil {
		return fmt.Errorf("pgUserRepository.UnsaveExercise: %w", err)
	}
	return nil
}

func (r *pgUserRepository) CompleteExercise(ctx context.Context, userID, exerciseID string) error {
	query := `INSERT INTO completed_exercises (user_id, exercise_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, exerciseID); err != nil {
		return fmt.Errorf("pgUserRepository.CompleteExercise: %w", err)
	}
	return nil
}

func (r *pgUserRepository) UncompleteExercise(ctx context.Context, userID, exerciseID string) error {
	query := `DELETE FROM completed_exercises WHERE user_id = $1 AND exercise_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, exerciseID); err != nil {
		return fmt.Errorf("pgUserRepository.UncompleteExercise: %w", err)
	}
	return nil
}

func (r *pgUserRepository) ListSavedExerciseIDs(ctx context.Context, userID string) ([]string, error) {
	return r.listExerciseIDs(ctx, "saved_exercises", userID, "pgUserRepository.ListSavedExerciseIDs")
}

func (r *pgUserRepository) ListCompletedExerciseIDs(ctx context.Context, userID string) ([]string, error) {
	return r.listExerciseIDs(ctx, "completed_exercises", userID, "pgUserRepository.ListCompletedExerciseIDs")
}

func (r *pgUserRepository) listExerciseIDs(ctx context.Context, table, userID, caller string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT exercise_id FROM `+table+` WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", caller, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s scan: %w", caller, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows.Err: %w", caller, err)
	}
	return ids, nil
}
