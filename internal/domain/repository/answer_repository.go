package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
)

// AnswerOrder selects the listing order for answers under an exercise.
type AnswerOrder string

const (
	OrderRecency AnswerOrder = "recency" // newest first
	OrderThread  AnswerOrder = "thread"  // top-level first, then replies grouped by parent
)

type AnswerRepository interface {
	Create(ctx context.Context, tx *sql.Tx, answer *model.Answer) error
	FindByID(ctx context.Context, id string) (*model.Answer, error)
	ListByExerciseID(ctx context.Context, exerciseID string, order AnswerOrder) ([]model.Answer, error)

	SetVote(ctx context.Context, answerID, userID string, isLike bool) error
	ClearVote(ctx context.Context, answerID, userID string) error
	GetVote(ctx context.Context, answerID, userID string) (*bool, error)
}

type pgAnswerRepository struct {
	db *sql.DB
}

func NewPgAnswerRepository(db *sql.DB) AnswerRepository {
	return &pgAnswerRepository{db: db}
}

func (r *pgAnswerRepository) Create(ctx context.Context, tx *sql.Tx, a *model.Answer) error {
	query := `INSERT INTO answers (id, content, exercise_id, parent_answer_id, author_id)
	          VALUES ($1, $2, $3, $4, $5)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, a.ID, a.Content, a.ExerciseID, a.ParentAnswerID, a.AuthorID)
	} else {
		_, err = r.db.ExecContext(ctx, query, a.ID, a.Content, a.ExerciseID, a.ParentAnswerID, a.AuthorID)
	}
	if err != nil {
		return fmt.Errorf("pgAnswerRepository.Create: %w", err)
	}
	return nil
}

const answerSelect = `
	SELECT a.id, a.content, a.exercise_id, a.parent_answer_id, a.author_id, u.username,
	       (SELECT COUNT(*) FROM answer_votes v WHERE v.answer_id = a.id AND v.is_like) AS likes,
	       (SELECT COUNT(*) FROM answer_votes v WHERE v.answer_id = a.id AND NOT v.is_like) AS dislikes,
	       a.created_at, a.updated_at
	FROM answers a
	LEFT JOIN users u ON a.author_id = u.id`

func scanAnswer(scanner interface{ Scan(...interface{}) error }) (*model.Answer, error) {
	a := &model.Answer{}
	err := scanner.Scan(
		&a.ID, &a.Content, &a.ExerciseID, &a.ParentAnswerID, &a.AuthorID, &a.AuthorUsername,
		&a.Likes, &a.Dislikes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *pgAnswerRepository) FindByID(ctx context.Context, id string) (*model.Answer, error) {
	a, err := scanAnswer(r.db.QueryRowContext(ctx, answerSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAnswerRepository.FindByID: %w", err)
	}
	return a, nil
}

func (r *pgAnswerRepository) ListByExerciseID(ctx context.Context, exerciseID string, order AnswerOrder) ([]model.Answer, error) {
	query := answerSelect + ` WHERE a.exercise_id = $1`
	switch order {
	case OrderThread:
		// Top-level answers first (newest first), replies grouped under their
		// parent in chronological order.
		query += ` ORDER BY COALESCE(a.parent_answer_id, a.id), a.parent_answer_id NULLS FIRST, a.created_at ASC`
	default:
		query += ` ORDER BY a.created_at DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("pgAnswerRepository.ListByExerciseID query: %w", err)
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("pgAnswerRepository.ListByExerciseID scan: %w", err)
		}
		answers = append(answers, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAnswerRepository.ListByExerciseID rows.Err: %w", err)
	}
	return answers, nil
}

func (r *pgAnswerRepository) SetVote(ctx context.Context, answerID, userID string, isLike bool) error {
	query := `INSERT INTO answer_votes (answer_id, user_id, is_like) VALUES ($1, $2, $3)
	          ON CONFLICT (answer_id, user_id) DO UPDATE SET is_like = EXCLUDED.is_like`
	if _, err := r.db.ExecContext(ctx, query, answerID, userID, isLike); err != nil {
		return fmt.Errorf("pgAnswerRepository.SetVote: %w", err)
	}
	return nil
}

func (r *pgAnswerRepository) ClearVote(ctx context.Context, answerID, userID string) error {
	query := `DELETE FROM answer_votes WHERE answer_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, answerID, userID); err != nil {
		return fmt.Errorf("pgAnswerRepository.ClearVote: %w", err)
	}
	return nil
}

func (r *pgAnswerRepository) GetVote(ctx context.Context, answerID, userID string) (*bool, error) {
	var isLike bool
	err := r.db.QueryRowContext(ctx,
		`SELECT is_like FROM answer_votes WHERE answer_id = $1 AND user_id = $2`,
		answerID, userID,
	).Scan(&isLike)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("pgAnswerRepository.GetVote: %w", err)
	}
	return &isLike, nil
}
