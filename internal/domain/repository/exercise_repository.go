package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
)

// ExerciseFilter holds the optional listing filters.
type ExerciseFilter struct {
	SubjectSlug string
	Tag         string
	SearchTerm  string
}

type ExerciseRepository interface {
	Create(ctx context.Context, tx *sql.Tx, exercise *model.Exercise) error
	FindByID(ctx context.Context, id string) (*model.Exercise, error)
	List(ctx context.Context, limit, offset int, filter ExerciseFilter) ([]model.Exercise, int, error)

	SetVote(ctx context.Context, exerciseID, userID string, isLike bool) error
	ClearVote(ctx context.Context, exerciseID, userID string) error
	GetVote(ctx context.Context, exerciseID, userID string) (*bool, error)

	IncrementAnswerCount(ctx context.Context, tx *sql.Tx, exerciseID string) error

	AddTags(ctx context.Context, tx *sql.Tx, exerciseID string, tagIDs []string) error
	GetTagsByExerciseID(ctx context.Context, exerciseID string) ([]model.Tag, error)

	// Backfill support for the subject migration tool.
	ListMissingSubjectID(ctx context.Context, limit int) ([]model.Exercise, error)
	SetSubjectID(ctx context.Context, exerciseID, subjectID string) error
}

type pgExerciseRepository struct {
	db *sql.DB
}

func NewPgExerciseRepository(db *sql.DB) ExerciseRepository {
	return &pgExerciseRepository{db: db}
}

func (r *pgExerciseRepository) Create(ctx context.Context, tx *sql.Tx, e *model.Exercise) error {
	query := `INSERT INTO exercises (id, title, description, subject_name, subject_id, author_id)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, e.ID, e.Title, e.Description, e.SubjectName, e.SubjectID, e.AuthorID)
	} else {
		_, err = r.db.ExecContext(ctx, query, e.ID, e.Title, e.Description, e.SubjectName, e.SubjectID, e.AuthorID)
	}
	if err != nil {
		return fmt.Errorf("pgExerciseRepository.Create: %w", err)
	}
	return nil
}

const exerciseSelect = `
	SELECT e.id, e.title, e.description, e.subject_name, e.subject_id, s.slug,
	       e.author_id, u.username, e.answer_count,
	       (SELECT COUNT(*) FROM exercise_votes v WHERE v.exercise_id = e.id AND v.is_like) AS likes,
	       (SELECT COUNT(*) FROM exercise_votes v WHERE v.exercise_id = e.id AND NOT v.is_like) AS dislikes,
	       e.created_at, e.updated_at
	FROM exercises e
	LEFT JOIN subjects s ON e.subject_id = s.id
	LEFT JOIN users u ON e.author_id = u.id`

func scanExercise(scanner interface{ Scan(...interface{}) error }) (*model.Exercise, error) {
	e := &model.Exercise{}
	err := scanner.Scan(
		&e.ID, &e.Title, &e.Description, &e.SubjectName, &e.SubjectID, &e.SubjectSlug,
		&e.AuthorID, &e.AuthorUsername, &e.AnswerCount,
		&e.Likes, &e.Dislikes,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *pgExerciseRepository) FindByID(ctx context.Context, id string) (*model.Exercise, error) {
	e, err := scanExercise(r.db.QueryRowContext(ctx, exerciseSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgExerciseRepository.FindByID: %w", err)
	}
	return e, nil
}

func (r *pgExerciseRepository) List(ctx context.Context, limit, offset int, filter ExerciseFilter) ([]model.Exercise, int, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	joins := ""
	if filter.Tag != "" {
		joins = " JOIN exercise_tags et ON e.id = et.exercise_id JOIN tags t ON et.tag_id = t.id"
		conditions = append(conditions, fmt.Sprintf("t.name = $%d", argID))
		args = append(args, filter.Tag)
		argID++
	}
	if filter.SubjectSlug != "" {
		conditions = append(conditions, fmt.Sprintf("s.slug = $%d", argID))
		args = append(args, filter.SubjectSlug)
		argID++
	}
	if filter.SearchTerm != "" {
		conditions = append(conditions, fmt.Sprintf("(e.title ILIKE $%d OR e.description ILIKE $%d)", argID, argID+1))
		likeTerm := "%" + filter.SearchTerm + "%"
		args = append(args, likeTerm, likeTerm)
		argID += 2
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(DISTINCT e.id) FROM exercises e LEFT JOIN subjects s ON e.subject_id = s.id` + joins + whereClause
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgExerciseRepository.List count: %w", err)
	}

	query := exerciseSelect + joins + whereClause +
		fmt.Sprintf(" ORDER BY e.created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgExerciseRepository.List query: %w", err)
	}
	defer rows.Close()

	exercises := []model.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgExerciseRepository.List scan: %w", err)
		}
		exercises = append(exercises, *e)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgExerciseRepository.List rows.Err: %w", err)
	}
	return exercises, total, nil
}

func (r *pgExerciseRepository) SetVote(ctx context.Context, exerciseID, userID string, isLike bool) error {
	query := `INSERT INTO exercise_votes (exercise_id, user_id, is_like) VALUES ($1, $2, $3)
	          ON CONFLICT (exercise_id, user_id) DO UPDATE SET is_like = EXCLUDED.is_like`
	if _, err := r.db.ExecContext(ctx, query, exerciseID, userID, isLike); err != nil {
		return fmt.Errorf("pgExerciseRepository.SetVote: %w", err)
	}
	return nil
}

func (r *pgExerciseRepository) ClearVote(ctx context.Context, exerciseID, userID string) error {
	query := `DELETE FROM exercise_votes WHERE exercise_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, exerciseID, userID); err != nil {
		return fmt.Errorf("pgExerciseRepository.ClearVote: %w", err)
	}
	return nil
}

func (r *pgExerciseRepository) GetVote(ctx context.Context, exerciseID, userID string) (*bool, error) {
	var isLike bool
	err := r.db.QueryRowContext(ctx,
		`SELECT is_like FROM exercise_votes WHERE exercise_id = $1 AND user_id = $2`,
		exerciseID, userID,
	).Scan(&isLike)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("pgExerciseRepository.GetVote: %w", err)
	}
	return &isLike, nil
}

func (r *pgExerciseRepository) IncrementAnswerCount(ctx context.Context, tx *sql.Tx, exerciseID string) error {
	query := `UPDATE exercises SET answer_count = answer_count + 1, updated_at = CURRENT_TIMESTAMP WHERE id = $1`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, exerciseID)
	} else {
		_, err = r.db.ExecContext(ctx, query, exerciseID)
	}
	if err != nil {
		return fmt.Errorf("pgExerciseRepository.IncrementAnswerCount: %w", err)
	}
	return nil
}

func (r *pgExerciseRepository) AddTags(ctx context.Context, tx *sql.Tx, exerciseID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO exercise_tags (exercise_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`)
	if err != nil {
		return fmt.Errorf("pgExerciseRepository.AddTags prepare: %w", err)
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		if _, err := stmt.ExecContext(ctx, exerciseID, tagID); err != nil {
			return fmt.Errorf("pgExerciseRepository.AddTags exec for tag %s: %w", tagID, err)
		}
	}
	return nil
}

func (r *pgExerciseRepository) GetTagsByExerciseID(ctx context.Context, exerciseID string) ([]model.Tag, error) {
	query := `SELECT t.id, t.name FROM tags t
	          JOIN exercise_tags et ON t.id = et.tag_id
	          WHERE et.exercise_id = $1 ORDER BY t.name ASC`
	rows, err := r.db.QueryContext(ctx, query, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("pgExerciseRepository.GetTagsByExerciseID query: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("pgExerciseRepository.GetTagsByExerciseID scan: %w", err)
		}
		tags = append(tags, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgExerciseRepository.GetTagsByExerciseID rows.Err: %w", err)
	}
	return tags, nil
}

func (r *pgExerciseRepository) ListMissingSubjectID(ctx context.Context, limit int) ([]model.Exercise, error) {
	query := `SELECT id, title, subject_name FROM exercises
	          WHERE subject_id IS NULL AND subject_name <> ''
	          ORDER BY created_at ASC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgExerciseRepository.ListMissingSubjectID query: %w", err)
	}
	defer rows.Close()

	var exercises []model.Exercise
	for rows.Next() {
		var e model.Exercise
		if err := rows.Scan(&e.ID, &e.Title, &e.SubjectName); err != nil {
			return nil, fmt.Errorf("pgExerciseRepository.ListMissingSubjectID scan: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgExerciseRepository.ListMissingSubjectID rows.Err: %w", err)
	}
	return exercises, nil
}

func (r *pgExerciseRepository) SetSubjectID(ctx context.Context, exerciseID, subjectID string) error {
	query := `UPDATE exercises SET subject_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, subjectID, exerciseID); err != nil {
		return fmt.Errorf("pgExerciseRepository.SetSubjectID: %w", err)
	}
	return nil
}
