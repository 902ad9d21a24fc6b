package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
)

type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	FindByID(ctx context.Context, id string) (*model.Subject, error)
	FindByName(ctx context.Context, name string) (*model.Subject, error)
	FindBySlug(ctx context.Context, slug string) (*model.Subject, error)
	List(ctx context.Context, popularOnly bool) ([]model.Subject, error)
	SetPopular(ctx context.Context, id string, popular bool) error
}

type pgSubjectRepository struct {
	db *sql.DB
}

func NewPgSubjectRepository(db *sql.DB) SubjectRepository {
	return &pgSubjectRepository{db: db}
}

func (r *pgSubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	query := `INSERT INTO subjects (id, name, slug, is_popular) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Slug, s.IsPopular)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("subject with this name already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgSubjectRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubjectRepository) scanSubject(row *sql.Row, caller string) (*model.Subject, error) {
	s := &model.Subject{}
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.IsPopular, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", caller, err)
	}
	return s, nil
}

func (r *pgSubjectRepository) FindByID(ctx context.Context, id string) (*model.Subject, error) {
	query := `SELECT id, name, slug, is_popular, created_at FROM subjects WHERE id = $1`
	return r.scanSubject(r.db.QueryRowContext(ctx, query, id), "pgSubjectRepository.FindByID")
}

func (r *pgSubjectRepository) FindByName(ctx context.Context, name string) (*model.Subject, error) {
	query := `SELECT id, name, slug, is_popular, created_at FROM subjects WHERE name = $1`
	return r.scanSubject(r.db.QueryRowContext(ctx, query, name), "pgSubjectRepository.FindByName")
}

func (r *pgSubjectRepository) FindBySlug(ctx context.Context, slug string) (*model.Subject, error) {
	query := `SELECT id, name, slug, is_popular, created_at FROM subjects WHERE slug = $1`
	return r.scanSubject(r.db.QueryRowContext(ctx, query, slug), "pgSubjectRepository.FindBySlug")
}

func (r *pgSubjectRepository) List(ctx context.Context, popularOnly bool) ([]model.Subject, error) {
	query := `SELECT id, name, slug, is_popular, created_at FROM subjects`
	if popularOnly {
		query += ` WHERE is_popular`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgSubjectRepository.List query: %w", err)
	}
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.IsPopular, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgSubjectRepository.List scan: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubjectRepository.List rows.Err: %w", err)
	}
	return subjects, nil
}

func (r *pgSubjectRepository) SetPopular(ctx context.Context, id string, popular bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE subjects SET is_popular = $1 WHERE id = $2`, popular, id)
	if err != nil {
		return fmt.Errorf("pgSubjectRepository.SetPopular: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
