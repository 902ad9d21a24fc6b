package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"

	"github.com/google/uuid"
)

type TagRepository interface {
	FindByName(ctx context.Context, tx *sql.Tx, name string) (*model.Tag, error)
	Create(ctx context.Context, tx *sql.Tx, tag *model.Tag) error
	FindOrCreate(ctx context.Context, tx *sql.Tx, name string) (*model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
}

type pgTagRepository struct {
	db *sql.DB
}

func NewPgTagRepository(db *sql.DB) TagRepository {
	return &pgTagRepository{db: db}
}

func (r *pgTagRepository) FindByName(ctx context.Context, tx *sql.Tx, name string) (*model.Tag, error) {
	query := `SELECT id, name FROM tags WHERE name = $1`
	tag := &model.Tag{}
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name)
	} else {
		err = r.db.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTagRepository.FindByName: %w", err)
	}
	return tag, nil
}

func (r *pgTagRepository) Create(ctx context.Context, tx *sql.Tx, tag *model.Tag) error {
	query := `INSERT INTO tags (id, name) VALUES ($1, $2)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, tag.ID, tag.Name)
	} else {
		_, err = r.db.ExecContext(ctx, query, tag.ID, tag.Name)
	}
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("tag with this name already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgTagRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTagRepository) FindOrCreate(ctx context.Context, tx *sql.Tx, name string) (*model.Tag, error) {
	tag, err := r.FindByName(ctx, tx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	tag = &model.Tag{ID: uuid.NewString(), Name: name}
	if err := r.Create(ctx, tx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *pgTagRepository) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("pgTagRepository.List query: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("pgTagRepository.List scan: %w", err)
		}
		tags = append(tags, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTagRepository.List rows.Err: %w", err)
	}
	return tags, nil
}
