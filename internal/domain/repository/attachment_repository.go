package repository

import (
	"context"
	"database/sql"
	"fmt"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
)

type AttachmentRepository interface {
	Create(ctx context.Context, tx *sql.Tx, attachment *model.Attachment) error
	ListByExerciseID(ctx context.Context, exerciseID string) ([]model.Attachment, error)
	ListByAnswerID(ctx context.Context, answerID string) ([]model.Attachment, error)

	// Migration tool support.
	ListLocalLegacy(ctx context.Context, limit int) ([]model.Attachment, error)
	MarkHosted(ctx context.Context, id, publicID, url string, sizeBytes int64) error
}

type pgAttachmentRepository struct {
	db *sql.DB
}

func NewPgAttachmentRepository(db *sql.DB) AttachmentRepository {
	return &pgAttachmentRepository{db: db}
}

func (r *pgAttachmentRepository) Create(ctx context.Context, tx *sql.Tx, a *model.Attachment) error {
	query := `INSERT INTO attachments (id, exercise_id, answer_id, kind, url, public_id, size_bytes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, a.ID, a.ExerciseID, a.AnswerID, a.Kind, a.URL, a.PublicID, a.SizeBytes)
	} else {
		_, err = r.db.ExecContext(ctx, query, a.ID, a.ExerciseID, a.AnswerID, a.Kind, a.URL, a.PublicID, a.SizeBytes)
	}
	if err != nil {
		return fmt.Errorf("pgAttachmentRepository.Create: %w", err)
	}
	return nil
}

const attachmentColumns = `id, exercise_id, answer_id, kind, url, public_id, size_bytes, created_at`

func (r *pgAttachmentRepository) list(ctx context.Context, query, caller string, args ...interface{}) ([]model.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", caller, err)
	}
	defer rows.Close()

	attachments := []model.Attachment{}
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.ID, &a.ExerciseID, &a.AnswerID, &a.Kind, &a.URL, &a.PublicID, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s scan: %w", caller, err)
		}
		attachments = append(attachments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows.Err: %w", caller, err)
	}
	return attachments, nil
}

func (r *pgAttachmentRepository) ListByExerciseID(ctx context.Context, exerciseID string) ([]model.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE exercise_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, "pgAttachmentRepository.ListByExerciseID", exerciseID)
}

func (r *pgAttachmentRepository) ListByAnswerID(ctx context.Context, answerID string) ([]model.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE answer_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, "pgAttachmentRepository.ListByAnswerID", answerID)
}

func (r *pgAttachmentRepository) ListLocalLegacy(ctx context.Context, limit int) ([]model.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE kind = $1 ORDER BY created_at ASC LIMIT $2`
	return r.list(ctx, query, "pgAttachmentRepository.ListLocalLegacy", model.AttachmentLocalLegacy, limit)
}

func (r *pgAttachmentRepository) MarkHosted(ctx context.Context, id, publicID, url string, sizeBytes int64) error {
	query := `UPDATE attachments SET kind = $1, public_id = $2, url = $3, size_bytes = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, model.AttachmentHosted, publicID, url, sizeBytes, id)
	if err != nil {
		return fmt.Errorf("pgAttachmentRepository.MarkHosted: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
