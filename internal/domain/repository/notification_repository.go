package repository

import (
	"context"
	"database/sql"
	"fmt"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type pgNotificationRepository struct {
	db *sql.DB
}

func NewPgNotificationRepository(db *sql.DB) NotificationRepository {
	return &pgNotificationRepository{db: db}
}

func (r *pgNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `INSERT INTO notifications (id, user_id, type, message, link, exercise_id, answer_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		n.ID, n.UserID, n.Type, n.Message, n.Link, n.ExerciseID, n.AnswerID,
	).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.Create: %w", err)
	}
	return nil
}

func (r *pgNotificationRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	query := `SELECT id, user_id, type, message, link, is_read, exercise_id, answer_id, created_at
	          FROM notifications WHERE user_id = $1
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgNotificationRepository.ListByUserID query: %w", err)
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Link, &n.IsRead, &n.ExerciseID, &n.AnswerID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgNotificationRepository.ListByUserID scan: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgNotificationRepository.ListByUserID rows.Err: %w", err)
	}
	return notifications, nil
}

func (r *pgNotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.UnreadCount: %w", err)
	}
	return count, nil
}

func (r *pgNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.MarkRead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID,
	)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.MarkAllRead: %w", err)
	}
	return nil
}
