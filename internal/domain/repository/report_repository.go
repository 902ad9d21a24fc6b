package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id string) (*model.Report, error)
	ListByStatus(ctx context.Context, status model.ReportStatus, limit, offset int) ([]model.Report, int, error)
	UpdateStatus(ctx context.Context, id string, status model.ReportStatus) error
}

type pgReportRepository struct {
	db *sql.DB
}

func NewPgReportRepository(db *sql.DB) ReportRepository {
	return &pgReportRepository{db: db}
}

func (r *pgReportRepository) Create(ctx context.Context, rep *model.Report) error {
	query := `INSERT INTO reports (id, reporter_id, target_type, target_id, exercise_id, reason, details, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		rep.ID, rep.ReporterID, rep.TargetType, rep.TargetID, rep.ExerciseID, rep.Reason, rep.Details, rep.Status,
	).Scan(&rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgReportRepository.Create: %w", err)
	}
	return nil
}

const reportSelect = `
	SELECT r.id, r.reporter_id, u.username, r.target_type, r.target_id, r.exercise_id,
	       r.reason, r.details, r.status, r.created_at, r.updated_at
	FROM reports r
	LEFT JOIN users u ON r.reporter_id = u.id`

func scanReport(scanner interface{ Scan(...interface{}) error }) (*model.Report, error) {
	rep := &model.Report{}
	err := scanner.Scan(
		&rep.ID, &rep.ReporterID, &rep.ReporterUsername, &rep.TargetType, &rep.TargetID, &rep.ExerciseID,
		&rep.Reason, &rep.Details, &rep.Status, &rep.CreatedAt, &rep.UpdatedAt,
	)
	return rep, err
}

func (r *pgReportRepository) FindByID(ctx context.Context, id string) (*model.Report, error) {
	rep, err := scanReport(r.db.QueryRowContext(ctx, reportSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgReportRepository.FindByID: %w", err)
	}
	return rep, nil
}

func (r *pgReportRepository) ListByStatus(ctx context.Context, status model.ReportStatus, limit, offset int) ([]model.Report, int, error) {
	whereClause := ""
	var args []interface{}
	argID := 1
	if status != "" {
		whereClause = fmt.Sprintf(" WHERE r.status = $%d", argID)
		args = append(args, status)
		argID++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM reports r` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgReportRepository.ListByStatus count: %w", err)
	}

	query := reportSelect + whereClause +
		fmt.Sprintf(" ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgReportRepository.ListByStatus query: %w", err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgReportRepository.ListByStatus scan: %w", err)
		}
		reports = append(reports, *rep)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgReportRepository.ListByStatus rows.Err: %w", err)
	}
	return reports, total, nil
}

func (r *pgReportRepository) UpdateStatus(ctx context.Context, id string, status model.ReportStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reports SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, status, id,
	)
	if err != nil {
		return fmt.Errorf("pgReportRepository.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
