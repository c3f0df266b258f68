package database

import (
	"context"
	"time"

	"smartbin-backend/internal/models"
)

// CreateReport inserts a new report
func (s *Store) CreateReport(ctx context.Context, report models.Report) (models.Report, error) {
	db, err := s.conn()
	if err != nil {
		return models.Report{}, err
	}

	query := `
		INSERT INTO reports (
			id, report_type, description, latitude, longitude, address, bin_id,
			reported_by, status, priority, created_at, updated_at
		)
		VALUES (:id, :report_type, :description, :latitude, :longitude, :address, :bin_id,
			:reported_by, :status, :priority, :created_at, :updated_at)`

	if _, err := db.NamedExecContext(ctx, query, report); err != nil {
		return models.Report{}, mapError("create report", err)
	}
	return report, nil
}

// ListReports returns reports newest first, optionally filtered by status
func (s *Store) ListReports(ctx context.Context, status string) ([]models.Report, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	reports := []models.Report{}
	if status != "" {
		err = db.SelectContext(ctx, &reports,
			`SELECT * FROM reports WHERE status = $1 ORDER BY created_at DESC`, status)
	} else {
		err = db.SelectContext(ctx, &reports, `SELECT * FROM reports ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, mapError("list reports", err)
	}
	return reports, nil
}

// ResolveReport marks a report resolved. Resolving an already resolved report
// overwrites resolvedBy, resolvedAt and the notes.
func (s *Store) ResolveReport(ctx context.Context, id, resolvedBy string, notes *string, now time.Time) (models.Report, error) {
	db, err := s.conn()
	if err != nil {
		return models.Report{}, err
	}

	var report models.Report
	query := `
		UPDATE reports
		SET status = $2, resolved_by = $3, resolved_at = $4, resolution_notes = $5, updated_at = $4
		WHERE id = $1
		RETURNING *`
	err = db.GetContext(ctx, &report, query, id, models.ReportStatusResolved, resolvedBy, now.Unix(), notes)
	if err != nil {
		return models.Report{}, mapError("resolve report", err)
	}
	return report, nil
}

// UpdateReportStatus moves a report to a non-resolved status and clears any resolution
func (s *Store) UpdateReportStatus(ctx context.Context, id, status string, now time.Time) (models.Report, error) {
	db, err := s.conn()
	if err != nil {
		return models.Report{}, err
	}

	var report models.Report
	query := `
		UPDATE reports
		SET status = $2, resolved_by = NULL, resolved_at = NULL, updated_at = $3
		WHERE id = $1
		RETURNING *`
	if err := db.GetContext(ctx, &report, query, id, status, now.Unix()); err != nil {
		return models.Report{}, mapError("update report status", err)
	}
	return report, nil
}

// ReportStats counts reports for the dashboard
func (s *Store) ReportStats(ctx context.Context) (models.ReportStats, error) {
	db, err := s.conn()
	if err != nil {
		return models.ReportStats{}, err
	}

	var stats struct {
		Total    int `db:"total"`
		Pending  int `db:"pending"`
		Resolved int `db:"resolved"`
	}
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'resolved') AS resolved
		FROM reports`
	if err := db.GetContext(ctx, &stats, query); err != nil {
		return models.ReportStats{}, mapError("report stats", err)
	}
	return models.ReportStats{Total: stats.Total, Pending: stats.Pending, Resolved: stats.Resolved}, nil
}
