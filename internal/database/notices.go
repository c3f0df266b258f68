package database

import (
	"context"
	"time"

	"smartbin-backend/internal/models"
)

// CreateNotice inserts a new notice
func (s *Store) CreateNotice(ctx context.Context, notice models.Notice) (models.Notice, error) {
	db, err := s.conn()
	if err != nil {
		return models.Notice{}, err
	}

	query := `
		INSERT INTO notices (
			id, title, content, priority, type, created_by, status, expires_at,
			target_audience, created_at, updated_at
		)
		VALUES (:id, :title, :content, :priority, :type, :created_by, :status, :expires_at,
			:target_audience, :created_at, :updated_at)`

	if _, err := db.NamedExecContext(ctx, query, notice); err != nil {
		return models.Notice{}, mapError("create notice", err)
	}
	return notice, nil
}

// ListActiveNotices returns notices visible at now, most severe first, then newest first
func (s *Store) ListActiveNotices(ctx context.Context, now time.Time) ([]models.Notice, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	notices := []models.Notice{}
	query := `
		SELECT * FROM notices
		WHERE status = 'active' AND (expires_at IS NULL OR expires_at > $1)
		ORDER BY
			CASE priority
				WHEN 'urgent' THEN 0
				WHEN 'high' THEN 1
				WHEN 'medium' THEN 2
				ELSE 3
			END,
			created_at DESC`
	if err := db.SelectContext(ctx, &notices, query, now.Unix()); err != nil {
		return nil, mapError("list notices", err)
	}
	// expiry is re-checked against the caller clock
	return models.ActiveNotices(notices, now), nil
}

// DeactivateNotice hides a notice without deleting it
func (s *Store) DeactivateNotice(ctx context.Context, id string, now time.Time) (models.Notice, error) {
	db, err := s.conn()
	if err != nil {
		return models.Notice{}, err
	}

	var notice models.Notice
	query := `UPDATE notices SET status = 'inactive', updated_at = $2 WHERE id = $1 RETURNING *`
	if err := db.GetContext(ctx, &notice, query, id, now.Unix()); err != nil {
		return models.Notice{}, mapError("deactivate notice", err)
	}
	return notice, nil
}

// ExpireNotices flips active notices whose expiry has passed to expired
func (s *Store) ExpireNotices(ctx context.Context, now time.Time) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE notices SET status = 'expired', updated_at = $1
		 WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= $1`, now.Unix())
	if err != nil {
		return 0, mapError("expire notices", err)
	}
	return result.RowsAffected()
}
