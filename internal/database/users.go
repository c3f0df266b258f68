package database

import (
	"context"
	"time"

	"smartbin-backend/internal/models"
)

// GetUserByEmail looks a user up by normalized email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	db, err := s.conn()
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, models.NormalizeEmail(email)); err != nil {
		return models.User{}, mapError("get user", err)
	}
	return user, nil
}

// CreateUser inserts a user. Returns ErrConflict when the email is taken.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	db, err := s.conn()
	if err != nil {
		return models.User{}, err
	}

	query := `
		INSERT INTO users (id, email, password, name, user_type, created_at, updated_at)
		VALUES (:id, :email, :password, :name, :user_type, :created_at, :updated_at)`
	if _, err := db.NamedExecContext(ctx, query, user); err != nil {
		return models.User{}, mapError("create user", err)
	}
	return user, nil
}

// UpsertFCMToken registers a device token, moving it to userID if it was already known
func (s *Store) UpsertFCMToken(ctx context.Context, userID, token, deviceType string, now time.Time) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	query := `INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $4)
			  ON CONFLICT(token) DO UPDATE SET
				  user_id = excluded.user_id,
				  device_type = excluded.device_type,
				  updated_at = excluded.updated_at`
	_, err = db.ExecContext(ctx, query, userID, token, deviceType, now.Unix())
	return mapError("upsert fcm token", err)
}

// ListFCMTokensByUserType returns the device tokens of every user of the given type
func (s *Store) ListFCMTokensByUserType(ctx context.Context, userType string) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	tokens := []string{}
	query := `
		SELECT t.token FROM fcm_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE u.user_type = $1
		ORDER BY t.updated_at DESC`
	if err := db.SelectContext(ctx, &tokens, query, userType); err != nil {
		return nil, mapError("list fcm tokens", err)
	}
	return tokens, nil
}
