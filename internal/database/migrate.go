package database

import (
	"context"
	"fmt"
	"log"
)

var migrations = []string{
	// Create users table
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL,
		user_type TEXT NOT NULL DEFAULT 'public' CHECK(user_type IN ('public', 'admin')),
		created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
		updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
	)`,

	// Create bins table. bin_id is the device identifier, stored upper-case.
	`CREATE TABLE IF NOT EXISTS bins (
		bin_id TEXT PRIMARY KEY,
		latitude DOUBLE PRECISION NOT NULL CHECK(latitude BETWEEN -90 AND 90),
		longitude DOUBLE PRECISION NOT NULL CHECK(longitude BETWEEN -180 AND 180),
		address TEXT NOT NULL,
		area TEXT NOT NULL,
		level INT NOT NULL DEFAULT 0 CHECK(level BETWEEN 0 AND 100),
		distance DOUBLE PRECISION CHECK(distance >= 0),
		capacity INT NOT NULL DEFAULT 240 CHECK(capacity >= 50),
		waste_type TEXT NOT NULL DEFAULT 'general' CHECK(waste_type IN ('general', 'recyclable', 'medical', 'organic')),
		status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive', 'maintenance')),
		sensor_status TEXT NOT NULL DEFAULT 'active' CHECK(sensor_status IN ('active', 'warning')),
		last_updated BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
		last_collected BIGINT,
		sensor_raw_distance DOUBLE PRECISION,
		sensor_level INT,
		sensor_timestamp BIGINT,
		sensor_battery DOUBLE PRECISION,
		sensor_signal DOUBLE PRECISION,
		collection_schedule TEXT NOT NULL DEFAULT 'Daily 6:00 AM',
		created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
		updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
	)`,

	// Create reports table. reported_by / resolved_by are free text, not user references.
	`CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		report_type TEXT NOT NULL CHECK(report_type IN ('bin_full', 'bin_damaged', 'unsanitary_condition', 'missing_bin', 'collection_missed', 'illegal_dumping', 'other')),
		description TEXT NOT NULL CHECK(char_length(description) <= 500),
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		address TEXT,
		bin_id TEXT,
		reported_by TEXT,
		status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'in_progress', 'resolved', 'rejected')),
		priority TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high', 'critical')),
		resolved_by TEXT,
		resolved_at BIGINT,
		resolution_notes TEXT,
		created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
		updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
	)`,

	// Create notices table
	`CREATE TABLE IF NOT EXISTS notices (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL CHECK(char_length(title) <= 100),
		content TEXT NOT NULL CHECK(char_length(content) <= 1000),
		priority TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high', 'urgent')),
		type TEXT NOT NULL DEFAULT 'general' CHECK(type IN ('announcement', 'schedule', 'alert', 'maintenance', 'general')),
		created_by TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive', 'expired')),
		expires_at BIGINT,
		target_audience TEXT NOT NULL DEFAULT 'all' CHECK(target_audience IN ('all', 'public', 'collectors', 'admins')),
		created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
		updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
	)`,

	// Create FCM tokens table
	`CREATE TABLE IF NOT EXISTS fcm_tokens (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
		created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
		updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,

	// Create indexes
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_bins_status ON bins(status)`,
	`CREATE INDEX IF NOT EXISTS idx_bins_level ON bins(level)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notices_status ON notices(status)`,
	`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
}

// Migrate creates the schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Printf("✓ Applied %d migrations", len(migrations))
	return nil
}
