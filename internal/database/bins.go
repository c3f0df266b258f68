package database

import (
	"context"
	"fmt"
	"time"

	"smartbin-backend/internal/models"
)

const upsertSensorReadingQuery = `
	INSERT INTO bins (
		bin_id, latitude, longitude, address, area, level, distance,
		capacity, waste_type, status, sensor_status, last_updated,
		sensor_raw_distance, sensor_level, sensor_timestamp, sensor_battery, sensor_signal,
		collection_schedule, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $12, $12)
	ON CONFLICT (bin_id) DO UPDATE SET
		level = EXCLUDED.level,
		distance = EXCLUDED.distance,
		sensor_status = EXCLUDED.sensor_status,
		last_updated = EXCLUDED.last_updated,
		sensor_raw_distance = EXCLUDED.sensor_raw_distance,
		sensor_level = EXCLUDED.sensor_level,
		sensor_timestamp = EXCLUDED.sensor_timestamp,
		sensor_battery = EXCLUDED.sensor_battery,
		sensor_signal = EXCLUDED.sensor_signal,
		updated_at = EXCLUDED.updated_at
	RETURNING *`

// UpsertSensorReading writes a sensor sample in a single statement.
// Unknown bins are created at the placeholder location.
func (s *Store) UpsertSensorReading(ctx context.Context, reading models.SensorReading, placeholder models.Location, now time.Time) (models.Bin, error) {
	db, err := s.conn()
	if err != nil {
		return models.Bin{}, err
	}

	var bin models.Bin
	err = db.GetContext(ctx, &bin, upsertSensorReadingQuery,
		reading.BinID,
		placeholder.Latitude,
		placeholder.Longitude,
		fmt.Sprintf("Auto-created bin %s", reading.BinID),
		models.AutoDetectedArea,
		reading.Level,
		reading.Distance,
		models.DefaultCapacityLiters,
		string(models.WasteGeneral),
		models.BinStatusActive,
		reading.SensorStatus,
		now.Unix(),
		reading.Distance,
		reading.Level,
		reading.Timestamp,
		reading.BatteryLevel,
		reading.SignalStrength,
		models.DefaultCollectionSchedule,
	)
	if err != nil {
		return models.Bin{}, mapError("upsert sensor reading", err)
	}
	return bin, nil
}

// ListActiveBins returns every active bin ordered by id
func (s *Store) ListActiveBins(ctx context.Context) ([]models.Bin, error) {
	return s.listBins(ctx, `SELECT * FROM bins WHERE status = $1 ORDER BY bin_id`, models.BinStatusActive)
}

// ListAllBins returns every bin regardless of status
func (s *Store) ListAllBins(ctx context.Context) ([]models.Bin, error) {
	return s.listBins(ctx, `SELECT * FROM bins ORDER BY bin_id`)
}

func (s *Store) listBins(ctx context.Context, query string, args ...interface{}) ([]models.Bin, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	bins := []models.Bin{}
	if err := db.SelectContext(ctx, &bins, query, args...); err != nil {
		return nil, mapError("list bins", err)
	}
	return bins, nil
}

// GetBin returns a bin by id, or ErrNotFound
func (s *Store) GetBin(ctx context.Context, binID string) (models.Bin, error) {
	db, err := s.conn()
	if err != nil {
		return models.Bin{}, err
	}

	var bin models.Bin
	if err := db.GetContext(ctx, &bin, `SELECT * FROM bins WHERE bin_id = $1`, models.NormalizeBinID(binID)); err != nil {
		return models.Bin{}, mapError("get bin", err)
	}
	return bin, nil
}

// CreateBin inserts an admin-provisioned bin. Returns ErrConflict if the id exists.
func (s *Store) CreateBin(ctx context.Context, bin models.Bin) (models.Bin, error) {
	db, err := s.conn()
	if err != nil {
		return models.Bin{}, err
	}

	query := `
		INSERT INTO bins (
			bin_id, latitude, longitude, address, area, level, capacity, waste_type,
			status, sensor_status, last_updated, collection_schedule, created_at, updated_at
		)
		VALUES (:bin_id, :latitude, :longitude, :address, :area, :level, :capacity, :waste_type,
			:status, :sensor_status, :last_updated, :collection_schedule, :created_at, :updated_at)`

	if _, err := db.NamedExecContext(ctx, query, bin); err != nil {
		return models.Bin{}, mapError("create bin", err)
	}
	return bin, nil
}

// UpdateBinStatus changes the lifecycle status of a bin
func (s *Store) UpdateBinStatus(ctx context.Context, binID, status string, now time.Time) (models.Bin, error) {
	db, err := s.conn()
	if err != nil {
		return models.Bin{}, err
	}

	var bin models.Bin
	query := `UPDATE bins SET status = $2, updated_at = $3 WHERE bin_id = $1 RETURNING *`
	if err := db.GetContext(ctx, &bin, query, models.NormalizeBinID(binID), status, now.Unix()); err != nil {
		return models.Bin{}, mapError("update bin status", err)
	}
	return bin, nil
}

// MarkBinCollected records a collection and empties the bin
func (s *Store) MarkBinCollected(ctx context.Context, binID string, now time.Time) (models.Bin, error) {
	db, err := s.conn()
	if err != nil {
		return models.Bin{}, err
	}

	var bin models.Bin
	query := `
		UPDATE bins
		SET level = 0, last_collected = $2, last_updated = $2, updated_at = $2
		WHERE bin_id = $1
		RETURNING *`
	if err := db.GetContext(ctx, &bin, query, models.NormalizeBinID(binID), now.Unix()); err != nil {
		return models.Bin{}, mapError("mark bin collected", err)
	}
	return bin, nil
}
