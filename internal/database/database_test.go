package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbin-backend/internal/models"
)

var binColumns = []string{
	"bin_id", "latitude", "longitude", "address", "area", "level", "distance",
	"capacity", "waste_type", "status", "sensor_status", "last_updated", "last_collected",
	"sensor_raw_distance", "sensor_level", "sensor_timestamp", "sensor_battery", "sensor_signal",
	"collection_schedule", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewStore(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func binRow(id string, level int, distance interface{}) []driver.Value {
	return []driver.Value{
		id, 6.8519, 79.8774, "Auto-created bin " + id, "Auto-detected", level, distance,
		240, "general", "active", "active", int64(1700000000), nil,
		distance, level, int64(1700000000000), nil, nil,
		"Daily 6:00 AM", int64(1700000000), int64(1700000000),
	}
}

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError("op", errors.New("dial tcp: connection refused")), ErrStoreUnavailable)
	assert.ErrorIs(t, mapError("op", &pq.Error{Code: "23505"}), ErrConflict)
	assert.Nil(t, mapError("op", nil))

	syntax := mapError("op", &pq.Error{Code: "42601"})
	assert.False(t, errors.Is(syntax, ErrStoreUnavailable))
	assert.False(t, errors.Is(syntax, ErrConflict))
}

func TestOfflineStore(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	_, err := store.ListActiveBins(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = store.UpsertSensorReading(ctx, models.SensorReading{BinID: "A"}, models.Location{}, time.Now())
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.False(t, store.Healthy())
	assert.NoError(t, store.Close())
}

func TestUpsertSensorReading(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Unix(1700000000, 0)
	reading := models.SensorReading{
		BinID:        "DHW009",
		Level:        73,
		Distance:     12.5,
		Timestamp:    1700000000000,
		SensorStatus: models.SensorStatusActive,
	}

	mock.ExpectQuery("INSERT INTO bins .* ON CONFLICT \\(bin_id\\) DO UPDATE SET .* RETURNING \\*").
		WithArgs(
			"DHW009", 6.8519, 79.8774, "Auto-created bin DHW009", "Auto-detected",
			73, 12.5, 240, "general", "active", "active", int64(1700000000),
			12.5, 73, int64(1700000000000), nil, nil, "Daily 6:00 AM",
		).
		WillReturnRows(sqlmock.NewRows(binColumns).AddRow(binRow("DHW009", 73, 12.5)...))

	bin, err := store.UpsertSensorReading(context.Background(), reading,
		models.Location{Latitude: 6.8519, Longitude: 79.8774}, now)
	require.NoError(t, err)
	assert.Equal(t, "DHW009", bin.BinID)
	assert.Equal(t, 73, bin.Level)
	require.NotNil(t, bin.Distance)
	assert.Equal(t, 12.5, *bin.Distance)
	assert.Equal(t, models.AutoDetectedArea, bin.Area)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSensorReadingUnavailable(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO bins").WillReturnError(errors.New("connection reset by peer"))

	_, err := store.UpsertSensorReading(context.Background(),
		models.SensorReading{BinID: "X", Level: 10}, models.Location{}, time.Now())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestGetBinNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM bins WHERE bin_id = \\$1").
		WithArgs("DHW404").
		WillReturnRows(sqlmock.NewRows(binColumns))

	_, err := store.GetBin(context.Background(), " dhw404 ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListActiveBins(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM bins WHERE status = \\$1 ORDER BY bin_id").
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows(binColumns).
			AddRow(binRow("DHW001", 85, nil)...).
			AddRow(binRow("DHW002", 45, 30.0)...))

	bins, err := store.ListActiveBins(context.Background())
	require.NoError(t, err)
	require.Len(t, bins, 2)
	assert.Nil(t, bins[0].Distance)
	assert.Equal(t, 45, bins[1].Level)
}

func TestCreateBinConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO bins").WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.CreateBin(context.Background(), SampleBins(time.Now())[0])
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMarkBinCollected(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Unix(1700000500, 0)

	row := binRow("DHW001", 0, nil)
	row[12] = int64(1700000500)
	mock.ExpectQuery("UPDATE bins\\s+SET level = 0, last_collected = \\$2").
		WithArgs("DHW001", int64(1700000500)).
		WillReturnRows(sqlmock.NewRows(binColumns).AddRow(row...))

	bin, err := store.MarkBinCollected(context.Background(), "dhw001", now)
	require.NoError(t, err)
	assert.Equal(t, 0, bin.Level)
	require.NotNil(t, bin.LastCollected)
	assert.Equal(t, int64(1700000500), *bin.LastCollected)
}
