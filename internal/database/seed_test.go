package database

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleBins(t *testing.T) {
	bins := SampleBins(time.Now())
	require.Len(t, bins, 5)
	assert.Equal(t, "DHW001", bins[0].BinID)
	assert.Equal(t, 85, bins[0].Level)
	assert.Equal(t, "Primary School", bins[4].Area)
}

func TestSeedSkipsExistingData(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id FROM users WHERE user_type = 'admin'").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("admin-1"))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bins").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notices").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	summary, err := store.Seed(context.Background(), AdminAccount{Email: "a@b.c", Password: "x", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, SeedSummary{AdminID: "admin-1"}, summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedEmptyDatabase(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id FROM users WHERE user_type = 'admin'").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bins").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for i := 0; i < 5; i++ {
		mock.ExpectExec("INSERT INTO bins").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notices").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO notices").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notices").WillReturnResult(sqlmock.NewResult(0, 1))

	summary, err := store.Seed(context.Background(), AdminAccount{Email: "Admin@DHMC.lk", Password: "secret", Name: "System Admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, summary.AdminID)
	assert.Equal(t, 5, summary.Bins)
	assert.Equal(t, 2, summary.Notices)
	assert.NoError(t, mock.ExpectationsWereMet())
}
