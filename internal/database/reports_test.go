package database

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbin-backend/internal/models"
)

var reportColumns = []string{
	"id", "report_type", "description", "latitude", "longitude", "address", "bin_id",
	"reported_by", "status", "priority", "resolved_by", "resolved_at", "resolution_notes",
	"created_at", "updated_at",
}

func TestCreateReport(t *testing.T) {
	store, mock := newMockStore(t)

	report, err := models.CreateReportRequest{
		ReportType:  "bin_full",
		Description: "Overflowing near the bus stand",
		BinID:       "dhw002",
	}.ToReport("r-1", time.Unix(1700000000, 0))
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO reports").WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := store.CreateReport(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "r-1", created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReportsByStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM reports WHERE status = \\$1 ORDER BY created_at DESC").
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows(reportColumns).
			AddRow("r-2", "other", "b", nil, nil, nil, nil, nil, "pending", "medium", nil, nil, nil, int64(20), int64(20)).
			AddRow("r-1", "other", "a", nil, nil, nil, nil, nil, "pending", "medium", nil, nil, nil, int64(10), int64(10)))

	reports, err := store.ListReports(context.Background(), "pending")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "r-2", reports[0].ID)
}

func TestResolveReport(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Unix(1700000100, 0)
	notes := "Collected"

	mock.ExpectQuery("UPDATE reports\\s+SET status = \\$2, resolved_by = \\$3").
		WithArgs("r-1", "resolved", "officer-7", int64(1700000100), &notes).
		WillReturnRows(sqlmock.NewRows(reportColumns).
			AddRow("r-1", "bin_full", "a", nil, nil, nil, "DHW001", nil, "resolved", "medium",
				"officer-7", int64(1700000100), "Collected", int64(10), int64(1700000100)))

	report, err := store.ResolveReport(context.Background(), "r-1", "officer-7", &notes, now)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, report.Status)
	require.NotNil(t, report.ResolvedBy)
	assert.Equal(t, "officer-7", *report.ResolvedBy)
	require.NotNil(t, report.ResolvedAt)
}

func TestResolveReportNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("UPDATE reports").WillReturnRows(sqlmock.NewRows(reportColumns))

	_, err := store.ResolveReport(context.Background(), "missing", "x", nil, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportStats(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT\\s+COUNT\\(\\*\\) AS total").
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "resolved"}).AddRow(7, 3, 2))

	stats, err := store.ReportStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ReportStats{Total: 7, Pending: 3, Resolved: 2}, stats)
}
