package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbin-backend/internal/models"
)

// scriptedBins returns the queued snapshots in order, then repeats the last one
type scriptedBins struct {
	mu    sync.Mutex
	steps []func() ([]models.BinResponse, error)
}

func (s *scriptedBins) fetch(ctx context.Context) ([]models.BinResponse, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := s.steps[0]
	if len(s.steps) > 1 {
		s.steps = s.steps[1:]
	}
	bins, err := step()
	return bins, "api", err
}

func levels(levels map[string]int) func() ([]models.BinResponse, error) {
	return func() ([]models.BinResponse, error) {
		bins := make([]models.BinResponse, 0, len(levels))
		for id, level := range levels {
			bins = append(bins, models.BinResponse{BinID: id, Level: level, SensorStatus: models.SensorStatusActive})
		}
		return bins, nil
	}
}

func failing() ([]models.BinResponse, error) {
	return nil, errors.New("network down")
}

func TestSnapshot_KeepsLastGoodValue(t *testing.T) {
	src := &scriptedBins{steps: []func() ([]models.BinResponse, error){levels(map[string]int{"A": 10}), failing}}
	snap := NewSnapshot(src.fetch)

	_, _, ok := snap.Get()
	assert.False(t, ok)

	bins, ok, err := snap.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, bins, 1)
	assert.Equal(t, "api", snap.Source())

	bins, ok, err = snap.Refresh(context.Background())
	assert.Error(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, bins[0].Level)
	assert.Error(t, snap.Err())

	snap.Invalidate()
	_, _, ok = snap.Get()
	assert.False(t, ok)
}

func TestPollBins_RaisesAlertsOnCrossing(t *testing.T) {
	src := &scriptedBins{steps: []func() ([]models.BinResponse, error){
		levels(map[string]int{"A": 85, "B": 40}),
		levels(map[string]int{"A": 96, "B": 45}),
		levels(map[string]int{"A": 97, "B": 45}),
	}}

	var raised []models.Alert
	m := New(src.fetch, nil, Options{OnAlert: func(a models.Alert) { raised = append(raised, a) }})

	assert.Empty(t, m.PollBins(context.Background()))

	alerts := m.PollBins(context.Background())
	require.Len(t, alerts, 2)
	assert.Equal(t, models.AlertCriticalFull, alerts[0].Kind)
	assert.Equal(t, models.AlertEmergency, alerts[1].Kind)
	assert.Len(t, raised, 2)

	// already above both thresholds
	assert.Empty(t, m.PollBins(context.Background()))
	assert.Equal(t, 2, m.Alerts().Count())
}

func TestPollBins_FailureKeepsSnapshotAndRaisesNothing(t *testing.T) {
	src := &scriptedBins{steps: []func() ([]models.BinResponse, error){
		levels(map[string]int{"A": 85}),
		failing,
		levels(map[string]int{"A": 92}),
	}}
	m := New(src.fetch, nil, Options{})

	m.PollBins(context.Background())
	assert.Empty(t, m.PollBins(context.Background()))

	bins, _, ok := m.Bins()
	require.True(t, ok)
	assert.Equal(t, 85, bins[0].Level)

	// the diff is against the last good snapshot
	alerts := m.PollBins(context.Background())
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertCriticalFull, alerts[0].Kind)
}

func TestMonitor_StartStop(t *testing.T) {
	var mu sync.Mutex
	polls := 0
	fetch := func(ctx context.Context) ([]models.BinResponse, string, error) {
		mu.Lock()
		polls++
		mu.Unlock()
		return []models.BinResponse{}, "api", nil
	}
	reports := func(ctx context.Context) ([]models.ReportResponse, string, error) {
		return []models.ReportResponse{{ID: "r1"}}, "api", nil
	}

	m := New(fetch, reports, Options{BinInterval: 10 * time.Millisecond, ReportInterval: 10 * time.Millisecond})
	m.Start(context.Background())
	m.Start(context.Background())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return polls >= 3
	}, time.Second, 5*time.Millisecond)

	m.Stop()
	m.Stop()

	mu.Lock()
	after := polls
	mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, after, polls)
	mu.Unlock()

	got, _, ok := m.Reports()
	require.True(t, ok)
	assert.Equal(t, "r1", got[0].ID)
}
