package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbin-backend/internal/models"
)

func newTestFeed(capacity int, ttl time.Duration) (*AlertFeed, *time.Time) {
	now := time.Unix(1700000000, 0)
	feed := NewAlertFeed(capacity, ttl)
	feed.now = func() time.Time { return now }
	return feed, &now
}

func TestAlertFeed_KeepsMostRecent(t *testing.T) {
	feed, _ := newTestFeed(DefaultFeedCapacity, DefaultAlertTTL)
	for i := 0; i < 12; i++ {
		feed.Add(models.Alert{ID: fmt.Sprintf("a%d", i)})
	}

	alerts := feed.List()
	require.Len(t, alerts, 10)
	assert.Equal(t, "a11", alerts[0].ID)
	assert.Equal(t, "a2", alerts[9].ID)
	assert.Equal(t, 12, feed.Count())
}

func TestAlertFeed_Expiry(t *testing.T) {
	feed, now := newTestFeed(10, 30*time.Second)
	feed.Add(models.Alert{ID: "old"})
	*now = now.Add(20 * time.Second)
	feed.Add(models.Alert{ID: "new"})

	*now = now.Add(10 * time.Second)
	alerts := feed.List()
	require.Len(t, alerts, 1)
	assert.Equal(t, "new", alerts[0].ID)

	*now = now.Add(20 * time.Second)
	assert.Empty(t, feed.List())
	assert.Equal(t, 2, feed.Count())
}

func TestAlertFeed_Dismiss(t *testing.T) {
	feed, _ := newTestFeed(10, time.Minute)
	feed.Add(
		models.Alert{ID: "A_1", Kind: models.AlertCriticalFull},
		models.Alert{ID: "A_1", Kind: models.AlertEmergency},
		models.Alert{ID: "B_1"},
	)

	assert.True(t, feed.Dismiss("A_1"))
	assert.False(t, feed.Dismiss("A_1"))

	alerts := feed.List()
	require.Len(t, alerts, 1)
	assert.Equal(t, "B_1", alerts[0].ID)
	assert.Equal(t, 3, feed.Count())
}
