package monitor

import (
	"sync"
	"time"

	"smartbin-backend/internal/models"
)

const (
	DefaultFeedCapacity = 10
	DefaultAlertTTL     = 30 * time.Second
)

type feedEntry struct {
	alert     models.Alert
	expiresAt time.Time
}

// AlertFeed keeps the most recent alerts, newest first. Each alert drops out
// after its TTL unless dismissed earlier.
type AlertFeed struct {
	mu       sync.Mutex
	entries  []feedEntry
	capacity int
	ttl      time.Duration
	total    int
	now      func() time.Time
}

func NewAlertFeed(capacity int, ttl time.Duration) *AlertFeed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	if ttl <= 0 {
		ttl = DefaultAlertTTL
	}
	return &AlertFeed{capacity: capacity, ttl: ttl, now: time.Now}
}

// Add records alerts in the order given; the last one ends up first
func (f *AlertFeed) Add(alerts ...models.Alert) {
	if len(alerts) == 0 {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	for _, alert := range alerts {
		f.entries = append([]feedEntry{{alert: alert, expiresAt: now.Add(f.ttl)}}, f.entries...)
		f.total++
	}
	if len(f.entries) > f.capacity {
		f.entries = f.entries[:f.capacity]
	}
}

// List returns the alerts that have not expired, newest first
func (f *AlertFeed) List() []models.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pruneLocked()
	alerts := make([]models.Alert, len(f.entries))
	for i, e := range f.entries {
		alerts[i] = e.alert
	}
	return alerts
}

// Dismiss removes every alert with the given id. Returns false if none matched.
func (f *AlertFeed) Dismiss(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.entries[:0]
	removed := false
	for _, e := range f.entries {
		if e.alert.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return removed
}

// Count is the number of alerts ever added
func (f *AlertFeed) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

func (f *AlertFeed) pruneLocked() {
	now := f.now()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if now.Before(e.expiresAt) {
			kept = append(kept, e)
		}
	}
	f.entries = kept
}
