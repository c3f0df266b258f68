package database

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// HealthChecker monitors the database connection in the background
type HealthChecker struct {
	db            *sqlx.DB
	checkInterval time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	mu            sync.RWMutex
	isHealthy     bool
	lastChecked   time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db *sqlx.DB, checkInterval time.Duration) *HealthChecker {
	return &HealthChecker{
		db:            db,
		checkInterval: checkInterval,
		stopChan:      make(chan struct{}),
		isHealthy:     db != nil,
	}
}

// StartHealthChecks attaches a health checker to the store and starts it
func (s *Store) StartHealthChecks(interval time.Duration) {
	s.health = NewHealthChecker(s.db, interval)
	s.health.Start()
}

// Healthy reports the last known state of the connection
func (s *Store) Healthy() bool {
	if s == nil || s.db == nil {
		return false
	}
	if s.health == nil {
		return true
	}
	return s.health.IsHealthy()
}

// Ping checks the connection right now
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return mapError("ping", db.PingContext(ctx))
}

// Start begins monitoring the database connection
func (chc *HealthChecker) Start() {
	if chc.db == nil {
		return
	}
	chc.checkConnection()

	ticker := time.NewTicker(chc.checkInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-chc.stopChan:
				return
			case <-ticker.C:
				chc.checkConnection()
			}
		}
	}()
}

// Stop stops monitoring the database connection
func (chc *HealthChecker) Stop() {
	chc.stopOnce.Do(func() { close(chc.stopChan) })
}

func (chc *HealthChecker) checkConnection() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := chc.db.PingContext(ctx)

	chc.mu.Lock()
	defer chc.mu.Unlock()

	chc.lastChecked = time.Now()
	if err != nil {
		if chc.isHealthy {
			log.Printf("❌ Database connection health check failed: %v", err)
		}
		chc.isHealthy = false
		return
	}
	if !chc.isHealthy {
		log.Println("✓ Database connection restored")
	}
	chc.isHealthy = true
}

// IsHealthy returns the current health status of the connection
func (chc *HealthChecker) IsHealthy() bool {
	chc.mu.RLock()
	defer chc.mu.RUnlock()
	return chc.isHealthy
}
