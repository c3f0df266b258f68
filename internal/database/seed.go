package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"smartbin-backend/internal/models"
)

// SampleBins returns the Dehiwala demo bins. They seed an empty database and
// are served by the read endpoints while the database is offline.
func SampleBins(now time.Time) []models.Bin {
	type sample struct {
		id       string
		lat, lng float64
		place    string
		level    int
	}
	samples := []sample{
		{"DHW001", 6.8519, 79.8774, "Dehiwala Center", 85},
		{"DHW002", 6.8500, 79.8800, "Bus Station", 45},
		{"DHW003", 6.8540, 79.8750, "Market Place", 90},
		{"DHW004", 6.8560, 79.8720, "Sports Ground", 25},
		{"DHW005", 6.8530, 79.8790, "Primary School", 30},
	}

	bins := make([]models.Bin, 0, len(samples))
	for _, s := range samples {
		bins = append(bins, models.Bin{
			BinID:              s.id,
			Latitude:           s.lat,
			Longitude:          s.lng,
			Address:            s.place,
			Area:               s.place,
			Level:              s.level,
			Capacity:           models.DefaultCapacityLiters,
			WasteType:          string(models.WasteGeneral),
			Status:             models.BinStatusActive,
			SensorStatus:       models.SensorStatusActive,
			LastUpdated:        now.Unix(),
			CollectionSchedule: models.DefaultCollectionSchedule,
			CreatedAt:          now.Unix(),
			UpdatedAt:          now.Unix(),
		})
	}
	return bins
}

// SampleNotices returns the notices published on first boot
func SampleNotices(createdBy string, now time.Time) []models.Notice {
	return []models.Notice{
		{
			ID:             uuid.New().String(),
			Title:          "Garbage Collection Schedule",
			Content:        "Monday to Wednesday: 6:00 PM collection time",
			Priority:       models.PriorityHigh,
			Type:           models.NoticeSchedule,
			CreatedBy:      createdBy,
			Status:         models.NoticeStatusActive,
			TargetAudience: models.AudienceAll,
			CreatedAt:      now.Unix(),
			UpdatedAt:      now.Unix(),
		},
		{
			ID:             uuid.New().String(),
			Title:          "New Bins Installation",
			Content:        "10 new waste bins have been installed in Dehiwala area",
			Priority:       models.PriorityMedium,
			Type:           models.NoticeAnnouncement,
			CreatedBy:      createdBy,
			Status:         models.NoticeStatusActive,
			TargetAudience: models.AudienceAll,
			CreatedAt:      now.Unix(),
			UpdatedAt:      now.Unix(),
		},
	}
}

// SystemNotice is shown when notices cannot be loaded at all
func SystemNotice(now time.Time) models.Notice {
	return models.Notice{
		ID:             "system",
		Title:          "Service Notice",
		Content:        "Live notices are temporarily unavailable. Please check back shortly.",
		Priority:       models.PriorityMedium,
		Type:           models.NoticeGeneral,
		CreatedBy:      "system",
		Status:         models.NoticeStatusActive,
		TargetAudience: models.AudienceAll,
		CreatedAt:      now.Unix(),
		UpdatedAt:      now.Unix(),
	}
}

// AdminAccount describes the bootstrap administrator
type AdminAccount struct {
	Email    string
	Password string
	Name     string
}

// SeedAdmin creates the bootstrap admin if no admin exists and returns its id
func (s *Store) SeedAdmin(ctx context.Context, account AdminAccount) (string, error) {
	db, err := s.conn()
	if err != nil {
		return "", err
	}

	var existing string
	err = db.GetContext(ctx, &existing, `SELECT id FROM users WHERE user_type = 'admin' ORDER BY created_at LIMIT 1`)
	if err == nil {
		log.Println("✓ Admin user already exists, skipping...")
		return existing, nil
	}
	if mapped := mapError("find admin", err); !errors.Is(mapped, ErrNotFound) {
		return "", mapped
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now()
	admin := models.User{
		ID:        uuid.New().String(),
		Email:     models.NormalizeEmail(account.Email),
		Password:  string(hash),
		Name:      account.Name,
		UserType:  models.UserTypeAdmin,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}
	if _, err := s.CreateUser(ctx, admin); err != nil {
		return "", err
	}

	log.Printf("✓ Created default admin: %s", admin.Email)
	return admin.ID, nil
}

// SeedBins inserts the sample bins into an empty bins table
func (s *Store) SeedBins(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM bins"); err != nil {
		return 0, mapError("count bins", err)
	}
	if count > 0 {
		log.Println("✓ Bins already seeded, skipping...")
		return 0, nil
	}

	bins := SampleBins(time.Now())
	log.Printf("🌱 Seeding %d bins...", len(bins))
	for _, bin := range bins {
		if _, err := s.CreateBin(ctx, bin); err != nil {
			return 0, err
		}
	}

	log.Printf("✓ Successfully seeded %d bins", len(bins))
	return len(bins), nil
}

// SeedNotices inserts the sample notices into an empty notices table
func (s *Store) SeedNotices(ctx context.Context, adminID string) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM notices"); err != nil {
		return 0, mapError("count notices", err)
	}
	if count > 0 {
		log.Println("✓ Notices already seeded, skipping...")
		return 0, nil
	}

	notices := SampleNotices(adminID, time.Now())
	for _, notice := range notices {
		if _, err := s.CreateNotice(ctx, notice); err != nil {
			return 0, err
		}
	}

	log.Printf("✓ Successfully seeded %d notices", len(notices))
	return len(notices), nil
}

// SeedSummary reports what Seed inserted
type SeedSummary struct {
	AdminID string
	Bins    int
	Notices int
}

// Seed bootstraps an empty database: admin account, sample bins, sample notices
func (s *Store) Seed(ctx context.Context, account AdminAccount) (SeedSummary, error) {
	var summary SeedSummary

	adminID, err := s.SeedAdmin(ctx, account)
	if err != nil {
		return summary, fmt.Errorf("seed admin: %w", err)
	}
	summary.AdminID = adminID

	if summary.Bins, err = s.SeedBins(ctx); err != nil {
		return summary, fmt.Errorf("seed bins: %w", err)
	}
	if summary.Notices, err = s.SeedNotices(ctx, adminID); err != nil {
		return summary, fmt.Errorf("seed notices: %w", err)
	}
	return summary, nil
}
