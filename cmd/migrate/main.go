package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"smartbin-backend/internal/config"
	"smartbin-backend/internal/database"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	store := database.NewStore(db)
	defer store.Close()

	log.Println("Connected to database successfully")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migration completed successfully!")

	seeded, err := store.Seed(ctx, database.AdminAccount{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	bins, err := store.ListAllBins(ctx)
	if err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}
	stats := services.SummarizeBins(models.ToBinResponses(bins))

	active := 0
	for _, bin := range bins {
		if bin.Status == models.BinStatusActive {
			active++
		}
	}

	// Display results
	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Bins seeded:             %d\n", seeded.Bins)
	fmt.Printf("Notices seeded:          %d\n", seeded.Notices)
	fmt.Printf("Total bins:              %d\n", stats.Total)
	fmt.Printf("Active bins:             %d\n", active)
	fmt.Printf("Full bins (>= %d%%):      %d\n", services.FullLevel, stats.Full)
	fmt.Printf("Average fill level:      %d%%\n", stats.AverageLevel)
	fmt.Println("============================================================")
}
