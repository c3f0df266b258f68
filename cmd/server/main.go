package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"smartbin-backend/internal/cache"
	"smartbin-backend/internal/config"
	"smartbin-backend/internal/database"
	"smartbin-backend/internal/services"
	"smartbin-backend/internal/websocket"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 SMART BIN BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: APP_JWT_SECRET environment variable is required")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal("APP_JWT_SECRET environment variable is required")
	}

	store := openStore(cfg)
	defer store.Close()

	appCache := cache.New(cfg.RedisURL, cfg.CacheTTL)
	defer appCache.Close()

	fcmService := initFCM(cfg)

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()
	log.Println("✅ WebSocket hub started")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runNoticeExpiry(ctx, store, appCache, time.Minute)

	router := newRouter(cfg, store, appCache, wsHub, fcmService)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("❌ Server shutdown error: %v", err)
		}
	}()

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Server failed to start")
		log.Printf("   Error: %v", err)
		log.Printf("   Port: %s", cfg.Port)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		os.Exit(1)
	}
}

// openStore connects, migrates and seeds the database. The server keeps running
// without a database: reads are served from cache or sample data and writes fail with 503.
func openStore(cfg *config.Config) *database.Store {
	if cfg.DatabaseURL == "" {
		log.Println("⚠️  DATABASE_URL not set - running in offline mode")
		return database.NewStore(nil)
	}

	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(cfg.DatabaseURL)
	if db == nil {
		log.Printf("⚠️  Database unavailable (%v) - running in offline mode", err)
		return database.NewStore(nil)
	}

	store := database.NewStore(db)
	store.StartHealthChecks(cfg.HealthCheckInterval)
	if err != nil {
		log.Println("⚠️  Skipping migrations until the database is reachable; restart to migrate")
		return store
	}
	log.Println("✅ Database connection established")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("🔄 Running database migrations...")
	if err := store.Migrate(ctx); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	log.Println("🌱 Seeding database with initial data...")
	summary, err := store.Seed(ctx, database.AdminAccount{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	})
	if err != nil {
		log.Printf("⚠️  Seeding failed: %v", err)
	} else {
		log.Printf("✅ Seed complete (bins: %d, notices: %d)", summary.Bins, summary.Notices)
	}

	return store
}

// initFCM supports both base64-encoded credentials (cloud deployments) and a file path.
// Push notifications are disabled when neither works.
func initFCM(cfg *config.Config) *services.FCMService {
	if cfg.FirebaseCredentialsBase64 != "" {
		fcmService, err := services.NewFCMServiceFromBase64(cfg.FirebaseCredentialsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			return nil
		}
		log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		return fcmService
	}

	if _, err := os.Stat(cfg.FirebaseCredentialsFile); err != nil {
		log.Printf("⚠️  Firebase credentials not found at %s (push notifications disabled)", cfg.FirebaseCredentialsFile)
		return nil
	}
	fcmService, err := services.NewFCMService(cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
		return nil
	}
	log.Println("✅ Firebase Cloud Messaging initialized from file")
	return fcmService
}

// runNoticeExpiry flips notices past their expiry to expired on a fixed interval
func runNoticeExpiry(ctx context.Context, store *database.Store, c cache.Cache, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !store.Healthy() {
				continue
			}
			expired, err := store.ExpireNotices(ctx, time.Now())
			if err != nil {
				log.Printf("⚠️  Notice expiry failed: %v", err)
				continue
			}
			if expired > 0 {
				log.Printf("🗓️  Expired %d notices", expired)
				if err := c.Delete(ctx, cache.KeyNotices); err != nil {
					log.Printf("⚠️  Failed to invalidate notices cache: %v", err)
				}
			}
		}
	}
}
