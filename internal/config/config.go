package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the API server
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DatabaseURL string

	// Auth
	JWTSecret string

	// Cache configuration. An empty RedisURL selects the in-process cache.
	RedisURL string
	CacheTTL time.Duration

	// Firebase credentials, base64 takes precedence over the file
	FirebaseCredentialsBase64 string
	FirebaseCredentialsFile   string

	// Google Maps key for reverse geocoding bins created without an address
	GoogleMapsAPIKey string

	// Depot, used as the placeholder location of auto-created bins and as the route start
	DepotLatitude  float64
	DepotLongitude float64

	// Default admin account created on first boot
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Health check interval for the database connection
	HealthCheckInterval time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("APP_JWT_SECRET", ""),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getDurationEnv("CACHE_TTL", 10*time.Minute),

		FirebaseCredentialsBase64: getEnv("FIREBASE_CREDENTIALS_BASE64", ""),
		FirebaseCredentialsFile:   getEnv("FIREBASE_CREDENTIALS_FILE", "./firebase-service-account.json"),

		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),

		DepotLatitude:  getFloatEnv("DEPOT_LATITUDE", 6.8519),
		DepotLongitude: getFloatEnv("DEPOT_LONGITUDE", 79.8774),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@dhmc.lk"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		AdminName:     getEnv("ADMIN_NAME", "System Admin"),

		HealthCheckInterval: getDurationEnv("DB_HEALTH_INTERVAL", 30*time.Second),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv gets a float environment variable or returns a default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
