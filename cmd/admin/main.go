package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"smartbin-backend/internal/database"
	"smartbin-backend/internal/models"
)

var (
	email    string
	name     string
	password string
)

// Creates an administrator account.
//
//	go run ./cmd/admin --email ops@dhmc.lk --name "Ops" --password '...'
var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return createAdmin(cmd.Context())
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	rootCmd.Flags().StringVar(&email, "email", "", "admin email")
	rootCmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	rootCmd.Flags().StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "password (defaults to $ADMIN_PASSWORD)")
	rootCmd.MarkFlagRequired("email")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func createAdmin(ctx context.Context) error {
	req := models.RegisterRequest{Email: email, Password: password, Name: name}
	if err := req.Validate(); err != nil {
		return err
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return errors.New("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	store := database.NewStore(db)
	defer store.Close()

	log.Println("🔌 Connected to database")

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	user, err := store.CreateUser(ctx, models.User{
		ID:        uuid.New().String(),
		Email:     req.Email,
		Password:  string(hash),
		Name:      req.Name,
		UserType:  models.UserTypeAdmin,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	})
	if errors.Is(err, database.ErrConflict) {
		log.Printf("⚠️  User already exists: %s", req.Email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", req.Email, err)
	}

	log.Printf("✅ Created admin user: %s", user.Email)
	return nil
}
