package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"smartbin-backend/internal/client"
)

var (
	apiURL    string
	deviceURL string
	token     string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "binwatch",
	Short: "binwatch - smart bin monitoring from the terminal",
	Long: `binwatch polls the smart bin API, shows fill levels and collection routes,
and raises alerts when bins cross the critical thresholds.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", getEnv("BINWATCH_API_URL", "http://localhost:8080/api"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&deviceURL, "device", getEnv("BINWATCH_DEVICE_URL", ""), "sensor gateway URL used when the API is unreachable")
	rootCmd.PersistentFlags().StringVar(&token, "token", getEnv("BINWATCH_TOKEN", ""), "bearer token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newAPIClient() *client.Client {
	opts := []client.ClientOption{client.WithTimeout(timeout)}
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.NewClient(apiURL, opts...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
