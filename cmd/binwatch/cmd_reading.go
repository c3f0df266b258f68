package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"smartbin-backend/internal/models"
)

var readingCmd = &cobra.Command{
	Use:   "send-reading <bin-id>",
	Short: "Post a sensor reading as an ESP32 would",
	Args:  cobra.ExactArgs(1),
	RunE:  runSendReading,
}

var (
	readingLevel    float64
	readingDistance float64
	readingBattery  float64
)

func init() {
	rootCmd.AddCommand(readingCmd)
	readingCmd.Flags().Float64Var(&readingLevel, "level", 0, "fill level percent (0-100)")
	readingCmd.Flags().Float64Var(&readingDistance, "distance", 0, "ultrasonic distance in cm")
	readingCmd.Flags().Float64Var(&readingBattery, "battery", -1, "battery percent, omitted when negative")
	readingCmd.MarkFlagRequired("level")
	readingCmd.MarkFlagRequired("distance")
}

func runSendReading(cmd *cobra.Command, args []string) error {
	ts := time.Now().UnixMilli()
	reading := models.SensorReadingRequest{
		Level:     &readingLevel,
		Distance:  &readingDistance,
		Timestamp: &ts,
	}
	if readingBattery >= 0 {
		reading.BatteryLevel = &readingBattery
	}

	result, err := newAPIClient().UpdateLevel(cmd.Context(), args[0], reading)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s (level %d%%)\n", result.Bin.BinID, result.Message, result.Bin.Level)
	for _, alert := range result.Alerts {
		fmt.Printf("  alert %s: %s\n", alert.Kind, alert.Message)
	}
	return nil
}
