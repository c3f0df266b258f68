package services

import (
	"math"

	"smartbin-backend/internal/models"
)

// SummarizeBins computes the dashboard bin figures
func SummarizeBins(bins []models.BinResponse) models.BinStats {
	stats := models.BinStats{
		Total: len(bins),
		Tiers: map[string]int{
			TierCritical:  0,
			TierFull:      0,
			TierHalfFull:  0,
			TierAvailable: 0,
		},
	}
	if len(bins) == 0 {
		return stats
	}

	sum := 0
	for _, bin := range bins {
		sum += bin.Level
		if IsFull(bin.Level) {
			stats.Full++
		}
		if IsEmpty(bin.Level) {
			stats.Empty++
		}
		stats.Tiers[Classify(bin.Level).Tier]++
	}
	stats.AverageLevel = int(math.Round(float64(sum) / float64(len(bins))))
	return stats
}
