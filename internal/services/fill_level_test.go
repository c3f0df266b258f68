package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		level int
		tier  string
		color string
	}{
		{0, TierAvailable, "#4CAF50"},
		{49, TierAvailable, "#4CAF50"},
		{50, TierHalfFull, "#FF9800"},
		{79, TierHalfFull, "#FF9800"},
		{80, TierFull, "#F44336"},
		{89, TierFull, "#F44336"},
		{90, TierCritical, "#D32F2F"},
		{100, TierCritical, "#D32F2F"},
	}

	for _, tt := range tests {
		status := Classify(tt.level)
		assert.Equal(t, tt.tier, status.Tier, "level %d", tt.level)
		assert.Equal(t, tt.color, status.Color, "level %d", tt.level)
	}
}

func TestDashboardBuckets(t *testing.T) {
	assert.True(t, IsFull(80))
	assert.False(t, IsFull(79))
	assert.True(t, IsEmpty(49))
	assert.False(t, IsEmpty(50))
}
