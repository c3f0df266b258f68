package services

import (
	"fmt"
	"time"

	"smartbin-backend/internal/models"
)

// EvaluateAlerts diffs two snapshots of the bin set and returns the alerts to raise.
// Only bins present in both snapshots are considered. Threshold alerts fire on the
// upward crossing only; sensor warnings fire whenever the current sample is flagged.
func EvaluateAlerts(previous, current []models.BinResponse, now time.Time) []models.Alert {
	prevByID := make(map[string]models.BinResponse, len(previous))
	for _, bin := range previous {
		prevByID[bin.BinID] = bin
	}

	alerts := make([]models.Alert, 0)
	for _, cur := range current {
		prev, ok := prevByID[cur.BinID]
		if !ok {
			continue
		}

		if prev.Level < CriticalLevel && cur.Level >= CriticalLevel {
			alerts = append(alerts, newAlert(cur, models.AlertCriticalFull, now))
		}
		if prev.Level < EmergencyLevel && cur.Level >= EmergencyLevel {
			alerts = append(alerts, newAlert(cur, models.AlertEmergency, now))
		}
		if cur.SensorStatus == models.SensorStatusWarning {
			alerts = append(alerts, newAlert(cur, models.AlertSensorWarning, now))
		}
	}
	return alerts
}

func newAlert(bin models.BinResponse, kind models.AlertKind, now time.Time) models.Alert {
	severity := models.SeverityHigh
	if kind == models.AlertEmergency {
		severity = models.SeverityCritical
	}
	return models.Alert{
		ID:        fmt.Sprintf("%s_%d", bin.BinID, now.UnixMilli()),
		BinID:     bin.BinID,
		Kind:      kind,
		Level:     bin.Level,
		Location:  bin.Location.Address,
		Severity:  severity,
		Message:   AlertMessage(kind, bin.BinID, bin.Level),
		EmittedAt: now,
	}
}

// AlertMessage renders the human-readable text for an alert
func AlertMessage(kind models.AlertKind, binID string, level int) string {
	switch kind {
	case models.AlertEmergency:
		return fmt.Sprintf("EMERGENCY: Bin %s is overflowing at %d%%", binID, level)
	case models.AlertCriticalFull:
		return fmt.Sprintf("Bin %s is critically full (%d%%)", binID, level)
	case models.AlertSensorWarning:
		return fmt.Sprintf("Sensor on bin %s needs attention", binID)
	}
	return fmt.Sprintf("Bin %s: %d%%", binID, level)
}
