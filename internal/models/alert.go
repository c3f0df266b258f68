package models

import "time"

type AlertKind string

const (
	AlertCriticalFull  AlertKind = "CRITICAL_FULL"
	AlertEmergency     AlertKind = "EMERGENCY"
	AlertSensorWarning AlertKind = "SENSOR_WARNING"
)

const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
)

// Alert is raised when a bin crosses a fill threshold or its sensor needs attention
type Alert struct {
	ID        string    `json:"id"`
	BinID     string    `json:"binId"`
	Kind      AlertKind `json:"type"`
	Level     int       `json:"level"`
	Location  string    `json:"location"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	EmittedAt time.Time `json:"timestamp"`
}
