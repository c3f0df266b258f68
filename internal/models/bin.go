package models

import (
	"math"
	"strings"
	"time"
)

type WasteType string

const (
	WasteGeneral    WasteType = "general"
	WasteRecyclable WasteType = "recyclable"
	WasteMedical    WasteType = "medical"
	WasteOrganic    WasteType = "organic"
)

// Bin statuses. Bins are never hard-deleted; they are deactivated instead.
const (
	BinStatusActive      = "active"
	BinStatusInactive    = "inactive"
	BinStatusMaintenance = "maintenance"
)

const (
	SensorStatusActive  = "active"
	SensorStatusWarning = "warning"
)

const (
	DefaultCapacityLiters     = 240
	MinCapacityLiters         = 50
	DefaultCollectionSchedule = "Daily 6:00 AM"
	AutoDetectedArea          = "Auto-detected"
)

// Bin is a row of the bins table
type Bin struct {
	BinID              string   `json:"bin_id" db:"bin_id"`
	Latitude           float64  `json:"latitude" db:"latitude"`
	Longitude          float64  `json:"longitude" db:"longitude"`
	Address            string   `json:"address" db:"address"`
	Area               string   `json:"area" db:"area"`
	Level              int      `json:"level" db:"level"`
	Distance           *float64 `json:"distance,omitempty" db:"distance"`
	Capacity           int      `json:"capacity" db:"capacity"`
	WasteType          string   `json:"waste_type" db:"waste_type"`
	Status             string   `json:"status" db:"status"`
	SensorStatus       string   `json:"sensor_status" db:"sensor_status"`
	LastUpdated        int64    `json:"last_updated" db:"last_updated"`               // Unix timestamp
	LastCollected      *int64   `json:"last_collected,omitempty" db:"last_collected"` // Unix timestamp
	SensorRawDistance  *float64 `json:"sensor_raw_distance,omitempty" db:"sensor_raw_distance"`
	SensorLevel        *int     `json:"sensor_level,omitempty" db:"sensor_level"`
	SensorTimestamp    *int64   `json:"sensor_timestamp,omitempty" db:"sensor_timestamp"` // Unix millis, as sent by the device
	SensorBattery      *float64 `json:"sensor_battery,omitempty" db:"sensor_battery"`
	SensorSignal       *float64 `json:"sensor_signal,omitempty" db:"sensor_signal"`
	CollectionSchedule string   `json:"collection_schedule" db:"collection_schedule"`
	CreatedAt          int64    `json:"created_at" db:"created_at"`
	UpdatedAt          int64    `json:"updated_at" db:"updated_at"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type SensorData struct {
	RawDistance     float64  `json:"rawDistance"`
	CalculatedLevel int      `json:"calculatedLevel"`
	Timestamp       int64    `json:"timestamp"`
	BatteryLevel    *float64 `json:"batteryLevel,omitempty"`
	SignalStrength  *float64 `json:"signalStrength,omitempty"`
}

// BinResponse is what we send to clients, with ISO timestamps
type BinResponse struct {
	BinID              string      `json:"binId"`
	Location           Location    `json:"location"`
	Area               string      `json:"area"`
	Level              int         `json:"level"`
	Distance           *float64    `json:"distance"`
	Capacity           int         `json:"capacity"`
	Type               WasteType   `json:"type"`
	Status             string      `json:"status"`
	SensorStatus       string      `json:"sensorStatus"`
	LastUpdated        string      `json:"lastUpdated"`
	LastCollected      *string     `json:"lastCollected,omitempty"`
	SensorData         *SensorData `json:"sensorData,omitempty"`
	CollectionSchedule string      `json:"collectionSchedule"`
}

// SensorReadingRequest is the body of POST /api/bins/{id}/update-level
type SensorReadingRequest struct {
	Level          *float64 `json:"level"`
	Distance       *float64 `json:"distance"`
	Timestamp      *int64   `json:"timestamp,omitempty"` // Unix millis
	BatteryLevel   *float64 `json:"batteryLevel,omitempty"`
	SignalStrength *float64 `json:"signalStrength,omitempty"`
	SensorStatus   string   `json:"sensorStatus,omitempty"`
}

// SensorReading is a validated sensor sample ready to be written
type SensorReading struct {
	BinID          string
	Level          int
	Distance       float64
	Timestamp      int64
	BatteryLevel   *float64
	SignalStrength *float64
	SensorStatus   string
}

// lowBatteryPercent at or below which a sensor is flagged for a warning
const lowBatteryPercent = 10

// Validate checks the payload and returns the reading to store.
// receivedAt is used as the sample timestamp when the device did not send one.
func (r SensorReadingRequest) Validate(binID string, receivedAt time.Time) (SensorReading, error) {
	id := NormalizeBinID(binID)
	if id == "" {
		return SensorReading{}, NewValidationError("invalid_bin_id", "bin id is required")
	}
	if r.Level == nil || math.IsNaN(*r.Level) || *r.Level < 0 || *r.Level > 100 {
		return SensorReading{}, NewValidationError("invalid_level", "valid level (0-100) is required")
	}
	if r.Distance == nil || math.IsNaN(*r.Distance) || *r.Distance < 0 {
		return SensorReading{}, NewValidationError("invalid_distance", "valid distance is required")
	}

	reading := SensorReading{
		BinID:          id,
		Level:          ClampLevel(int(math.Round(*r.Level))),
		Distance:       *r.Distance,
		Timestamp:      receivedAt.UnixMilli(),
		BatteryLevel:   r.BatteryLevel,
		SignalStrength: r.SignalStrength,
		SensorStatus:   SensorStatusActive,
	}
	if r.Timestamp != nil && *r.Timestamp > 0 {
		reading.Timestamp = *r.Timestamp
	}
	if strings.EqualFold(r.SensorStatus, SensorStatusWarning) ||
		(r.BatteryLevel != nil && *r.BatteryLevel <= lowBatteryPercent) {
		reading.SensorStatus = SensorStatusWarning
	}
	return reading, nil
}

// CreateBinRequest is the request body for POST /api/admin/bins
type CreateBinRequest struct {
	BinID              string   `json:"binId"`
	Location           Location `json:"location"`
	Area               string   `json:"area"`
	Level              int      `json:"level"`
	Capacity           int      `json:"capacity"`
	Type               string   `json:"type"`
	CollectionSchedule string   `json:"collectionSchedule"`
}

// ToBin validates the request and builds a new active bin
func (r CreateBinRequest) ToBin(now time.Time) (Bin, error) {
	id := NormalizeBinID(r.BinID)
	if id == "" {
		return Bin{}, NewValidationError("invalid_bin_id", "binId is required")
	}
	if err := r.Location.Validate(); err != nil {
		return Bin{}, err
	}
	if strings.TrimSpace(r.Location.Address) == "" {
		return Bin{}, NewValidationError("invalid_location", "location address is required")
	}

	wasteType := WasteGeneral
	if r.Type != "" {
		parsed, ok := ParseWasteType(r.Type)
		if !ok {
			return Bin{}, NewValidationError("invalid_type", "unknown waste type")
		}
		wasteType = parsed
	}

	capacity := r.Capacity
	if capacity == 0 {
		capacity = DefaultCapacityLiters
	}
	if capacity < MinCapacityLiters {
		return Bin{}, NewValidationError("invalid_capacity", "capacity must be at least 50 liters")
	}

	area := strings.TrimSpace(r.Area)
	if area == "" {
		area = strings.TrimSpace(r.Location.Address)
	}
	schedule := strings.TrimSpace(r.CollectionSchedule)
	if schedule == "" {
		schedule = DefaultCollectionSchedule
	}

	return Bin{
		BinID:              id,
		Latitude:           r.Location.Latitude,
		Longitude:          r.Location.Longitude,
		Address:            strings.TrimSpace(r.Location.Address),
		Area:               area,
		Level:              ClampLevel(r.Level),
		Capacity:           capacity,
		WasteType:          string(wasteType),
		Status:             BinStatusActive,
		SensorStatus:       SensorStatusActive,
		LastUpdated:        now.Unix(),
		CollectionSchedule: schedule,
		CreatedAt:          now.Unix(),
		UpdatedAt:          now.Unix(),
	}, nil
}

// UpdateBinStatusRequest is the request body for PATCH /api/admin/bins/{id}/status
type UpdateBinStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateBinStatusRequest) Validate() error {
	switch r.Status {
	case BinStatusActive, BinStatusInactive, BinStatusMaintenance:
		return nil
	}
	return NewValidationError("invalid_status", "status must be active, inactive or maintenance")
}

// Validate checks coordinate ranges
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return NewValidationError("invalid_latitude", "latitude must be between -90 and 90")
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return NewValidationError("invalid_longitude", "longitude must be between -180 and 180")
	}
	return nil
}

// NormalizeBinID trims and upper-cases a bin identifier
func NormalizeBinID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ClampLevel forces a fill level into [0,100]
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// ParseWasteType accepts both the stored codes and the display names
// used by older clients ("Medical Waste", "General Waste").
func ParseWasteType(s string) (WasteType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general", "general waste":
		return WasteGeneral, true
	case "recyclable":
		return WasteRecyclable, true
	case "medical", "medical waste":
		return WasteMedical, true
	case "organic":
		return WasteOrganic, true
	}
	return "", false
}

// ToBinResponse converts a Bin to BinResponse
func (b *Bin) ToBinResponse() BinResponse {
	resp := BinResponse{
		BinID: b.BinID,
		Location: Location{
			Latitude:  b.Latitude,
			Longitude: b.Longitude,
			Address:   b.Address,
		},
		Area:               b.Area,
		Level:              ClampLevel(b.Level),
		Distance:           b.Distance,
		Capacity:           b.Capacity,
		Type:               WasteType(b.WasteType),
		Status:             b.Status,
		SensorStatus:       b.SensorStatus,
		LastUpdated:        time.Unix(b.LastUpdated, 0).UTC().Format(time.RFC3339),
		CollectionSchedule: b.CollectionSchedule,
	}

	if b.LastCollected != nil {
		iso := time.Unix(*b.LastCollected, 0).UTC().Format(time.RFC3339)
		resp.LastCollected = &iso
	}

	if b.SensorRawDistance != nil {
		sample := &SensorData{
			RawDistance:    *b.SensorRawDistance,
			BatteryLevel:   b.SensorBattery,
			SignalStrength: b.SensorSignal,
		}
		if b.SensorLevel != nil {
			sample.CalculatedLevel = *b.SensorLevel
		}
		if b.SensorTimestamp != nil {
			sample.Timestamp = *b.SensorTimestamp
		}
		resp.SensorData = sample
	}

	return resp
}

// ToBinResponses converts a slice of bins
func ToBinResponses(bins []Bin) []BinResponse {
	responses := make([]BinResponse, len(bins))
	for i := range bins {
		responses[i] = bins[i].ToBinResponse()
	}
	return responses
}
