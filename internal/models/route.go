package models

// RouteStop is one entry of a prioritized collection route
type RouteStop struct {
	Order                  int       `json:"order"`
	BinID                  string    `json:"binId"`
	Location               Location  `json:"location"`
	Area                   string    `json:"area"`
	Level                  int       `json:"level"`
	Type                   WasteType `json:"type"`
	Urgency                int       `json:"urgency"`
	Priority               string    `json:"priority"` // "CRITICAL" or "HIGH"
	EstimatedMinutes       int       `json:"estimatedTime"`
	DistanceFromPreviousKm *float64  `json:"distanceFromPreviousKm,omitempty"`
}

// CollectionRoute is the response of GET /api/collection-route
type CollectionRoute struct {
	Stops           []RouteStop `json:"route"`
	TotalStops      int         `json:"totalStops"`
	TotalDistanceKm float64     `json:"totalDistanceKm"`
	EstimatedTotal  int         `json:"estimatedTotalMinutes"`
	GeneratedAt     string      `json:"generatedAt"`
}
