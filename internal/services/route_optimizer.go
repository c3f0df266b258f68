package services

import (
	"log"
	"math"
	"sort"

	"smartbin-backend/internal/models"
)

// Depot defaults - auto-provisioned bins are placed here and routes start here
const (
	DEPOT_LAT     = 6.8519
	DEPOT_LNG     = 79.8774
	DEPOT_ADDRESS = "Dehiwala-Mount Lavinia Municipal Council"
)

const (
	medicalUrgencyBoost = 20
	minutesPerStop      = 15
)

const (
	RoutePriorityCritical = "CRITICAL"
	RoutePriorityHigh     = "HIGH"
)

// GetDepotLocation returns the default depot location
func GetDepotLocation() Location {
	return Location{
		Latitude:  DEPOT_LAT,
		Longitude: DEPOT_LNG,
	}
}

// Location represents a geographic point
type Location struct {
	Latitude  float64
	Longitude float64
}

// RouteOptimizer orders full bins into a collection route
type RouteOptimizer struct{}

// NewRouteOptimizer creates a new route optimizer
func NewRouteOptimizer() *RouteOptimizer {
	return &RouteOptimizer{}
}

// BuildRoute keeps bins at or above the full threshold and orders them by urgency.
// Medical waste gets a fixed urgency boost. Ties keep their input order.
func BuildRoute(bins []models.BinResponse) []models.RouteStop {
	stops := make([]models.RouteStop, 0, len(bins))
	for _, bin := range bins {
		if !IsFull(bin.Level) {
			continue
		}
		urgency := bin.Level
		if bin.Type == models.WasteMedical {
			urgency += medicalUrgencyBoost
		}
		priority := RoutePriorityHigh
		if bin.Level >= CriticalLevel {
			priority = RoutePriorityCritical
		}
		stops = append(stops, models.RouteStop{
			BinID:    bin.BinID,
			Location: bin.Location,
			Area:     bin.Area,
			Level:    bin.Level,
			Type:     bin.Type,
			Urgency:  urgency,
			Priority: priority,
		})
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Urgency > stops[j].Urgency
	})
	renumber(stops)
	return stops
}

// OptimizeRoute reorders stops using nearest neighbor from the start location.
// Used when the caller prefers travel distance over urgency.
func (ro *RouteOptimizer) OptimizeRoute(stops []models.RouteStop, startLocation Location) []models.RouteStop {
	if len(stops) <= 1 {
		return stops
	}

	log.Printf("🎯 Starting route optimization from (%.6f, %.6f)",
		startLocation.Latitude, startLocation.Longitude)
	log.Printf("   Total stops to optimize: %d", len(stops))

	optimized := make([]models.RouteStop, 0, len(stops))
	remaining := make([]models.RouteStop, len(stops))
	copy(remaining, stops)

	current := startLocation
	for len(remaining) > 0 {
		bestIdx := 0
		bestDistance := math.MaxFloat64

		for i, stop := range remaining {
			distance := haversineDistance(
				current.Latitude,
				current.Longitude,
				stop.Location.Latitude,
				stop.Location.Longitude,
			)
			if distance < bestDistance {
				bestDistance = distance
				bestIdx = i
			}
		}

		best := remaining[bestIdx]
		optimized = append(optimized, best)
		current = Location{Latitude: best.Location.Latitude, Longitude: best.Location.Longitude}
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	renumber(optimized)
	log.Printf("✅ Route optimization complete (%d stops)", len(optimized))
	return optimized
}

// AnnotateDistances fills in the leg distance of every stop, starting from start.
// Returns the total route length in kilometers.
func AnnotateDistances(stops []models.RouteStop, start Location) float64 {
	total := 0.0
	point := start
	for i := range stops {
		distance := haversineDistance(
			point.Latitude,
			point.Longitude,
			stops[i].Location.Latitude,
			stops[i].Location.Longitude,
		)
		rounded := math.Round(distance*100) / 100
		stops[i].DistanceFromPreviousKm = &rounded
		total += distance
		point = Location{Latitude: stops[i].Location.Latitude, Longitude: stops[i].Location.Longitude}
	}
	return math.Round(total*100) / 100
}

func renumber(stops []models.RouteStop) {
	for i := range stops {
		stops[i].Order = i + 1
		stops[i].EstimatedMinutes = (i + 1) * minutesPerStop
	}
}

// haversineDistance calculates the distance between two GPS coordinates in kilometers
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0 // Earth's radius in kilometers

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
