package services

// Fill tiers, most urgent first
const (
	TierCritical  = "CRITICAL"
	TierFull      = "FULL"
	TierHalfFull  = "HALF_FULL"
	TierAvailable = "AVAILABLE"
)

// Level thresholds shared by the classifier, the alert evaluator and the route builder
const (
	CriticalLevel  = 90
	FullLevel      = 80
	HalfFullLevel  = 50
	EmergencyLevel = 95
)

// FillStatus is the display classification of a fill level
type FillStatus struct {
	Tier  string `json:"tier"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Classify maps a clamped fill level onto its tier. Boundaries are inclusive on the lower side.
func Classify(level int) FillStatus {
	switch {
	case level >= CriticalLevel:
		return FillStatus{Tier: TierCritical, Label: "Critical", Color: "#D32F2F"}
	case level >= FullLevel:
		return FillStatus{Tier: TierFull, Label: "Full", Color: "#F44336"}
	case level >= HalfFullLevel:
		return FillStatus{Tier: TierHalfFull, Label: "Half Full", Color: "#FF9800"}
	default:
		return FillStatus{Tier: TierAvailable, Label: "Available", Color: "#4CAF50"}
	}
}

// IsFull reports whether a bin at this level needs collection
func IsFull(level int) bool {
	return level >= FullLevel
}

// IsEmpty reports whether a bin at this level counts as empty on the dashboard
func IsEmpty(level int) bool {
	return level < HalfFullLevel
}
