package models

type BinStats struct {
	Total        int            `json:"total"`
	Full         int            `json:"full"`
	Empty        int            `json:"empty"`
	AverageLevel int            `json:"averageLevel"`
	Tiers        map[string]int `json:"tiers"`
}

type ReportStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Resolved int `json:"resolved"`
}

// DashboardStats is the response of GET /api/analytics/dashboard.
// Note is set only when the numbers are not live.
type DashboardStats struct {
	Bins        BinStats    `json:"bins"`
	Reports     ReportStats `json:"reports"`
	Note        string      `json:"note,omitempty"`
	GeneratedAt string      `json:"generatedAt"`
}
