package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	ReportBinFull             = "bin_full"
	ReportBinDamaged          = "bin_damaged"
	ReportUnsanitaryCondition = "unsanitary_condition"
	ReportMissingBin          = "missing_bin"
	ReportCollectionMissed    = "collection_missed"
	ReportIllegalDumping      = "illegal_dumping"
	ReportOther               = "other"
)

const (
	ReportStatusPending    = "pending"
	ReportStatusInProgress = "in_progress"
	ReportStatusResolved   = "resolved"
	ReportStatusRejected   = "rejected"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
	PriorityUrgent   = "urgent"
)

const MaxReportDescription = 500

var reportTypes = map[string]bool{
	ReportBinFull: true, ReportBinDamaged: true, ReportUnsanitaryCondition: true,
	ReportMissingBin: true, ReportCollectionMissed: true, ReportIllegalDumping: true,
	ReportOther: true,
}

var reportPriorities = map[string]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityCritical: true,
}

var reportStatuses = map[string]bool{
	ReportStatusPending: true, ReportStatusInProgress: true,
	ReportStatusResolved: true, ReportStatusRejected: true,
}

// Report is a row of the reports table. Description never changes after insert.
type Report struct {
	ID              string   `json:"id" db:"id"`
	ReportType      string   `json:"report_type" db:"report_type"`
	Description     string   `json:"description" db:"description"`
	Latitude        *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude       *float64 `json:"longitude,omitempty" db:"longitude"`
	Address         *string  `json:"address,omitempty" db:"address"`
	BinID           *string  `json:"bin_id,omitempty" db:"bin_id"`
	ReportedBy      *string  `json:"reported_by,omitempty" db:"reported_by"`
	Status          string   `json:"status" db:"status"`
	Priority        string   `json:"priority" db:"priority"`
	ResolvedBy      *string  `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt      *int64   `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolutionNotes *string  `json:"resolution_notes,omitempty" db:"resolution_notes"`
	CreatedAt       int64    `json:"created_at" db:"created_at"`
	UpdatedAt       int64    `json:"updated_at" db:"updated_at"`
}

type ReportResponse struct {
	ID              string    `json:"id"`
	ReportType      string    `json:"reportType"`
	Description     string    `json:"description"`
	Location        *Location `json:"location,omitempty"`
	BinID           *string   `json:"binId,omitempty"`
	ReportedBy      *string   `json:"reportedBy,omitempty"`
	Status          string    `json:"status"`
	Priority        string    `json:"priority"`
	ResolvedBy      *string   `json:"resolvedBy,omitempty"`
	ResolvedAt      *string   `json:"resolvedAt,omitempty"`
	ResolutionNotes *string   `json:"resolutionNotes,omitempty"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

func (r *Report) ToReportResponse() ReportResponse {
	resp := ReportResponse{
		ID:              r.ID,
		ReportType:      r.ReportType,
		Description:     r.Description,
		BinID:           r.BinID,
		ReportedBy:      r.ReportedBy,
		Status:          r.Status,
		Priority:        r.Priority,
		ResolvedBy:      r.ResolvedBy,
		ResolutionNotes: r.ResolutionNotes,
		CreatedAt:       time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339),
		UpdatedAt:       time.Unix(r.UpdatedAt, 0).UTC().Format(time.RFC3339),
	}
	if r.Latitude != nil && r.Longitude != nil {
		loc := &Location{Latitude: *r.Latitude, Longitude: *r.Longitude}
		if r.Address != nil {
			loc.Address = *r.Address
		}
		resp.Location = loc
	}
	if r.ResolvedAt != nil {
		iso := time.Unix(*r.ResolvedAt, 0).UTC().Format(time.RFC3339)
		resp.ResolvedAt = &iso
	}
	return resp
}

func ToReportResponses(reports []Report) []ReportResponse {
	responses := make([]ReportResponse, len(reports))
	for i := range reports {
		responses[i] = reports[i].ToReportResponse()
	}
	return responses
}

// CreateReportRequest is the body of POST /api/reports
type CreateReportRequest struct {
	ReportType  string    `json:"reportType"`
	Description string    `json:"description"`
	Location    *Location `json:"location,omitempty"`
	BinID       string    `json:"binId,omitempty"`
	ReportedBy  string    `json:"reportedBy,omitempty"`
	Priority    string    `json:"priority,omitempty"`
}

// ToReport validates the request and builds a pending report
func (r CreateReportRequest) ToReport(id string, now time.Time) (Report, error) {
	reportType := strings.TrimSpace(r.ReportType)
	description := strings.TrimSpace(r.Description)
	if reportType == "" || description == "" {
		return Report{}, NewValidationError("missing_fields", "reportType and description are required")
	}
	if !reportTypes[reportType] {
		return Report{}, NewValidationError("invalid_report_type", "unknown report type")
	}
	if utf8.RuneCountInString(description) > MaxReportDescription {
		return Report{}, NewValidationError("description_too_long", "description must be 500 characters or fewer")
	}

	priority := PriorityMedium
	if p := strings.TrimSpace(r.Priority); p != "" {
		if !reportPriorities[p] {
			return Report{}, NewValidationError("invalid_priority", "priority must be low, medium, high or critical")
		}
		priority = p
	}

	report := Report{
		ID:          id,
		ReportType:  reportType,
		Description: description,
		Status:      ReportStatusPending,
		Priority:    priority,
		CreatedAt:   now.Unix(),
		UpdatedAt:   now.Unix(),
	}

	if r.Location != nil {
		if err := r.Location.Validate(); err != nil {
			return Report{}, err
		}
		lat, lng := r.Location.Latitude, r.Location.Longitude
		report.Latitude, report.Longitude = &lat, &lng
		if addr := strings.TrimSpace(r.Location.Address); addr != "" {
			report.Address = &addr
		}
	}
	if binID := NormalizeBinID(r.BinID); binID != "" {
		report.BinID = &binID
	}
	if by := strings.TrimSpace(r.ReportedBy); by != "" {
		report.ReportedBy = &by
	}

	return report, nil
}

// ResolveReportRequest is the body of PATCH /api/reports/{id}/resolve
type ResolveReportRequest struct {
	ResolvedBy      string `json:"resolvedBy"`
	ResolutionNotes string `json:"resolutionNotes,omitempty"`
}

func (r *ResolveReportRequest) Validate() error {
	r.ResolvedBy = strings.TrimSpace(r.ResolvedBy)
	r.ResolutionNotes = strings.TrimSpace(r.ResolutionNotes)
	if r.ResolvedBy == "" {
		return NewValidationError("missing_resolved_by", "resolvedBy is required")
	}
	return nil
}

// ValidReportStatus reports whether s is a known report status
func ValidReportStatus(s string) bool {
	return reportStatuses[s]
}
