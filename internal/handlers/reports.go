package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"smartbin-backend/internal/database"
	"smartbin-backend/internal/models"
	"smartbin-backend/pkg/utils"
)

type ReportEnvelope struct {
	Success bool                  `json:"success"`
	Report  models.ReportResponse `json:"report"`
}

// CreateReport handles POST /api/reports
func CreateReport(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateReportRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}

		report, err := req.ToReport(uuid.New().String(), time.Now())
		if err != nil {
			respondError(w, err)
			return
		}

		created, err := store.CreateReport(r.Context(), report)
		if err != nil {
			log.Printf("❌ Failed to create report: %v", err)
			respondError(w, err)
			return
		}

		log.Printf("📝 New %s report %s (priority %s)", created.ReportType, created.ID, created.Priority)
		utils.RespondJSON(w, http.StatusCreated, ReportEnvelope{Success: true, Report: created.ToReportResponse()})
	}
}

// GetReports handles GET /api/reports?status=. An unknown status filters everything out.
func GetReports(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		if status != "" && !models.ValidReportStatus(status) {
			// no report can carry an unknown status
			w.Header().Set(dataSourceHeader, SourceLive)
			utils.RespondJSON(w, http.StatusOK, []models.ReportResponse{})
			return
		}

		reports, err := store.ListReports(r.Context(), status)
		if err != nil {
			log.Printf("⚠️  Failed to load reports: %v", err)
			w.Header().Set(dataSourceHeader, SourceSample)
			utils.RespondJSON(w, http.StatusOK, []models.ReportResponse{})
			return
		}

		w.Header().Set(dataSourceHeader, SourceLive)
		utils.RespondJSON(w, http.StatusOK, models.ToReportResponses(reports))
	}
}

// ResolveReport handles PATCH /api/reports/{id}/resolve.
// Resolving an already resolved report overwrites the resolver and time.
func ResolveReport(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ResolveReportRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, err)
			return
		}

		var notes *string
		if req.ResolutionNotes != "" {
			notes = &req.ResolutionNotes
		}

		report, err := store.ResolveReport(r.Context(), chi.URLParam(r, "id"), req.ResolvedBy, notes, time.Now())
		if err != nil {
			respondError(w, err)
			return
		}

		log.Printf("✅ Report %s resolved by %s", report.ID, req.ResolvedBy)
		utils.RespondJSON(w, http.StatusOK, ReportEnvelope{Success: true, Report: report.ToReportResponse()})
	}
}

type UpdateReportStatusRequest struct {
	Status string `json:"status"`
}

// UpdateReportStatus handles PATCH /api/admin/reports/{id}/status.
// Resolution goes through ResolveReport so the resolver is always recorded.
func UpdateReportStatus(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateReportStatusRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}
		if !models.ValidReportStatus(req.Status) {
			utils.RespondError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		if req.Status == models.ReportStatusResolved {
			utils.RespondError(w, http.StatusBadRequest, "use_resolve_endpoint")
			return
		}

		report, err := store.UpdateReportStatus(r.Context(), chi.URLParam(r, "id"), req.Status, time.Now())
		if err != nil {
			respondError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, ReportEnvelope{Success: true, Report: report.ToReportResponse()})
	}
}
