package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"smartbin-backend/internal/cache"
	"smartbin-backend/internal/database"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/services"
	"smartbin-backend/pkg/utils"
)

const (
	noteCached = "Database offline - showing last known statistics"
	noteSample = "Database offline - showing sample statistics"
)

// GetDashboard handles GET /api/analytics/dashboard
func GetDashboard(store *database.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, source := loadDashboard(r.Context(), store, c, time.Now())
		w.Header().Set(dataSourceHeader, source)
		utils.RespondJSON(w, http.StatusOK, stats)
	}
}

func loadDashboard(ctx context.Context, store *database.Store, c cache.Cache, now time.Time) (models.DashboardStats, string) {
	bins, binErr := store.ListActiveBins(ctx)
	reports, reportErr := store.ReportStats(ctx)

	if binErr == nil && reportErr == nil {
		stats := models.DashboardStats{
			Bins:        services.SummarizeBins(models.ToBinResponses(bins)),
			Reports:     reports,
			GeneratedAt: now.UTC().Format(time.RFC3339),
		}
		if c != nil {
			if err := c.Set(ctx, cache.KeyDashboard, stats); err != nil {
				log.Printf("⚠️  Failed to cache dashboard: %v", err)
			}
		}
		return stats, SourceLive
	}

	log.Printf("⚠️  Dashboard falling back (bins: %v, reports: %v)", binErr, reportErr)
	if c != nil {
		var cached models.DashboardStats
		if found, err := c.Get(ctx, cache.KeyDashboard, &cached); err == nil && found {
			cached.Note = noteCached
			return cached, SourceCache
		}
	}

	return models.DashboardStats{
		Bins:        services.SummarizeBins(models.ToBinResponses(database.SampleBins(now))),
		Reports:     models.ReportStats{},
		Note:        noteSample,
		GeneratedAt: now.UTC().Format(time.RFC3339),
	}, SourceSample
}
