package handlers

import (
	"net/http"
	"time"

	"smartbin-backend/internal/cache"
	"smartbin-backend/internal/database"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/services"
	"smartbin-backend/pkg/utils"
)

// GetCollectionRoute handles GET /api/collection-route.
// With ?optimize=distance the full bins are visited nearest-first from the depot
// instead of in urgency order.
func GetCollectionRoute(store *database.Store, c cache.Cache, depot services.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, source := loadActiveBins(r.Context(), store, c)

		route := services.BuildRoute(bins)
		if r.URL.Query().Get("optimize") == "distance" {
			route = services.NewRouteOptimizer().OptimizeRoute(route, depot)
		}
		total := services.AnnotateDistances(route, depot)

		estimated := 0
		if n := len(route); n > 0 {
			estimated = route[n-1].EstimatedMinutes
		}

		w.Header().Set(dataSourceHeader, source)
		utils.RespondJSON(w, http.StatusOK, models.CollectionRoute{
			Stops:           route,
			TotalStops:      len(route),
			TotalDistanceKm: total,
			EstimatedTotal:  estimated,
			GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
