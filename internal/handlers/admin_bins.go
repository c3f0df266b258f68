package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"smartbin-backend/internal/cache"
	"smartbin-backend/internal/database"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/services"
	"smartbin-backend/internal/websocket"
	"smartbin-backend/pkg/utils"
)

type BinEnvelope struct {
	Success bool               `json:"success"`
	Bin     models.BinResponse `json:"bin"`
}

const geocodeTimeout = 5 * time.Second

// CreateBin handles POST /api/admin/bins.
// A missing address is looked up from the coordinates when a geocoder is set.
func CreateBin(store *database.Store, c cache.Cache, geocoder services.Geocoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateBinRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}

		if strings.TrimSpace(req.Location.Address) == "" && geocoder != nil && req.Location.Validate() == nil {
			ctx, cancel := context.WithTimeout(r.Context(), geocodeTimeout)
			address, err := geocoder.ReverseGeocode(ctx, req.Location.Latitude, req.Location.Longitude)
			cancel()
			if err != nil {
				log.Printf("⚠️  Reverse geocoding failed for bin %s: %v", req.BinID, err)
			} else {
				req.Location.Address = address
			}
		}

		bin, err := req.ToBin(time.Now())
		if err != nil {
			respondError(w, err)
			return
		}

		created, err := store.CreateBin(r.Context(), bin)
		if errors.Is(err, database.ErrConflict) {
			utils.RespondError(w, http.StatusConflict, "bin_already_exists")
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}

		log.Printf("🗑️  Bin %s added at %s", created.BinID, created.Address)
		invalidateBins(r.Context(), c)
		utils.RespondJSON(w, http.StatusCreated, BinEnvelope{Success: true, Bin: created.ToBinResponse()})
	}
}

// UpdateBinStatus handles PATCH /api/admin/bins/{id}/status
func UpdateBinStatus(store *database.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateBinStatusRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, err)
			return
		}

		bin, err := store.UpdateBinStatus(r.Context(), chi.URLParam(r, "id"), req.Status, time.Now())
		if err != nil {
			respondError(w, err)
			return
		}

		log.Printf("🔧 Bin %s is now %s", bin.BinID, bin.Status)
		invalidateBins(r.Context(), c)
		utils.RespondJSON(w, http.StatusOK, BinEnvelope{Success: true, Bin: bin.ToBinResponse()})
	}
}

// MarkBinCollected handles POST /api/admin/bins/{id}/collected
func MarkBinCollected(store *database.Store, c cache.Cache, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bin, err := store.MarkBinCollected(r.Context(), chi.URLParam(r, "id"), time.Now())
		if err != nil {
			respondError(w, err)
			return
		}

		resp := bin.ToBinResponse()
		log.Printf("🚛 Bin %s collected", bin.BinID)
		invalidateBins(r.Context(), c)
		hub.Broadcast(websocket.NewEvent(websocket.EventBinCollected, resp))
		utils.RespondJSON(w, http.StatusOK, BinEnvelope{Success: true, Bin: resp})
	}
}

func invalidateBins(ctx context.Context, c cache.Cache) {
	invalidate(ctx, c, cache.KeyActiveBins)
	invalidate(ctx, c, cache.KeyDashboard)
}
