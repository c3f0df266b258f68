package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"smartbin-backend/internal/cache"
	"smartbin-backend/internal/database"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/services"
	"smartbin-backend/internal/websocket"
	"smartbin-backend/pkg/utils"
)

const pushTimeout = 10 * time.Second

// GetBins handles GET /api/bins
func GetBins(store *database.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, source := loadActiveBins(r.Context(), store, c)
		w.Header().Set(dataSourceHeader, source)
		utils.RespondJSON(w, http.StatusOK, bins)
	}
}

// GetBin handles GET /api/bins/{id}
func GetBin(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bin, err := store.GetBin(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, bin.ToBinResponse())
	}
}

type RealtimeBinResponse struct {
	BinID        string              `json:"binId"`
	Level        int                 `json:"level"`
	Distance     *float64            `json:"distance"`
	Location     models.Location     `json:"location"`
	Area         string              `json:"area"`
	Status       string              `json:"status"`
	SensorStatus string              `json:"sensorStatus"`
	LastUpdated  string              `json:"lastUpdated"`
	SensorData   *models.SensorData  `json:"sensorData,omitempty"`
	FillStatus   services.FillStatus `json:"fillStatus"`
}

// GetBinRealtime handles GET /api/bins/{id}/realtime
func GetBinRealtime(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bin, err := store.GetBin(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}

		resp := bin.ToBinResponse()
		utils.RespondJSON(w, http.StatusOK, RealtimeBinResponse{
			BinID:        resp.BinID,
			Level:        resp.Level,
			Distance:     resp.Distance,
			Location:     resp.Location,
			Area:         resp.Area,
			Status:       resp.Status,
			SensorStatus: resp.SensorStatus,
			LastUpdated:  resp.LastUpdated,
			SensorData:   resp.SensorData,
			FillStatus:   services.Classify(resp.Level),
		})
	}
}

type UpdateLevelResponse struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Bin        models.BinResponse  `json:"bin"`
	FillStatus services.FillStatus `json:"fillStatus"`
	Alerts     []models.Alert      `json:"alerts"`
}

// UpdateBinLevel handles POST /api/bins/{id}/update-level from the ESP32 sensors.
// Unknown bins are created at the depot location.
func UpdateBinLevel(store *database.Store, hub *websocket.Hub, notifier services.Notifier, depot models.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SensorReadingRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}

		now := time.Now()
		reading, err := req.Validate(chi.URLParam(r, "id"), now)
		if err != nil {
			respondError(w, err)
			return
		}

		log.Printf("📡 [INGEST] %s level=%d%% distance=%.1fcm", reading.BinID, reading.Level, reading.Distance)

		previous, err := store.GetBin(r.Context(), reading.BinID)
		existed := err == nil
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			respondError(w, err)
			return
		}

		bin, err := store.UpsertSensorReading(r.Context(), reading, depot, now)
		if err != nil {
			log.Printf("❌ [INGEST] Failed to store reading for %s: %v", reading.BinID, err)
			respondError(w, err)
			return
		}
		if !existed {
			log.Printf("🆕 [INGEST] Auto-created bin %s", bin.BinID)
		}

		current := bin.ToBinResponse()
		switch {
		case current.Level >= services.CriticalLevel:
			log.Printf("🚨 [INGEST] CRITICAL: Bin %s is %d%% full", current.BinID, current.Level)
		case current.Level >= services.FullLevel:
			log.Printf("⚠️  [INGEST] WARNING: Bin %s is %d%% full", current.BinID, current.Level)
		}

		alerts := []models.Alert{}
		if existed {
			alerts = services.EvaluateAlerts(
				[]models.BinResponse{previous.ToBinResponse()},
				[]models.BinResponse{current},
				now,
			)
		}

		hub.Broadcast(websocket.NewEvent(websocket.EventBinUpdate, current))
		for _, alert := range alerts {
			hub.BroadcastToRole(models.UserTypeAdmin, websocket.NewEvent(websocket.EventBinAlert, alert))
		}
		if len(alerts) > 0 {
			go pushAlerts(store, notifier, alerts)
		}

		utils.RespondJSON(w, http.StatusOK, UpdateLevelResponse{
			Success:    true,
			Message:    "Bin level updated",
			Bin:        current,
			FillStatus: services.Classify(current.Level),
			Alerts:     alerts,
		})
	}
}

// pushAlerts sends alerts to the admins topic and to every registered admin device
func pushAlerts(store *database.Store, notifier services.Notifier, alerts []models.Alert) {
	if notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	tokens, err := store.ListFCMTokensByUserType(ctx, models.UserTypeAdmin)
	if err != nil {
		log.Printf("⚠️  Could not load admin device tokens: %v", err)
	}

	for _, alert := range alerts {
		if err := notifier.SendBinAlert(ctx, alert); err != nil {
			log.Printf("❌ Failed to push alert %s: %v", alert.ID, err)
		}
		if len(tokens) == 0 {
			continue
		}
		data := map[string]string{"type": "bin_alert", "bin_id": alert.BinID, "kind": string(alert.Kind)}
		if err := notifier.SendMulticast(ctx, tokens, "Bin Alert", alert.Message, data); err != nil {
			log.Printf("❌ Failed to multicast alert %s: %v", alert.ID, err)
		}
	}
}
