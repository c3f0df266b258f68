package handlers

import (
	"context"
	"net"
	"net/http"
	"time"

	"smartbin-backend/internal/cache"
	"smartbin-backend/internal/database"
	"smartbin-backend/internal/websocket"
	"smartbin-backend/pkg/utils"
)

type HealthResponse struct {
	Status           string                 `json:"status"`
	Database         string                 `json:"database"`
	Timestamp        string                 `json:"timestamp"`
	WebsocketClients int                    `json:"websocketClients"`
	Cache            map[string]interface{} `json:"cache,omitempty"`
}

// Health handles GET /api/health. The server stays "ok" while the database is down
// since reads are served from cache.
func Health(store *database.Store, hub *websocket.Hub, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "connected"
		if err := store.Ping(ctx); err != nil {
			dbStatus = "disconnected"
		}

		resp := HealthResponse{
			Status:           "ok",
			Database:         dbStatus,
			Timestamp:        time.Now().UTC().Format(time.RFC3339),
			WebsocketClients: hub.GetClientCount(),
		}
		if c != nil {
			resp.Cache = c.Stats()
		}
		utils.RespondJSON(w, http.StatusOK, resp)
	}
}

// deviceEndpoints are advertised to sensors by ESP32Health
var deviceEndpoints = map[string]string{
	"updateLevel": "POST /api/bins/{id}/update-level",
	"realtime":    "GET /api/bins/{id}/realtime",
	"diagnostics": "POST /api/devices/diagnostics",
	"health":      "GET /api/esp32/health",
	"networkTest": "GET /api/network-test",
}

// ESP32Health handles GET /api/esp32/health
func ESP32Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"message":   "Smart bin server is reachable",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"endpoints": deviceEndpoints,
		})
	}
}

// NetworkTest handles GET /api/network-test, used by devices and apps to check reachability
func NetworkTest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			clientIP = host
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"message":    "Network connection successful!",
			"serverTime": time.Now().UTC().Format(time.RFC3339),
			"clientIp":   clientIP,
			"userAgent":  r.UserAgent(),
		})
	}
}
