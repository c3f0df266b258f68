package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"smartbin-backend/internal/database"
	"smartbin-backend/internal/middleware"
	"smartbin-backend/internal/models"
	"smartbin-backend/pkg/utils"
)

// RegisterFCMToken handles POST /api/users/fcm-token
func RegisterFCMToken(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req models.RegisterFCMTokenRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, err)
			return
		}

		token := strings.TrimSpace(req.Token)
		if err := store.UpsertFCMToken(r.Context(), user.UserID, token, req.DeviceType, time.Now()); err != nil {
			log.Printf("❌ Failed to save FCM token for %s: %v", user.UserID, err)
			respondError(w, err)
			return
		}

		log.Printf("📱 Registered %s device token for %s", req.DeviceType, user.Email)
		utils.Success(w, map[string]string{"status": "registered"})
	}
}
