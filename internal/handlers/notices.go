package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"smartbin-backend/internal/cache"
	"smartbin-backend/internal/database"
	"smartbin-backend/internal/middleware"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/services"
	"smartbin-backend/internal/websocket"
	"smartbin-backend/pkg/utils"
)

type NoticeEnvelope struct {
	Success bool                  `json:"success"`
	Notice  models.NoticeResponse `json:"notice"`
}

// GetNotices handles GET /api/notices
func GetNotices(store *database.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now()

		notices, err := store.ListActiveNotices(ctx, now)
		if err == nil {
			if c != nil {
				if err := c.Set(ctx, cache.KeyNotices, notices); err != nil {
					log.Printf("⚠️  Failed to cache notices: %v", err)
				}
			}
			w.Header().Set(dataSourceHeader, SourceLive)
			utils.RespondJSON(w, http.StatusOK, models.ToNoticeResponses(notices))
			return
		}

		log.Printf("⚠️  Failed to load notices from store: %v", err)
		if c != nil {
			var cached []models.Notice
			if found, cerr := c.Get(ctx, cache.KeyNotices, &cached); cerr == nil && found {
				// notices may have expired since they were cached
				w.Header().Set(dataSourceHeader, SourceCache)
				utils.RespondJSON(w, http.StatusOK, models.ToNoticeResponses(models.ActiveNotices(cached, now)))
				return
			}
		}

		system := database.SystemNotice(now)
		w.Header().Set(dataSourceHeader, SourceSample)
		utils.RespondJSON(w, http.StatusOK, []models.NoticeResponse{system.ToNoticeResponse()})
	}
}

// CreateNotice handles POST /api/notices. The author is the authenticated user
// when a bearer token is present, otherwise the adminId field of the body.
func CreateNotice(store *database.Store, c cache.Cache, hub *websocket.Hub, notifier services.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateNoticeRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}

		createdBy := req.AdminID
		if user, ok := middleware.GetUserFromContext(r); ok {
			createdBy = user.UserID
		}

		notice, err := req.ToNotice(uuid.New().String(), createdBy, time.Now())
		if err != nil {
			respondError(w, err)
			return
		}

		created, err := store.CreateNotice(r.Context(), notice)
		if err != nil {
			log.Printf("❌ Failed to create notice: %v", err)
			respondError(w, err)
			return
		}

		log.Printf("📢 Notice created: %q (%s, audience %s)", created.Title, created.Priority, created.TargetAudience)
		invalidate(r.Context(), c, cache.KeyNotices)

		resp := created.ToNoticeResponse()
		if created.TargetAudience == models.AudienceAdmins {
			hub.BroadcastToRole(models.UserTypeAdmin, websocket.NewEvent(websocket.EventNoticeCreated, resp))
		} else {
			hub.Broadcast(websocket.NewEvent(websocket.EventNoticeCreated, resp))
		}
		go pushNotice(notifier, created)

		utils.RespondJSON(w, http.StatusCreated, NoticeEnvelope{Success: true, Notice: resp})
	}
}

// DeactivateNotice handles DELETE /api/admin/notices/{id}
func DeactivateNotice(store *database.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notice, err := store.DeactivateNotice(r.Context(), chi.URLParam(r, "id"), time.Now())
		if err != nil {
			respondError(w, err)
			return
		}

		invalidate(r.Context(), c, cache.KeyNotices)
		utils.RespondJSON(w, http.StatusOK, NoticeEnvelope{Success: true, Notice: notice.ToNoticeResponse()})
	}
}

// ExpireNotices handles POST /api/admin/notices/expire
func ExpireNotices(store *database.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expired, err := store.ExpireNotices(r.Context(), time.Now())
		if err != nil {
			respondError(w, err)
			return
		}
		if expired > 0 {
			invalidate(r.Context(), c, cache.KeyNotices)
		}

		log.Printf("🗓️  Expired %d notices", expired)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "expired": expired})
	}
}

func pushNotice(notifier services.Notifier, notice models.Notice) {
	if notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	if err := notifier.SendNotice(ctx, notice); err != nil {
		log.Printf("❌ Failed to push notice %s: %v", notice.ID, err)
	}
}

// invalidate drops a cached snapshot after a write so readers see fresh data
func invalidate(ctx context.Context, c cache.Cache, key string) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, key); err != nil {
		log.Printf("⚠️  Failed to invalidate %s: %v", key, err)
	}
}
