package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"smartbin-backend/internal/cache"
	"smartbin-backend/internal/config"
	"smartbin-backend/internal/database"
	"smartbin-backend/internal/handlers"
	"smartbin-backend/internal/middleware"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/services"
	"smartbin-backend/internal/websocket"
)

func newRouter(cfg *config.Config, store *database.Store, c cache.Cache, wsHub *websocket.Hub, fcmService *services.FCMService) http.Handler {
	depot := models.Location{Latitude: cfg.DepotLatitude, Longitude: cfg.DepotLongitude, Address: services.DEPOT_ADDRESS}
	routeStart := services.Location{Latitude: cfg.DepotLatitude, Longitude: cfg.DepotLongitude}

	var notifier services.Notifier
	if fcmService != nil {
		notifier = fcmService
	}

	var geocoder services.Geocoder
	if g := services.NewGeocodingService(cfg.GoogleMapsAPIKey); g != nil {
		geocoder = g
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Data-Source"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health(store, wsHub, c))

		// WebSocket endpoint (authentication handled in handler via query param)
		r.Get("/ws", websocket.HandleWebSocket(wsHub, cfg.JWTSecret))

		// Authentication routes
		r.Post("/auth/login", handlers.Login(store, cfg.JWTSecret))
		r.Post("/auth/register", handlers.Register(store, cfg.JWTSecret))

		// Bins
		r.Get("/bins", handlers.GetBins(store, c))
		r.Get("/bins/{id}", handlers.GetBin(store))
		r.Get("/bins/{id}/realtime", handlers.GetBinRealtime(store))
		r.Get("/collection-route", handlers.GetCollectionRoute(store, c, routeStart))
		r.Get("/analytics/dashboard", handlers.GetDashboard(store, c))

		// Sensor devices
		r.Post("/bins/{id}/update-level", handlers.UpdateBinLevel(store, wsHub, notifier, depot))
		r.Get("/esp32/health", handlers.ESP32Health())
		r.Get("/network-test", handlers.NetworkTest())
		r.Post("/devices/diagnostics", handlers.ReceiveDiagnosticLog())

		// Reports (anonymous reports allowed)
		r.Get("/reports", handlers.GetReports(store))
		r.Post("/reports", handlers.CreateReport(store))
		r.Patch("/reports/{id}/resolve", handlers.ResolveReport(store))

		// Notices. A bearer token, when present, names the author.
		r.Get("/notices", handlers.GetNotices(store, c))
		r.With(middleware.OptionalAuth(cfg.JWTSecret)).Post("/notices", handlers.CreateNotice(store, c, wsHub, notifier))

		// Authenticated users
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			r.Post("/users/fcm-token", handlers.RegisterFCMToken(store))
		})

		// Admin endpoints (require authentication + admin role)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Use(middleware.RequireRole(models.UserTypeAdmin))

			r.Post("/bins", handlers.CreateBin(store, c, geocoder))
			r.Patch("/bins/{id}/status", handlers.UpdateBinStatus(store, c))
			r.Post("/bins/{id}/collected", handlers.MarkBinCollected(store, c, wsHub))

			r.Patch("/reports/{id}/status", handlers.UpdateReportStatus(store))

			r.Delete("/notices/{id}", handlers.DeactivateNotice(store, c))
			r.Post("/notices/expire", handlers.ExpireNotices(store, c))
		})
	})

	return r
}
