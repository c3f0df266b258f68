package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"smartbin-backend/internal/cache"
	"smartbin-backend/internal/database"
	"smartbin-backend/internal/models"
	"smartbin-backend/pkg/utils"
)

// Where a read response came from, reported in the X-Data-Source header
const (
	SourceLive   = "live"
	SourceCache  = "cache"
	SourceSample = "sample"
)

const dataSourceHeader = "X-Data-Source"

// respondError maps store and validation errors onto HTTP responses
func respondError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		utils.RespondError(w, http.StatusBadRequest, validationErr.Code)
	case errors.Is(err, database.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, database.ErrConflict):
		utils.RespondError(w, http.StatusConflict, "already_exists")
	case errors.Is(err, database.ErrStoreUnavailable):
		utils.RespondError(w, http.StatusServiceUnavailable, "store_unavailable")
	default:
		log.Printf("❌ Unexpected error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal_error")
	}
}

// loadActiveBins reads the active bins, falling back to the last good snapshot
// and then to the sample bins when the store cannot be read
func loadActiveBins(ctx context.Context, store *database.Store, c cache.Cache) ([]models.BinResponse, string) {
	bins, err := store.ListActiveBins(ctx)
	if err == nil {
		responses := models.ToBinResponses(bins)
		if c != nil {
			if err := c.Set(ctx, cache.KeyActiveBins, responses); err != nil {
				log.Printf("⚠️  Failed to cache bins: %v", err)
			}
		}
		return responses, SourceLive
	}

	log.Printf("⚠️  Failed to load bins from store: %v", err)
	if c != nil {
		var cached []models.BinResponse
		if found, cerr := c.Get(ctx, cache.KeyActiveBins, &cached); cerr == nil && found {
			return cached, SourceCache
		}
	}

	log.Println("⚠️  Returning sample bins (database offline)")
	return models.ToBinResponses(database.SampleBins(time.Now())), SourceSample
}
