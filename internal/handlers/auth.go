package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"smartbin-backend/internal/database"
	"smartbin-backend/internal/middleware"
	"smartbin-backend/internal/models"
	"smartbin-backend/pkg/utils"
)

type AuthResponse struct {
	Success bool                `json:"success"`
	Token   string              `json:"token"`
	User    models.UserResponse `json:"user"`
}

// Login handles POST /api/auth/login
func Login(store *database.Store, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, err)
			return
		}

		log.Printf("🔐 Login attempt for: %s", req.Email)

		user, err := store.GetUserByEmail(r.Context(), req.Email)
		if errors.Is(err, database.ErrNotFound) {
			log.Printf("❌ User not found: %s", req.Email)
			utils.RespondError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			log.Printf("❌ Invalid password for: %s", req.Email)
			utils.RespondError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}

		if req.UserType == models.UserTypeAdmin && user.UserType != models.UserTypeAdmin {
			log.Printf("❌ Admin login refused for non-admin: %s", req.Email)
			utils.RespondError(w, http.StatusForbidden, "admin_access_required")
			return
		}

		if respondWithToken(w, http.StatusOK, user, jwtSecret) {
			log.Printf("✅ Login successful: %s (%s)", user.Email, user.UserType)
		}
	}
}

// Register handles POST /api/auth/register. New accounts are always public users.
func Register(store *database.Store, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("❌ Failed to hash password: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "internal_error")
			return
		}

		now := time.Now()
		user, err := store.CreateUser(r.Context(), models.User{
			ID:        uuid.New().String(),
			Email:     req.Email,
			Password:  string(hash),
			Name:      req.Name,
			UserType:  models.UserTypePublic,
			CreatedAt: now.Unix(),
			UpdatedAt: now.Unix(),
		})
		if errors.Is(err, database.ErrConflict) {
			utils.RespondError(w, http.StatusConflict, "email_already_registered")
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}

		log.Printf("✅ Registered new user: %s", user.Email)
		respondWithToken(w, http.StatusCreated, user, jwtSecret)
	}
}

func respondWithToken(w http.ResponseWriter, status int, user models.User, jwtSecret string) bool {
	token, err := middleware.IssueToken(jwtSecret, middleware.UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.UserType,
	}, time.Now())
	if err != nil {
		log.Printf("❌ Failed to create token: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "token_error")
		return false
	}

	utils.RespondJSON(w, status, AuthResponse{
		Success: true,
		Token:   token,
		User:    user.ToUserResponse(),
	})
	return true
}
