package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"smartbin-backend/internal/middleware"
	"smartbin-backend/internal/models"
)

const testSecret = "test-secret"

var userColumns = []string{"id", "email", "password", "name", "user_type", "created_at", "updated_at"}

func userRows(t *testing.T, userType string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows(userColumns).
		AddRow("u1", "user@example.com", string(hash), "User", userType, int64(1700000000), int64(1700000000))
}

func TestLogin(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Login(offlineStore(), testSecret)(rec, jsonRequest(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "a@b.c"}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Login(offlineStore(), testSecret)(rec, jsonRequest(t, http.MethodPost, "/api/auth/login",
			models.LoginRequest{Email: "a@b.c", Password: "secret123"}))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT \\* FROM users WHERE email = \\$1").
			WithArgs("user@example.com").
			WillReturnRows(userRows(t, models.UserTypePublic))

		rec := httptest.NewRecorder()
		Login(store, testSecret)(rec, jsonRequest(t, http.MethodPost, "/api/auth/login",
			models.LoginRequest{Email: "User@Example.com", Password: "nope"}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid_credentials", errorCode(t, rec))
	})

	t.Run("admin login by public user", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT \\* FROM users").WillReturnRows(userRows(t, models.UserTypePublic))

		rec := httptest.NewRecorder()
		Login(store, testSecret)(rec, jsonRequest(t, http.MethodPost, "/api/auth/login",
			models.LoginRequest{Email: "user@example.com", Password: "secret123", UserType: models.UserTypeAdmin}))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT \\* FROM users").WillReturnRows(userRows(t, models.UserTypeAdmin))

		rec := httptest.NewRecorder()
		Login(store, testSecret)(rec, jsonRequest(t, http.MethodPost, "/api/auth/login",
			models.LoginRequest{Email: "user@example.com", Password: "secret123", UserType: models.UserTypeAdmin}))
		require.Equal(t, http.StatusOK, rec.Code)

		var body AuthResponse
		decodeBody(t, rec, &body)
		assert.True(t, body.Success)
		assert.Equal(t, models.UserTypeAdmin, body.User.UserType)

		claims, err := middleware.ParseToken(testSecret, body.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, models.UserTypeAdmin, claims.Role)
	})
}

func TestRegister(t *testing.T) {
	t.Run("weak password", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Register(offlineStore(), testSecret)(rec, jsonRequest(t, http.MethodPost, "/api/auth/register",
			models.RegisterRequest{Email: "new@example.com", Password: "123", Name: "New"}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "weak_password", errorCode(t, rec))
	})

	t.Run("duplicate email", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

		rec := httptest.NewRecorder()
		Register(store, testSecret)(rec, jsonRequest(t, http.MethodPost, "/api/auth/register",
			models.RegisterRequest{Email: "taken@example.com", Password: "secret123", Name: "Taken"}))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "email_already_registered", errorCode(t, rec))
	})

	t.Run("created as public user", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

		rec := httptest.NewRecorder()
		Register(store, testSecret)(rec, jsonRequest(t, http.MethodPost, "/api/auth/register",
			models.RegisterRequest{Email: "new@example.com", Password: "secret123", Name: "New"}))
		require.Equal(t, http.StatusCreated, rec.Code)

		var body AuthResponse
		decodeBody(t, rec, &body)
		assert.Equal(t, models.UserTypePublic, body.User.UserType)
		assert.NotEmpty(t, body.Token)
	})
}

func TestRegisterFCMToken(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO fcm_tokens").
		WithArgs("u1", "device-token", "android", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	token, err := middleware.IssueToken(testSecret, middleware.UserClaims{UserID: "u1", Email: "user@example.com", Role: models.UserTypePublic}, time.Now())
	require.NoError(t, err)

	req := jsonRequest(t, http.MethodPost, "/api/users/fcm-token", models.RegisterFCMTokenRequest{Token: "device-token", DeviceType: "android"})
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	middleware.Auth(testSecret)(RegisterFCMToken(store)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
