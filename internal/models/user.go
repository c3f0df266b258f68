package models

import (
	"net/mail"
	"strings"
	"time"
)

const (
	UserTypePublic = "public"
	UserTypeAdmin  = "admin"
)

const minPasswordLength = 6

type User struct {
	ID        string `json:"id" db:"id"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"-" db:"password"` // Never return password in JSON
	Name      string `json:"name" db:"name"`
	UserType  string `json:"userType" db:"user_type"` // "public" or "admin"
	CreatedAt int64  `json:"created_at" db:"created_at"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	UserType  string `json:"userType"`
	CreatedAt string `json:"createdAt"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		UserType:  u.UserType,
		CreatedAt: time.Unix(u.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" || r.Password == "" {
		return NewValidationError("missing_credentials", "email and password are required")
	}
	return nil
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	if r.Email == "" || r.Password == "" || r.Name == "" {
		return NewValidationError("missing_fields", "email, password and name are required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return NewValidationError("invalid_email", "email address is not valid")
	}
	if len(r.Password) < minPasswordLength {
		return NewValidationError("weak_password", "password must be at least 6 characters")
	}
	return nil
}

// FCMToken represents a Firebase Cloud Messaging token for a user
type FCMToken struct {
	ID         int    `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	Token      string `json:"token" db:"token"`
	DeviceType string `json:"device_type" db:"device_type"` // "ios" or "android"
	CreatedAt  int64  `json:"created_at" db:"created_at"`
	UpdatedAt  int64  `json:"updated_at" db:"updated_at"`
}

type RegisterFCMTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

func (r RegisterFCMTokenRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return NewValidationError("missing_token", "token is required")
	}
	if r.DeviceType != "ios" && r.DeviceType != "android" {
		return NewValidationError("invalid_device_type", "device_type must be 'ios' or 'android'")
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
