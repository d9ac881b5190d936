package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential record. One row per lower-cased email.
// An unverified row is a provisional placeholder holding an in-flight OTP.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Birthday     *time.Time `json:"birthday,omitempty"`
	PasswordHash *string    `json:"-"` // nil for OTP-only users
	OTP          *string    `json:"-"`
	OTPExpiry    *time.Time `json:"-"`
	IsVerified   bool       `json:"isVerified"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// HasPassword reports whether a password hash is configured.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Profile is the redacted view of a user returned to clients.
type Profile struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	IsVerified bool       `json:"isVerified"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

// Profile returns the redacted view without login/creation stamps.
func (u User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Birthday:   u.Birthday,
		IsVerified: u.IsVerified,
	}
}

// FullProfile adds lastLogin and createdAt, as served by /auth/me.
func (u User) FullProfile() Profile {
	p := u.Profile()
	p.LastLogin = u.LastLogin
	created := u.CreatedAt
	p.CreatedAt = &created
	return p
}

type SendOTPRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required"`
	Name    string `json:"name" binding:"omitempty,min=2,max=50"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Birthday string `json:"birthday" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	OTP      string `json:"otp" binding:"omitempty,len=6,numeric"`
}

type SignInRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"omitempty,min=6"`
	OTP          string `json:"otp" binding:"omitempty,len=6,numeric"`
	KeepLoggedIn bool   `json:"keepLoggedIn"`
}
