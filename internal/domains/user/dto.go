package user

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"publisher-backoffice/internal/shared/apperror"
)

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Normalize trims the identity fields and lower-cases the email.
// Passwords are kept as typed.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = NormalizeEmail(r.Email)
}

// NormalizeEmail is the stored form of a user email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks required fields first, then formats, then that both
// passwords match.
func (r RegisterRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(1, MaxUsernameLength),
		),
		validation.Field(&r.Email,
			validation.Required,
			validation.Length(3, MaxEmailLength),
			is.EmailFormat,
		),
		validation.Field(&r.Password, validation.Required),
	)
	if err != nil {
		return apperror.FromValidation(err)
	}

	if r.Password != r.ConfirmPassword {
		return &apperror.ValidationError{
			Kind:    apperror.PasswordMismatch,
			Field:   "confirm_password",
			Message: "passwords do not match",
		}
	}
	return nil
}

type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Remember bool   `form:"remember" json:"remember"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Principal `json:"user"`
}

// Session is a signed token together with its identity and expiry.
type Session struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
	Remember  bool
}

// ========================================
// USER DTOs
// ========================================

type UserDTO struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsAdmin     bool       `json:"is_admin"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// SeedUser describes an account created on an empty users table.
type SeedUser struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}
