package user

import (
	"time"
)

// User maps to the users table.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	IsAdmin      bool       `db:"is_admin" json:"is_admin"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func (u *User) Principal() *Principal {
	return &Principal{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// Constraint names from the schema, used to map unique violations.
const (
	ConstraintUsernameKey = "users_username_key"
	ConstraintEmailKey    = "users_email_key"
)

const (
	MaxUsernameLength = 80
	MaxEmailLength    = 120
)
