package user

import (
	"errors"

	"publisher-backoffice/internal/shared/apperror"
)

var (
	// ErrInvalidSession covers malformed, expired and revoked tokens.
	ErrInvalidSession = errors.New("invalid or expired session")

	// ErrForbidden is returned when a non-admin principal reaches an admin route.
	ErrForbidden = errors.New("forbidden: admin access required")
)

// ErrUserNotFound builds the not-found error for a user id or username.
func ErrUserNotFound(key any) error {
	return apperror.NotFound("user", key)
}
