package database

import (
	"context"
	"errors"

	"publisher-backoffice/internal/shared/apperror"
	txdb "publisher-backoffice/pkg/database"
	"publisher-backoffice/pkg/logger"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories react to.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeQueryCanceled       = "57014"
)

// ConstraintViolation returns the violated constraint name when err is a
// PostgreSQL error with the given code.
func ConstraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func UniqueViolation(err error) (string, bool) {
	return ConstraintViolation(err, CodeUniqueViolation)
}

func ForeignKeyViolation(err error) (string, bool) {
	return ConstraintViolation(err, CodeForeignKeyViolation)
}

// IsTimeout reports whether err came from a deadline or a statement cancel.
func IsTimeout(err error) bool {
	if errors.Is(err, txdb.ErrTxTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	_, ok := ConstraintViolation(err, CodeQueryCanceled)
	return ok
}

// Wrap passes application errors through and turns anything else into a
// StorageError for op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var (
		verr *apperror.ValidationError
		nf   *apperror.NotFoundError
		serr *apperror.StorageError
	)
	if errors.As(err, &verr) || errors.As(err, &nf) || errors.As(err, &serr) {
		return err
	}

	if IsTimeout(err) {
		logger.Warn("database operation timed out", map[string]interface{}{"op": op})
	}
	return apperror.Storage(op, err)
}
