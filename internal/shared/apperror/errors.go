package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =====================================================
// VALIDATION ERRORS
// =====================================================

// Kind classifies a ValidationError.
type Kind string

const (
	MissingField      Kind = "missing_field"
	InvalidField      Kind = "invalid_field"
	PasswordMismatch  Kind = "password_mismatch"
	DuplicateUsername Kind = "duplicate_username"
	DuplicateEmail    Kind = "duplicate_email"
	DuplicateISBN     Kind = "duplicate_isbn"
)

// ValidationError is returned for bad input. Nothing is persisted when an
// operation fails with it.
type ValidationError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Code returns the error code used in HTTP responses.
func (e *ValidationError) Code() string {
	return strings.ToUpper(string(e.Kind))
}

// IsDuplicate reports whether the error is a uniqueness violation.
func (e *ValidationError) IsDuplicate() bool {
	switch e.Kind {
	case DuplicateUsername, DuplicateEmail, DuplicateISBN:
		return true
	}
	return false
}

func Missing(field string) *ValidationError {
	return &ValidationError{Kind: MissingField, Field: field, Message: "is required"}
}

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Kind: InvalidField, Field: field, Message: message}
}

func Duplicate(kind Kind, field string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: "already exists"}
}

// IsKind reports whether err is a ValidationError of the given kind.
func IsKind(err error, kind Kind) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && verr.Kind == kind
}

// FromValidation converts ozzo-validation errors into a single ValidationError.
// Required-rule failures win over other rule failures; fields are visited in
// name order so the result is deterministic.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		var rule validation.Error
		if errors.As(errs[field], &rule) && rule.Code() == validation.ErrRequired.Code() {
			return Missing(field)
		}
	}

	first := fields[0]
	return Invalid(first, errs[first].Error())
}

// =====================================================
// AUTHENTICATION
// =====================================================

// ErrAuthFailure never says which credential was wrong.
var ErrAuthFailure = errors.New("incorrect credentials")

// =====================================================
// NOT FOUND
// =====================================================

type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

func NotFound(entity string, key any) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// =====================================================
// STORAGE
// =====================================================

// StorageError wraps failures of the persistence layer. Conflict marks
// referential-integrity refusals whose Reason is safe to show to callers.
type StorageError struct {
	Op       string
	Conflict bool
	Reason   string
	Err      error
}

func (e *StorageError) Error() string {
	if e.Conflict {
		return fmt.Sprintf("%s: conflict: %s", e.Op, e.Reason)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: storage failure", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func Storage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func Conflict(op, reason string) *StorageError {
	return &StorageError{Op: op, Conflict: true, Reason: reason}
}

func IsConflict(err error) bool {
	var serr *StorageError
	return errors.As(err, &serr) && serr.Conflict
}

// =====================================================
// HTTP MAPPING
// =====================================================

// HTTPStatus maps an error to the status code handlers answer with.
func HTTPStatus(err error) int {
	var (
		verr *ValidationError
		nf   *NotFoundError
		serr *StorageError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		if verr.IsDuplicate() {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthFailure):
		return http.StatusUnauthorized
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &serr) && serr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Code maps an error to the machine readable code of the response envelope.
func Code(err error) string {
	var (
		verr *ValidationError
		nf   *NotFoundError
		serr *StorageError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Code()
	case errors.Is(err, ErrAuthFailure):
		return "AUTH_FAILED"
	case errors.As(err, &nf):
		return strings.ToUpper(nf.Entity) + "_NOT_FOUND"
	case errors.As(err, &serr) && serr.Conflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}
