package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"publisher-backoffice/internal/shared/apperror"
)

const (
	MaxNameLength  = 100
	MaxEmailLength = 120

	ConstraintEmailKey   = "clients_email_key"
	ConstraintSaleClient = "sales_client_id_fkey"
)

// Client maps to the clients table.
type Client struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	RegisteredAt time.Time `db:"registered_at"`
}

// ========================================
// REQUEST
// ========================================

type ClientRequest struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
}

func (r *ClientRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r ClientRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&r.Email,
			validation.Required,
			validation.Length(3, MaxEmailLength),
			is.EmailFormat,
		),
	))
}

// ========================================
// RESPONSE
// ========================================

type ClientResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (c *Client) ToResponse() ClientResponse {
	return ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		RegisteredAt: c.RegisteredAt,
	}
}

// ========================================
// ERRORS
// ========================================

func ErrClientNotFound(id int64) error {
	return apperror.NotFound("client", id)
}

func ErrDuplicateEmail() error {
	return apperror.Duplicate(apperror.DuplicateEmail, "email")
}

func ErrClientHasSales(op string) error {
	return apperror.Conflict(op, "client has sales and cannot be deleted")
}
