package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/utils"
)

const (
	MaxNameLength        = 100
	MaxNationalityLength = 50
)

// Author maps to the authors table.
type Author struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	BirthDate   *time.Time `db:"birth_date"`
	Nationality *string    `db:"nationality"`
}

// ========================================
// REQUEST
// ========================================

// AuthorRequest is the create/update form of an author.
type AuthorRequest struct {
	Name        string `form:"name" json:"name"`
	BirthDate   string `form:"birth_date" json:"birth_date"`
	Nationality string `form:"nationality" json:"nationality"`
}

func (r *AuthorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.BirthDate = strings.TrimSpace(r.BirthDate)
	r.Nationality = strings.TrimSpace(r.Nationality)
}

func (r AuthorRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&r.BirthDate, validation.Date(utils.DateLayout)),
		validation.Field(&r.Nationality, validation.RuneLength(0, MaxNationalityLength)),
	))
}

// ToAuthor converts a validated request.
func (r AuthorRequest) ToAuthor() (*Author, error) {
	birth, err := utils.ParseOptionalDate("birth_date", r.BirthDate)
	if err != nil {
		return nil, err
	}
	return &Author{
		Name:        r.Name,
		BirthDate:   birth,
		Nationality: utils.OptionalString(r.Nationality),
	}, nil
}

// ========================================
// RESPONSE
// ========================================

type AuthorResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	BirthDate   *string `json:"birth_date"`
	Nationality *string `json:"nationality"`
}

func (a *Author) ToResponse() AuthorResponse {
	return AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		BirthDate:   utils.FormatDate(a.BirthDate),
		Nationality: a.Nationality,
	}
}

// ErrAuthorNotFound builds the not-found error for id.
func ErrAuthorNotFound(id int64) error {
	return apperror.NotFound("author", id)
}
