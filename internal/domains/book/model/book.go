package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/utils"
)

const (
	MaxTitleLength = 200
	MaxISBNLength  = 20
	MaxGenreLength = 50

	ConstraintISBNKey    = "books_isbn_key"
	ConstraintSaleItemFK = "sale_items_book_id_fkey"
)

// Book maps to the books table. Authors is filled from book_authors.
type Book struct {
	ID              int64
	Title           string
	ISBN            string
	PublicationDate *time.Time
	Genre           *string
	Authors         []AuthorRef
}

// AuthorRef is the author side of a book association.
type AuthorRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AuthorIDs returns the ids of the linked authors.
func (b *Book) AuthorIDs() []int64 {
	ids := make([]int64, len(b.Authors))
	for i, a := range b.Authors {
		ids[i] = a.ID
	}
	return ids
}

// ========================================
// REQUESTS
// ========================================

type BookRequest struct {
	Title           string  `form:"title" json:"title"`
	ISBN            string  `form:"isbn" json:"isbn"`
	PublicationDate string  `form:"publication_date" json:"publication_date"`
	Genre           string  `form:"genre" json:"genre"`
	AuthorIDs       []int64 `form:"author_ids" json:"author_ids"`
}

func (r *BookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.ISBN = strings.TrimSpace(r.ISBN)
	r.PublicationDate = strings.TrimSpace(r.PublicationDate)
	r.Genre = strings.TrimSpace(r.Genre)
	r.AuthorIDs = UniqueIDs(r.AuthorIDs)
}

func (r BookRequest) Validate() error {
	return apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, MaxTitleLength)),
		validation.Field(&r.ISBN, validation.Required, validation.RuneLength(1, MaxISBNLength)),
		validation.Field(&r.PublicationDate, validation.Date(utils.DateLayout)),
		validation.Field(&r.Genre, validation.RuneLength(0, MaxGenreLength)),
		validation.Field(&r.AuthorIDs, validation.Each(validation.Min(int64(1)))),
	))
}

func (r BookRequest) ToBook() (*Book, error) {
	published, err := utils.ParseOptionalDate("publication_date", r.PublicationDate)
	if err != nil {
		return nil, err
	}
	return &Book{
		Title:           r.Title,
		ISBN:            r.ISBN,
		PublicationDate: published,
		Genre:           utils.OptionalString(r.Genre),
	}, nil
}

// BookAuthorsRequest replaces or extends the author set of a book.
type BookAuthorsRequest struct {
	AuthorIDs []int64 `form:"author_ids" json:"author_ids"`
}

// UniqueIDs drops non-positive and repeated ids, keeping first-seen order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id < 1 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ========================================
// RESPONSE
// ========================================

type BookResponse struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title"`
	ISBN            string      `json:"isbn"`
	PublicationDate *string     `json:"publication_date"`
	Genre           *string     `json:"genre"`
	Authors         []AuthorRef `json:"authors"`
}

func (b *Book) ToResponse() BookResponse {
	authors := b.Authors
	if authors == nil {
		authors = []AuthorRef{}
	}
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		PublicationDate: utils.FormatDate(b.PublicationDate),
		Genre:           b.Genre,
		Authors:         authors,
	}
}

// ========================================
// ERRORS
// ========================================

func ErrBookNotFound(id int64) error {
	return apperror.NotFound("book", id)
}

func ErrDuplicateISBN() error {
	return apperror.Duplicate(apperror.DuplicateISBN, "isbn")
}

func ErrBookHasSales(op string) error {
	return apperror.Conflict(op, "book is referenced by sales and cannot be deleted")
}
