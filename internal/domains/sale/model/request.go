package model

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/utils"
)

// Form keys of the sale form. Line keys repeat once per line.
const (
	FieldClientID  = "client_id"
	FieldSaleDate  = "sale_date"
	FieldBookID    = "book_id"
	FieldQuantity  = "quantity"
	FieldUnitPrice = "unit_price"
)

// MaxQuantity is the largest quantity the INTEGER column holds.
const MaxQuantity = math.MaxInt32

// SaleLine is one parsed line of the sale form.
type SaleLine struct {
	BookID    int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateSaleRequest is the parsed sale form.
type CreateSaleRequest struct {
	ClientID int64      `json:"client_id"`
	SaleDate *time.Time `json:"sale_date"`
	Lines    []SaleLine `json:"-"`
}

// ParseCreateSaleForm reads the sale form. Line lists are paired by
// position and cut to the shortest one. A line with any blank value is
// dropped; a present but malformed value is an InvalidField error.
func ParseCreateSaleForm(form url.Values) (CreateSaleRequest, error) {
	var req CreateSaleRequest

	if raw := strings.TrimSpace(form.Get(FieldClientID)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return req, apperror.Invalid(FieldClientID, "must be a positive integer")
		}
		req.ClientID = id
	}

	date, err := utils.ParseOptionalDate(FieldSaleDate, form.Get(FieldSaleDate))
	if err != nil {
		return req, err
	}
	req.SaleDate = date

	books := form[FieldBookID]
	quantities := form[FieldQuantity]
	prices := form[FieldUnitPrice]

	n := min(len(books), len(quantities), len(prices))
	for i := 0; i < n; i++ {
		b := strings.TrimSpace(books[i])
		q := strings.TrimSpace(quantities[i])
		p := strings.TrimSpace(prices[i])
		if b == "" || q == "" || p == "" {
			continue
		}

		line, err := parseLine(b, q, p)
		if err != nil {
			return req, err
		}
		req.Lines = append(req.Lines, line)
	}

	return req, nil
}

func parseLine(book, quantity, price string) (SaleLine, error) {
	bookID, err := strconv.ParseInt(book, 10, 64)
	if err != nil {
		return SaleLine{}, apperror.Invalid(FieldBookID, "must be a positive integer")
	}

	qty, err := strconv.ParseInt(quantity, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return SaleLine{}, apperror.Invalid(FieldQuantity, "must be at most "+strconv.Itoa(MaxQuantity))
	}
	if err != nil {
		return SaleLine{}, apperror.Invalid(FieldQuantity, "must be an integer")
	}

	unit, err := decimal.NewFromString(price)
	if err != nil {
		return SaleLine{}, apperror.Invalid(FieldUnitPrice, "must be a decimal number")
	}

	return SaleLine{BookID: bookID, Quantity: int(qty), UnitPrice: unit}, nil
}

// Validate checks the header fields, every line and the resulting total.
func (r CreateSaleRequest) Validate() error {
	err := apperror.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.ClientID, validation.Required),
		validation.Field(&r.SaleDate, validation.Required),
	))
	if err != nil {
		return err
	}

	for _, l := range r.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}

	if r.Total().GreaterThan(MaxAmount) {
		return apperror.Invalid(FieldUnitPrice, "sale total exceeds "+MaxAmount.StringFixed(MoneyScale))
	}
	return nil
}

func (l SaleLine) Validate() error {
	switch {
	case l.BookID < 1:
		return apperror.Invalid(FieldBookID, "must be a positive integer")
	case l.Quantity < 1:
		return apperror.Invalid(FieldQuantity, "must be at least 1")
	case l.Quantity > MaxQuantity:
		return apperror.Invalid(FieldQuantity, "must be at most "+strconv.Itoa(MaxQuantity))
	case l.UnitPrice.IsNegative():
		return apperror.Invalid(FieldUnitPrice, "must not be negative")
	case !l.UnitPrice.Equal(l.UnitPrice.Round(MoneyScale)):
		return apperror.Invalid(FieldUnitPrice, "must have at most two decimal places")
	case l.UnitPrice.GreaterThan(MaxAmount):
		return apperror.Invalid(FieldUnitPrice, "exceeds "+MaxAmount.StringFixed(MoneyScale))
	}
	return nil
}

// Items turns the lines into unsaved sale items.
func (r CreateSaleRequest) Items() []SaleItem {
	items := make([]SaleItem, len(r.Lines))
	for i, l := range r.Lines {
		items[i] = SaleItem{BookID: l.BookID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return items
}

func (r CreateSaleRequest) Total() decimal.Decimal {
	return CalculateTotal(r.Items())
}

// BookIDs returns the distinct books referenced by the lines.
func (r CreateSaleRequest) BookIDs() []int64 {
	seen := make(map[int64]bool, len(r.Lines))
	ids := make([]int64, 0, len(r.Lines))
	for _, l := range r.Lines {
		if !seen[l.BookID] {
			seen[l.BookID] = true
			ids = append(ids, l.BookID)
		}
	}
	return ids
}

// ExportRequest bounds the sales export by sale date, both ends inclusive.
type ExportRequest struct {
	From *time.Time
	To   *time.Time
}

func ParseExportRequest(from, to string) (ExportRequest, error) {
	var (
		req ExportRequest
		err error
	)
	if req.From, err = utils.ParseOptionalDate("from", from); err != nil {
		return req, err
	}
	if req.To, err = utils.ParseOptionalDate("to", to); err != nil {
		return req, err
	}
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return req, apperror.Invalid("to", "must not be before from")
	}
	return req, nil
}
