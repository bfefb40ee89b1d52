package model

import (
	"time"

	"github.com/shopspring/decimal"

	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/utils"
)

const (
	MoneyScale = 2

	ConstraintClientFK = "sales_client_id_fkey"
	ConstraintBookFK   = "sale_items_book_id_fkey"
)

// MaxAmount is the largest value a NUMERIC(10,2) column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

// Sale maps to the sales table. ClientName and ItemCount are filled by the
// list queries; Items only when a single sale is loaded.
type Sale struct {
	ID          int64           `db:"id"`
	ClientID    int64           `db:"client_id"`
	ClientName  string          `db:"client_name"`
	SaleDate    time.Time       `db:"sale_date"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	CreatedAt   time.Time       `db:"created_at"`
	ItemCount   int             `db:"item_count"`
	Items       []SaleItem      `db:"-"`
}

// SaleItem maps to the sale_items table.
type SaleItem struct {
	ID        int64           `db:"id"`
	SaleID    int64           `db:"sale_id"`
	BookID    int64           `db:"book_id"`
	BookTitle string          `db:"book_title"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}

func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CalculateTotal sums quantity times unit price over items, rounded to
// the money scale.
func CalculateTotal(items []SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(MoneyScale)
}

// ========================================
// RESPONSE
// ========================================

type SaleItemResponse struct {
	ID        int64  `json:"id"`
	BookID    int64  `json:"book_id"`
	BookTitle string `json:"book_title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type SaleResponse struct {
	ID          int64              `json:"id"`
	ClientID    int64              `json:"client_id"`
	ClientName  string             `json:"client_name,omitempty"`
	SaleDate    string             `json:"sale_date"`
	TotalAmount string             `json:"total_amount"`
	CreatedAt   time.Time          `json:"created_at"`
	ItemCount   int                `json:"item_count"`
	Items       []SaleItemResponse `json:"items,omitempty"`
}

func (i SaleItem) ToResponse() SaleItemResponse {
	return SaleItemResponse{
		ID:        i.ID,
		BookID:    i.BookID,
		BookTitle: i.BookTitle,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice.StringFixed(MoneyScale),
		Subtotal:  i.Subtotal().StringFixed(MoneyScale),
	}
}

func (s *Sale) ToResponse() SaleResponse {
	resp := SaleResponse{
		ID:          s.ID,
		ClientID:    s.ClientID,
		ClientName:  s.ClientName,
		SaleDate:    s.SaleDate.Format(utils.DateLayout),
		TotalAmount: s.TotalAmount.StringFixed(MoneyScale),
		CreatedAt:   s.CreatedAt,
		ItemCount:   s.ItemCount,
	}
	if s.Items != nil {
		resp.Items = ItemsToResponse(s.Items)
	}
	return resp
}

func ItemsToResponse(items []SaleItem) []SaleItemResponse {
	out := make([]SaleItemResponse, len(items))
	for i := range items {
		out[i] = items[i].ToResponse()
	}
	return out
}

// ========================================
// ERRORS
// ========================================

func ErrSaleNotFound(id int64) error {
	return apperror.NotFound("sale", id)
}

func ErrClientNotFound(id int64) error {
	return apperror.NotFound("client", id)
}

func ErrBookNotFound(id int64) error {
	return apperror.NotFound("book", id)
}
