package model

import "github.com/shopspring/decimal"

// Summary holds the back-office counters shown on the landing page.
type Summary struct {
	TotalAuthors int64
	TotalBooks   int64
	TotalClients int64
	TotalSales   int64
	TotalRevenue decimal.Decimal
}

type SummaryResponse struct {
	TotalAuthors int64  `json:"total_authors"`
	TotalBooks   int64  `json:"total_books"`
	TotalClients int64  `json:"total_clients"`
	TotalSales   int64  `json:"total_sales"`
	TotalRevenue string `json:"total_revenue"`
}

func (s *Summary) ToResponse() SummaryResponse {
	return SummaryResponse{
		TotalAuthors: s.TotalAuthors,
		TotalBooks:   s.TotalBooks,
		TotalClients: s.TotalClients,
		TotalSales:   s.TotalSales,
		TotalRevenue: s.TotalRevenue.StringFixed(2),
	}
}
