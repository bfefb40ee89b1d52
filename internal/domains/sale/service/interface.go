package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"publisher-backoffice/internal/domains/sale/model"
	"publisher-backoffice/internal/shared/pagination"
)

type ServiceInterface interface {
	CreateSale(ctx context.Context, req model.CreateSaleRequest) (*model.Sale, error)
	GetSale(ctx context.Context, id int64) (*model.Sale, error)
	ListSales(ctx context.Context, page, pageSize int) (pagination.Page[model.Sale], error)
	ListSaleItems(ctx context.Context, saleID int64) ([]model.SaleItem, error)
	DeleteSale(ctx context.Context, id int64) error

	// ExportSales builds a workbook with one row per sale in the range.
	ExportSales(ctx context.Context, req model.ExportRequest) (*excelize.File, int, error)
}
