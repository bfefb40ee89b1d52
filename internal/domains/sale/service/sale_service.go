package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"publisher-backoffice/internal/domains/sale/model"
	"publisher-backoffice/internal/domains/sale/repository"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/internal/shared/utils"
	"publisher-backoffice/pkg/logger"
)

type saleService struct {
	repo repository.RepositoryInterface
}

func NewSaleService(repo repository.RepositoryInterface) ServiceInterface {
	return &saleService{repo: repo}
}

// ========================================
// CREATE
// ========================================

func (s *saleService) CreateSale(ctx context.Context, req model.CreateSaleRequest) (*model.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items := req.Items()
	sale := &model.Sale{
		ClientID:    req.ClientID,
		SaleDate:    *req.SaleDate,
		TotalAmount: model.CalculateTotal(items),
		Items:       items,
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, err
	}

	logger.Info("sale created", map[string]interface{}{
		"sale_id":   sale.ID,
		"client_id": sale.ClientID,
		"items":     len(sale.Items),
		"total":     sale.TotalAmount.StringFixed(model.MoneyScale),
	})
	return sale, nil
}

// ========================================
// READ
// ========================================

func (s *saleService) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *saleService) ListSales(ctx context.Context, page, pageSize int) (pagination.Page[model.Sale], error) {
	p := pagination.Normalize(page, pageSize)

	sales, total, err := s.repo.List(ctx, p)
	if err != nil {
		return pagination.Page[model.Sale]{}, err
	}
	return pagination.New(sales, p, total), nil
}

func (s *saleService) ListSaleItems(ctx context.Context, saleID int64) ([]model.SaleItem, error) {
	return s.repo.ListItems(ctx, saleID)
}

// ========================================
// DELETE
// ========================================

func (s *saleService) DeleteSale(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("sale deleted", map[string]interface{}{"sale_id": id})
	return nil
}

// ========================================
// EXPORT
// ========================================

const exportSheet = "Sales"

func (s *saleService) ExportSales(ctx context.Context, req model.ExportRequest) (*excelize.File, int, error) {
	sales, err := s.repo.ListForExport(ctx, req.From, req.To)
	if err != nil {
		return nil, 0, err
	}

	f, err := buildSalesWorkbook(sales)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build sales workbook: %w", err)
	}

	logger.Info("sales exported", map[string]interface{}{
		"rows": len(sales),
		"from": utils.FormatDate(req.From),
		"to":   utils.FormatDate(req.To),
	})
	return f, len(sales), nil
}

func buildSalesWorkbook(sales []model.Sale) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	headers := []string{"ID", "Sale Date", "Client", "Items", "Total", "Created At"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	total := decimal.Zero
	for i, sale := range sales {
		row := i + 2
		values := []interface{}{
			sale.ID,
			sale.SaleDate.Format(utils.DateLayout),
			sale.ClientName,
			sale.ItemCount,
			sale.TotalAmount.InexactFloat64(),
			sale.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
		total = total.Add(sale.TotalAmount)
	}

	if len(sales) > 0 {
		row := len(sales) + 2
		label, _ := excelize.CoordinatesToCellName(4, row)
		sum, _ := excelize.CoordinatesToCellName(5, row)
		_ = f.SetCellValue(exportSheet, label, "Total")
		_ = f.SetCellValue(exportSheet, sum, total.InexactFloat64())
		if headerStyle != 0 {
			_ = f.SetCellStyle(exportSheet, label, sum, headerStyle)
		}
	}

	return f, nil
}
