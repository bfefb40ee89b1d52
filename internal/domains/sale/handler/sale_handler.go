package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"publisher-backoffice/internal/domains/sale/model"
	"publisher-backoffice/internal/domains/sale/service"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/internal/shared/response"
	"publisher-backoffice/internal/shared/utils"
	"publisher-backoffice/pkg/logger"
)

const (
	maxFormMemory = 8 << 20
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type SaleHandler struct {
	service service.ServiceInterface
}

func NewSaleHandler(svc service.ServiceInterface) *SaleHandler {
	return &SaleHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/sales
// client_id, sale_date, then book_id/quantity/unit_price once per line
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) Create(c *gin.Context) {
	err := c.Request.ParseMultipartForm(maxFormMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		response.BadRequest(c, "invalid form body")
		return
	}

	req, err := model.ParseCreateSaleForm(c.Request.PostForm)
	if err != nil {
		response.FromError(c, err)
		return
	}

	sale, err := h.service.CreateSale(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Sale created successfully", sale.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/sales/:id
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	sale, err := h.service.GetSale(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get sale successfully", sale.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/sales?page=1&page_size=10
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) List(c *gin.Context) {
	page, size := utils.PageQuery(c)

	result, err := h.service.ListSales(c.Request.Context(), page, size)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessPage(c, "Get sales successfully", pagination.Map(result, toResponse))
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/sales/:id/items
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) ListItems(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, err := h.service.ListSaleItems(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get sale items successfully", model.ItemsToResponse(items))
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/sales/:id
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.DeleteSale(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Sale deleted successfully", nil)
}

// ════════════════════════════════════════════════════════════════
// EXPORT: GET /v1/sales/export?from=2024-01-01&to=2024-12-31
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) Export(c *gin.Context) {
	req, err := model.ParseExportRequest(c.Query("from"), c.Query("to"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	f, _, err := h.service.ExportSales(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("sales_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", xlsxMIME)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		logger.Error("failed to stream sales workbook", err, map[string]interface{}{
			"request_id": c.GetString("request_id"),
		})
	}
}

func toResponse(s model.Sale) model.SaleResponse {
	return s.ToResponse()
}
