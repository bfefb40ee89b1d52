package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"publisher-backoffice/internal/domains/sale/model"
	"publisher-backoffice/internal/shared/pagination"
)

type stubSaleService struct {
	created *model.CreateSaleRequest
	sales   map[int64]*model.Sale
}

func (s *stubSaleService) CreateSale(_ context.Context, req model.CreateSaleRequest) (*model.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	s.created = &req
	return &model.Sale{
		ID:          1,
		ClientID:    req.ClientID,
		SaleDate:    *req.SaleDate,
		TotalAmount: req.Total(),
		Items:       req.Items(),
		ItemCount:   len(req.Lines),
	}, nil
}

func (s *stubSaleService) GetSale(_ context.Context, id int64) (*model.Sale, error) {
	if sale, ok := s.sales[id]; ok {
		return sale, nil
	}
	return nil, model.ErrSaleNotFound(id)
}

func (s *stubSaleService) ListSales(_ context.Context, page, pageSize int) (pagination.Page[model.Sale], error) {
	p := pagination.Normalize(page, pageSize)
	return pagination.New([]model.Sale{}, p, 0), nil
}

func (s *stubSaleService) ListSaleItems(_ context.Context, _ int64) ([]model.SaleItem, error) {
	return []model.SaleItem{}, nil
}

func (s *stubSaleService) DeleteSale(_ context.Context, id int64) error {
	if _, ok := s.sales[id]; !ok {
		return model.ErrSaleNotFound(id)
	}
	delete(s.sales, id)
	return nil
}

func (s *stubSaleService) ExportSales(_ context.Context, _ model.ExportRequest) (*excelize.File, int, error) {
	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "ID"); err != nil {
		return nil, 0, err
	}
	return f, 0, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(svc *stubSaleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSaleHandler(svc)
	r.POST("/sales", h.Create)
	r.GET("/sales", h.List)
	r.GET("/sales/export", h.Export)
	r.GET("/sales/:id", h.GetByID)
	r.GET("/sales/:id/items", h.ListItems)
	r.DELETE("/sales/:id", h.Delete)
	return r
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCreateSaleHandler(t *testing.T) {
	svc := &stubSaleService{}
	r := setupRouter(svc)

	form := url.Values{
		"client_id":  {"3"},
		"sale_date":  {"2024-05-02"},
		"book_id":    {"1", "2", "4"},
		"quantity":   {"2", "1", "1"},
		"unit_price": {"10.00", "5.50", ""},
	}
	w := postForm(r, "/sales", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decode(t, w)
	assert.True(t, env.Success)

	var sale model.SaleResponse
	require.NoError(t, json.Unmarshal(env.Data, &sale))
	assert.Equal(t, "25.50", sale.TotalAmount)
	assert.Equal(t, "2024-05-02", sale.SaleDate)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "20.00", sale.Items[0].Subtotal)

	require.NotNil(t, svc.created)
	assert.Len(t, svc.created.Lines, 2)
}

func TestCreateSaleHandler_Multipart(t *testing.T) {
	r := setupRouter(&stubSaleService{})

	var body bytes.Buffer
	body.WriteString("--x\r\nContent-Disposition: form-data; name=\"client_id\"\r\n\r\n3\r\n")
	body.WriteString("--x\r\nContent-Disposition: form-data; name=\"sale_date\"\r\n\r\n2024-05-02\r\n")
	body.WriteString("--x--\r\n")

	req := httptest.NewRequest(http.MethodPost, "/sales", &body)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateSaleHandler_Errors(t *testing.T) {
	r := setupRouter(&stubSaleService{})

	w := postForm(r, "/sales", url.Values{"sale_date": {"2024-05-02"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FIELD", decode(t, w).Error.Code)

	w = postForm(r, "/sales", url.Values{
		"client_id":  {"3"},
		"sale_date":  {"2024-05-02"},
		"book_id":    {"1"},
		"quantity":   {"many"},
		"unit_price": {"1.00"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FIELD", decode(t, w).Error.Code)
}

func TestGetAndDeleteSaleHandler(t *testing.T) {
	svc := &stubSaleService{sales: map[int64]*model.Sale{
		5: {ID: 5, ClientID: 1, SaleDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales/5", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sales/5", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales/5", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SALE_NOT_FOUND", decode(t, w).Error.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSalesHandler_EmptyPage(t *testing.T) {
	r := setupRouter(&stubSaleService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales?page=1000", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))
}

func TestExportSalesHandler(t *testing.T) {
	r := setupRouter(&stubSaleService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales/export?from=2024-01-01", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxMIME, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", v)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales/export?from=2024-02-01&to=2024-01-01", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
