package service

import (
	"context"
	"net/url"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher-backoffice/internal/domains/sale/model"
	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/pagination"
)

// memorySaleRepo keeps sales and items apart so cascades can be observed.
type memorySaleRepo struct {
	mu      sync.Mutex
	nextID  int64
	nextIt  int64
	clients map[int64]string
	books   map[int64]string
	sales   map[int64]model.Sale
	items   map[int64][]model.SaleItem
}

func newMemorySaleRepo() *memorySaleRepo {
	return &memorySaleRepo{
		clients: map[int64]string{1: "Livraria Cultura"},
		books:   map[int64]string{1: "Dom Casmurro", 2: "Iracema"},
		sales:   map[int64]model.Sale{},
		items:   map[int64][]model.SaleItem{},
	}
}

func (r *memorySaleRepo) Create(_ context.Context, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.clients[s.ClientID]
	if !ok {
		return model.ErrClientNotFound(s.ClientID)
	}
	for _, it := range s.Items {
		if _, ok := r.books[it.BookID]; !ok {
			return model.ErrBookNotFound(it.BookID)
		}
	}

	r.nextID++
	s.ID = r.nextID
	s.ClientName = name
	s.CreatedAt = time.Now()
	s.ItemCount = len(s.Items)
	for i := range s.Items {
		r.nextIt++
		s.Items[i].ID = r.nextIt
		s.Items[i].SaleID = s.ID
		s.Items[i].BookTitle = r.books[s.Items[i].BookID]
	}

	stored := *s
	stored.Items = nil
	r.sales[s.ID] = stored
	r.items[s.ID] = append([]model.SaleItem(nil), s.Items...)
	return nil
}

func (r *memorySaleRepo) GetByID(_ context.Context, id int64) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, model.ErrSaleNotFound(id)
	}
	s.Items = append([]model.SaleItem{}, r.items[id]...)
	return &s, nil
}

func (r *memorySaleRepo) all() []model.Sale {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].SaleDate.After(out[j].SaleDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *memorySaleRepo) List(_ context.Context, p pagination.Params) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.all()
	start := int(p.Offset())
	if start >= len(all) {
		return nil, int64(len(all)), nil
	}
	end := start + p.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *memorySaleRepo) ListItems(_ context.Context, saleID int64) ([]model.SaleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.SaleItem{}, r.items[saleID]...), nil
}

func (r *memorySaleRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[id]; !ok {
		return model.ErrSaleNotFound(id)
	}
	delete(r.items, id)
	delete(r.sales, id)
	return nil
}

func (r *memorySaleRepo) ListForExport(_ context.Context, from, to *time.Time) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.all() {
		if from != nil && s.SaleDate.Before(*from) {
			continue
		}
		if to != nil && s.SaleDate.After(*to) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func parseForm(t *testing.T, clientID, date string, lines ...[3]string) model.CreateSaleRequest {
	t.Helper()
	form := url.Values{model.FieldClientID: {clientID}, model.FieldSaleDate: {date}}
	for _, l := range lines {
		form.Add(model.FieldBookID, l[0])
		form.Add(model.FieldQuantity, l[1])
		form.Add(model.FieldUnitPrice, l[2])
	}
	req, err := model.ParseCreateSaleForm(form)
	require.NoError(t, err)
	return req
}

func TestCreateSale_Total(t *testing.T) {
	svc := NewSaleService(newMemorySaleRepo())

	sale, err := svc.CreateSale(context.Background(), parseForm(t, "1", "2024-05-02",
		[3]string{"1", "2", "10.00"},
		[3]string{"2", "1", "5.50"},
	))
	require.NoError(t, err)

	assert.Equal(t, "25.50", sale.TotalAmount.StringFixed(model.MoneyScale))
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "20.00", sale.Items[0].Subtotal().StringFixed(model.MoneyScale))
	assert.Equal(t, "Dom Casmurro", sale.Items[0].BookTitle)
	assert.Equal(t, "Livraria Cultura", sale.ClientName)
}

func TestCreateSale_LineWithoutPriceExcluded(t *testing.T) {
	repo := newMemorySaleRepo()
	svc := NewSaleService(repo)
	ctx := context.Background()

	sale, err := svc.CreateSale(ctx, parseForm(t, "1", "2024-05-02", [3]string{"1", "3", ""}))
	require.NoError(t, err)

	assert.Equal(t, "0.00", sale.TotalAmount.StringFixed(model.MoneyScale))
	items, err := svc.ListSaleItems(ctx, sale.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateSale_MissingFields(t *testing.T) {
	svc := NewSaleService(newMemorySaleRepo())
	ctx := context.Background()

	_, err := svc.CreateSale(ctx, parseForm(t, "", "2024-05-02"))
	assert.True(t, apperror.IsKind(err, apperror.MissingField))

	_, err = svc.CreateSale(ctx, parseForm(t, "1", ""))
	assert.True(t, apperror.IsKind(err, apperror.MissingField))
}

func TestCreateSale_UnknownReferences(t *testing.T) {
	repo := newMemorySaleRepo()
	svc := NewSaleService(repo)
	ctx := context.Background()

	_, err := svc.CreateSale(ctx, parseForm(t, "9", "2024-05-02", [3]string{"1", "1", "1.00"}))
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.CreateSale(ctx, parseForm(t, "1", "2024-05-02", [3]string{"42", "1", "1.00"}))
	assert.True(t, apperror.IsNotFound(err))

	assert.Empty(t, repo.sales)
}

func TestDeleteSale_RemovesItems(t *testing.T) {
	svc := NewSaleService(newMemorySaleRepo())
	ctx := context.Background()

	sale, err := svc.CreateSale(ctx, parseForm(t, "1", "2024-05-02",
		[3]string{"1", "1", "10.00"},
		[3]string{"2", "1", "20.00"},
	))
	require.NoError(t, err)

	items, err := svc.ListSaleItems(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NoError(t, svc.DeleteSale(ctx, sale.ID))

	items, err = svc.ListSaleItems(ctx, sale.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.GetSale(ctx, sale.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(svc.DeleteSale(ctx, sale.ID)))
}

func TestListSales_NewestFirst(t *testing.T) {
	svc := NewSaleService(newMemorySaleRepo())
	ctx := context.Background()

	for _, date := range []string{"2024-01-10", "2024-03-01", "2024-02-05"} {
		_, err := svc.CreateSale(ctx, parseForm(t, "1", date, [3]string{"1", "1", "1.00"}))
		require.NoError(t, err)
	}

	page, err := svc.ListSales(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "2024-03-01", page.Items[0].SaleDate.Format("2006-01-02"))
	assert.Equal(t, "2024-02-05", page.Items[1].SaleDate.Format("2006-01-02"))
	assert.Equal(t, int64(3), page.TotalItems)
	assert.True(t, page.HasNext)
}

func TestExportSales(t *testing.T) {
	svc := NewSaleService(newMemorySaleRepo())
	ctx := context.Background()

	for _, date := range []string{"2024-01-10", "2024-06-01"} {
		_, err := svc.CreateSale(ctx, parseForm(t, "1", date, [3]string{"1", "2", "12.50"}))
		require.NoError(t, err)
	}

	req, err := model.ParseExportRequest("2024-01-01", "2024-03-31")
	require.NoError(t, err)

	f, rows, err := svc.ExportSales(ctx, req)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, 1, rows)

	header, err := f.GetCellValue(exportSheet, "C1")
	require.NoError(t, err)
	assert.Equal(t, "Client", header)

	client, err := f.GetCellValue(exportSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Livraria Cultura", client)

	date, err := f.GetCellValue(exportSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", date)

	total, err := f.GetCellValue(exportSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "25", total)
}
