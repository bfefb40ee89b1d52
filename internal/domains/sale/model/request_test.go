package model

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher-backoffice/internal/shared/apperror"
)

func saleForm(lines ...[3]string) url.Values {
	form := url.Values{
		FieldClientID: {"7"},
		FieldSaleDate: {"2024-03-15"},
	}
	for _, l := range lines {
		form.Add(FieldBookID, l[0])
		form.Add(FieldQuantity, l[1])
		form.Add(FieldUnitPrice, l[2])
	}
	return form
}

func TestParseCreateSaleForm(t *testing.T) {
	req, err := ParseCreateSaleForm(saleForm(
		[3]string{"1", "2", "10.00"},
		[3]string{"2", "1", "5.50"},
	))
	require.NoError(t, err)
	require.NoError(t, req.Validate())

	assert.Equal(t, int64(7), req.ClientID)
	assert.Equal(t, "2024-03-15", req.SaleDate.Format("2006-01-02"))
	require.Len(t, req.Lines, 2)
	assert.Equal(t, "25.50", req.Total().StringFixed(MoneyScale))
	assert.Equal(t, []int64{1, 2}, req.BookIDs())
}

func TestParseCreateSaleForm_SkipsIncompleteLines(t *testing.T) {
	req, err := ParseCreateSaleForm(saleForm(
		[3]string{"1", "2", ""},
		[3]string{"", "1", "5.50"},
		[3]string{"3", " ", "1.00"},
	))
	require.NoError(t, err)
	require.NoError(t, req.Validate())

	assert.Empty(t, req.Lines)
	assert.Equal(t, "0.00", req.Total().StringFixed(MoneyScale))
}

func TestParseCreateSaleForm_TruncatesToShortestList(t *testing.T) {
	form := saleForm([3]string{"1", "1", "3.00"})
	form.Add(FieldBookID, "2")
	form.Add(FieldQuantity, "4")

	req, err := ParseCreateSaleForm(form)
	require.NoError(t, err)
	require.Len(t, req.Lines, 1)
	assert.Equal(t, int64(1), req.Lines[0].BookID)
}

func TestParseCreateSaleForm_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		form  url.Values
		field string
	}{
		{"client id", url.Values{FieldClientID: {"abc"}}, FieldClientID},
		{"sale date", url.Values{FieldClientID: {"1"}, FieldSaleDate: {"15/03/2024"}}, FieldSaleDate},
		{"book id", saleForm([3]string{"x", "1", "1.00"}), FieldBookID},
		{"quantity", saleForm([3]string{"1", "1.5", "1.00"}), FieldQuantity},
		{"quantity beyond integer column", saleForm([3]string{"1", "3000000000", "0.00"}), FieldQuantity},
		{"price", saleForm([3]string{"1", "1", "ten"}), FieldUnitPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCreateSaleForm(tt.form)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.InvalidField))

			verr, ok := err.(*apperror.ValidationError)
			require.True(t, ok)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateSaleRequest_Validate(t *testing.T) {
	req, err := ParseCreateSaleForm(url.Values{FieldSaleDate: {"2024-01-01"}})
	require.NoError(t, err)
	assert.True(t, apperror.IsKind(req.Validate(), apperror.MissingField))

	req, err = ParseCreateSaleForm(url.Values{FieldClientID: {"1"}})
	require.NoError(t, err)
	verr, ok := req.Validate().(*apperror.ValidationError)
	require.True(t, ok)
	assert.Equal(t, apperror.MissingField, verr.Kind)
	assert.Equal(t, FieldSaleDate, verr.Field)

	bad := [][3]string{
		{"1", "0", "1.00"},
		{"1", "1", "-1.00"},
		{"1", "1", "1.005"},
		{"1", "2", "99999999.99"},
	}
	for _, l := range bad {
		req, err := ParseCreateSaleForm(saleForm(l))
		require.NoError(t, err)
		assert.True(t, apperror.IsKind(req.Validate(), apperror.InvalidField), l)
	}
}

func TestSaleLine_QuantityBounds(t *testing.T) {
	line := SaleLine{BookID: 1, Quantity: MaxQuantity, UnitPrice: decimal.Zero}
	assert.NoError(t, line.Validate())

	line.Quantity = MaxQuantity + 1
	err := line.Validate()
	assert.True(t, apperror.IsKind(err, apperror.InvalidField))

	verr, ok := err.(*apperror.ValidationError)
	require.True(t, ok)
	assert.Equal(t, FieldQuantity, verr.Field)
}

func TestCalculateTotal(t *testing.T) {
	items := []SaleItem{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.20")},
	}
	assert.Equal(t, "0.50", CalculateTotal(items).StringFixed(MoneyScale))
	assert.True(t, CalculateTotal(nil).IsZero())
}

func TestParseExportRequest(t *testing.T) {
	req, err := ParseExportRequest("", "")
	require.NoError(t, err)
	assert.Nil(t, req.From)
	assert.Nil(t, req.To)

	req, err = ParseExportRequest("2024-01-01", "2024-12-31")
	require.NoError(t, err)
	require.NotNil(t, req.From)
	require.NotNil(t, req.To)

	_, err = ParseExportRequest("2024-12-31", "2024-01-01")
	assert.True(t, apperror.IsKind(err, apperror.InvalidField))
}
