package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}

func validProduct() Product {
	return NewProduct("id-1", ProductDraft{
		Name:        "Leite Integral",
		Description: "1L",
		Price:       decimal.RequireFromString("5.49"),
		Brand:       "Italac",
		Quantity:    10,
		Barcode:     "7891000100103",
	}, t0)
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *Product)
		errField string
	}{
		{name: "valid product", mutate: func(p *Product) {}},
		{name: "valid perishable", mutate: func(p *Product) { p.SetExpiration(date(2024, 6, 1), t0) }},
		{name: "empty id", mutate: func(p *Product) { p.ID = "" }, errField: "id"},
		{name: "empty name", mutate: func(p *Product) { p.Name = "" }, errField: "name"},
		{name: "barcode letters", mutate: func(p *Product) { p.Barcode = "12a" }, errField: "barcode"},
		{name: "zero price", mutate: func(p *Product) { p.Price = decimal.Zero }, errField: "price"},
		{name: "three decimals", mutate: func(p *Product) { p.Price = decimal.RequireFromString("1.999") }, errField: "price"},
		{name: "over max price", mutate: func(p *Product) { p.Price = decimal.RequireFromString("1000000") }, errField: "price"},
		{name: "negative quantity", mutate: func(p *Product) { p.Quantity = -5 }, errField: "quantity"},
		{name: "perishable without date", mutate: func(p *Product) { p.IsPerishable = true }, errField: "expiration_date"},
		{name: "updated before created", mutate: func(p *Product) { p.UpdatedAt = t0.Add(-time.Hour) }, errField: "updated_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(&p)
			err := ValidateProduct(p)

			if tt.errField == "" {
				require.NoError(t, err)
				return
			}
			ve, ok := err.(*ValidationError)
			require.Truef(t, ok, "expected ValidationError, got %T", err)
			assert.Equal(t, tt.errField, ve.Field)
		})
	}
}

func TestProductMutations(t *testing.T) {
	later := t0.Add(time.Hour)

	t.Run("set quantity rejects negative", func(t *testing.T) {
		p := validProduct()
		err := p.SetQuantity(-1, later)
		assert.True(t, IsValidationError(err))
		assert.Equal(t, 10, p.Quantity)
		assert.Equal(t, t0, p.UpdatedAt)
	})

	t.Run("add and remove stock", func(t *testing.T) {
		p := validProduct()
		require.NoError(t, p.AddStock(5, later))
		assert.Equal(t, 15, p.Quantity)
		assert.Equal(t, later, p.UpdatedAt)
		require.NoError(t, p.RemoveStock(15, later))
		assert.Equal(t, 0, p.Quantity)
		assert.Error(t, p.RemoveStock(1, later))
		assert.Error(t, p.AddStock(0, later))
	})

	t.Run("touch never goes before created", func(t *testing.T) {
		p := validProduct()
		p.Touch(t0.Add(-24 * time.Hour))
		assert.Equal(t, t0, p.UpdatedAt)
	})

	t.Run("expiration toggles perishable", func(t *testing.T) {
		p := validProduct()
		p.SetExpiration(date(2024, 5, 3), later)
		assert.True(t, p.IsPerishable)
		p.SetExpiration(nil, later)
		assert.False(t, p.IsPerishable)
		assert.Nil(t, p.ExpirationDate)
	})
}

func TestDaysUntilExpiration(t *testing.T) {
	today := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

	p := validProduct()
	_, ok := p.DaysUntilExpiration(today)
	assert.False(t, ok, "non-perishable has no expiration")
	assert.False(t, p.IsExpired(today))

	p.SetExpiration(date(2024, 5, 9), t0)
	days, ok := p.DaysUntilExpiration(today)
	assert.True(t, ok)
	assert.Equal(t, -1, days)
	assert.True(t, p.IsExpired(today))

	p.SetExpiration(date(2024, 5, 10), t0)
	days, _ = p.DaysUntilExpiration(today)
	assert.Equal(t, 0, days)
	assert.False(t, p.IsExpired(today))
}

func TestClone_DoesNotShareDate(t *testing.T) {
	p := validProduct()
	p.SetExpiration(date(2024, 6, 1), t0)
	c := p.Clone()
	*c.ExpirationDate = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2024, p.ExpirationDate.Year())
}
