// Package domain defines core business types and interfaces.
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"inventory_ledger/util"
)

// MaxPrice is the highest unit price accepted for a product.
var MaxPrice = decimal.RequireFromString("999999.99")

// Product represents an inventory product
type Product struct {
	ID             string
	Name           string
	Description    string
	Price          decimal.Decimal
	Brand          string
	Quantity       int
	Barcode        string
	IsPerishable   bool
	ExpirationDate *time.Time // nil unless IsPerishable
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductDraft holds validated field values for a product that does not exist
// yet, or for a full replacement of an existing product's fields.
type ProductDraft struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	Brand          string
	Quantity       int
	Barcode        string
	ExpirationDate *time.Time
}

// NewProduct builds a product from a draft, stamping both timestamps with at.
func NewProduct(id string, d ProductDraft, at time.Time) Product {
	p := Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Brand:       d.Brand,
		Quantity:    d.Quantity,
		Barcode:     d.Barcode,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	p.SetExpiration(d.ExpirationDate, at)
	return p
}

// Apply replaces every editable field with the draft values. ID, barcode and
// CreatedAt are kept.
func (p *Product) Apply(d ProductDraft, at time.Time) error {
	if d.Quantity < 0 {
		return NewValidationError("quantity", "cannot be negative", d.Quantity)
	}
	p.Name = d.Name
	p.Description = d.Description
	p.Price = d.Price
	p.Brand = d.Brand
	p.Quantity = d.Quantity
	p.SetExpiration(d.ExpirationDate, at)
	return nil
}

// SetQuantity replaces the stock level.
func (p *Product) SetQuantity(n int, at time.Time) error {
	if n < 0 {
		return NewValidationError("quantity", "cannot be negative", n)
	}
	p.Quantity = n
	p.Touch(at)
	return nil
}

// AddStock increases the stock level by n units.
func (p *Product) AddStock(n int, at time.Time) error {
	if n <= 0 {
		return NewValidationError("quantity", "must be greater than zero", n)
	}
	p.Quantity += n
	p.Touch(at)
	return nil
}

// RemoveStock decreases the stock level by n units.
func (p *Product) RemoveStock(n int, at time.Time) error {
	if n <= 0 {
		return NewValidationError("quantity", "must be greater than zero", n)
	}
	if n > p.Quantity {
		return NewValidationError("quantity", "exceeds available stock", n)
	}
	p.Quantity -= n
	p.Touch(at)
	return nil
}

// SetExpiration sets the expiration date and the perishable flag together; a
// nil date makes the product non-perishable.
func (p *Product) SetExpiration(date *time.Time, at time.Time) {
	if date == nil {
		p.IsPerishable = false
		p.ExpirationDate = nil
	} else {
		d := util.DateOf(*date)
		p.IsPerishable = true
		p.ExpirationDate = &d
	}
	p.Touch(at)
}

// Touch moves UpdatedAt to at, never before CreatedAt.
func (p *Product) Touch(at time.Time) {
	if at.Before(p.CreatedAt) {
		at = p.CreatedAt
	}
	p.UpdatedAt = at
}

// DaysUntilExpiration returns expiration date minus today in whole days. The
// second result is false for non-perishable products.
func (p Product) DaysUntilExpiration(today time.Time) (int, bool) {
	if !p.IsPerishable || p.ExpirationDate == nil {
		return 0, false
	}
	return util.DaysBetween(today, *p.ExpirationDate), true
}

// IsExpired reports whether a perishable product's expiration date has passed.
func (p Product) IsExpired(today time.Time) bool {
	days, ok := p.DaysUntilExpiration(today)
	return ok && days < 0
}

// Clone returns a copy that shares no pointers with p.
func (p Product) Clone() Product {
	if p.ExpirationDate != nil {
		d := *p.ExpirationDate
		p.ExpirationDate = &d
	}
	return p
}

// ValidateProduct checks the record-level invariants of a product.
func ValidateProduct(p Product) error {
	if p.ID == "" {
		return NewValidationError("id", "cannot be empty", p.ID)
	}
	if p.Name == "" {
		return NewValidationError("name", "cannot be empty", p.Name)
	}
	if p.Barcode == "" {
		return NewValidationError("barcode", "cannot be empty", p.Barcode)
	}
	for _, r := range p.Barcode {
		if r < '0' || r > '9' {
			return NewValidationError("barcode", "must contain only digits", p.Barcode)
		}
	}
	if !p.Price.IsPositive() {
		return NewValidationError("price", "must be greater than zero", p.Price)
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return NewValidationError("price", "must have at most 2 decimal places", p.Price)
	}
	if p.Price.GreaterThan(MaxPrice) {
		return NewValidationError("price", "cannot exceed 999999.99", p.Price)
	}
	if p.Quantity < 0 {
		return NewValidationError("quantity", "cannot be negative", p.Quantity)
	}
	if p.IsPerishable != (p.ExpirationDate != nil) {
		return NewValidationError("expiration_date", "required exactly when the product is perishable", p.ExpirationDate)
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		return NewValidationError("updated_at", "cannot be before created_at", p.UpdatedAt)
	}
	return nil
}

// ProductFilter narrows and orders the result of List. Zero values match
// everything.
type ProductFilter struct {
	NameContains  string
	BrandContains string
	Barcode       string
	BelowQuantity *int // strictly less than
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Perishable    *bool
	SortBy        string // "name", "price", "quantity", "expiration"
	Order         string // "asc" or "desc"
}

// ProductStore defines the storage interface for products
type ProductStore interface {
	Insert(ctx context.Context, product Product) error
	Update(ctx context.Context, id string, product Product) (Product, error)
	Get(ctx context.Context, id string) (Product, error)
	GetByBarcode(ctx context.Context, barcode string) (Product, error)
	GetByName(ctx context.Context, name string) (Product, error)
	ListByBrand(ctx context.Context, brand string) ([]Product, error)
	ListAll(ctx context.Context) (map[string]Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	Remove(ctx context.Context, id string) (bool, error)
	BulkInsert(ctx context.Context, products []Product) error
}
