package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is one line of a sale. Product identity and unit price are
// captured at sale time, so later edits to the product do not change it.
type SaleItem struct {
	ProductID string
	Barcode   string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// NewSaleItem snapshots p for a sale of quantity units.
func NewSaleItem(p Product, quantity int) SaleItem {
	return SaleItem{
		ProductID: p.ID,
		Barcode:   p.Barcode,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
	}
}

// Subtotal is unit price times quantity.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Sale is an immutable ledger entry.
type Sale struct {
	ID         string
	Items      []SaleItem
	SellerName string
	BuyerCPF   string
	Date       time.Time
}

// Total sums the item subtotals.
func (s Sale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Units is the number of product units sold in this sale.
func (s Sale) Units() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// Clone returns a copy whose item slice is not shared with s.
func (s Sale) Clone() Sale {
	items := make([]SaleItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

// SaleStore is the append-only sales ledger.
type SaleStore interface {
	Append(ctx context.Context, sale Sale) error
	List(ctx context.Context) ([]Sale, error)
	Len(ctx context.Context) (int, error)
}
