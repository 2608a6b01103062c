package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"inventory_ledger/domain"
	"inventory_ledger/util"
)

// Timestamps are written as RFC 3339 in UTC. The second layout accepts the
// zone-less ISO timestamps found in older data files.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// ProductRecord is the JSON shape of a product in inventory.json.
type ProductRecord struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Brand          string  `json:"brand"`
	Quantity       int     `json:"quantity"`
	Barcode        string  `json:"barcode"`
	IsPerishable   bool    `json:"is_perishable"`
	ExpirationDate *string `json:"expiration_date"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// NewProductRecord encodes p.
func NewProductRecord(p domain.Product) ProductRecord {
	r := ProductRecord{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.InexactFloat64(),
		Brand:        p.Brand,
		Quantity:     p.Quantity,
		Barcode:      p.Barcode,
		IsPerishable: p.IsPerishable,
		CreatedAt:    formatTimestamp(p.CreatedAt),
		UpdatedAt:    formatTimestamp(p.UpdatedAt),
	}
	if p.IsPerishable && p.ExpirationDate != nil {
		d := p.ExpirationDate.Format(util.DateLayout)
		r.ExpirationDate = &d
	}
	return r
}

// Product decodes the record and checks the product invariants.
func (r ProductRecord) Product() (domain.Product, error) {
	if !util.IsID(r.ID) {
		return domain.Product{}, domain.NewValidationError("id", "must be a UUID", r.ID)
	}
	created, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return domain.Product{}, domain.NewValidationError("created_at", "must be an ISO timestamp", r.CreatedAt)
	}
	updated, err := parseTimestamp(r.UpdatedAt)
	if err != nil {
		return domain.Product{}, domain.NewValidationError("updated_at", "must be an ISO timestamp", r.UpdatedAt)
	}

	p := domain.Product{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        decimal.NewFromFloat(r.Price),
		Brand:        r.Brand,
		Quantity:     r.Quantity,
		Barcode:      r.Barcode,
		IsPerishable: r.IsPerishable,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}
	if r.ExpirationDate != nil {
		d, err := time.Parse(util.DateLayout, *r.ExpirationDate)
		if err != nil {
			return domain.Product{}, domain.NewValidationError("expiration_date", "must be in YYYY-MM-DD format", *r.ExpirationDate)
		}
		p.ExpirationDate = &d
	}
	if err := domain.ValidateProduct(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// SaleItemRecord is one item of a SaleRecord. Barcode, name and unit price
// hold the sale-time snapshot; files that lack them are filled from the live
// product on load.
type SaleItemRecord struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Barcode   string   `json:"barcode,omitempty"`
	Name      string   `json:"name,omitempty"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
}

// SaleRecord is the JSON shape of a sale in sales.json.
type SaleRecord struct {
	ID         string           `json:"id"`
	SellerName string           `json:"seller_name"`
	BuyerCPF   string           `json:"buyer_cpf"`
	SaleDate   string           `json:"sale_date"`
	Items      []SaleItemRecord `json:"items"`
}

// OrphanedReference is a sale item whose product is no longer in the
// inventory. Such items are dropped when the ledger is loaded.
type OrphanedReference struct {
	SaleID    string
	ProductID string
	Quantity  int
}

// NewSaleRecord encodes s.
func NewSaleRecord(s domain.Sale) SaleRecord {
	r := SaleRecord{
		ID:         s.ID,
		SellerName: s.SellerName,
		BuyerCPF:   s.BuyerCPF,
		SaleDate:   formatTimestamp(s.Date),
		Items:      make([]SaleItemRecord, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		price := it.UnitPrice.InexactFloat64()
		r.Items = append(r.Items, SaleItemRecord{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Barcode:   it.Barcode,
			Name:      it.Name,
			UnitPrice: &price,
		})
	}
	return r
}

// Sale decodes the record, resolving every item against products. Items whose
// product is missing are left out and returned as orphans.
func (r SaleRecord) Sale(ctx context.Context, products domain.ProductStore) (domain.Sale, []OrphanedReference, error) {
	date, err := parseTimestamp(r.SaleDate)
	if err != nil {
		return domain.Sale{}, nil, domain.NewValidationError("sale_date", "must be an ISO timestamp", r.SaleDate)
	}
	s := domain.Sale{
		ID:         r.ID,
		SellerName: r.SellerName,
		BuyerCPF:   r.BuyerCPF,
		Date:       date,
	}

	var orphans []OrphanedReference
	for _, ir := range r.Items {
		p, err := products.Get(ctx, ir.ProductID)
		if err != nil {
			if domain.IsProductNotFoundError(err) {
				orphans = append(orphans, OrphanedReference{SaleID: r.ID, ProductID: ir.ProductID, Quantity: ir.Quantity})
				continue
			}
			return domain.Sale{}, nil, fmt.Errorf("resolving product %s: %w", ir.ProductID, err)
		}
		if ir.Quantity <= 0 {
			return domain.Sale{}, nil, domain.NewValidationError("quantity", "must be greater than zero", ir.Quantity)
		}
		item := domain.NewSaleItem(p, ir.Quantity)
		if ir.Barcode != "" {
			item.Barcode = ir.Barcode
		}
		if ir.Name != "" {
			item.Name = ir.Name
		}
		if ir.UnitPrice != nil {
			item.UnitPrice = decimal.NewFromFloat(*ir.UnitPrice)
		}
		s.Items = append(s.Items, item)
	}
	return s, orphans, nil
}
