package report

import (
	"github.com/shopspring/decimal"

	"inventory_ledger/domain"
)

// ProductTotal is the quantity sold of one product across the ledger.
type ProductTotal struct {
	Barcode  string
	Name     string
	Quantity int
	Revenue  decimal.Decimal
}

// SaleTotal pairs a sale with its total.
type SaleTotal struct {
	Sale  domain.Sale
	Total decimal.Decimal
}

// SalesSummary aggregates a list of sales.
type SalesSummary struct {
	TotalSales int
	TotalItems int
	Revenue    decimal.Decimal
	// PerProduct is keyed by (barcode, name) in first-seen order.
	PerProduct []ProductTotal
	Sales      []SaleTotal
}

type productKey struct {
	barcode, name string
}

// Summarize aggregates sales. Totals use the unit price recorded with each
// item, not the product's current price.
func Summarize(sales []domain.Sale) SalesSummary {
	s := SalesSummary{
		TotalSales: len(sales),
		Revenue:    decimal.Zero,
		Sales:      make([]SaleTotal, 0, len(sales)),
	}
	index := make(map[productKey]int)
	for _, sale := range sales {
		total := sale.Total()
		s.Sales = append(s.Sales, SaleTotal{Sale: sale, Total: total})
		s.Revenue = s.Revenue.Add(total)
		for _, it := range sale.Items {
			s.TotalItems += it.Quantity
			k := productKey{it.Barcode, it.Name}
			i, ok := index[k]
			if !ok {
				i = len(s.PerProduct)
				index[k] = i
				s.PerProduct = append(s.PerProduct, ProductTotal{Barcode: it.Barcode, Name: it.Name, Revenue: decimal.Zero})
			}
			s.PerProduct[i].Quantity += it.Quantity
			s.PerProduct[i].Revenue = s.PerProduct[i].Revenue.Add(it.Subtotal())
		}
	}
	return s
}
