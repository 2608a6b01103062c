// Package report classifies products by expiration, aggregates the sales
// ledger and renders both as text or CSV.
package report

import (
	"time"

	"inventory_ledger/domain"
)

// Bucket is the expiration class of a product.
type Bucket int

const (
	NotApplicable Bucket = iota
	Expired
	ExpiringSoon
	ExpiringMonth
	Valid
)

// Classify maps days until expiration to a bucket: negative is Expired, 0-7 is
// ExpiringSoon, 8-30 is ExpiringMonth and anything later is Valid. It is the
// only place these thresholds live.
func Classify(days int) Bucket {
	switch {
	case days < 0:
		return Expired
	case days <= 7:
		return ExpiringSoon
	case days <= 30:
		return ExpiringMonth
	default:
		return Valid
	}
}

// Status is the label written to CSV reports.
func (b Bucket) Status() string {
	switch b {
	case Expired:
		return "VENCIDO"
	case ExpiringSoon:
		return "VENCE_EM_7_DIAS"
	case ExpiringMonth:
		return "VENCE_EM_30_DIAS"
	case Valid:
		return "VALIDO"
	default:
		return "NAO_APLICAVEL"
	}
}

// ExpirationEntry is a classified product.
type ExpirationEntry struct {
	Product domain.Product
	Bucket  Bucket
	// Days until expiration; zero for non-perishables.
	Days int
}

// DaysOverdue is how many days ago an expired product expired.
func (e ExpirationEntry) DaysOverdue() int {
	if e.Days < 0 {
		return -e.Days
	}
	return 0
}

// ExpirationReport partitions products by bucket. Entries keeps every product
// in listing order; the bucket slices are disjoint and cover Entries.
type ExpirationReport struct {
	Date          time.Time
	Entries       []ExpirationEntry
	Expired       []ExpirationEntry
	ExpiringSoon  []ExpirationEntry
	ExpiringMonth []ExpirationEntry
	Valid         []ExpirationEntry
	NonPerishable []ExpirationEntry
}

// ClassifyProducts buckets products by their expiration relative to today.
func ClassifyProducts(products []domain.Product, today time.Time) ExpirationReport {
	r := ExpirationReport{Date: today}
	for _, p := range products {
		e := ExpirationEntry{Product: p, Bucket: NotApplicable}
		if days, ok := p.DaysUntilExpiration(today); ok {
			e.Days = days
			e.Bucket = Classify(days)
		}
		r.Entries = append(r.Entries, e)
		switch e.Bucket {
		case Expired:
			r.Expired = append(r.Expired, e)
		case ExpiringSoon:
			r.ExpiringSoon = append(r.ExpiringSoon, e)
		case ExpiringMonth:
			r.ExpiringMonth = append(r.ExpiringMonth, e)
		case Valid:
			r.Valid = append(r.Valid, e)
		default:
			r.NonPerishable = append(r.NonPerishable, e)
		}
	}
	return r
}

// NeedsAttention reports whether any perishable product is expired or expires
// within 30 days.
func (r ExpirationReport) NeedsAttention() bool {
	return len(r.Expired)+len(r.ExpiringSoon)+len(r.ExpiringMonth) > 0
}
