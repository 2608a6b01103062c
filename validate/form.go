package validate

import (
	"time"

	"inventory_ledger/domain"
)

// ProductForm carries raw text for every product field, as typed by a user.
// An empty ExpirationDate means the product is not perishable.
type ProductForm struct {
	Barcode        string
	Name           string
	Description    string
	Price          string
	Brand          string
	Quantity       string
	ExpirationDate string
}

// Validate runs the field validators in input order and stops at the first
// failure.
func (f ProductForm) Validate(today time.Time) (domain.ProductDraft, error) {
	var (
		d   domain.ProductDraft
		err error
	)
	if d.Barcode, err = Barcode(f.Barcode); err != nil {
		return domain.ProductDraft{}, err
	}
	if d.Name, err = Name(f.Name); err != nil {
		return domain.ProductDraft{}, err
	}
	if d.Description, err = Description(f.Description); err != nil {
		return domain.ProductDraft{}, err
	}
	if d.Price, err = Price(f.Price); err != nil {
		return domain.ProductDraft{}, err
	}
	if d.Brand, err = Brand(f.Brand); err != nil {
		return domain.ProductDraft{}, err
	}
	if d.Quantity, err = NonNegativeInt(f.Quantity, "quantity"); err != nil {
		return domain.ProductDraft{}, err
	}
	if f.ExpirationDate != "" {
		exp, err := ExpirationDate(f.ExpirationDate, today)
		if err != nil {
			return domain.ProductDraft{}, err
		}
		d.ExpirationDate = &exp
	}
	return d, nil
}
