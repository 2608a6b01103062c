// Package validate checks raw input and normalizes it into field values.
//
// Every function is pure: it either returns the normalized value or a
// *domain.ValidationError naming the field and the reason.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"inventory_ledger/domain"
	"inventory_ledger/util"
)

var (
	nameChars   = regexp.MustCompile(`^[a-zA-Z0-9\s\x{00C0}-\x{00FF}\-.,()]+$`)
	brandChars  = regexp.MustCompile(`^[a-zA-Z0-9\s\x{00C0}-\x{00FF}\-.&]+$`)
	sellerChars = regexp.MustCompile(`^[a-zA-Z\s\x{00C0}-\x{00FF}]+$`)
)

func invalid(field, reason string, value interface{}) error {
	return domain.NewValidationError(field, reason, value)
}

// NonEmpty trims raw and rejects an empty result.
func NonEmpty(raw, field string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", invalid(field, "cannot be empty", raw)
	}
	return v, nil
}

// PositiveNumber parses a decimal number greater than zero.
func PositiveNumber(raw, field string) (decimal.Decimal, error) {
	v, err := NonEmpty(raw, field)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, invalid(field, "must be a number", raw)
	}
	if !d.IsPositive() {
		return decimal.Zero, invalid(field, "must be greater than zero", raw)
	}
	return d, nil
}

func parseInt(raw, field string) (int, error) {
	v, err := NonEmpty(raw, field)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalid(field, "must be an integer", raw)
	}
	return n, nil
}

// NonNegativeInt parses an integer that is zero or more.
func NonNegativeInt(raw, field string) (int, error) {
	n, err := parseInt(raw, field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, invalid(field, "cannot be negative", raw)
	}
	return n, nil
}

// PositiveInt parses an integer greater than zero.
func PositiveInt(raw, field string) (int, error) {
	n, err := parseInt(raw, field)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, invalid(field, "must be greater than zero", raw)
	}
	return n, nil
}

// Price parses a positive amount with at most two decimal places, capped at
// domain.MaxPrice.
func Price(raw string) (decimal.Decimal, error) {
	d, err := PositiveNumber(raw, "price")
	if err != nil {
		return decimal.Zero, err
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, invalid("price", "must have at most 2 decimal places", raw)
	}
	if d.GreaterThan(domain.MaxPrice) {
		return decimal.Zero, invalid("price", "cannot exceed 999999.99", raw)
	}
	return d.Round(2), nil
}

func boundedText(raw, field string, min, max int, allowed *regexp.Regexp, charsReason string) (string, error) {
	v, err := NonEmpty(raw, field)
	if err != nil {
		return "", err
	}
	n := utf8.RuneCountInString(v)
	if n < min {
		return "", invalid(field, fmt.Sprintf("must have at least %d characters", min), raw)
	}
	if n > max {
		return "", invalid(field, fmt.Sprintf("must have at most %d characters", max), raw)
	}
	if !allowed.MatchString(v) {
		return "", invalid(field, charsReason, raw)
	}
	// a Caser keeps state between calls
	return cases.Title(language.BrazilianPortuguese).String(v), nil
}

// Name validates and title-cases a product name.
func Name(raw string) (string, error) {
	return boundedText(raw, "name", 2, 100, nameChars, "contains invalid characters")
}

// Brand validates and title-cases a brand.
func Brand(raw string) (string, error) {
	return boundedText(raw, "brand", 2, 50, brandChars, "contains invalid characters")
}

// SellerName validates and title-cases a seller's name.
func SellerName(raw string) (string, error) {
	return boundedText(raw, "seller_name", 2, 100, sellerChars, "must contain only letters and spaces")
}

// Description validates a product description.
func Description(raw string) (string, error) {
	v, err := NonEmpty(raw, "description")
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(v) > 500 {
		return "", invalid("description", "must have at most 500 characters", raw)
	}
	return v, nil
}

// Barcode strips spaces and requires the rest to be digits.
func Barcode(raw string) (string, error) {
	v, err := NonEmpty(raw, "barcode")
	if err != nil {
		return "", err
	}
	v = strings.ReplaceAll(v, " ", "")
	for _, r := range v {
		if r < '0' || r > '9' {
			return "", invalid("barcode", "must contain only digits", raw)
		}
	}
	return v, nil
}

// Date parses an ISO YYYY-MM-DD calendar date.
func Date(raw, field string) (time.Time, error) {
	v, err := NonEmpty(raw, field)
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse(util.DateLayout, v)
	if err != nil {
		return time.Time{}, invalid(field, "must be in YYYY-MM-DD format", raw)
	}
	return d, nil
}

// OptionalDate is Date, except that blank input yields nil.
func OptionalDate(raw, field string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := Date(raw, field)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ExpirationDate parses a date that must not be before today.
func ExpirationDate(raw string, today time.Time) (time.Time, error) {
	d, err := Date(raw, "expiration_date")
	if err != nil {
		return time.Time{}, err
	}
	if d.Before(util.DateOf(today)) {
		return time.Time{}, invalid("expiration_date", "cannot be in the past", raw)
	}
	return d, nil
}

// QuantityForSale checks a requested quantity against the stock available.
func QuantityForSale(requested, available int) (int, error) {
	if requested <= 0 {
		return 0, invalid("quantity", "must be greater than zero", requested)
	}
	if requested > available {
		return 0, invalid("quantity",
			fmt.Sprintf("requested quantity (%d) exceeds available stock (%d)", requested, available),
			requested)
	}
	return requested, nil
}

// YesNo reads a yes/no answer in Portuguese or English.
func YesNo(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s", "sim", "y", "yes":
		return true, nil
	case "n", "não", "nao", "no":
		return false, nil
	}
	return false, invalid("answer", "expected yes or no", raw)
}
