package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestProductNotFoundError(t *testing.T) {
	t.Run("Error message formatting", func(t *testing.T) {
		err := NewProductNotFoundError("7891000100103")
		expected := "product not found: 7891000100103"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("errors.Is detection", func(t *testing.T) {
		err := NewProductNotFoundError("prod-123")
		target := &ProductNotFoundError{}
		if !errors.Is(err, target) {
			t.Error("errors.Is should detect ProductNotFoundError")
		}
	})

	t.Run("errors.As through wrapping", func(t *testing.T) {
		err := fmt.Errorf("looking up: %w", NewProductNotFoundError("prod-456"))
		var pnf *ProductNotFoundError
		if !errors.As(err, &pnf) {
			t.Fatal("errors.As should convert to ProductNotFoundError")
		}
		if pnf.Key != "prod-456" {
			t.Errorf("expected Key prod-456, got %s", pnf.Key)
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message formatting", func(t *testing.T) {
		err := NewValidationError("price", "must be greater than zero", "-10.5")
		expected := "invalid price: must be greater than zero (value=-10.5)"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("errors.As conversion", func(t *testing.T) {
		err := NewValidationError("quantity", "cannot be negative", -5)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatal("errors.As should convert to ValidationError")
		}
		if ve.Field != "quantity" || ve.Reason != "cannot be negative" {
			t.Errorf("error fields not correctly preserved")
		}
	})
}

func TestDuplicateProductError(t *testing.T) {
	err := NewDuplicateProductError("barcode", "123")
	expected := "duplicate product: barcode=123 already exists"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, &DuplicateProductError{}) {
		t.Error("errors.Is should detect DuplicateProductError")
	}
}

func TestErrorTypeDiscrimination(t *testing.T) {
	pnfErr := NewProductNotFoundError("prod-1")
	veErr := NewValidationError("price", "negative", -5)
	dpeErr := NewDuplicateProductError("id", "prod-2")

	if !IsProductNotFoundError(pnfErr) || IsValidationError(pnfErr) || IsDuplicateProductError(pnfErr) {
		t.Error("ProductNotFoundError misclassified")
	}
	if !IsValidationError(veErr) || IsProductNotFoundError(veErr) || IsDuplicateProductError(veErr) {
		t.Error("ValidationError misclassified")
	}
	if !IsDuplicateProductError(dpeErr) || IsProductNotFoundError(dpeErr) || IsValidationError(dpeErr) {
		t.Error("DuplicateProductError misclassified")
	}
}
