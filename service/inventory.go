// Package service holds the use cases that span more than one repository call:
// registering stock, editing products, checking out sales and pruning expired
// products.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inventory_ledger/domain"
	"inventory_ledger/util"
)

// Inventory manages the product catalogue and its stock levels.
type Inventory struct {
	products domain.ProductStore
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewInventory creates an Inventory over products. A nil logger discards logs.
func NewInventory(products domain.ProductStore, logger *zap.Logger) *Inventory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inventory{
		products: products,
		logger:   logger,
		now:      time.Now,
		newID:    util.NewID,
	}
}

// Register adds d to the inventory. When a product with the same barcode is
// already registered, only its stock is increased by d.Quantity and the other
// draft fields are ignored. The boolean result reports whether a new product
// was created.
func (s *Inventory) Register(ctx context.Context, d domain.ProductDraft) (domain.Product, bool, error) {
	existing, err := s.products.GetByBarcode(ctx, d.Barcode)
	switch {
	case err == nil:
		p, err := s.restock(ctx, existing, d.Quantity)
		return p, false, err
	case !domain.IsProductNotFoundError(err):
		return domain.Product{}, false, err
	}

	start := time.Now()
	p := domain.NewProduct(s.newID(), d, s.now())
	if err := s.products.Insert(ctx, p); err != nil {
		s.logger.Error("insert failed", zap.String("barcode", d.Barcode), zap.Error(err))
		return domain.Product{}, false, err
	}
	s.logger.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("barcode", p.Barcode),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return p, true, nil
}

// Restock increases the stock of the product with the given barcode.
func (s *Inventory) Restock(ctx context.Context, barcode string, quantity int) (domain.Product, error) {
	p, err := s.products.GetByBarcode(ctx, barcode)
	if err != nil {
		return domain.Product{}, err
	}
	return s.restock(ctx, p, quantity)
}

func (s *Inventory) restock(ctx context.Context, p domain.Product, quantity int) (domain.Product, error) {
	before := p.Quantity
	if err := p.AddStock(quantity, s.now()); err != nil {
		return domain.Product{}, err
	}
	updated, err := s.products.Update(ctx, p.ID, p)
	if err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("stock topped up",
		zap.String("barcode", p.Barcode),
		zap.Int("from", before),
		zap.Int("to", updated.Quantity),
	)
	return updated, nil
}

// Update replaces every editable field of the product with the given barcode.
// The barcode, id and creation time are kept.
func (s *Inventory) Update(ctx context.Context, barcode string, d domain.ProductDraft) (domain.Product, error) {
	p, err := s.products.GetByBarcode(ctx, barcode)
	if err != nil {
		return domain.Product{}, err
	}
	if err := p.Apply(d, s.now()); err != nil {
		return domain.Product{}, err
	}
	start := time.Now()
	updated, err := s.products.Update(ctx, p.ID, p)
	if err != nil {
		s.logger.Error("update failed", zap.String("barcode", barcode), zap.Error(err))
		return domain.Product{}, err
	}
	s.logger.Info("product updated",
		zap.String("product_id", updated.ID),
		zap.String("barcode", barcode),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return updated, nil
}

// FindByBarcode returns the product with the given barcode.
func (s *Inventory) FindByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	return s.products.GetByBarcode(ctx, barcode)
}

// Search lists the products matching filter.
func (s *Inventory) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

// ExpiredProducts lists perishable products whose expiration date is before
// today, in listing order.
func (s *Inventory) ExpiredProducts(ctx context.Context, today time.Time) ([]domain.Product, error) {
	all, err := s.products.List(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, err
	}
	var expired []domain.Product
	for _, p := range all {
		if p.IsExpired(today) {
			expired = append(expired, p)
		}
	}
	return expired, nil
}

// RemoveExpired deletes every expired product and returns the ones removed.
// Recorded sales keep their item snapshots.
func (s *Inventory) RemoveExpired(ctx context.Context, today time.Time) ([]domain.Product, error) {
	expired, err := s.ExpiredProducts(ctx, today)
	if err != nil {
		return nil, err
	}
	removed := make([]domain.Product, 0, len(expired))
	for _, p := range expired {
		ok, err := s.products.Remove(ctx, p.ID)
		if err != nil {
			return removed, fmt.Errorf("removing %s: %w", p.Barcode, err)
		}
		if ok {
			removed = append(removed, p)
			s.logger.Info("expired product removed",
				zap.String("barcode", p.Barcode),
				zap.String("expiration_date", p.ExpirationDate.Format(util.DateLayout)),
			)
		}
	}
	return removed, nil
}
