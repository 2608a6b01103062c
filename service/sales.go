package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inventory_ledger/domain"
	"inventory_ledger/util"
	"inventory_ledger/validate"
)

// Line is one requested item of a checkout.
type Line struct {
	Barcode  string
	Quantity int
}

// CheckoutRequest carries the raw input of a sale.
type CheckoutRequest struct {
	Seller   string
	BuyerCPF string
	Lines    []Line
}

// Sales records sales against the inventory.
type Sales struct {
	products domain.ProductStore
	ledger   domain.SaleStore
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewSales creates a Sales service. A nil logger discards logs.
func NewSales(products domain.ProductStore, ledger domain.SaleStore, logger *zap.Logger) *Sales {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sales{
		products: products,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
		newID:    util.NewID,
	}
}

// Checkout validates the whole request, then decrements stock and appends the
// sale. Every line is checked against the stock left by the previous lines
// before anything is written, so a rejected checkout leaves both repositories
// untouched.
func (s *Sales) Checkout(ctx context.Context, req CheckoutRequest) (domain.Sale, error) {
	if len(req.Lines) == 0 {
		return domain.Sale{}, domain.ErrEmptySale
	}
	seller, err := validate.SellerName(req.Seller)
	if err != nil {
		return domain.Sale{}, err
	}
	cpf, err := validate.CPF(req.BuyerCPF)
	if err != nil {
		return domain.Sale{}, err
	}

	at := s.now()
	working := make(map[string]*domain.Product)
	var order []string
	items := make([]domain.SaleItem, 0, len(req.Lines))
	for i, line := range req.Lines {
		p, ok := working[line.Barcode]
		if !ok {
			found, err := s.products.GetByBarcode(ctx, line.Barcode)
			if err != nil {
				return domain.Sale{}, fmt.Errorf("item %d: %w", i+1, err)
			}
			p = &found
			working[line.Barcode] = p
			order = append(order, line.Barcode)
		}
		qty, err := validate.QuantityForSale(line.Quantity, p.Quantity)
		if err != nil {
			return domain.Sale{}, fmt.Errorf("item %d (%s): %w", i+1, line.Barcode, err)
		}
		items = append(items, domain.NewSaleItem(*p, qty))
		if err := p.RemoveStock(qty, at); err != nil {
			return domain.Sale{}, err
		}
	}

	sale := domain.Sale{
		ID:         s.newID(),
		Items:      items,
		SellerName: seller,
		BuyerCPF:   cpf,
		Date:       at,
	}

	var applied []domain.Product
	for _, barcode := range order {
		p := working[barcode]
		original, err := s.products.Get(ctx, p.ID)
		if err == nil {
			_, err = s.products.Update(ctx, p.ID, *p)
		}
		if err != nil {
			s.rollback(ctx, applied)
			return domain.Sale{}, fmt.Errorf("updating stock of %s: %w", barcode, err)
		}
		applied = append(applied, original)
	}
	if err := s.ledger.Append(ctx, sale); err != nil {
		s.rollback(ctx, applied)
		return domain.Sale{}, err
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.Int("items", len(sale.Items)),
		zap.Int("units", sale.Units()),
		zap.String("total", sale.Total().StringFixed(2)),
	)
	return sale, nil
}

// rollback restores products to the state read before the checkout wrote them.
func (s *Sales) rollback(ctx context.Context, originals []domain.Product) {
	for _, p := range originals {
		if _, err := s.products.Update(context.WithoutCancel(ctx), p.ID, p); err != nil {
			s.logger.Error("stock rollback failed", zap.String("barcode", p.Barcode), zap.Error(err))
		}
	}
}

// Ledger returns every recorded sale in the order it was made.
func (s *Sales) Ledger(ctx context.Context) ([]domain.Sale, error) {
	return s.ledger.List(ctx)
}
