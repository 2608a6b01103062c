// Package store provides storage implementations for the inventory system.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"inventory_ledger/domain"
)

// InMemoryStore is the authoritative product store. Besides the id map it
// keeps a barcode index and a case-folded name index so lookups by either are
// O(1). Listing order is insertion order.
type InMemoryStore struct {
	mu        sync.RWMutex
	products  map[string]domain.Product
	order     []string
	byBarcode map[string]string
	byName    map[string][]string
}

// NewInMemoryStore constructs a new InMemoryStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products:  make(map[string]domain.Product),
		byBarcode: make(map[string]string),
		byName:    make(map[string][]string),
	}
}

// compile-time assertion that InMemoryStore implements domain.ProductStore
var _ domain.ProductStore = (*InMemoryStore)(nil)

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *InMemoryStore) index(p domain.Product) {
	s.byBarcode[p.Barcode] = p.ID
	k := nameKey(p.Name)
	s.byName[k] = append(s.byName[k], p.ID)
}

func (s *InMemoryStore) unindex(p domain.Product) {
	if s.byBarcode[p.Barcode] == p.ID {
		delete(s.byBarcode, p.Barcode)
	}
	k := nameKey(p.Name)
	ids := s.byName[k]
	for i, id := range ids {
		if id == p.ID {
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(s.byName, k)
	} else {
		s.byName[k] = ids
	}
}

func (s *InMemoryStore) Insert(ctx context.Context, product domain.Product) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := domain.ValidateProduct(product); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; exists {
		return domain.NewDuplicateProductError("id", product.ID)
	}
	if _, exists := s.byBarcode[product.Barcode]; exists {
		return domain.NewDuplicateProductError("barcode", product.Barcode)
	}
	product = product.Clone()
	s.products[product.ID] = product
	s.order = append(s.order, product.ID)
	s.index(product)
	return nil
}

func (s *InMemoryStore) Update(ctx context.Context, id string, product domain.Product) (domain.Product, error) {
	select {
	case <-ctx.Done():
		return domain.Product{}, ctx.Err()
	default:
	}

	product.ID = id
	if err := domain.ValidateProduct(product); err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	if owner, taken := s.byBarcode[product.Barcode]; taken && owner != id {
		return domain.Product{}, domain.NewDuplicateProductError("barcode", product.Barcode)
	}
	s.unindex(old)
	product = product.Clone()
	s.products[id] = product
	s.index(product)
	return product.Clone(), nil
}

func (s *InMemoryStore) Get(ctx context.Context, id string) (domain.Product, error) {
	select {
	case <-ctx.Done():
		return domain.Product{}, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	return p.Clone(), nil
}

func (s *InMemoryStore) GetByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byBarcode[barcode]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(barcode)
	}
	return s.products[id].Clone(), nil
}

// GetByName matches the whole name case-insensitively. When several products
// share a name the earliest inserted wins.
func (s *InMemoryStore) GetByName(ctx context.Context, name string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byName[nameKey(name)]
	if len(ids) == 0 {
		return domain.Product{}, domain.NewProductNotFoundError(name)
	}
	return s.products[ids[0]].Clone(), nil
}

func (s *InMemoryStore) ListByBrand(ctx context.Context, brand string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, id := range s.order {
		p := s.products[id]
		if strings.EqualFold(p.Brand, brand) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListAll(ctx context.Context) (map[string]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Product, len(s.products))
	for id, p := range s.products {
		out[id] = p.Clone()
	}
	return out, nil
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (s *InMemoryStore) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, id := range s.order {
		p := s.products[id]
		if !containsFold(p.Name, filter.NameContains) || !containsFold(p.Brand, filter.BrandContains) {
			continue
		}
		if filter.Barcode != "" && p.Barcode != filter.Barcode {
			continue
		}
		if filter.BelowQuantity != nil && p.Quantity >= *filter.BelowQuantity {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if filter.Perishable != nil && p.IsPerishable != *filter.Perishable {
			continue
		}
		out = append(out, p.Clone())
	}

	desc := filter.Order == "desc"
	var less func(a, b domain.Product) bool
	switch filter.SortBy {
	case "name":
		less = func(a, b domain.Product) bool { return a.Name < b.Name }
	case "price":
		less = func(a, b domain.Product) bool { return a.Price.LessThan(b.Price) }
	case "quantity":
		less = func(a, b domain.Product) bool { return a.Quantity < b.Quantity }
	case "expiration":
		// non-perishables sort after every dated product
		less = func(a, b domain.Product) bool {
			if a.ExpirationDate == nil || b.ExpirationDate == nil {
				return a.ExpirationDate != nil && b.ExpirationDate == nil
			}
			return a.ExpirationDate.Before(*b.ExpirationDate)
		}
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return less(out[j], out[i])
			}
			return less(out[i], out[j])
		})
	}

	return out, nil
}

func (s *InMemoryStore) Remove(ctx context.Context, id string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return false, nil
	}
	s.unindex(p)
	delete(s.products, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// BulkInsert inserts products one by one. Failures do not stop the import; they
// are returned together once every product has been tried.
func (s *InMemoryStore) BulkInsert(ctx context.Context, products []domain.Product) error {
	var collected error
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return multierr.Append(collected, err)
		}
		if err := s.Insert(ctx, p); err != nil {
			collected = multierr.Append(collected, fmt.Errorf("barcode=%s: %w", p.Barcode, err))
		}
	}
	return collected
}
