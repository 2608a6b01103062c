package store

import (
	"context"
	"fmt"
	"sync"

	"inventory_ledger/domain"
)

// InMemoryLedger is an append-only list of sales. Entries are stored and
// returned as copies, so history cannot be edited through them.
type InMemoryLedger struct {
	mu    sync.RWMutex
	sales []domain.Sale
	ids   map[string]struct{}
}

// NewInMemoryLedger constructs an empty ledger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{ids: make(map[string]struct{})}
}

var _ domain.SaleStore = (*InMemoryLedger)(nil)

func (l *InMemoryLedger) Append(ctx context.Context, sale domain.Sale) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(sale.Items) == 0 {
		return domain.ErrEmptySale
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.ids[sale.ID]; ok {
		return fmt.Errorf("id=%s: %w", sale.ID, domain.ErrDuplicateSale)
	}
	l.ids[sale.ID] = struct{}{}
	l.sales = append(l.sales, sale.Clone())
	return nil
}

func (l *InMemoryLedger) List(ctx context.Context) ([]domain.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Sale, len(l.sales))
	for i, s := range l.sales {
		out[i] = s.Clone()
	}
	return out, nil
}

func (l *InMemoryLedger) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sales), nil
}
