package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Backend bundles the product repository and the sales ledger with the
// persistence layer chosen at startup.
type Backend struct {
	Products *InMemoryStore
	Sales    *InMemoryLedger
	// Report describes the initial load; it is zero for the memory kind.
	Report LoadReport

	file *FileStore
}

// NewBackend constructs a Backend by kind: "memory" or "file". For the file
// kind both paths are required and the data files are loaded immediately; a
// missing or corrupt file leaves the matching repository empty.
func NewBackend(ctx context.Context, kind, inventoryPath, salesPath string, logger *zap.Logger) (*Backend, error) {
	b := &Backend{
		Products: NewInMemoryStore(),
		Sales:    NewInMemoryLedger(),
	}
	switch kind {
	case "memory", "mem":
		return b, nil
	case "file":
		fs, err := NewFileStore(inventoryPath, salesPath, logger)
		if err != nil {
			return nil, err
		}
		b.file = fs
		report, err := fs.Load(ctx, b.Products, b.Sales)
		if err != nil {
			return nil, err
		}
		b.Report = report
		return b, nil
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}

// Persistent reports whether Flush writes anywhere.
func (b *Backend) Persistent() bool {
	return b.file != nil
}

// Flush saves both repositories. It is a no-op for the memory kind.
func (b *Backend) Flush(ctx context.Context) error {
	if b.file == nil {
		return nil
	}
	return b.file.Save(ctx, b.Products, b.Sales)
}
