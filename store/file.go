package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"inventory_ledger/domain"
)

// Outcome describes what happened to one data file on load.
type Outcome string

const (
	// Loaded means the file was read and decoded.
	Loaded Outcome = "loaded"
	// EmptyStore means the file does not exist yet.
	EmptyStore Outcome = "empty_store"
	// CorruptStore means the file could not be read or decoded. Its content is
	// ignored and the repository starts empty.
	CorruptStore Outcome = "corrupt_store"
)

// FileResult reports the load of one file.
type FileResult struct {
	Path    string
	Outcome Outcome
	Records int
	Err     error
}

// RejectedRecord is a record that was decoded but could not be restored.
type RejectedRecord struct {
	Kind string // "product" or "sale"
	ID   string
	Err  error
}

// LoadReport collects everything Load tolerated instead of failing.
type LoadReport struct {
	Inventory FileResult
	Sales     FileResult
	Orphans   []OrphanedReference
	Rejected  []RejectedRecord
}

// FileStore persists the product repository and the sales ledger as two JSON
// documents. It holds no state of its own: Load fills the repositories it is
// given and Save reads them back.
type FileStore struct {
	inventoryPath string
	salesPath     string
	logger        *zap.Logger
}

// NewFileStore constructs a FileStore over the two paths.
func NewFileStore(inventoryPath, salesPath string, logger *zap.Logger) (*FileStore, error) {
	if inventoryPath == "" || salesPath == "" {
		return nil, fmt.Errorf("inventory and sales file paths are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		inventoryPath: inventoryPath,
		salesPath:     salesPath,
		logger:        logger,
	}, nil
}

func readJSON(path string, v interface{}) FileResult {
	res := FileResult{Path: path, Outcome: Loaded}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res.Outcome = EmptyStore
			return res
		}
		res.Outcome, res.Err = CorruptStore, err
		return res
	}
	if len(b) == 0 {
		res.Outcome = EmptyStore
		return res
	}
	if err := json.Unmarshal(b, v); err != nil {
		res.Outcome, res.Err = CorruptStore, err
	}
	return res
}

func writeJSON(path string, v interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads inventory.json into products and then sales.json into sales.
// Missing or corrupt files, invalid records and sale items pointing at
// products that no longer exist are recorded in the report and logged, never
// returned as errors. The error result is reserved for context cancellation.
func (s *FileStore) Load(ctx context.Context, products domain.ProductStore, sales domain.SaleStore) (LoadReport, error) {
	start := time.Now()
	var report LoadReport

	var productRecords []ProductRecord
	report.Inventory = readJSON(s.inventoryPath, &productRecords)
	s.logResult("inventory", report.Inventory)
	if report.Inventory.Outcome == Loaded {
		for _, r := range productRecords {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			p, err := r.Product()
			if err == nil {
				err = products.Insert(ctx, p)
			}
			if err != nil {
				s.logger.Warn("product record rejected", zap.String("product_id", r.ID), zap.Error(err))
				report.Rejected = append(report.Rejected, RejectedRecord{Kind: "product", ID: r.ID, Err: err})
				continue
			}
			report.Inventory.Records++
		}
	}

	var saleRecords []SaleRecord
	report.Sales = readJSON(s.salesPath, &saleRecords)
	s.logResult("sales", report.Sales)
	if report.Sales.Outcome == Loaded {
		for _, r := range saleRecords {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			sale, orphans, err := r.Sale(ctx, products)
			for _, o := range orphans {
				s.logger.Warn("sale item dropped: product no longer in inventory",
					zap.String("sale_id", o.SaleID),
					zap.String("product_id", o.ProductID),
					zap.Int("quantity", o.Quantity),
				)
			}
			report.Orphans = append(report.Orphans, orphans...)
			if err == nil {
				err = sales.Append(ctx, sale)
			}
			if err != nil {
				s.logger.Warn("sale record rejected", zap.String("sale_id", r.ID), zap.Error(err))
				report.Rejected = append(report.Rejected, RejectedRecord{Kind: "sale", ID: r.ID, Err: err})
				continue
			}
			report.Sales.Records++
		}
	}

	s.logger.Info("data loaded",
		zap.Int("products", report.Inventory.Records),
		zap.Int("sales", report.Sales.Records),
		zap.Int("orphaned_items", len(report.Orphans)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return report, nil
}

func (s *FileStore) logResult(kind string, res FileResult) {
	switch res.Outcome {
	case EmptyStore:
		s.logger.Info("no data file, starting empty", zap.String("kind", kind), zap.String("path", res.Path))
	case CorruptStore:
		s.logger.Warn("unreadable data file, starting empty",
			zap.String("kind", kind), zap.String("path", res.Path), zap.Error(res.Err))
	}
}

// Save writes both repositories, products in listing order and sales in
// ledger order.
func (s *FileStore) Save(ctx context.Context, products domain.ProductStore, sales domain.SaleStore) error {
	list, err := products.List(ctx, domain.ProductFilter{})
	if err != nil {
		return err
	}
	productRecords := make([]ProductRecord, 0, len(list))
	for _, p := range list {
		productRecords = append(productRecords, NewProductRecord(p))
	}

	ledger, err := sales.List(ctx)
	if err != nil {
		return err
	}
	saleRecords := make([]SaleRecord, 0, len(ledger))
	for _, sale := range ledger {
		saleRecords = append(saleRecords, NewSaleRecord(sale))
	}

	if err := writeJSON(s.inventoryPath, productRecords); err != nil {
		return fmt.Errorf("saving inventory: %w", err)
	}
	if err := writeJSON(s.salesPath, saleRecords); err != nil {
		return fmt.Errorf("saving sales: %w", err)
	}
	s.logger.Info("data saved",
		zap.String("inventory", s.inventoryPath),
		zap.String("sales", s.salesPath),
		zap.Int("products", len(productRecords)),
		zap.Int("sales_count", len(saleRecords)),
	)
	return nil
}
