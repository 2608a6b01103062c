package store

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"inventory_ledger/domain"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newProduct(id, name, barcode, price string, qty int) domain.Product {
	return domain.NewProduct(id, domain.ProductDraft{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Brand:    "Marca",
		Quantity: qty,
		Barcode:  barcode,
	}, testTime)
}

func TestInsertValidation_TableDriven(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	valid := newProduct("x4", "A", "100", "1.00", 0)
	negative := valid
	negative.ID, negative.Barcode, negative.Quantity = "x3", "101", -5
	noName := valid
	noName.ID, noName.Barcode, noName.Name = "x1", "102", ""
	noID := valid
	noID.ID = ""
	zeroPrice := valid
	zeroPrice.ID, zeroPrice.Barcode, zeroPrice.Price = "x2", "103", decimal.Zero

	cases := []struct {
		name    string
		product domain.Product
		wantErr bool
	}{
		{"empty id", noID, true},
		{"empty name", noName, true},
		{"zero price", zeroPrice, true},
		{"negative quantity", negative, true},
		{"valid", valid, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Insert(ctx, tc.product)
			if tc.wantErr && !domain.IsValidationError(err) {
				t.Fatalf("expected ValidationError for case %s, got %v", tc.name, err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestInsert_Duplicates(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	if err := s.Insert(ctx, newProduct("a", "Alpha", "111", "1.00", 1)); err != nil {
		t.Fatalf("setup insert failed: %v", err)
	}

	t.Run("same id", func(t *testing.T) {
		err := s.Insert(ctx, newProduct("a", "Other", "222", "1.00", 1))
		if !domain.IsDuplicateProductError(err) {
			t.Fatalf("expected DuplicateProductError, got %v", err)
		}
	})

	t.Run("same barcode", func(t *testing.T) {
		err := s.Insert(ctx, newProduct("b", "Other", "111", "1.00", 1))
		if !domain.IsDuplicateProductError(err) {
			t.Fatalf("expected DuplicateProductError, got %v", err)
		}
	})

	all, _ := s.ListAll(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 product after rejected inserts, got %d", len(all))
	}
}

func TestLookups(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	_ = s.Insert(ctx, newProduct("a", "Leite Integral", "111", "5.49", 3))
	_ = s.Insert(ctx, newProduct("b", "leite integral", "222", "4.99", 1))

	t.Run("by barcode", func(t *testing.T) {
		p, err := s.GetByBarcode(ctx, "222")
		if err != nil || p.ID != "b" {
			t.Fatalf("expected b, got %v %v", p.ID, err)
		}
		if _, err := s.GetByBarcode(ctx, "999"); !domain.IsProductNotFoundError(err) {
			t.Fatalf("expected ProductNotFoundError, got %v", err)
		}
	})

	t.Run("by name is case-insensitive and earliest wins", func(t *testing.T) {
		p, err := s.GetByName(ctx, "  LEITE integral")
		if err != nil {
			t.Fatalf("get by name failed: %v", err)
		}
		if p.ID != "a" {
			t.Fatalf("expected earliest inserted product a, got %s", p.ID)
		}
	})

	t.Run("by brand", func(t *testing.T) {
		out, err := s.ListByBrand(ctx, "MARCA")
		if err != nil || len(out) != 2 {
			t.Fatalf("expected 2 products by brand, got %d %v", len(out), err)
		}
		if out[0].ID != "a" {
			t.Fatalf("expected insertion order")
		}
	})

	t.Run("results are copies", func(t *testing.T) {
		p, _ := s.Get(ctx, "a")
		p.Quantity = 999
		again, _ := s.Get(ctx, "a")
		if again.Quantity != 3 {
			t.Fatalf("store mutated through returned value")
		}
	})
}

func TestUpdateRemove(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	_ = s.Insert(ctx, newProduct("a", "Alpha", "111", "1.00", 1))
	_ = s.Insert(ctx, newProduct("b", "Beta", "222", "1.00", 1))

	t.Run("update not found", func(t *testing.T) {
		_, err := s.Update(ctx, "no-such", newProduct("", "X", "333", "1.00", 1))
		if !domain.IsProductNotFoundError(err) {
			t.Fatalf("expected ProductNotFoundError, got %v", err)
		}
	})

	t.Run("update to a taken barcode", func(t *testing.T) {
		p, _ := s.Get(ctx, "a")
		p.Barcode = "222"
		if _, err := s.Update(ctx, "a", p); !domain.IsDuplicateProductError(err) {
			t.Fatalf("expected DuplicateProductError, got %v", err)
		}
	})

	t.Run("update reindexes name and barcode", func(t *testing.T) {
		p, _ := s.Get(ctx, "a")
		p.Name = "Gamma"
		p.Barcode = "333"
		got, err := s.Update(ctx, "a", p)
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if got.Name != "Gamma" {
			t.Fatalf("unexpected name %s", got.Name)
		}
		if _, err := s.GetByName(ctx, "alpha"); !domain.IsProductNotFoundError(err) {
			t.Fatalf("old name still indexed")
		}
		if _, err := s.GetByBarcode(ctx, "111"); !domain.IsProductNotFoundError(err) {
			t.Fatalf("old barcode still indexed")
		}
		if p, err := s.GetByBarcode(ctx, "333"); err != nil || p.ID != "a" {
			t.Fatalf("new barcode not indexed: %v", err)
		}
	})

	t.Run("remove", func(t *testing.T) {
		ok, err := s.Remove(ctx, "b")
		if err != nil || !ok {
			t.Fatalf("expected removal, got %v %v", ok, err)
		}
		ok, err = s.Remove(ctx, "b")
		if err != nil || ok {
			t.Fatalf("second removal should report false, got %v %v", ok, err)
		}
		if _, err := s.GetByBarcode(ctx, "222"); !domain.IsProductNotFoundError(err) {
			t.Fatalf("removed barcode still indexed")
		}
		out, _ := s.List(ctx, domain.ProductFilter{})
		if len(out) != 1 || out[0].ID != "a" {
			t.Fatalf("unexpected listing after remove: %v", out)
		}
	})
}

func TestListSortingAndFiltering(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	a := newProduct("a", "Alpha", "1", "5.00", 3)
	b := newProduct("b", "Beta", "2", "2.00", 7)
	c := newProduct("c", "Gamma", "3", "9.00", 1)
	a.SetExpiration(ptrTime(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)), testTime)
	c.SetExpiration(ptrTime(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)), testTime)
	_ = s.Insert(ctx, a)
	_ = s.Insert(ctx, b)
	_ = s.Insert(ctx, c)

	t.Run("below quantity", func(t *testing.T) {
		limit := 3
		out, err := s.List(ctx, domain.ProductFilter{BelowQuantity: &limit})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(out) != 1 || out[0].ID != "c" {
			t.Fatalf("expected only c, got %d", len(out))
		}
	})

	t.Run("price range", func(t *testing.T) {
		lo, hi := decimal.RequireFromString("2.00"), decimal.RequireFromString("5.00")
		out, _ := s.List(ctx, domain.ProductFilter{MinPrice: &lo, MaxPrice: &hi})
		if len(out) != 2 {
			t.Fatalf("expected 2, got %d", len(out))
		}
	})

	t.Run("perishable only", func(t *testing.T) {
		yes := true
		out, _ := s.List(ctx, domain.ProductFilter{Perishable: &yes})
		if len(out) != 2 {
			t.Fatalf("expected 2, got %d", len(out))
		}
	})

	t.Run("name contains", func(t *testing.T) {
		out, _ := s.List(ctx, domain.ProductFilter{NameContains: "MM"})
		if len(out) != 1 || out[0].ID != "c" {
			t.Fatalf("expected Gamma")
		}
	})

	t.Run("sort by price desc", func(t *testing.T) {
		out, _ := s.List(ctx, domain.ProductFilter{SortBy: "price", Order: "desc"})
		if len(out) != 3 || out[0].ID != "c" || out[2].ID != "b" {
			t.Fatalf("unexpected sort order by price desc")
		}
	})

	t.Run("sort by expiration puts non-perishables last", func(t *testing.T) {
		out, _ := s.List(ctx, domain.ProductFilter{SortBy: "expiration"})
		if out[0].ID != "c" || out[1].ID != "a" || out[2].ID != "b" {
			t.Fatalf("unexpected expiration order: %s %s %s", out[0].ID, out[1].ID, out[2].ID)
		}
	})

	t.Run("default is insertion order", func(t *testing.T) {
		out, _ := s.List(ctx, domain.ProductFilter{})
		if out[0].ID != "a" || out[1].ID != "b" || out[2].ID != "c" {
			t.Fatalf("expected insertion order")
		}
	})
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestBulkInsert_ErrorsAndCancellation(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	products := []domain.Product{
		newProduct("d1", "A", "10", "1.00", 1),
		newProduct("d1", "A", "11", "1.00", 1),
		newProduct("d2", "B", "10", "1.00", 1),
		newProduct("d3", "C", "12", "1.00", 1),
	}
	err := s.BulkInsert(ctx, products)
	if err == nil {
		t.Fatalf("expected error due to duplicates")
	}
	if !domain.IsDuplicateProductError(err) {
		t.Fatalf("expected duplicate errors to be preserved, got %v", err)
	}
	all, _ := s.ListAll(ctx)
	if len(all) != 2 {
		t.Fatalf("expected valid products to be inserted, got %d", len(all))
	}

	canceledCtx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.BulkInsert(canceledCtx, []domain.Product{newProduct("x1", "N", "99", "1.00", 1)}); err == nil {
		t.Fatalf("expected context error on canceled context")
	}
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	var wg sync.WaitGroup

	n := 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		id := "p-conc-" + strconv.Itoa(i)
		go func(id, barcode string) {
			defer wg.Done()
			_ = s.Insert(ctx, newProduct(id, "X", barcode, "1.00", 1))
			_, _ = s.Get(ctx, id)
		}(id, strconv.Itoa(1000+i))
	}
	wg.Wait()

	out, err := s.List(ctx, domain.ProductFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(out) != n {
		t.Fatalf("expected %d products, got %d", n, len(out))
	}
}

func BenchmarkInMemoryStore_Insert(b *testing.B) {
	s := NewInMemoryStore()
	for i := 0; i < b.N; i++ {
		_ = s.Insert(context.Background(), newProduct("b-ins-"+strconv.Itoa(i), "Bench", strconv.Itoa(i), "1.00", 1))
	}
}

func BenchmarkInMemoryStore_GetByBarcode(b *testing.B) {
	s := NewInMemoryStore()
	for i := 0; i < 1000; i++ {
		_ = s.Insert(context.Background(), newProduct("b-get-"+strconv.Itoa(i), "X", strconv.Itoa(i), "1.00", 1))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.GetByBarcode(context.Background(), strconv.Itoa(i%1000))
	}
}
