package importer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/importer"
)

// fakeSource streams a fixed set of records, optionally failing the read.
type fakeSource struct {
	typ     string
	records []importer.Record
	readErr error
}

func (s *fakeSource) Spec() importer.SourceSpec {
	return importer.SourceSpec{Type: s.typ, Label: "Fake Feed"}
}

func (s *fakeSource) Discover(ctx context.Context, cfg importer.SourceConfig) (*importer.Schema, error) {
	return &importer.Schema{Fields: []importer.Field{
		{Name: "sku", Type: "text"},
		{Name: "name", Type: "text"},
		{Name: "price", Type: "number"},
	}}, nil
}

func (s *fakeSource) Read(ctx context.Context, cfg importer.SourceConfig) (<-chan importer.Record, <-chan error) {
	out := make(chan importer.Record, 100)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		for _, r := range s.records {
			out <- r
		}
		if s.readErr != nil {
			errCh <- s.readErr
		}
	}()
	return out, errCh
}

// memProductStore is an in-memory domain.ProductStore for sync tests.
type memProductStore struct {
	products []domain.Product
}

func (m *memProductStore) CreateProduct(p *domain.Product) error {
	m.products = append(m.products, *p)
	return nil
}

func (m *memProductStore) GetProduct(id string) (*domain.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product not found: %s", id)
}

func (m *memProductStore) ListProducts() ([]domain.Product, error) {
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *memProductStore) UpdateProduct(p *domain.Product) error {
	for i := range m.products {
		if m.products[i].ID == p.ID {
			m.products[i] = *p
			return nil
		}
	}
	return fmt.Errorf("product not found: %s", p.ID)
}

func (m *memProductStore) DeleteProduct(id string) error {
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memProductStore) ReplaceAll(products []domain.Product) error {
	m.products = append([]domain.Product(nil), products...)
	return nil
}

func feedRecord(sku, name string, price any) importer.Record {
	return importer.Record{Data: map[string]any{"sku": sku, "name": name, "price": price}}
}

func TestEngineRunReplace(t *testing.T) {
	importer.RegisterSource(&fakeSource{typ: "fake_replace", records: []importer.Record{
		feedRecord("A-1", "Armchair", "$249.00"),
		feedRecord("A-2", "Ottoman", 89.0),
		feedRecord("", "", 0), // nameless rows never land in the catalog
	}})

	store := &memProductStore{products: []domain.Product{{ID: "old", SKU: "OLD", Name: "Stale"}}}
	engine := &importer.Engine{Dest: &importer.CatalogWriter{Store: store}}

	result, err := engine.Run(context.Background(), &importer.ImportJob{
		ID:         "job1",
		SourceType: "fake_replace",
		SyncMode:   importer.SyncReplace,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != "success" {
		t.Errorf("status = %q, want success", result.Status)
	}
	if result.RowsRead != 3 {
		t.Errorf("rows read = %d, want 3", result.RowsRead)
	}
	if result.RowsWritten != 2 {
		t.Errorf("rows written = %d, want 2", result.RowsWritten)
	}

	products, _ := store.ListProducts()
	if len(products) != 2 {
		t.Fatalf("catalog has %d products, want 2 (replace drops stale rows)", len(products))
	}
	if products[0].SKU != "A-1" || products[0].Price != 249.0 {
		t.Errorf("unexpected first product: %+v", products[0])
	}
}

func TestEngineRunAppendUpsertsOnSKU(t *testing.T) {
	importer.RegisterSource(&fakeSource{typ: "fake_append", records: []importer.Record{
		feedRecord("A-1", "Armchair Deluxe", 299.0),
		feedRecord("B-1", "Bookcase", 120.0),
	}})

	store := &memProductStore{products: []domain.Product{
		{ID: "keep-id", SKU: "A-1", Name: "Armchair", Price: 249.0},
	}}
	engine := &importer.Engine{Dest: &importer.CatalogWriter{Store: store}}

	result, err := engine.Run(context.Background(), &importer.ImportJob{
		ID:         "job2",
		SourceType: "fake_append",
		SyncMode:   importer.SyncAppend,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.RowsWritten != 2 {
		t.Errorf("rows written = %d, want 2", result.RowsWritten)
	}

	products, _ := store.ListProducts()
	if len(products) != 2 {
		t.Fatalf("catalog has %d products, want 2 (upsert, not duplicate)", len(products))
	}
	updated, err := store.GetProduct("keep-id")
	if err != nil {
		t.Fatal("upsert should keep the existing product id")
	}
	if updated.Name != "Armchair Deluxe" || updated.Price != 299.0 {
		t.Errorf("existing SKU not updated: %+v", updated)
	}
}

func TestEngineRunTransformsApply(t *testing.T) {
	importer.RegisterSource(&fakeSource{typ: "fake_transform", records: []importer.Record{
		{Data: map[string]any{"title": "Lamp", "sku": "L-1", "price": "45"}},
		{Data: map[string]any{"title": "Lamp", "sku": "L-1", "price": "45"}},
		{Data: map[string]any{"title": "Rug", "sku": "R-1", "price": "0"}},
	}})

	store := &memProductStore{}
	engine := &importer.Engine{Dest: &importer.CatalogWriter{Store: store}}

	result, err := engine.Run(context.Background(), &importer.ImportJob{
		ID:         "job3",
		SourceType: "fake_transform",
		SyncMode:   importer.SyncReplace,
		DedupeKey:  "sku",
		Transforms: []importer.TransformConfig{
			{Type: "rename", Config: map[string]any{"mapping": map[string]any{"title": "name"}}},
			{Type: "filter", Config: map[string]any{"field": "price", "op": "gt", "value": 0}},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.RowsRead != 3 {
		t.Errorf("rows read = %d, want 3", result.RowsRead)
	}
	// Duplicate SKU deduped, zero-price filtered: one product remains.
	if result.RowsWritten != 1 {
		t.Errorf("rows written = %d, want 1", result.RowsWritten)
	}
	products, _ := store.ListProducts()
	if len(products) != 1 || products[0].Name != "Lamp" {
		t.Errorf("unexpected catalog: %+v", products)
	}
}

func TestEngineRunSourceError(t *testing.T) {
	readErr := errors.New("feed unavailable")
	importer.RegisterSource(&fakeSource{typ: "fake_broken", readErr: readErr})

	store := &memProductStore{products: []domain.Product{{ID: "x", SKU: "X", Name: "Keep"}}}
	engine := &importer.Engine{Dest: &importer.CatalogWriter{Store: store}}

	result, err := engine.Run(context.Background(), &importer.ImportJob{
		ID:         "job4",
		SourceType: "fake_broken",
		SyncMode:   importer.SyncReplace,
	})
	if !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
	if result.Status != "error" {
		t.Errorf("status = %q, want error", result.Status)
	}

	// A failed read must never touch the catalog.
	products, _ := store.ListProducts()
	if len(products) != 1 {
		t.Errorf("catalog modified after failed read: %+v", products)
	}
}

func TestEngineRunUnknownSource(t *testing.T) {
	engine := &importer.Engine{Dest: &importer.CatalogWriter{Store: &memProductStore{}}}
	if _, err := engine.Run(context.Background(), &importer.ImportJob{SourceType: "nope"}); err == nil {
		t.Fatal("expected error for unknown source type")
	}
}

func TestEnginePreviewCapsRows(t *testing.T) {
	var records []importer.Record
	for i := 0; i < 20; i++ {
		records = append(records, feedRecord(fmt.Sprintf("S-%d", i), fmt.Sprintf("Item %d", i), i))
	}
	importer.RegisterSource(&fakeSource{typ: "fake_preview", records: records})

	engine := &importer.Engine{Dest: &importer.CatalogWriter{Store: &memProductStore{}}}
	preview, schema, err := engine.Preview(context.Background(), "fake_preview", nil, 5)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(preview) != 5 {
		t.Errorf("preview returned %d rows, want 5", len(preview))
	}
	if schema == nil || len(schema.Fields) != 3 {
		t.Errorf("unexpected schema: %+v", schema)
	}
}
