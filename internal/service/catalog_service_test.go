package service_test

import (
	"context"
	"fmt"
	"testing"

	"storefront/internal/builder"
	"storefront/internal/domain"
	"storefront/internal/service"
)

// fakeProductStore is an in-memory domain.ProductStore.
type fakeProductStore struct {
	products []domain.Product
}

func (f *fakeProductStore) CreateProduct(p *domain.Product) error {
	f.products = append(f.products, *p)
	return nil
}

func (f *fakeProductStore) GetProduct(id string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("product not found: %s", id)
}

func (f *fakeProductStore) ListProducts() ([]domain.Product, error) {
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeProductStore) UpdateProduct(p *domain.Product) error {
	for i, existing := range f.products {
		if existing.ID == p.ID {
			f.products[i] = *p
			return nil
		}
	}
	return fmt.Errorf("product not found: %s", p.ID)
}

func (f *fakeProductStore) DeleteProduct(id string) error {
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("product not found: %s", id)
}

func (f *fakeProductStore) ReplaceAll(products []domain.Product) error {
	f.products = append([]domain.Product(nil), products...)
	return nil
}

func newCatalogService() (*service.CatalogService, *fakeProductStore, *builder.Store, *service.MockEmitter) {
	store := &fakeProductStore{}
	b := builder.New(builder.NewMemKV())
	emitter := &service.MockEmitter{}
	return service.NewCatalogService(store, b, emitter), store, b, emitter
}

func TestCatalogService_CreateProduct_RequiresName(t *testing.T) {
	svc, _, _, _ := newCatalogService()
	if _, err := svc.CreateProduct(context.Background(), service.ProductInput{}); err == nil {
		t.Fatal("expected error for product without a name")
	}
}

func TestCatalogService_CreateProduct_SyncsBuilder(t *testing.T) {
	svc, _, b, emitter := newCatalogService()
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, service.ProductInput{
		Name:     "Walnut Desk",
		SKU:      "DESK-01",
		Category: "furniture",
		Price:    499.00,
		InStock:  true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if p.ID == "" {
		t.Error("expected a minted product id")
	}

	if got := b.Products(); len(got) != 1 || got[0].Name != "Walnut Desk" {
		t.Fatalf("expected builder catalog with the new product, got %+v", got)
	}

	found := false
	for _, e := range emitter.Events {
		if e.Event == "catalog:updated" {
			found = true
		}
	}
	if !found {
		t.Error("expected a catalog:updated event")
	}
}

func TestCatalogService_DeleteProduct_SyncsBuilder(t *testing.T) {
	svc, _, b, _ := newCatalogService()
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, service.ProductInput{Name: "Lamp"})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if err := svc.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if got := b.Products(); len(got) != 0 {
		t.Fatalf("expected empty builder catalog, got %d products", len(got))
	}
}

func TestCatalogService_Categories_DistinctNonEmpty(t *testing.T) {
	svc, store, _, _ := newCatalogService()

	store.products = []domain.Product{
		{ID: "1", Name: "A", Category: "chairs"},
		{ID: "2", Name: "B", Category: "tables"},
		{ID: "3", Name: "C", Category: "chairs"},
		{ID: "4", Name: "D"},
	}

	cats, err := svc.Categories()
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %v", cats)
	}
	if cats[0] != "chairs" || cats[1] != "tables" {
		t.Errorf("expected [chairs tables], got %v", cats)
	}
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	svc, _, _, _ := newCatalogService()
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, service.ProductInput{Name: "Rug", Price: 89})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	updated, err := svc.UpdateProduct(ctx, p.ID, service.ProductInput{
		Name:    "Wool Rug",
		Price:   119,
		InStock: true,
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Name != "Wool Rug" || updated.Price != 119 {
		t.Errorf("update not applied: %+v", updated)
	}
}
