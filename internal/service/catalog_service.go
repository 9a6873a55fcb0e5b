package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/builder"
	"storefront/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Catalog Service — the merchant's product catalog
// ─────────────────────────────────────────────────────────────

// CatalogService manages the product catalog and keeps the builder's
// in-memory product list in sync with it, so product grids and search
// on the canvas always render the persisted catalog.
type CatalogService struct {
	store   domain.ProductStore
	builder *builder.Store
	emitter EventEmitter
}

func NewCatalogService(store domain.ProductStore, b *builder.Store, emitter EventEmitter) *CatalogService {
	return &CatalogService{store: store, builder: b, emitter: emitter}
}

type ProductInput struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	InStock     bool    `json:"inStock"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	p := &domain.Product{
		ID:          uuid.New().String(),
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		InStock:     input.InStock,
	}
	if err := s.store.CreateProduct(p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.refreshBuilder(ctx)
	return p, nil
}

func (s *CatalogService) GetProduct(id string) (*domain.Product, error) {
	return s.store.GetProduct(id)
}

func (s *CatalogService) ListProducts() ([]domain.Product, error) {
	return s.store.ListProducts()
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	p, err := s.store.GetProduct(id)
	if err != nil {
		return nil, err
	}
	p.SKU = input.SKU
	p.Name = input.Name
	p.Description = input.Description
	p.Category = input.Category
	p.Price = input.Price
	p.ImageURL = input.ImageURL
	p.InStock = input.InStock

	if err := s.store.UpdateProduct(p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.refreshBuilder(ctx)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.refreshBuilder(ctx)
	return nil
}

// Categories returns the distinct categories in the catalog, for the
// product-grid component's category filter.
func (s *CatalogService) Categories() ([]string, error) {
	products, err := s.store.ListProducts()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var cats []string
	for _, p := range products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, p.Category)
		}
	}
	return cats, nil
}

// SyncToBuilder loads the persisted catalog into the builder store.
// Called at startup and after any catalog mutation or import.
func (s *CatalogService) SyncToBuilder(ctx context.Context) error {
	products, err := s.store.ListProducts()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	s.builder.SetProducts(products)
	return nil
}

func (s *CatalogService) refreshBuilder(ctx context.Context) {
	if err := s.SyncToBuilder(ctx); err == nil {
		s.emitter.Emit(ctx, "catalog:updated", nil)
	}
}
