package domain

import "time"

// Product is one catalog entry. Products are supplied externally — imported
// through the import pipeline or pushed by the frontend — never created by
// the builder itself.
type Product struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductStore persists the imported product catalog.
type ProductStore interface {
	CreateProduct(p *Product) error
	GetProduct(id string) (*Product, error)
	ListProducts() ([]Product, error)
	UpdateProduct(p *Product) error
	DeleteProduct(id string) error
	ReplaceAll(products []Product) error
}
