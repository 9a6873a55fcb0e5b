package storage

import (
	"fmt"
	"time"

	"storefront/internal/domain"
)

// CatalogStore implements domain.ProductStore using SQLite.
type CatalogStore struct {
	db *DB
}

func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) CreateProduct(p *domain.Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.db.Conn().Exec(
		`INSERT INTO products (id, sku, name, description, category, price, image_url, in_stock, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SKU, p.Name, p.Description, p.Category, p.Price, p.ImageURL, p.InStock, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *CatalogStore) GetProduct(id string) (*domain.Product, error) {
	p := &domain.Product{}
	err := s.db.Conn().QueryRow(
		`SELECT id, sku, name, description, category, price, image_url, in_stock, created_at, updated_at FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Category, &p.Price, &p.ImageURL, &p.InStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *CatalogStore) ListProducts() ([]domain.Product, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, sku, name, description, category, price, image_url, in_stock, created_at, updated_at FROM products ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Category, &p.Price, &p.ImageURL, &p.InStock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *CatalogStore) UpdateProduct(p *domain.Product) error {
	p.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE products SET sku = ?, name = ?, description = ?, category = ?, price = ?, image_url = ?, in_stock = ?, updated_at = ? WHERE id = ?`,
		p.SKU, p.Name, p.Description, p.Category, p.Price, p.ImageURL, p.InStock, p.UpdatedAt, p.ID,
	)
	return err
}

func (s *CatalogStore) DeleteProduct(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}

// ReplaceAll atomically swaps the whole catalog for the given products.
// Used by replace-mode imports so a failed import never leaves a
// half-written catalog behind.
func (s *CatalogStore) ReplaceAll(products []domain.Product) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM products`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	now := time.Now()
	for i := range products {
		p := &products[i]
		p.CreatedAt = now
		p.UpdatedAt = now
		_, err := tx.Exec(
			`INSERT INTO products (id, sku, name, description, category, price, image_url, in_stock, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.SKU, p.Name, p.Description, p.Category, p.Price, p.ImageURL, p.InStock, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
