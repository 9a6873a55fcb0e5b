package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// ── Destination ────────────────────────────────────────────
// A Destination writes product records into a target. The only
// destination is the storefront catalog.

// SyncMode determines how records are written to the catalog.
type SyncMode string

const (
	SyncReplace SyncMode = "replace" // swap the whole catalog for the feed
	SyncAppend  SyncMode = "append"  // add feed rows, upserting on SKU
)

// Destination writes records to a target system.
type Destination interface {
	Write(ctx context.Context, schema *Schema, records []Record, mode SyncMode) (int, error)
}

// ── Catalog Destination ────────────────────────────────────

// CatalogWriter implements Destination for the product catalog.
// Feed fields map onto products by canonical name: sku, name,
// description, category, price, image_url, in_stock. A rename transform
// upstream brings partner-specific field names onto these.
type CatalogWriter struct {
	Store domain.ProductStore
}

func (w *CatalogWriter) Write(ctx context.Context, schema *Schema, records []Record, mode SyncMode) (int, error) {
	if len(records) == 0 && mode != SyncReplace {
		return 0, nil
	}

	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}
		p := recordToProduct(rec)
		if p.Name == "" {
			continue // a product without a name renders as nothing
		}
		products = append(products, p)
	}

	if mode == SyncReplace {
		if err := w.Store.ReplaceAll(products); err != nil {
			return 0, fmt.Errorf("replace catalog: %w", err)
		}
		return len(products), nil
	}

	// Append mode: upsert on SKU so re-running a feed updates rather
	// than duplicates.
	existing, err := w.Store.ListProducts()
	if err != nil {
		return 0, fmt.Errorf("list catalog: %w", err)
	}
	bySKU := make(map[string]domain.Product, len(existing))
	for _, p := range existing {
		if p.SKU != "" {
			bySKU[p.SKU] = p
		}
	}

	written := 0
	for i := range products {
		p := products[i]
		if prev, ok := bySKU[p.SKU]; ok && p.SKU != "" {
			p.ID = prev.ID
			p.CreatedAt = prev.CreatedAt
			if err := w.Store.UpdateProduct(&p); err != nil {
				return written, fmt.Errorf("update product %s: %w", p.SKU, err)
			}
		} else {
			if err := w.Store.CreateProduct(&p); err != nil {
				return written, fmt.Errorf("insert product %s: %w", p.SKU, err)
			}
		}
		written++
	}
	return written, nil
}

// recordToProduct maps a canonical-named record onto a Product.
func recordToProduct(rec Record) domain.Product {
	p := domain.Product{
		ID:          uuid.New().String(),
		SKU:         str(rec.Data["sku"]),
		Name:        str(rec.Data["name"]),
		Description: str(rec.Data["description"]),
		Category:    str(rec.Data["category"]),
		Price:       NormalizePrice(rec.Data["price"]),
		ImageURL:    str(rec.Data["image_url"]),
		InStock:     true,
	}
	if v, ok := rec.Data["in_stock"]; ok {
		p.InStock = toBool(v)
	}
	return p
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		lower := strings.ToLower(b)
		return lower == "true" || lower == "yes" || lower == "1"
	case float64:
		return b != 0
	case int:
		return b != 0
	default:
		return false
	}
}
