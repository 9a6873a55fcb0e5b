package builder_test

import (
	"testing"

	"storefront/internal/builder"
	"storefront/internal/domain"
)

// fixture of five products, exactly two matching "shirt" by name or category.
func searchFixture() []domain.Product {
	return []domain.Product{
		product("p1", "Linen Shirt", "apparel", 39),
		product("p2", "Coffee Mug", "kitchen", 9),
		product("p3", "Canvas Poster", "decor", 15),
		product("p4", "Tote Bag", "t-shirts", 12),
		product("p5", "Desk Lamp", "lighting", 45),
	}
}

func TestPerformSearch_BlankQueryClearsResults(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	s.SetProducts(searchFixture())
	s.SetSearchQuery("shirt")
	s.PerformSearch()
	if got := len(s.Search().Results); got != 2 {
		t.Fatalf("expected 2 results, got %d", got)
	}

	s.SetSearchQuery("   ")
	s.PerformSearch()
	if got := s.Search().Results; len(got) != 0 {
		t.Errorf("blank query must clear results, got %v", got)
	}
}

func TestPerformSearch_CaseInsensitiveOrderPreserving(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	s.SetProducts(searchFixture())

	s.SetSearchQuery("SHIRT")
	s.PerformSearch()

	results := s.Search().Results
	if len(results) != 2 {
		t.Fatalf("expected exactly 2 matches, got %d", len(results))
	}
	// Order-preserving relative to the source catalog: p1 before p4.
	if results[0].ID != "p1" || results[1].ID != "p4" {
		t.Errorf("expected [p1 p4], got [%s %s]", results[0].ID, results[1].ID)
	}
}

func TestSetSearchQuery_DoesNotRecompute(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	s.SetProducts(searchFixture())

	s.SetSearchQuery("shirt")
	if got := len(s.Search().Results); got != 0 {
		t.Errorf("setting the query must not recompute results, got %d", got)
	}
}

func TestPerformSearch_StaleUntilRerun(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	s.SetProducts(searchFixture())
	s.SetSearchQuery("mug")
	s.PerformSearch()
	if got := len(s.Search().Results); got != 1 {
		t.Fatalf("expected 1 result, got %d", got)
	}

	// Results are a derived cache: swapping the catalog leaves them stale
	// until PerformSearch runs again.
	s.SetProducts(nil)
	if got := len(s.Search().Results); got != 1 {
		t.Errorf("results must stay stale after catalog swap, got %d", got)
	}
	s.PerformSearch()
	if got := len(s.Search().Results); got != 0 {
		t.Errorf("expected empty results after recompute, got %d", got)
	}
}

func TestSetProducts_CoercesNilToEmpty(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	s.SetProducts(nil)
	if s.Products() == nil {
		t.Error("expected empty catalog, not nil")
	}
}

func TestToggleSearch(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	s.ToggleSearch()
	if !s.Search().IsOpen {
		t.Error("expected search open after toggle")
	}
	s.ToggleSearch()
	if s.Search().IsOpen {
		t.Error("expected search closed after second toggle")
	}
}
