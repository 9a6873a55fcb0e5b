package builder

import (
	"strings"

	"storefront/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Catalog + search
// ─────────────────────────────────────────────────────────────

// SetProducts replaces the in-memory product catalog. The store never
// fetches products itself — the catalog service or the frontend pushes
// them in. A nil slice is coerced to empty.
func (s *Store) SetProducts(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if products == nil {
		products = []domain.Product{}
	}
	s.products = products
}

// Products returns the in-memory catalog.
func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// SetSearchQuery sets the query without recomputing results; callers
// decide when to run PerformSearch (typically on submit, not keystroke).
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search.Query = query
}

// PerformSearch recomputes results from the catalog. A blank query clears
// them; otherwise products match on a case-insensitive substring of name,
// description, or category, preserving catalog order.
func (s *Store) PerformSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.TrimSpace(strings.ToLower(s.search.Query))
	if query == "" {
		s.search.Results = []domain.Product{}
		return
	}
	results := []domain.Product{}
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query) ||
			strings.Contains(strings.ToLower(p.Category), query) {
			results = append(results, p)
		}
	}
	s.search.Results = results
}

// ToggleSearch flips the search panel open/closed.
func (s *Store) ToggleSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search.IsOpen = !s.search.IsOpen
}

// Search returns a snapshot of the search state.
func (s *Store) Search() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.search
	snap.Results = make([]domain.Product, len(s.search.Results))
	copy(snap.Results, s.search.Results)
	return snap
}
