package builder

import "storefront/internal/domain"

// ─────────────────────────────────────────────────────────────
// Preview cart
// ─────────────────────────────────────────────────────────────
//
// The cart exists so the builder can preview the storefront's shopping
// flow. Totals are always recomputed from the line items after a
// mutation; nothing in here patches an aggregate incrementally.

// AddToCart adds one unit of product. A product occupies at most one
// line: adding it again increments that line's quantity.
func (s *Store) AddToCart(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart.Items {
		if s.cart.Items[i].Product.ID == product.ID {
			s.cart.Items[i].Quantity++
			s.cart.Recompute()
			return
		}
	}
	s.cart.Items = append(s.cart.Items, domain.CartLine{Product: product, Quantity: 1})
	s.cart.Recompute()
}

// RemoveFromCart drops the line for productID. Missing products are a
// silent no-op and leave the totals untouched.
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.cart.Items[:0]
	for _, line := range s.cart.Items {
		if line.Product.ID != productID {
			out = append(out, line)
		}
	}
	s.cart.Items = out
	s.cart.Recompute()
}

// UpdateCartQuantity sets the quantity of productID's line. A quantity of
// zero or less removes the line. Missing products are a silent no-op.
func (s *Store) UpdateCartQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart.Items {
		if s.cart.Items[i].Product.ID != productID {
			continue
		}
		if quantity <= 0 {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
		} else {
			s.cart.Items[i].Quantity = quantity
		}
		s.cart.Recompute()
		return
	}
}

// ToggleCart flips the cart drawer open/closed.
func (s *Store) ToggleCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.IsOpen = !s.cart.IsOpen
}

// ClearCart empties the cart and zeroes the totals.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = domain.Cart{IsOpen: s.cart.IsOpen}
}

// Cart returns a snapshot of the preview cart.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.cart
	snap.Items = make([]domain.CartLine, len(s.cart.Items))
	copy(snap.Items, s.cart.Items)
	return snap
}
