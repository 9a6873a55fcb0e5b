package builder_test

import (
	"math"
	"testing"

	"storefront/internal/builder"
	"storefront/internal/domain"
)

func product(id, name, category string, price float64) domain.Product {
	return domain.Product{ID: id, SKU: "sku-" + id, Name: name, Category: category, Price: price}
}

// checkCart asserts the aggregate invariant: totals always equal an
// independent recomputation over the line items.
func checkCart(t *testing.T, s *builder.Store) {
	t.Helper()
	cart := s.Cart()
	items := 0
	price := 0.0
	for _, line := range cart.Items {
		items += line.Quantity
		price += line.Product.Price * float64(line.Quantity)
	}
	if cart.TotalItems != items {
		t.Errorf("totalItems drifted: have %d, recomputed %d", cart.TotalItems, items)
	}
	if math.Abs(cart.TotalPrice-price) > 1e-9 {
		t.Errorf("totalPrice drifted: have %v, recomputed %v", cart.TotalPrice, price)
	}
}

func TestAddToCart_SameProductIncrementsQuantity(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	p := product("p1", "Shirt", "apparel", 19.99)

	s.AddToCart(p)
	s.AddToCart(p)
	checkCart(t, s)

	cart := s.Cart()
	if len(cart.Items) != 1 {
		t.Fatalf("expected one line per product, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", cart.Items[0].Quantity)
	}
	if cart.TotalItems != 2 {
		t.Errorf("expected totalItems 2, got %d", cart.TotalItems)
	}
}

func TestRemoveFromCart_MissingProductLeavesTotalsAlone(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	s.AddToCart(product("p1", "Shirt", "apparel", 10))
	before := s.Cart()

	s.RemoveFromCart("ghost")
	checkCart(t, s)

	after := s.Cart()
	if after.TotalItems != before.TotalItems || after.TotalPrice != before.TotalPrice {
		t.Errorf("removing a missing product must not move the totals: %+v vs %+v", before, after)
	}
}

func TestUpdateCartQuantity(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	s.AddToCart(product("p1", "Shirt", "apparel", 10))
	s.AddToCart(product("p2", "Mug", "kitchen", 7.5))

	s.UpdateCartQuantity("p1", 5)
	checkCart(t, s)
	cart := s.Cart()
	if cart.TotalItems != 6 {
		t.Errorf("expected 6 items, got %d", cart.TotalItems)
	}
	if math.Abs(cart.TotalPrice-57.5) > 1e-9 {
		t.Errorf("expected total 57.5, got %v", cart.TotalPrice)
	}

	// Zero quantity removes the line.
	s.UpdateCartQuantity("p1", 0)
	checkCart(t, s)
	cart = s.Cart()
	if len(cart.Items) != 1 || cart.Items[0].Product.ID != "p2" {
		t.Errorf("expected only p2 left, got %+v", cart.Items)
	}

	// Missing product is a no-op.
	s.UpdateCartQuantity("ghost", 3)
	checkCart(t, s)
	if got := s.Cart().TotalItems; got != 1 {
		t.Errorf("expected 1 item, got %d", got)
	}
}

// TestCartAggregates_MutationSequences drives the cart through a mixed
// sequence of mutations, asserting the recompute invariant after each.
func TestCartAggregates_MutationSequences(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	p1 := product("p1", "Shirt", "apparel", 19.99)
	p2 := product("p2", "Mug", "kitchen", 7.5)
	p3 := product("p3", "Poster", "decor", 12)

	steps := []func(){
		func() { s.AddToCart(p1) },
		func() { s.AddToCart(p2) },
		func() { s.AddToCart(p1) },
		func() { s.UpdateCartQuantity("p2", 4) },
		func() { s.AddToCart(p3) },
		func() { s.RemoveFromCart("p1") },
		func() { s.UpdateCartQuantity("p3", 0) },
		func() { s.RemoveFromCart("p3") }, // already gone
		func() { s.AddToCart(p3) },
	}
	for i, step := range steps {
		step()
		checkCart(t, s)
		if t.Failed() {
			t.Fatalf("aggregate invariant broken after step %d", i)
		}
	}
}

func TestClearCart(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	s.AddToCart(product("p1", "Shirt", "apparel", 10))
	s.ToggleCart()

	s.ClearCart()
	checkCart(t, s)

	cart := s.Cart()
	if len(cart.Items) != 0 || cart.TotalItems != 0 || cart.TotalPrice != 0 {
		t.Errorf("expected zeroed cart, got %+v", cart)
	}
	if !cart.IsOpen {
		t.Error("clearing must not slam the drawer shut")
	}
}

func TestToggleCart(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	if s.Cart().IsOpen {
		t.Fatal("cart should start closed")
	}
	s.ToggleCart()
	if !s.Cart().IsOpen {
		t.Error("expected open after toggle")
	}
	s.ToggleCart()
	if s.Cart().IsOpen {
		t.Error("expected closed after second toggle")
	}
}
