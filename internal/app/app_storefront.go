package app

import (
	"fmt"

	"storefront/internal/builder"
	"storefront/internal/domain"
)

// ============================================================
// Cart (preview)
// ============================================================

func (a *App) AddToCart(productID string) (domain.Cart, error) {
	product, err := a.catalogSvc.GetProduct(productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("add to cart: %w", err)
	}
	a.builder.AddToCart(*product)
	return a.builder.Cart(), nil
}

func (a *App) RemoveFromCart(productID string) domain.Cart {
	a.builder.RemoveFromCart(productID)
	return a.builder.Cart()
}

func (a *App) UpdateCartQuantity(productID string, quantity int) domain.Cart {
	a.builder.UpdateCartQuantity(productID, quantity)
	return a.builder.Cart()
}

func (a *App) ToggleCart() domain.Cart {
	a.builder.ToggleCart()
	return a.builder.Cart()
}

func (a *App) ClearCart() domain.Cart {
	a.builder.ClearCart()
	return a.builder.Cart()
}

func (a *App) GetCart() domain.Cart {
	return a.builder.Cart()
}

// ============================================================
// Search (preview)
// ============================================================

func (a *App) SetSearchQuery(query string) builder.SearchState {
	a.builder.SetSearchQuery(query)
	return a.builder.Search()
}

func (a *App) PerformSearch() builder.SearchState {
	a.builder.PerformSearch()
	return a.builder.Search()
}

func (a *App) ToggleSearch() builder.SearchState {
	a.builder.ToggleSearch()
	return a.builder.Search()
}

func (a *App) GetSearchState() builder.SearchState {
	return a.builder.Search()
}
