package app

import (
	"storefront/internal/domain"
	"storefront/internal/service"
)

// ============================================================
// Product catalog
// ============================================================

func (a *App) ListProducts() ([]domain.Product, error) {
	return a.catalogSvc.ListProducts()
}

func (a *App) GetProduct(id string) (*domain.Product, error) {
	return a.catalogSvc.GetProduct(id)
}

func (a *App) CreateProduct(input service.ProductInput) (*domain.Product, error) {
	return a.catalogSvc.CreateProduct(a.ctx, input)
}

func (a *App) UpdateProduct(id string, input service.ProductInput) (*domain.Product, error) {
	return a.catalogSvc.UpdateProduct(a.ctx, id, input)
}

func (a *App) DeleteProduct(id string) error {
	return a.catalogSvc.DeleteProduct(a.ctx, id)
}

func (a *App) ListCategories() ([]string, error) {
	return a.catalogSvc.Categories()
}

// ============================================================
// Themes
// ============================================================

func (a *App) ListThemes() ([]domain.Theme, error) {
	return a.themeSvc.ListThemes()
}

func (a *App) GetTheme(id string) (*domain.Theme, error) {
	return a.themeSvc.GetTheme(id)
}

func (a *App) GetActiveTheme() domain.Theme {
	return a.builder.Theme()
}

func (a *App) SaveTheme(theme domain.Theme) error {
	return a.themeSvc.SaveTheme(a.ctx, theme)
}

func (a *App) DeleteTheme(id string) error {
	return a.themeSvc.DeleteTheme(id)
}

func (a *App) ApplyTheme(id string) (*domain.Theme, error) {
	return a.themeSvc.ApplyTheme(a.ctx, id)
}
