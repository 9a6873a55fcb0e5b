package app

import (
	"fmt"

	"storefront/internal/builder"
	"storefront/internal/domain"
	"storefront/internal/service"
	"storefront/internal/storage"
)

// ============================================================
// Canvas
// ============================================================

// CreateComponent drops a new component of the given type onto the
// current page at (x, y), with the type's default props and size.
func (a *App) CreateComponent(componentType string, x, y float64) (*domain.Component, error) {
	c, err := a.registry.NewComponent(domain.ComponentType(componentType))
	if err != nil {
		return nil, err
	}
	c.Position = domain.Position{X: x, Y: y}
	if err := a.builderSvc.AddComponent(a.ctx, c); err != nil {
		return nil, fmt.Errorf("create component: %w", err)
	}
	return c, nil
}

// AddComponentTree inserts a caller-built component (with children) onto
// the current page. IDs are minted for empty fields; duplicates rejected.
func (a *App) AddComponentTree(c *domain.Component) (*domain.Component, error) {
	if err := a.builderSvc.AddComponent(a.ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (a *App) UpdateComponent(id string, patch builder.ComponentPatch) error {
	return a.builderSvc.UpdateComponent(a.ctx, id, patch)
}

func (a *App) MoveComponent(id string, x, y float64) error {
	return a.builderSvc.MoveComponent(a.ctx, id, domain.Position{X: x, Y: y})
}

func (a *App) ResizeComponent(id string, width, height float64) error {
	return a.builderSvc.ResizeComponent(a.ctx, id, domain.Size{Width: width, Height: height})
}

func (a *App) RemoveComponent(id string) error {
	return a.builderSvc.RemoveComponent(a.ctx, id)
}

func (a *App) DuplicateComponent(id string) (*domain.Component, error) {
	return a.builderSvc.DuplicateComponent(a.ctx, id)
}

func (a *App) ReorderComponents(from, to int) error {
	return a.builderSvc.ReorderComponents(a.ctx, from, to)
}

func (a *App) MoveComponentUp(id string) error {
	return a.builderSvc.MoveComponentUp(a.ctx, id)
}

func (a *App) MoveComponentDown(id string) error {
	return a.builderSvc.MoveComponentDown(a.ctx, id)
}

func (a *App) SelectComponent(id string) {
	a.builder.SelectComponent(id)
}

func (a *App) SelectedComponentID() string {
	return a.builder.SelectedID()
}

func (a *App) FindComponent(id string) *domain.Component {
	return a.builder.FindComponent(id)
}

// ComponentPalette lists the component types available in the editor.
func (a *App) ComponentPalette() []service.PaletteEntry {
	return a.registry.Palette()
}

// ============================================================
// Pages
// ============================================================

func (a *App) ListPages() []*domain.Page {
	return a.builder.Pages()
}

func (a *App) GetCurrentPage() *domain.Page {
	return a.builder.CurrentPage()
}

func (a *App) CreatePage(name, slug string) (*domain.Page, error) {
	if name == "" {
		return nil, fmt.Errorf("page name is required")
	}
	if slug == "" {
		slug = "/"
	}
	page := &domain.Page{
		ID:    builder.MintID(),
		Name:  name,
		Slug:  slug,
		Theme: a.builder.Theme(),
		Meta:  domain.PageMeta{Title: name},
	}
	a.builderSvc.SetCurrentPage(a.ctx, page)
	return page, nil
}

func (a *App) SetCurrentPage(pageID string) error {
	for _, p := range a.builder.Pages() {
		if p.ID == pageID {
			a.builderSvc.SetCurrentPage(a.ctx, p)
			return nil
		}
	}
	return fmt.Errorf("page not found: %s", pageID)
}

func (a *App) SetCurrentView(view string) error {
	v := domain.View(view)
	if !domain.ValidView(v) {
		return fmt.Errorf("unknown view: %s", view)
	}
	a.builder.SetCurrentView(v)
	return nil
}

func (a *App) GetCurrentView() string {
	return string(a.builder.CurrentView())
}

// ============================================================
// Store info
// ============================================================

func (a *App) GetStoreInfo() domain.StoreInfo {
	return a.builder.StoreInfo()
}

func (a *App) UpdateStoreInfo(patch domain.StoreInfoPatch) (domain.StoreInfo, error) {
	if err := a.builder.UpdateStoreInfo(patch); err != nil {
		return domain.StoreInfo{}, err
	}
	if err := a.builder.Save(); err != nil {
		return domain.StoreInfo{}, err
	}
	return a.builder.StoreInfo(), nil
}

// ============================================================
// Revisions
// ============================================================

func (a *App) Undo() error {
	return a.builderSvc.Undo(a.ctx)
}

func (a *App) Redo() error {
	return a.builderSvc.Redo(a.ctx)
}

func (a *App) ListRevisions() ([]storage.Revision, error) {
	return a.builderSvc.History()
}

func (a *App) RestoreRevision(revisionID string) error {
	return a.builderSvc.RestoreRevision(a.ctx, revisionID)
}
