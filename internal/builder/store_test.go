package builder_test

import (
	"reflect"
	"testing"

	"storefront/internal/builder"
	"storefront/internal/domain"
)

func TestSetTheme_SynchronizesCurrentPage(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	if err := s.AddComponent(comp("a", domain.ComponentHero)); err != nil {
		t.Fatal(err)
	}

	theme := domain.DefaultTheme()
	theme.ID = "midnight"
	theme.Name = "Midnight"
	theme.Colors.Background = "#0b1120"

	s.SetTheme(theme)

	if got := s.Theme(); got.ID != "midnight" {
		t.Errorf("expected active theme 'midnight', got %q", got.ID)
	}
	if got := s.CurrentPage().Theme; !reflect.DeepEqual(got, theme) {
		t.Errorf("page theme not synchronized: %+v", got)
	}
}

func TestSetTheme_WithoutCurrentPage(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	theme := domain.DefaultTheme()
	theme.ID = "midnight"
	s.SetTheme(theme)
	if got := s.Theme(); got.ID != "midnight" {
		t.Errorf("expected theme swap without a page, got %q", got.ID)
	}
}

func TestSetCurrentPage_UpsertsIntoPagesList(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	page := &domain.Page{ID: "about", Name: "About", Slug: "/about", Theme: domain.DefaultTheme()}
	s.SetCurrentPage(page)

	if got := s.CurrentPage(); got == nil || got.ID != "about" {
		t.Fatalf("expected current page 'about', got %v", got)
	}
	if got := len(s.Pages()); got != 1 {
		t.Fatalf("expected 1 known page, got %d", got)
	}

	// Replacing with the same id must not grow the list.
	replacement := &domain.Page{ID: "about", Name: "About v2", Slug: "/about", Theme: domain.DefaultTheme()}
	s.SetCurrentPage(replacement)
	if got := len(s.Pages()); got != 1 {
		t.Errorf("expected upsert, got %d pages", got)
	}
	if got := s.CurrentPage().Name; got != "About v2" {
		t.Errorf("expected replacement page, got %q", got)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := builder.NewMemKV()
	s := builder.New(kv)

	hero := comp("hero-1", domain.ComponentHero)
	hero.Props = map[string]any{"title": "Summer Sale"}
	hero.Children = []*domain.Component{comp("cta", domain.ComponentButton)}
	if err := s.AddComponent(hero); err != nil {
		t.Fatal(err)
	}
	theme := domain.DefaultTheme()
	theme.ID = "midnight"
	s.SetTheme(theme)
	if err := s.UpdateStoreInfo(domain.StoreInfoPatch{Name: strptr("Acme Goods")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Fresh store over the same KV.
	fresh := builder.New(kv)
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(pagesValue(t, fresh), pagesValue(t, s)) {
		t.Error("pages did not survive the round trip")
	}
	if got := fresh.CurrentPage(); got == nil || got.ID != "home" {
		t.Fatalf("expected current page 'home', got %v", got)
	}
	if got := fresh.Theme().ID; got != "midnight" {
		t.Errorf("expected restored theme from current page, got %q", got)
	}
	if got := fresh.StoreInfo().Name; got != "Acme Goods" {
		t.Errorf("expected store info restored, got %q", got)
	}

	// Mutations must work against restored state (index rebuilt).
	fresh.UpdateComponent("cta", builder.ComponentPatch{Props: map[string]any{"label": "Shop"}})
	if got := fresh.FindComponent("cta").Props["label"]; got != "Shop" {
		t.Errorf("expected mutation on restored tree, got %v", got)
	}
}

func TestLoad_CorruptBlobFailsSoft(t *testing.T) {
	kv := builder.NewMemKV()
	if err := kv.Set("builder:pages", "{not json"); err != nil {
		t.Fatal(err)
	}

	s := builder.New(kv)
	if err := s.Load(); err != nil {
		t.Fatalf("Load must fail soft, got %v", err)
	}
	if got := len(s.Pages()); got != 0 {
		t.Errorf("expected empty state after corrupt blob, got %d pages", got)
	}
	// The store stays usable.
	if err := s.AddComponent(comp("a", domain.ComponentText)); err != nil {
		t.Errorf("store unusable after corrupt load: %v", err)
	}
}

func TestLoad_EmptyStorage(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	if err := s.Load(); err != nil {
		t.Fatalf("Load on empty storage: %v", err)
	}
	if s.CurrentPage() != nil {
		t.Error("expected no current page")
	}
}

func TestUpdateStoreInfo_PersistsEagerly(t *testing.T) {
	kv := builder.NewMemKV()
	s := builder.New(kv)
	if err := s.UpdateStoreInfo(domain.StoreInfoPatch{Email: strptr("hi@acme.test")}); err != nil {
		t.Fatal(err)
	}

	// No Save() call — a fresh load must still see the info.
	fresh := builder.New(kv)
	if err := fresh.Load(); err != nil {
		t.Fatal(err)
	}
	if got := fresh.StoreInfo().Email; got != "hi@acme.test" {
		t.Errorf("expected eagerly persisted store info, got %q", got)
	}
}

func TestUpdateStoreInfo_ShallowMerge(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	if err := s.UpdateStoreInfo(domain.StoreInfoPatch{Name: strptr("Acme"), Email: strptr("a@b.c")}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateStoreInfo(domain.StoreInfoPatch{Email: strptr("new@b.c")}); err != nil {
		t.Fatal(err)
	}
	info := s.StoreInfo()
	if info.Name != "Acme" || info.Email != "new@b.c" {
		t.Errorf("expected merge to keep untouched fields, got %+v", info)
	}
}

func TestSetCurrentView(t *testing.T) {
	s := builder.New(builder.NewMemKV())
	s.SetCurrentView(domain.ViewCart)
	if got := s.CurrentView(); got != domain.ViewCart {
		t.Errorf("expected cart view, got %q", got)
	}
	s.SetCurrentView(domain.View("bogus"))
	if got := s.CurrentView(); got != domain.ViewCart {
		t.Errorf("unknown views must be ignored, got %q", got)
	}
}

func strptr(s string) *string { return &s }

func pagesValue(t *testing.T, s *builder.Store) []domain.Page {
	t.Helper()
	pages := s.Pages()
	out := make([]domain.Page, len(pages))
	for i, p := range pages {
		out[i] = *p
	}
	return out
}
