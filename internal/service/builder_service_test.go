package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"storefront/internal/builder"
	"storefront/internal/domain"
	"storefront/internal/service"
	"storefront/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// BuilderService tests — canvas edits, revision history, undo/redo
// Backed by a throwaway SQLite database per test.
// ─────────────────────────────────────────────────────────────

func newBuilderService(t *testing.T) (*service.BuilderService, *builder.Store, *service.MockEmitter) {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "test.db"), dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	b := builder.New(builder.NewMemKV())
	emitter := &service.MockEmitter{}
	return service.NewBuilderService(b, storage.NewRevisionStore(db), emitter), b, emitter
}

func heroComponent() *domain.Component {
	return &domain.Component{
		Type:  domain.ComponentHero,
		Props: map[string]any{"heading": "Welcome"},
		Size:  domain.Size{Width: 1200, Height: 480},
	}
}

func emptyPage(id string) *domain.Page {
	return &domain.Page{
		ID:    id,
		Name:  "Home",
		Slug:  "/",
		Theme: domain.DefaultTheme(),
	}
}

func TestBuilderService_AddComponent_RecordsRevisionAndEmits(t *testing.T) {
	svc, b, emitter := newBuilderService(t)
	ctx := context.Background()

	svc.SetCurrentPage(ctx, emptyPage("home"))
	if err := svc.AddComponent(ctx, heroComponent()); err != nil {
		t.Fatalf("add component: %v", err)
	}

	page := b.CurrentPage()
	if page == nil || len(page.Components) != 1 {
		t.Fatalf("expected 1 component on the page, got %+v", page)
	}

	revs, err := svc.History()
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	// baseline + the edit itself
	if len(revs) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(revs))
	}
	if revs[0].Label != "add hero" {
		t.Errorf("expected newest revision 'add hero', got %q", revs[0].Label)
	}
	if revs[1].Label != "baseline" {
		t.Errorf("expected oldest revision 'baseline', got %q", revs[1].Label)
	}

	found := false
	for _, e := range emitter.Events {
		if e.Event == "builder:changed" {
			found = true
		}
	}
	if !found {
		t.Error("expected a builder:changed event")
	}
}

func TestBuilderService_UndoRedo(t *testing.T) {
	svc, b, _ := newBuilderService(t)
	ctx := context.Background()

	svc.SetCurrentPage(ctx, emptyPage("home"))
	if err := svc.AddComponent(ctx, heroComponent()); err != nil {
		t.Fatalf("add component: %v", err)
	}

	if err := svc.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if page := b.CurrentPage(); len(page.Components) != 0 {
		t.Fatalf("expected empty page after undo, got %d components", len(page.Components))
	}

	if err := svc.Redo(ctx); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if page := b.CurrentPage(); len(page.Components) != 1 {
		t.Fatalf("expected 1 component after redo, got %d", len(page.Components))
	}
}

func TestBuilderService_UndoAtBaseline_NoOp(t *testing.T) {
	svc, b, _ := newBuilderService(t)
	ctx := context.Background()

	svc.SetCurrentPage(ctx, emptyPage("home"))
	if err := svc.AddComponent(ctx, heroComponent()); err != nil {
		t.Fatalf("add component: %v", err)
	}

	if err := svc.Undo(ctx); err != nil {
		t.Fatalf("first undo: %v", err)
	}
	// Pointer sits at the baseline now; a second undo has no parent to
	// walk to and should leave the canvas alone.
	if err := svc.Undo(ctx); err != nil {
		t.Fatalf("second undo: %v", err)
	}
	if page := b.CurrentPage(); len(page.Components) != 0 {
		t.Fatalf("expected page unchanged at baseline, got %d components", len(page.Components))
	}
}

func TestBuilderService_UndoWithoutPage(t *testing.T) {
	svc, _, _ := newBuilderService(t)
	if err := svc.Undo(context.Background()); err != builder.ErrNoPage {
		t.Fatalf("expected ErrNoPage, got %v", err)
	}
}

func TestBuilderService_RestoreRevision(t *testing.T) {
	svc, b, _ := newBuilderService(t)
	ctx := context.Background()

	svc.SetCurrentPage(ctx, emptyPage("home"))
	if err := svc.AddComponent(ctx, heroComponent()); err != nil {
		t.Fatalf("add first: %v", err)
	}
	second := &domain.Component{
		Type: domain.ComponentText,
		Size: domain.Size{Width: 600, Height: 120},
	}
	if err := svc.AddComponent(ctx, second); err != nil {
		t.Fatalf("add second: %v", err)
	}

	revs, err := svc.History()
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	// Jump back to the single-component snapshot.
	var target string
	for _, r := range revs {
		if r.Label == "add hero" {
			target = r.ID
		}
	}
	if target == "" {
		t.Fatal("could not find 'add hero' revision")
	}

	if err := svc.RestoreRevision(ctx, target); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if page := b.CurrentPage(); len(page.Components) != 1 {
		t.Fatalf("expected 1 component after restore, got %d", len(page.Components))
	}
}

func TestBuilderService_DuplicateMissingComponent(t *testing.T) {
	svc, _, _ := newBuilderService(t)
	ctx := context.Background()

	svc.SetCurrentPage(ctx, emptyPage("home"))
	if _, err := svc.DuplicateComponent(ctx, "nope"); err == nil {
		t.Fatal("expected error duplicating a missing component")
	}
}
