package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront/internal/builder"
	"storefront/internal/domain"
	"storefront/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Builder Service — canvas edits with persistence and history
// ─────────────────────────────────────────────────────────────

// BuilderService wraps the builder store with the cross-cutting work
// every canvas edit needs: a revision snapshot, a persisted state blob,
// and a frontend event. The builder store itself stays a pure state
// container.
//
// Revision model: the history pointer always matches the live canvas.
// Before a page's first edit a baseline revision is recorded, and each
// edit appends a labeled revision, so undo walks to the parent and redo
// to the newest child.
type BuilderService struct {
	builder   *builder.Store
	revisions *storage.RevisionStore
	emitter   EventEmitter
}

func NewBuilderService(b *builder.Store, revisions *storage.RevisionStore, emitter EventEmitter) *BuilderService {
	return &BuilderService{builder: b, revisions: revisions, emitter: emitter}
}

// Store exposes the underlying builder store for read paths.
func (s *BuilderService) Store() *builder.Store {
	return s.builder
}

// ── Component operations ───────────────────────────────────

func (s *BuilderService) AddComponent(ctx context.Context, c *domain.Component) error {
	s.baseline()
	if err := s.builder.AddComponent(c); err != nil {
		return err
	}
	s.commit(ctx, "add "+string(c.Type))
	return nil
}

func (s *BuilderService) UpdateComponent(ctx context.Context, id string, patch builder.ComponentPatch) error {
	s.baseline()
	s.builder.UpdateComponent(id, patch)
	s.commit(ctx, "edit component")
	return nil
}

func (s *BuilderService) MoveComponent(ctx context.Context, id string, pos domain.Position) error {
	s.baseline()
	s.builder.MoveComponent(id, pos)
	s.commit(ctx, "move component")
	return nil
}

func (s *BuilderService) ResizeComponent(ctx context.Context, id string, size domain.Size) error {
	s.baseline()
	s.builder.ResizeComponent(id, size)
	s.commit(ctx, "resize component")
	return nil
}

func (s *BuilderService) RemoveComponent(ctx context.Context, id string) error {
	s.baseline()
	s.builder.RemoveComponent(id)
	s.commit(ctx, "remove component")
	return nil
}

func (s *BuilderService) DuplicateComponent(ctx context.Context, id string) (*domain.Component, error) {
	s.baseline()
	clone := s.builder.DuplicateComponent(id)
	if clone == nil {
		return nil, fmt.Errorf("component not found: %s", id)
	}
	s.commit(ctx, "duplicate component")
	return clone, nil
}

func (s *BuilderService) ReorderComponents(ctx context.Context, from, to int) error {
	s.baseline()
	if err := s.builder.ReorderComponents(from, to); err != nil {
		return err
	}
	s.commit(ctx, "reorder components")
	return nil
}

func (s *BuilderService) MoveComponentUp(ctx context.Context, id string) error {
	s.baseline()
	s.builder.MoveComponentUp(id)
	s.commit(ctx, "move component up")
	return nil
}

func (s *BuilderService) MoveComponentDown(ctx context.Context, id string) error {
	s.baseline()
	s.builder.MoveComponentDown(id)
	s.commit(ctx, "move component down")
	return nil
}

// ── Page operations ────────────────────────────────────────

func (s *BuilderService) SetCurrentPage(ctx context.Context, page *domain.Page) {
	s.builder.SetCurrentPage(page)
	if err := s.builder.Save(); err != nil {
		log.Printf("builder: save failed: %v", err)
	}
	s.emitter.Emit(ctx, "builder:changed", nil)
}

// ── Undo / Redo ────────────────────────────────────────────

// Undo restores the current page to its previous revision.
func (s *BuilderService) Undo(ctx context.Context) error {
	page := s.builder.CurrentPage()
	if page == nil {
		return builder.ErrNoPage
	}
	rev, err := s.revisions.Undo(page.ID)
	if err != nil {
		return err
	}
	if rev == nil {
		return nil // nothing to undo
	}
	return s.restoreRevision(ctx, rev)
}

// Redo re-applies the next revision after an undo.
func (s *BuilderService) Redo(ctx context.Context) error {
	page := s.builder.CurrentPage()
	if page == nil {
		return builder.ErrNoPage
	}
	rev, err := s.revisions.Redo(page.ID)
	if err != nil {
		return err
	}
	if rev == nil {
		return nil // nothing to redo
	}
	return s.restoreRevision(ctx, rev)
}

// History lists the current page's revisions for the history panel.
func (s *BuilderService) History() ([]storage.Revision, error) {
	page := s.builder.CurrentPage()
	if page == nil {
		return nil, builder.ErrNoPage
	}
	return s.revisions.ListRevisions(page.ID)
}

// RestoreRevision jumps the current page to an arbitrary revision.
func (s *BuilderService) RestoreRevision(ctx context.Context, revisionID string) error {
	page := s.builder.CurrentPage()
	if page == nil {
		return builder.ErrNoPage
	}
	rev, err := s.revisions.Restore(page.ID, revisionID)
	if err != nil {
		return err
	}
	return s.restoreRevision(ctx, rev)
}

func (s *BuilderService) restoreRevision(ctx context.Context, rev *storage.Revision) error {
	var page domain.Page
	if err := json.Unmarshal([]byte(rev.Snapshot), &page); err != nil {
		return fmt.Errorf("decode revision snapshot: %w", err)
	}
	s.builder.SetCurrentPage(&page)
	if err := s.builder.Save(); err != nil {
		log.Printf("builder: save after restore failed: %v", err)
	}
	s.emitter.Emit(ctx, "builder:changed", nil)
	return nil
}

// baseline records the page's pre-edit state once, so the very first
// edit on a page can be undone.
func (s *BuilderService) baseline() {
	page := s.builder.CurrentPage()
	if page == nil {
		return // the first AddComponent synthesizes the page
	}
	revs, err := s.revisions.ListRevisions(page.ID)
	if err != nil || len(revs) > 0 {
		return
	}
	s.saveRevision(page, "baseline")
}

// commit snapshots, persists, and notifies after a mutation.
func (s *BuilderService) commit(ctx context.Context, label string) {
	if page := s.builder.CurrentPage(); page != nil {
		s.saveRevision(page, label)
	}
	if err := s.builder.Save(); err != nil {
		log.Printf("builder: save failed: %v", err)
	}
	s.emitter.Emit(ctx, "builder:changed", nil)
}

func (s *BuilderService) saveRevision(page *domain.Page, label string) {
	raw, err := json.Marshal(page)
	if err != nil {
		log.Printf("builder: snapshot marshal failed: %v", err)
		return
	}
	if _, err := s.revisions.SaveRevision(page.ID, label, string(raw)); err != nil {
		log.Printf("builder: snapshot save failed: %v", err)
	}
}
