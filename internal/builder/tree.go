package builder

import (
	"fmt"
	"time"

	"storefront/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Component tree mutations
// ─────────────────────────────────────────────────────────────

// duplicateOffset is how far a duplicated component lands from its
// original, on both axes.
const duplicateOffset = 20.0

// ComponentPatch is a partial component update. Props are shallow-merged
// into the node's props; other fields replace when non-nil.
type ComponentPatch struct {
	Type     *domain.ComponentType `json:"type,omitempty"`
	Props    map[string]any        `json:"props,omitempty"`
	Position *domain.Position      `json:"position,omitempty"`
	Size     *domain.Size          `json:"size,omitempty"`
}

// AddComponent appends component to the root level of the current page.
// If no page is being edited, a default "home" page is synthesized first
// and the component becomes its only entry.
//
// IDs are minted here when the caller leaves Component.ID empty. A
// caller-supplied id that already exists anywhere in the tree (including
// inside the new component's own subtree) is rejected with ErrDuplicateID.
func (s *Store) AddComponent(c *domain.Component) error {
	if c == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = MintID()
	}
	// Validate before lazily synthesizing the page, so a rejected add
	// leaves the store untouched.
	if err := s.checkSubtreeIDs(c); err != nil {
		return err
	}

	page := s.pageByID(s.currentID)
	if page == nil {
		page = &domain.Page{
			ID:    "home",
			Name:  "Home",
			Slug:  "/",
			Theme: s.theme,
			Meta:  domain.PageMeta{Title: "Home"},
		}
		s.upsertPage(page)
		s.currentID = page.ID
		s.reindex(page)
	}

	page.Components = append(page.Components, c)
	s.indexSubtree(c)
	return nil
}

// UpdateComponent shallow-merges patch into the node with the given id.
// Only the matched node changes: siblings, children, and ordering are
// untouched. Missing ids are a silent no-op.
func (s *Store) UpdateComponent(id string, patch ComponentPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.index[id]
	if !ok {
		return
	}
	if patch.Type != nil {
		node.Type = *patch.Type
	}
	if patch.Position != nil {
		node.Position = *patch.Position
	}
	if patch.Size != nil {
		node.Size = *patch.Size
	}
	if len(patch.Props) > 0 {
		if node.Props == nil {
			node.Props = make(map[string]any, len(patch.Props))
		}
		for k, v := range patch.Props {
			node.Props[k] = v
		}
	}
}

// MoveComponent repositions a node on the canvas.
func (s *Store) MoveComponent(id string, pos domain.Position) {
	s.UpdateComponent(id, ComponentPatch{Position: &pos})
}

// ResizeComponent changes a node's rendered dimensions.
func (s *Store) ResizeComponent(id string, size domain.Size) {
	s.UpdateComponent(id, ComponentPatch{Size: &size})
}

// RemoveComponent removes the node with the given id at any depth,
// discarding its whole subtree — orphaned children are not promoted to
// the parent level. Missing ids are a silent no-op.
func (s *Store) RemoveComponent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.pageByID(s.currentID)
	if page == nil {
		return
	}
	removed, list := removeFromList(page.Components, id)
	page.Components = list
	if removed == nil {
		return
	}
	removed.Walk(func(n *domain.Component) bool {
		delete(s.index, n.ID)
		return true
	})
	if s.selectedID == id {
		s.selectedID = ""
	}
}

// DuplicateComponent clones the node with the given id and inserts the
// clone immediately after the original, at the same tree depth, offset by
// (+20, +20). The clone's root id is "{id}_copy_{timestamp}"; descendant
// ids are freshly minted. Returns the clone, or nil if id was not found.
func (s *Store) DuplicateComponent(id string) *domain.Component {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.pageByID(s.currentID)
	if page == nil {
		return nil
	}
	if _, ok := s.index[id]; !ok {
		return nil
	}

	var clone *domain.Component
	page.Components = insertCloneAfter(page.Components, id, func(orig *domain.Component) *domain.Component {
		clone = orig.Clone()
		clone.ID = s.copyID(orig.ID)
		clone.Position.X += duplicateOffset
		clone.Position.Y += duplicateOffset
		for _, child := range clone.Children {
			child.Walk(func(n *domain.Component) bool {
				n.ID = MintID()
				return true
			})
		}
		return clone
	})
	if clone != nil {
		s.indexSubtree(clone)
	}
	return clone
}

// ReorderComponents removes the root-level component at startIndex and
// reinserts it at endIndex (splice semantics: endIndex equal to the last
// index makes the item last). Nested children are never touched.
// Out-of-range indices return ErrIndexRange.
func (s *Store) ReorderComponents(startIndex, endIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.pageByID(s.currentID)
	if page == nil {
		return nil
	}
	n := len(page.Components)
	if startIndex < 0 || startIndex >= n || endIndex < 0 || endIndex >= n {
		return fmt.Errorf("%w: reorder %d → %d with %d components", ErrIndexRange, startIndex, endIndex, n)
	}
	if startIndex == endIndex {
		return nil
	}
	moved := page.Components[startIndex]
	rest := append(page.Components[:startIndex:startIndex], page.Components[startIndex+1:]...)
	out := make([]*domain.Component, 0, n)
	out = append(out, rest[:endIndex]...)
	out = append(out, moved)
	out = append(out, rest[endIndex:]...)
	page.Components = out
	return nil
}

// MoveComponentUp swaps the root-level component with its predecessor.
// The first component, ids found only at nested depth, and missing ids
// are all silent no-ops.
func (s *Store) MoveComponentUp(id string) {
	s.swapRoot(id, -1)
}

// MoveComponentDown swaps the root-level component with its successor.
// Boundary and missing ids are silent no-ops.
func (s *Store) MoveComponentDown(id string) {
	s.swapRoot(id, +1)
}

// FindComponent returns the node with the given id in the current page,
// or nil.
func (s *Store) FindComponent(id string) *domain.Component {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index[id]
}

// ── internals ──────────────────────────────────────────────

func (s *Store) swapRoot(id string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.pageByID(s.currentID)
	if page == nil {
		return
	}
	idx := -1
	for i, c := range page.Components {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	j := idx + delta
	if j < 0 || j >= len(page.Components) {
		return
	}
	page.Components[idx], page.Components[j] = page.Components[j], page.Components[idx]
}

// checkSubtreeIDs rejects inserts whose subtree collides with the index
// or repeats an id internally.
func (s *Store) checkSubtreeIDs(c *domain.Component) error {
	seen := map[string]struct{}{}
	var dup string
	c.Walk(func(n *domain.Component) bool {
		if n.ID == "" {
			n.ID = MintID()
		}
		if _, exists := s.index[n.ID]; exists {
			dup = n.ID
			return false
		}
		if _, exists := seen[n.ID]; exists {
			dup = n.ID
			return false
		}
		seen[n.ID] = struct{}{}
		return true
	})
	if dup != "" {
		return fmt.Errorf("%w: %s", ErrDuplicateID, dup)
	}
	return nil
}

func (s *Store) indexSubtree(c *domain.Component) {
	c.Walk(func(n *domain.Component) bool {
		s.index[n.ID] = n
		return true
	})
}

// copyID mints "{id}_copy_{timestamp}" ids, bumping the timestamp on the
// rare collision (two duplications inside one millisecond).
func (s *Store) copyID(original string) string {
	ts := time.Now().UnixMilli()
	for {
		id := fmt.Sprintf("%s_copy_%d", original, ts)
		if _, exists := s.index[id]; !exists {
			return id
		}
		ts++
	}
}

// removeFromList filters the node with the given id out of list at any
// depth, returning the removed node (nil if absent) and the new list.
func removeFromList(list []*domain.Component, id string) (*domain.Component, []*domain.Component) {
	out := list[:0]
	var removed *domain.Component
	for _, c := range list {
		if c.ID == id && removed == nil {
			removed = c
			continue
		}
		if removed == nil {
			var r *domain.Component
			r, c.Children = removeFromList(c.Children, id)
			if r != nil {
				removed = r
			}
		}
		out = append(out, c)
	}
	return removed, out
}

// insertCloneAfter walks list at any depth; when it finds the node with
// the given id it calls mk and inserts the result immediately after, at
// the same depth. Only the first match is cloned.
func insertCloneAfter(list []*domain.Component, id string, mk func(*domain.Component) *domain.Component) []*domain.Component {
	for i, c := range list {
		if c.ID == id {
			out := make([]*domain.Component, 0, len(list)+1)
			out = append(out, list[:i+1]...)
			out = append(out, mk(c))
			out = append(out, list[i+1:]...)
			return out
		}
	}
	for _, c := range list {
		c.Children = insertCloneAfter(c.Children, id, mk)
	}
	return list
}
