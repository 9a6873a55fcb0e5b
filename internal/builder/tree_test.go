package builder_test

import (
	"errors"
	"strings"
	"testing"

	"storefront/internal/builder"
	"storefront/internal/domain"
)

func newStore(t *testing.T) *builder.Store {
	t.Helper()
	return builder.New(builder.NewMemKV())
}

func comp(id string, typ domain.ComponentType) *domain.Component {
	return &domain.Component{
		ID:   id,
		Type: typ,
		Size: domain.Size{Width: 300, Height: 200},
	}
}

func rootIDs(t *testing.T, s *builder.Store) []string {
	t.Helper()
	page := s.CurrentPage()
	if page == nil {
		t.Fatal("expected a current page")
	}
	ids := make([]string, len(page.Components))
	for i, c := range page.Components {
		ids[i] = c.ID
	}
	return ids
}

func TestAddComponent_SynthesizesHomePage(t *testing.T) {
	s := newStore(t)
	if s.CurrentPage() != nil {
		t.Fatal("expected no current page on a fresh store")
	}

	if err := s.AddComponent(comp("a", domain.ComponentHero)); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}

	page := s.CurrentPage()
	if page == nil {
		t.Fatal("expected a synthesized current page")
	}
	if page.ID != "home" {
		t.Errorf("expected synthesized page id 'home', got %q", page.ID)
	}
	if len(page.Components) != 1 || page.Components[0].ID != "a" {
		t.Errorf("expected the new component to be the page's only entry, got %v", rootIDs(t, s))
	}
	if len(s.Pages()) != 1 {
		t.Errorf("expected the synthesized page in the pages list")
	}
}

func TestAddComponent_MintsIDWhenEmpty(t *testing.T) {
	s := newStore(t)
	c := comp("", domain.ComponentText)
	if err := s.AddComponent(c); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected a minted id")
	}
}

func TestAddComponent_RejectsDuplicateID(t *testing.T) {
	s := newStore(t)
	if err := s.AddComponent(comp("a", domain.ComponentHero)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := s.AddComponent(comp("a", domain.ComponentText))
	if !errors.Is(err, builder.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if got := rootIDs(t, s); len(got) != 1 {
		t.Errorf("rejected insert must not change the tree, got %v", got)
	}
}

func TestAddComponent_RejectsNestedDuplicateID(t *testing.T) {
	s := newStore(t)
	parent := comp("parent", domain.ComponentHeader)
	parent.Children = []*domain.Component{comp("a", domain.ComponentText)}
	if err := s.AddComponent(parent); err != nil {
		t.Fatalf("add parent: %v", err)
	}

	// "a" exists at nested depth; a new root insert with the same id must fail.
	if err := s.AddComponent(comp("a", domain.ComponentText)); !errors.Is(err, builder.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID for nested collision, got %v", err)
	}
}

func TestAddComponent_RejectedInsertDoesNotSynthesizePage(t *testing.T) {
	s := newStore(t)

	// A subtree that repeats an id internally fails validation even on a
	// fresh store; the lazy "home" page must not be left behind.
	parent := comp("dup", domain.ComponentHeader)
	parent.Children = []*domain.Component{comp("dup", domain.ComponentText)}
	if err := s.AddComponent(parent); !errors.Is(err, builder.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID for internal collision, got %v", err)
	}

	if s.CurrentPage() != nil {
		t.Error("rejected insert must not synthesize a current page")
	}
	if got := s.Pages(); len(got) != 0 {
		t.Errorf("rejected insert must leave the pages list empty, got %d pages", len(got))
	}
}

func TestUpdateComponent_TouchesOnlyTheMatchedNode(t *testing.T) {
	s := newStore(t)
	a := comp("a", domain.ComponentText)
	a.Props = map[string]any{"x": 1}
	b := comp("b", domain.ComponentText)
	b.Props = map[string]any{"x": 2}
	if err := s.AddComponent(a); err != nil {
		t.Fatal(err)
	}
	if err := s.AddComponent(b); err != nil {
		t.Fatal(err)
	}

	s.UpdateComponent("b", builder.ComponentPatch{Props: map[string]any{"x": 99}})

	page := s.CurrentPage()
	if len(page.Components) != 2 {
		t.Fatalf("sibling count changed: %v", rootIDs(t, s))
	}
	if got := page.Components[0].Props["x"]; got != 1 {
		t.Errorf("sibling 'a' changed: x=%v", got)
	}
	if got := page.Components[1].Props["x"]; got != 99 {
		t.Errorf("expected b.x=99, got %v", got)
	}
	if page.Components[0].ID != "a" || page.Components[1].ID != "b" {
		t.Errorf("ordering changed: %v", rootIDs(t, s))
	}
}

func TestUpdateComponent_ShallowMergeKeepsOtherProps(t *testing.T) {
	s := newStore(t)
	a := comp("a", domain.ComponentHero)
	a.Props = map[string]any{"title": "Hello", "subtitle": "World"}
	if err := s.AddComponent(a); err != nil {
		t.Fatal(err)
	}

	s.UpdateComponent("a", builder.ComponentPatch{Props: map[string]any{"title": "Hi"}})

	got := s.FindComponent("a").Props
	if got["title"] != "Hi" || got["subtitle"] != "World" {
		t.Errorf("expected shallow merge, got %v", got)
	}
}

func TestUpdateComponent_MissingIDIsNoOp(t *testing.T) {
	s := newStore(t)
	if err := s.AddComponent(comp("a", domain.ComponentText)); err != nil {
		t.Fatal(err)
	}
	s.UpdateComponent("ghost", builder.ComponentPatch{Props: map[string]any{"x": 1}})
	if got := rootIDs(t, s); len(got) != 1 || got[0] != "a" {
		t.Errorf("tree changed on missing id: %v", got)
	}
}

func TestUpdateComponent_FindsNestedNodes(t *testing.T) {
	s := newStore(t)
	parent := comp("parent", domain.ComponentHeader)
	parent.Children = []*domain.Component{comp("child", domain.ComponentButton)}
	if err := s.AddComponent(parent); err != nil {
		t.Fatal(err)
	}

	s.UpdateComponent("child", builder.ComponentPatch{Props: map[string]any{"label": "Buy"}})
	if got := s.FindComponent("child").Props["label"]; got != "Buy" {
		t.Errorf("nested update missed, got %v", got)
	}
}

func TestRemoveComponent_CascadesToDescendants(t *testing.T) {
	s := newStore(t)
	parent := comp("parent", domain.ComponentHeader)
	parent.Children = []*domain.Component{
		comp("child1", domain.ComponentText),
		comp("child2", domain.ComponentText),
	}
	sibling := comp("sibling", domain.ComponentFooter)
	sibling.Children = []*domain.Component{comp("keep", domain.ComponentText)}
	if err := s.AddComponent(parent); err != nil {
		t.Fatal(err)
	}
	if err := s.AddComponent(sibling); err != nil {
		t.Fatal(err)
	}

	s.RemoveComponent("parent")

	if got := rootIDs(t, s); len(got) != 1 || got[0] != "sibling" {
		t.Fatalf("expected only 'sibling' at root, got %v", got)
	}
	for _, id := range []string{"parent", "child1", "child2"} {
		if s.FindComponent(id) != nil {
			t.Errorf("expected %q gone after cascade", id)
		}
	}
	if s.FindComponent("keep") == nil {
		t.Error("sibling subtree must be untouched")
	}
}

func TestRemoveComponent_NestedRemovalKeepsParent(t *testing.T) {
	s := newStore(t)
	parent := comp("parent", domain.ComponentHeader)
	parent.Children = []*domain.Component{comp("child", domain.ComponentText)}
	if err := s.AddComponent(parent); err != nil {
		t.Fatal(err)
	}

	s.RemoveComponent("child")

	if s.FindComponent("parent") == nil {
		t.Fatal("parent must survive child removal")
	}
	if got := len(s.FindComponent("parent").Children); got != 0 {
		t.Errorf("expected 0 children, got %d", got)
	}
}

func TestRemoveComponent_ClearsSelection(t *testing.T) {
	s := newStore(t)
	if err := s.AddComponent(comp("a", domain.ComponentText)); err != nil {
		t.Fatal(err)
	}
	s.SelectComponent("a")
	s.RemoveComponent("a")
	if got := s.SelectedID(); got != "" {
		t.Errorf("expected selection cleared, got %q", got)
	}
}

func TestDuplicateComponent_InsertsAfterOriginalWithOffset(t *testing.T) {
	s := newStore(t)
	a := comp("a", domain.ComponentHero)
	a.Position = domain.Position{X: 0, Y: 0}
	b := comp("b", domain.ComponentText)
	if err := s.AddComponent(a); err != nil {
		t.Fatal(err)
	}
	if err := s.AddComponent(b); err != nil {
		t.Fatal(err)
	}

	clone := s.DuplicateComponent("a")
	if clone == nil {
		t.Fatal("expected a clone")
	}
	if !strings.HasPrefix(clone.ID, "a_copy_") {
		t.Errorf("expected clone id 'a_copy_<ts>', got %q", clone.ID)
	}
	if clone.Position.X != 20 || clone.Position.Y != 20 {
		t.Errorf("expected +20/+20 offset, got %+v", clone.Position)
	}
	got := rootIDs(t, s)
	if len(got) != 3 || got[0] != "a" || got[1] != clone.ID || got[2] != "b" {
		t.Errorf("expected clone immediately after original, got %v", got)
	}
}

func TestDuplicateComponent_NestedDepthAndFreshChildIDs(t *testing.T) {
	s := newStore(t)
	parent := comp("parent", domain.ComponentHeader)
	target := comp("target", domain.ComponentButton)
	target.Children = []*domain.Component{comp("inner", domain.ComponentText)}
	parent.Children = []*domain.Component{target}
	if err := s.AddComponent(parent); err != nil {
		t.Fatal(err)
	}

	clone := s.DuplicateComponent("target")
	if clone == nil {
		t.Fatal("expected a clone")
	}

	kids := s.FindComponent("parent").Children
	if len(kids) != 2 || kids[0].ID != "target" || kids[1].ID != clone.ID {
		t.Fatalf("clone must sit next to the original at the same depth")
	}
	if len(clone.Children) != 1 || clone.Children[0].ID == "inner" {
		t.Errorf("descendant ids must be re-minted, got %v", clone.Children)
	}

	// Uniqueness across the full tree after duplication.
	seen := map[string]bool{}
	for _, c := range s.CurrentPage().Components {
		c.Walk(func(n *domain.Component) bool {
			if seen[n.ID] {
				t.Errorf("duplicate id %q in tree", n.ID)
			}
			seen[n.ID] = true
			return true
		})
	}
}

func TestDuplicateComponent_MissingIDReturnsNil(t *testing.T) {
	s := newStore(t)
	if err := s.AddComponent(comp("a", domain.ComponentText)); err != nil {
		t.Fatal(err)
	}
	if clone := s.DuplicateComponent("ghost"); clone != nil {
		t.Errorf("expected nil clone, got %v", clone)
	}
}

func TestReorderComponents_SpliceSemantics(t *testing.T) {
	s := newStore(t)
	for _, id := range []string{"A", "B", "C"} {
		if err := s.AddComponent(comp(id, domain.ComponentText)); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.ReorderComponents(0, 2); err != nil {
		t.Fatalf("ReorderComponents: %v", err)
	}
	got := rootIDs(t, s)
	want := []string{"B", "C", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestReorderComponents_OutOfRange(t *testing.T) {
	s := newStore(t)
	for _, id := range []string{"A", "B"} {
		if err := s.AddComponent(comp(id, domain.ComponentText)); err != nil {
			t.Fatal(err)
		}
	}

	for _, tc := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if err := s.ReorderComponents(tc[0], tc[1]); !errors.Is(err, builder.ErrIndexRange) {
			t.Errorf("reorder(%d,%d): expected ErrIndexRange, got %v", tc[0], tc[1], err)
		}
	}
	if got := rootIDs(t, s); got[0] != "A" || got[1] != "B" {
		t.Errorf("rejected reorder must not change order: %v", got)
	}
}

func TestMoveComponentUpDown_BoundarySafeNoOps(t *testing.T) {
	s := newStore(t)
	for _, id := range []string{"A", "B", "C"} {
		if err := s.AddComponent(comp(id, domain.ComponentText)); err != nil {
			t.Fatal(err)
		}
	}

	s.MoveComponentUp("A") // already first
	s.MoveComponentDown("C") // already last
	got := rootIDs(t, s)
	if got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Fatalf("boundary moves must be no-ops, got %v", got)
	}

	s.MoveComponentUp("B")
	got = rootIDs(t, s)
	if got[0] != "B" || got[1] != "A" {
		t.Fatalf("expected B swapped with A, got %v", got)
	}

	s.MoveComponentDown("B")
	got = rootIDs(t, s)
	if got[0] != "A" || got[1] != "B" {
		t.Fatalf("expected original order restored, got %v", got)
	}
}

func TestMoveComponent_SetsPosition(t *testing.T) {
	s := newStore(t)
	if err := s.AddComponent(comp("a", domain.ComponentText)); err != nil {
		t.Fatal(err)
	}
	s.MoveComponent("a", domain.Position{X: 120, Y: 60})
	pos := s.FindComponent("a").Position
	if pos.X != 120 || pos.Y != 60 {
		t.Errorf("expected (120,60), got %+v", pos)
	}
}
