package builder

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Store — the page-model state container behind the builder UI
// ─────────────────────────────────────────────────────────────
//
// The Store owns the component trees of all storefront pages, the active
// theme, the preview cart, and the catalog search state. The UI (and the
// MCP server) call its mutation methods in response to drag/drop,
// property-edit and reorder gestures.
//
// Mutations whose target id is missing are silent no-ops: a missing id
// usually means the UI and store diverged transiently, and failing loudly
// would take the whole canvas down. Structural mistakes the caller can
// avoid — duplicate ids, out-of-range reorder indices — are typed errors.

// KV is the persistence boundary: serialized state blobs stored under
// fixed keys. Implemented by storage.KVStore; tests use MemKV.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Persistence keys. Three independently-keyed blobs, so a corrupt one
// never takes the others down with it.
const (
	keyPages     = "builder:pages"
	keyCurrent   = "builder:current_page"
	keyStoreInfo = "builder:store_info"
)

// schemaVersion is bumped on any breaking change to the persisted format.
const schemaVersion = 1

// envelope wraps each persisted blob with its format version.
type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// SearchState holds the catalog search snapshot. Results are a derived
// cache, recomputed only by PerformSearch — never reactively.
type SearchState struct {
	Query   string           `json:"query"`
	Results []domain.Product `json:"results"`
	IsOpen  bool             `json:"isOpen"`
}

// Store is the builder's page-model state container. One Store is owned
// by the application root and injected into every consumer; there is no
// package-level instance.
type Store struct {
	mu sync.Mutex

	kv KV

	pages     []*domain.Page
	currentID string

	selectedID string
	view       domain.View
	theme      domain.Theme

	products []domain.Product
	cart     domain.Cart
	search   SearchState
	info     domain.StoreInfo

	// id → node for the current page, rebuilt on page switch.
	// Keeps lookups O(1) and makes duplicate-id inserts detectable.
	index map[string]*domain.Component
}

// New creates an empty Store persisting through kv.
func New(kv KV) *Store {
	return &Store{
		kv:    kv,
		view:  domain.ViewHome,
		theme: domain.DefaultTheme(),
		index: map[string]*domain.Component{},
	}
}

// MintID returns a fresh component id.
func MintID() string {
	return uuid.New().String()
}

// ── Pages ──────────────────────────────────────────────────

// SetCurrentPage makes page the page being edited. The pages list is the
// single source of truth: the page is upserted into it (replacing any
// entry with the same id) and the current pointer is set to its id.
func (s *Store) SetCurrentPage(page *domain.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page == nil {
		s.currentID = ""
		s.index = map[string]*domain.Component{}
		return
	}
	s.upsertPage(page)
	s.currentID = page.ID
	s.reindex(page)
}

// CurrentPage returns the page being edited, or nil.
func (s *Store) CurrentPage() *domain.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageByID(s.currentID)
}

// Pages returns all known pages in order.
func (s *Store) Pages() []*domain.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Page, len(s.pages))
	copy(out, s.pages)
	return out
}

// SelectComponent sets the UI-focus pointer. The id is not validated
// against tree membership — selecting a stale id is the caller's mistake
// to detect. Pass "" to clear the selection.
func (s *Store) SelectComponent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
}

// SelectedID returns the current selection, or "".
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// SetCurrentView sets the storefront preview navigation target.
// Unknown views are ignored.
func (s *Store) SetCurrentView(view domain.View) {
	if !domain.ValidView(view) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
}

// CurrentView returns the preview navigation target.
func (s *Store) CurrentView() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// ── Theme ──────────────────────────────────────────────────

// SetTheme replaces the active theme wholesale. If a page is being edited
// its embedded theme is replaced too, so page and global theme agree from
// this moment on; any earlier divergence is discarded.
func (s *Store) SetTheme(theme domain.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	if page := s.pageByID(s.currentID); page != nil {
		page.Theme = theme
	}
}

// Theme returns the active theme.
func (s *Store) Theme() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// ── Store info ─────────────────────────────────────────────

// UpdateStoreInfo merges patch into the storefront metadata and persists
// it immediately — the only eagerly-persisted mutation, since store info
// is edited from a settings form rather than the canvas.
func (s *Store) UpdateStoreInfo(patch domain.StoreInfoPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	patch.Apply(&s.info)
	return s.persist(keyStoreInfo, s.info)
}

// StoreInfo returns the storefront metadata.
func (s *Store) StoreInfo() domain.StoreInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// ── Persistence ────────────────────────────────────────────

// Save serializes pages, the current-page pointer, and store info to
// their fixed keys.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(keyPages, s.pages); err != nil {
		return err
	}
	if err := s.persist(keyCurrent, s.currentID); err != nil {
		return err
	}
	return s.persist(keyStoreInfo, s.info)
}

// Load hydrates pages, the current-page pointer, and store info from
// storage. Each blob fails soft: a missing or corrupt blob is logged and
// skipped, leaving that slice of state at its in-memory value.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pages []*domain.Page
	if ok := s.restore(keyPages, &pages); ok {
		s.pages = pages
	}
	var currentID string
	if ok := s.restore(keyCurrent, &currentID); ok {
		s.currentID = currentID
	}
	var info domain.StoreInfo
	if ok := s.restore(keyStoreInfo, &info); ok {
		s.info = info
	}

	if page := s.pageByID(s.currentID); page != nil {
		s.theme = page.Theme
		s.reindex(page)
	} else {
		s.currentID = ""
		s.index = map[string]*domain.Component{}
	}
	return nil
}

func (s *Store) persist(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	blob, err := json.Marshal(envelope{Version: schemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope %s: %w", key, err)
	}
	if err := s.kv.Set(key, string(blob)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// restore reads one blob into v. Returns false (and logs) when the blob is
// absent, unreadable, or from an unknown schema version.
func (s *Store) restore(key string, v any) bool {
	blob, ok, err := s.kv.Get(key)
	if err != nil {
		log.Printf("builder: load %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	var env envelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil {
		log.Printf("builder: corrupt blob %s: %v", key, err)
		return false
	}
	if env.Version != schemaVersion {
		log.Printf("builder: unknown schema version %d for %s", env.Version, key)
		return false
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		log.Printf("builder: corrupt payload %s: %v", key, err)
		return false
	}
	return true
}

// ── internals ──────────────────────────────────────────────

func (s *Store) pageByID(id string) *domain.Page {
	if id == "" {
		return nil
	}
	for _, p := range s.pages {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) upsertPage(page *domain.Page) {
	for i, p := range s.pages {
		if p.ID == page.ID {
			s.pages[i] = page
			return
		}
	}
	s.pages = append(s.pages, page)
}

// reindex rebuilds the id index from page's full tree.
func (s *Store) reindex(page *domain.Page) {
	s.index = map[string]*domain.Component{}
	if page == nil {
		return
	}
	for _, c := range page.Components {
		c.Walk(func(n *domain.Component) bool {
			s.index[n.ID] = n
			return true
		})
	}
}

// MemKV is an in-memory KV for tests.
type MemKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemKV creates an empty in-memory KV.
func NewMemKV() *MemKV {
	return &MemKV{data: map[string]string{}}
}

func (m *MemKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
