package service

import (
	"fmt"
	"sync"

	"storefront/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Component Type Registry — pluggable canvas components
// ─────────────────────────────────────────────────────────────

// ComponentPlugin is the Go-side contract for a component type on the
// canvas. A plugin supplies the palette entry and the defaults a fresh
// component of its type starts with.
type ComponentPlugin interface {
	// ComponentType returns the type string this plugin handles (e.g. "hero").
	ComponentType() domain.ComponentType
	// Label is the palette display name.
	Label() string
	// Defaults returns the props and size a freshly dropped component gets.
	Defaults() (props map[string]any, size domain.Size)
}

// MCPToolDef describes a tool that a plugin exposes to the MCP server.
type MCPToolDef struct {
	Name        string                                   // e.g. "productgrid_set_columns"
	Description string                                   // shown to agents
	InputSchema map[string]any                           // JSON Schema for parameters
	Destructive bool                                     // requires human approval
	Handler     func(params map[string]any) (any, error) // executes the tool
}

// MCPCapablePlugin extends ComponentPlugin with MCP tool declarations.
// Plugins that implement this interface will have their tools
// auto-registered with the MCP server on startup.
type MCPCapablePlugin interface {
	ComponentPlugin
	MCPTools() []MCPToolDef
}

// ComponentRegistry manages registered component type plugins.
type ComponentRegistry struct {
	mu      sync.RWMutex
	plugins map[domain.ComponentType]ComponentPlugin
	order   []domain.ComponentType
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{plugins: make(map[domain.ComponentType]ComponentPlugin)}
}

// Register adds a plugin to the registry. Panics on duplicate registration.
func (r *ComponentRegistry) Register(p ComponentPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := p.ComponentType()
	if _, exists := r.plugins[t]; exists {
		panic(fmt.Sprintf("component registry: duplicate registration for type %q", t))
	}
	r.plugins[t] = p
	r.order = append(r.order, t)
}

// Get returns the plugin for a component type.
func (r *ComponentRegistry) Get(t domain.ComponentType) (ComponentPlugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[t]
	return p, ok
}

// NewComponent builds a component of the given type with its defaults
// applied. The id is left empty; the builder mints it.
func (r *ComponentRegistry) NewComponent(t domain.ComponentType) (*domain.Component, error) {
	p, ok := r.Get(t)
	if !ok {
		return nil, fmt.Errorf("unknown component type: %s", t)
	}
	props, size := p.Defaults()
	return &domain.Component{
		Type:  t,
		Props: props,
		Size:  size,
	}, nil
}

// PaletteEntry is one row in the component palette.
type PaletteEntry struct {
	Type  domain.ComponentType `json:"type"`
	Label string               `json:"label"`
}

// Palette lists registered component types in registration order.
func (r *ComponentRegistry) Palette() []PaletteEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]PaletteEntry, 0, len(r.order))
	for _, t := range r.order {
		entries = append(entries, PaletteEntry{Type: t, Label: r.plugins[t].Label()})
	}
	return entries
}

// ForEach iterates all registered plugins in registration order. Used
// by the MCP server to auto-register tools for each plugin type.
func (r *ComponentRegistry) ForEach(fn func(ComponentPlugin)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.order {
		fn(r.plugins[t])
	}
}
