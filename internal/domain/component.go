package domain

// ComponentType identifies which storefront renderer applies to a component.
type ComponentType string

const (
	ComponentHero        ComponentType = "hero"
	ComponentProductGrid ComponentType = "product-grid"
	ComponentText        ComponentType = "text"
	ComponentImage       ComponentType = "image"
	ComponentButton      ComponentType = "button"
	ComponentHeader      ComponentType = "header"
	ComponentFooter      ComponentType = "footer"
	ComponentTestimonial ComponentType = "testimonial"
	ComponentNewsletter  ComponentType = "newsletter"
)

// Position is a free-form canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a component's rendered dimensions.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Component is one node of a page's render tree. Children are ordered;
// a nil/empty Children slice means the node is a leaf. IDs are unique
// across the whole tree, enforced by the builder store.
type Component struct {
	ID       string         `json:"id"`
	Type     ComponentType  `json:"type"`
	Props    map[string]any `json:"props,omitempty"`
	Children []*Component   `json:"children,omitempty"`
	Position Position       `json:"position"`
	Size     Size           `json:"size"`
}

// Clone returns a deep copy of the component and its subtree.
// IDs are copied as-is; the builder re-mints them on duplication.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	cp := &Component{
		ID:       c.ID,
		Type:     c.Type,
		Position: c.Position,
		Size:     c.Size,
	}
	if c.Props != nil {
		cp.Props = make(map[string]any, len(c.Props))
		for k, v := range c.Props {
			cp.Props[k] = v
		}
	}
	for _, child := range c.Children {
		cp.Children = append(cp.Children, child.Clone())
	}
	return cp
}

// Walk visits the component and all descendants in pre-order.
// Returning false from fn stops the walk.
func (c *Component) Walk(fn func(*Component) bool) bool {
	if c == nil {
		return true
	}
	if !fn(c) {
		return false
	}
	for _, child := range c.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}
