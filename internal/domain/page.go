package domain

// PageMeta carries the page's SEO metadata.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Page is one storefront page: an ordered root-level component list plus
// the theme it renders with. Exactly one page is "current" in the builder
// at a time.
type Page struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Slug       string       `json:"slug"`
	Components []*Component `json:"components"`
	Theme      Theme        `json:"theme"`
	Meta       PageMeta     `json:"meta"`
}

// View is the storefront preview navigation target.
type View string

const (
	ViewHome     View = "home"
	ViewProducts View = "products"
	ViewAbout    View = "about"
	ViewContact  View = "contact"
	ViewSearch   View = "search"
	ViewCart     View = "cart"
)

// ValidView reports whether v is a known navigation target.
func ValidView(v View) bool {
	switch v {
	case ViewHome, ViewProducts, ViewAbout, ViewContact, ViewSearch, ViewCart:
		return true
	}
	return false
}
