package plugins

import (
	"storefront/internal/domain"
	"storefront/internal/service"
)

// ─────────────────────────────────────────────────────────────
// Built-in Component Plugins
// ─────────────────────────────────────────────────────────────
//
// Each storefront component type registers here with its palette label
// and the defaults a freshly dropped instance starts with. Third-party
// component packs follow the same pattern.

// builtinPlugin is the shared implementation for components that need
// no Go-side behavior beyond defaults.
type builtinPlugin struct {
	typ   domain.ComponentType
	label string
	props map[string]any
	size  domain.Size
}

func (p *builtinPlugin) ComponentType() domain.ComponentType { return p.typ }
func (p *builtinPlugin) Label() string                       { return p.label }

func (p *builtinPlugin) Defaults() (map[string]any, domain.Size) {
	// Copy so canvas edits never mutate the registered defaults.
	props := make(map[string]any, len(p.props))
	for k, v := range p.props {
		props[k] = v
	}
	return props, p.size
}

// RegisterBuiltins registers every built-in storefront component type.
func RegisterBuiltins(registry *service.ComponentRegistry) {
	for _, p := range builtins() {
		registry.Register(p)
	}
}

func builtins() []service.ComponentPlugin {
	return []service.ComponentPlugin{
		&builtinPlugin{
			typ:   domain.ComponentHeader,
			label: "Header",
			props: map[string]any{
				"showLogo": true,
				"links":    []any{"Home", "Products", "About", "Contact"},
			},
			size: domain.Size{Width: 1200, Height: 80},
		},
		&builtinPlugin{
			typ:   domain.ComponentHero,
			label: "Hero Banner",
			props: map[string]any{
				"heading":    "Welcome to our store",
				"subheading": "Find something you love",
				"ctaText":    "Shop now",
				"ctaLink":    "/products",
				"imageUrl":   "",
			},
			size: domain.Size{Width: 1200, Height: 480},
		},
		&builtinPlugin{
			typ:   domain.ComponentProductGrid,
			label: "Product Grid",
			props: map[string]any{
				"columns":   3,
				"category":  "",
				"showPrice": true,
				"limit":     12,
			},
			size: domain.Size{Width: 1200, Height: 600},
		},
		&builtinPlugin{
			typ:   domain.ComponentText,
			label: "Text",
			props: map[string]any{
				"content": "Write something…",
				"align":   "left",
			},
			size: domain.Size{Width: 600, Height: 120},
		},
		&builtinPlugin{
			typ:   domain.ComponentImage,
			label: "Image",
			props: map[string]any{
				"src": "",
				"alt": "",
				"fit": "cover",
			},
			size: domain.Size{Width: 480, Height: 320},
		},
		&builtinPlugin{
			typ:   domain.ComponentButton,
			label: "Button",
			props: map[string]any{
				"text":    "Click me",
				"link":    "",
				"variant": "primary",
			},
			size: domain.Size{Width: 160, Height: 48},
		},
		&builtinPlugin{
			typ:   domain.ComponentTestimonial,
			label: "Testimonial",
			props: map[string]any{
				"quote":  "",
				"author": "",
				"rating": 5,
			},
			size: domain.Size{Width: 600, Height: 200},
		},
		&builtinPlugin{
			typ:   domain.ComponentNewsletter,
			label: "Newsletter Signup",
			props: map[string]any{
				"heading":     "Stay in the loop",
				"buttonText":  "Subscribe",
				"placeholder": "you@example.com",
			},
			size: domain.Size{Width: 800, Height: 160},
		},
		&builtinPlugin{
			typ:   domain.ComponentFooter,
			label: "Footer",
			props: map[string]any{
				"showSocial": true,
				"copyright":  "",
			},
			size: domain.Size{Width: 1200, Height: 120},
		},
	}
}
