package domain

// Palette is a theme's color set.
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Border     string `json:"border"`
}

// FontSizes is the fixed set of size tokens a theme exposes.
type FontSizes struct {
	XS string `json:"xs"`
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
	XL string `json:"xl"`
}

// Fonts holds the theme's typography choices.
type Fonts struct {
	Heading string    `json:"heading"`
	Body    string    `json:"body"`
	Sizes   FontSizes `json:"sizes"`
}

// Spacing tokens, smallest to largest.
type Spacing struct {
	XS string `json:"xs"`
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
	XL string `json:"xl"`
}

// Radii is the set of border-radius tokens.
type Radii struct {
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
}

// Theme is a named visual configuration. It is an immutable value object:
// the builder swaps themes wholesale and never patches one in place.
type Theme struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Colors  Palette `json:"colors"`
	Fonts   Fonts   `json:"fonts"`
	Spacing Spacing `json:"spacing"`
	Radii   Radii   `json:"radii"`
}

// DefaultTheme is the theme applied to pages created before the merchant
// picks one from the catalog.
func DefaultTheme() Theme {
	return Theme{
		ID:   "default",
		Name: "Default",
		Colors: Palette{
			Primary:    "#1f2937",
			Secondary:  "#4b5563",
			Accent:     "#2563eb",
			Background: "#ffffff",
			Text:       "#111827",
			Border:     "#e5e7eb",
		},
		Fonts: Fonts{
			Heading: "Inter",
			Body:    "Inter",
			Sizes: FontSizes{
				XS: "0.75rem",
				SM: "0.875rem",
				MD: "1rem",
				LG: "1.25rem",
				XL: "1.5rem",
			},
		},
		Spacing: Spacing{
			XS: "0.25rem",
			SM: "0.5rem",
			MD: "1rem",
			LG: "2rem",
			XL: "4rem",
		},
		Radii: Radii{
			SM: "0.125rem",
			MD: "0.375rem",
			LG: "0.75rem",
		},
	}
}
