package mcpserver

import (
	"testing"

	"storefront/internal/domain"
)

func TestNextPosition_EmptyCanvas(t *testing.T) {
	le := NewLayoutEngine()
	x, y := le.NextPosition(nil, 600, 300)
	if x != 0 || y != 0 {
		t.Errorf("expected (0, 0) for empty canvas, got (%.0f, %.0f)", x, y)
	}
}

func TestNextPosition_AvoidsExistingComponent(t *testing.T) {
	le := NewLayoutEngine()
	existing := []*domain.Component{
		{Position: domain.Position{X: 0, Y: 0}, Size: domain.Size{Width: 600, Height: 300}},
	}
	x, y := le.NextPosition(existing, 600, 300)

	r := rect{x, y, 600, 300}
	padded := rect{-Padding, -Padding, 600 + Padding*2, 300 + Padding*2}
	if r.intersects(padded) {
		t.Errorf("position (%.0f, %.0f) overlaps existing component", x, y)
	}
}

func TestNextPosition_MultipleComponents(t *testing.T) {
	le := NewLayoutEngine()
	existing := []*domain.Component{
		{Position: domain.Position{X: 0, Y: 0}, Size: domain.Size{Width: 1200, Height: 480}},
		{Position: domain.Position{X: 0, Y: 520}, Size: domain.Size{Width: 600, Height: 200}},
	}
	x, y := le.NextPosition(existing, 480, 320)

	// Should find a position that doesn't overlap either component
	for _, c := range existing {
		r := rect{x, y, 480, 320}
		padded := rect{
			c.Position.X - Padding,
			c.Position.Y - Padding,
			c.Size.Width + Padding*2,
			c.Size.Height + Padding*2,
		}
		if r.intersects(padded) {
			t.Errorf("position (%.0f, %.0f) overlaps component at (%.0f, %.0f)",
				x, y, c.Position.X, c.Position.Y)
		}
	}
}

func TestArrangeGroup(t *testing.T) {
	le := NewLayoutEngine()
	components := []*domain.Component{
		{ID: "1", Size: domain.Size{Width: 400, Height: 200}},
		{ID: "2", Size: domain.Size{Width: 400, Height: 200}},
		{ID: "3", Size: domain.Size{Width: 400, Height: 200}},
		{ID: "4", Size: domain.Size{Width: 400, Height: 200}},
	}

	arranged := le.ArrangeGroup(components, 0, 0)

	if len(arranged) != 4 {
		t.Fatalf("expected 4 components, got %d", len(arranged))
	}

	// No overlaps, and nothing starts past the row width
	for i := 0; i < len(arranged); i++ {
		if arranged[i].Position.X >= MaxRowW {
			t.Errorf("component %d starts past row width at x=%.0f", i, arranged[i].Position.X)
		}
		for j := i + 1; j < len(arranged); j++ {
			a := rect{arranged[i].Position.X, arranged[i].Position.Y, arranged[i].Size.Width, arranged[i].Size.Height}
			b := rect{arranged[j].Position.X, arranged[j].Position.Y, arranged[j].Size.Width, arranged[j].Size.Height}
			if a.intersects(b) {
				t.Errorf("components %d and %d overlap: (%.0f,%.0f) and (%.0f,%.0f)",
					i, j, a.x, a.y, b.x, b.y)
			}
		}
	}
}

func TestSnap(t *testing.T) {
	le := NewLayoutEngine()
	tests := []struct {
		input, want float64
	}{
		{0, 0},
		{9, 0},
		{10, 20},
		{20, 20},
		{29, 20},
		{31, 40},
	}
	for _, tt := range tests {
		got := le.snap(tt.input)
		if got != tt.want {
			t.Errorf("snap(%.0f) = %.0f, want %.0f", tt.input, got, tt.want)
		}
	}
}
