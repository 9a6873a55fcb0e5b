package mcpserver

import (
	"math"

	"storefront/internal/domain"
)

const (
	GridSize = 20.0 // matches frontend canvas grid
	Padding  = 40.0 // 2 grid cells between components
	MaxRowW  = 1200.0
)

// LayoutEngine handles automatic placement of components on the canvas
// so that MCP-created components don't overlap existing ones.
type LayoutEngine struct {
	gridSize float64
	padding  float64
	maxRowW  float64
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		gridSize: GridSize,
		padding:  Padding,
		maxRowW:  MaxRowW,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

// rect is a simple axis-aligned bounding box.
type rect struct {
	x, y, w, h float64
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

// NextPosition finds the next non-overlapping grid position for a component
// of size (newW, newH) given the existing components on the page. Only
// root-level components count; children live inside their parent's box.
func (le *LayoutEngine) NextPosition(existing []*domain.Component, newW, newH float64) (float64, float64) {
	if len(existing) == 0 {
		return 0, 0
	}

	occupied := make([]rect, len(existing))
	for i, c := range existing {
		occupied[i] = rect{c.Position.X, c.Position.Y, c.Size.Width, c.Size.Height}
	}

	// Scan rows top-to-bottom, columns left-to-right
	candidate := rect{w: newW, h: newH}
	for y := 0.0; y < 100000; y += le.gridSize {
		for x := 0.0; x < le.maxRowW; x += le.gridSize {
			candidate.x = le.snap(x)
			candidate.y = le.snap(y)

			overlaps := false
			for _, occ := range occupied {
				// Add padding around existing components
				padded := rect{
					x: occ.x - le.padding,
					y: occ.y - le.padding,
					w: occ.w + le.padding*2,
					h: occ.h + le.padding*2,
				}
				if candidate.intersects(padded) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return candidate.x, candidate.y
			}
		}
	}

	// Fallback: place below all existing components
	maxY := 0.0
	for _, c := range existing {
		if c.Position.Y+c.Size.Height > maxY {
			maxY = c.Position.Y + c.Size.Height
		}
	}
	return 0, le.snap(maxY + le.padding)
}

// ArrangeGroup places a slice of components in a grid layout starting from
// (startX, startY). It modifies positions in-place and returns the slice.
func (le *LayoutEngine) ArrangeGroup(components []*domain.Component, startX, startY float64) []*domain.Component {
	x := le.snap(startX)
	y := le.snap(startY)
	rowHeight := 0.0

	for _, c := range components {
		c.Position.X = x
		c.Position.Y = y

		if c.Size.Height > rowHeight {
			rowHeight = c.Size.Height
		}

		x += le.snap(c.Size.Width + le.padding)

		// Wrap to next row
		if x+c.Size.Width > le.maxRowW {
			x = le.snap(startX)
			y += le.snap(rowHeight + le.padding)
			rowHeight = 0
		}
	}

	return components
}
