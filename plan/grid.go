package plan

import "fmt"

const (
	// ExpansionSize is the side of one expansion block in tiles.
	ExpansionSize = 4

	// MaxExpansions bounds each grid axis, in expansion units.
	MaxExpansions = 15

	// DefaultExpansions gives the 20×20 starting grid.
	DefaultExpansions = 5

	// TileSize is the display size of one tile in pixels. Renderers may use it;
	// nothing in the engine depends on it.
	TileSize = 40
)

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Manhattan returns |p.X-q.X| + |p.Y-q.Y|.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Grid holds the tile dimensions of the playing field.
type Grid struct {
	Width  int
	Height int
}

// NewGrid builds a grid from expansion unit counts. Both counts must be in
// [1, MaxExpansions].
func NewGrid(widthUnits, heightUnits int) (Grid, error) {
	if widthUnits < 1 || widthUnits > MaxExpansions {
		return Grid{}, &ValidationError{Field: "grid width", Reason: fmt.Sprintf("must be between 1 and %d expansions, got %d", MaxExpansions, widthUnits)}
	}
	if heightUnits < 1 || heightUnits > MaxExpansions {
		return Grid{}, &ValidationError{Field: "grid height", Reason: fmt.Sprintf("must be between 1 and %d expansions, got %d", MaxExpansions, heightUnits)}
	}
	return Grid{Width: widthUnits * ExpansionSize, Height: heightUnits * ExpansionSize}, nil
}

// DefaultGrid returns the 20×20 grid a new session starts with.
func DefaultGrid() Grid {
	g, _ := NewGrid(DefaultExpansions, DefaultExpansions)
	return g
}

// Contains reports whether p is a tile of the grid.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Fits reports whether r lies entirely inside the grid.
func (g Grid) Fits(r Rect) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.Width <= g.Width && r.Y+r.Height <= g.Height
}

// Center returns the tile at the middle of the grid (rounded down).
func (g Grid) Center() Point {
	return Point{X: g.Width / 2, Y: g.Height / 2}
}

// Tiles returns the total tile count.
func (g Grid) Tiles() int {
	return g.Width * g.Height
}

// Units returns the grid size in expansion units.
func (g Grid) Units() (int, int) {
	return g.Width / ExpansionSize, g.Height / ExpansionSize
}

// clamp limits v to [lo, hi]. When hi < lo the result is lo.
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ClampOrigin clamps a top-left coordinate so that a w×h rectangle stays in
// [0, Width-w] × [0, Height-h].
func (g Grid) ClampOrigin(w, h, x, y int) Point {
	return Point{X: clamp(x, 0, g.Width-w), Y: clamp(y, 0, g.Height-h)}
}
