package plan

import "github.com/google/uuid"

// Building colours, keyed on whether the building needs a road.
const (
	ColorRoad   = "#8B4513"
	ColorNoRoad = "#4682B4"
	ColorTown   = ColorRoad
)

// Town Hall footprint.
const (
	TownHallWidth  = 7
	TownHallHeight = 6
	TownHallName   = "Town Hall"
)

// Rect is an axis-aligned tile rectangle with half-open extents.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Overlaps reports whether r and o share at least one tile. Rectangles that
// only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.X+r.Width <= o.X ||
		r.X >= o.X+o.Width ||
		r.Y+r.Height <= o.Y ||
		r.Y >= o.Y+o.Height)
}

// Contains reports whether tile p lies in r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Building is a placed rectangle on the grid.
type Building struct {
	ID           string
	Name         string
	Width        int // tiles, >= 1
	Height       int // tiles, >= 1
	X            int // top-left tile
	Y            int
	RequiresRoad bool
	Visible      bool
	IsTownHall   bool
	Color        string
}

// NewBuilding creates a visible building with a fresh id, positioned at (0,0).
func NewBuilding(name string, width, height int, requiresRoad bool) *Building {
	return &Building{
		ID:           NewID("building"),
		Name:         name,
		Width:        width,
		Height:       height,
		RequiresRoad: requiresRoad,
		Visible:      true,
		Color:        ColorFor(requiresRoad),
	}
}

// NewTownHall creates the Town Hall centred on the grid.
func NewTownHall(g Grid) *Building {
	return &Building{
		ID:           NewID("town-hall"),
		Name:         TownHallName,
		Width:        TownHallWidth,
		Height:       TownHallHeight,
		X:            g.Width/2 - 3,
		Y:            g.Height/2 - 3,
		RequiresRoad: true,
		Visible:      true,
		IsTownHall:   true,
		Color:        ColorTown,
	}
}

// NewID returns a unique id with the given prefix.
func NewID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

// ColorFor returns the display colour for a building's road requirement.
func ColorFor(requiresRoad bool) string {
	if requiresRoad {
		return ColorRoad
	}
	return ColorNoRoad
}

// Rect returns the building footprint.
func (b *Building) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// RectAt returns the footprint the building would have at (x, y).
func (b *Building) RectAt(x, y int) Rect {
	return Rect{X: x, Y: y, Width: b.Width, Height: b.Height}
}

// Area returns Width*Height.
func (b *Building) Area() int {
	return b.Width * b.Height
}

// Contains reports whether tile p is inside the footprint.
func (b *Building) Contains(p Point) bool {
	return b.Rect().Contains(p)
}

// Center returns the geometric centre of the footprint.
func (b *Building) Center() (float64, float64) {
	return float64(b.X) + float64(b.Width)/2, float64(b.Y) + float64(b.Height)/2
}

// Clone returns a copy of b.
func (b *Building) Clone() *Building {
	c := *b
	return &c
}
