package plan

import "fmt"

// Layout owns a grid, the ordered building registry and the road tiles
// derived from it. Registry order is significant: RebuildRoads connects
// buildings in this order and later buildings may reuse earlier roads.
//
// Thread-safety: NOT thread-safe. Concurrent users must work on Clone()s.
type Layout struct {
	grid      Grid
	buildings []*Building
	roads     *RoadSet
}

// NewLayout returns an empty layout on g.
func NewLayout(g Grid) *Layout {
	return &Layout{grid: g, roads: NewRoadSet()}
}

// Grid returns the layout's grid.
func (l *Layout) Grid() Grid {
	return l.grid
}

// Len returns the number of buildings, visible or not.
func (l *Layout) Len() int {
	return len(l.buildings)
}

// Add appends b to the registry without any placement check.
func (l *Layout) Add(b *Building) {
	l.buildings = append(l.buildings, b)
}

// Remove deletes the building with the given id and returns it.
func (l *Layout) Remove(id string) (*Building, bool) {
	for i, b := range l.buildings {
		if b.ID == id {
			l.buildings = append(l.buildings[:i], l.buildings[i+1:]...)
			return b, true
		}
	}
	return nil, false
}

// Find returns the live building with the given id.
func (l *Layout) Find(id string) (*Building, bool) {
	for _, b := range l.buildings {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// TownHall returns the Town Hall regardless of visibility.
func (l *Layout) TownHall() (*Building, bool) {
	for _, b := range l.buildings {
		if b.IsTownHall {
			return b, true
		}
	}
	return nil, false
}

// VisibleTownHall returns the Town Hall only if it is visible.
func (l *Layout) VisibleTownHall() (*Building, bool) {
	for _, b := range l.buildings {
		if b.IsTownHall && b.Visible {
			return b, true
		}
	}
	return nil, false
}

// BuildingAt returns the first visible building covering (x, y).
func (l *Layout) BuildingAt(x, y int) (*Building, bool) {
	p := Point{X: x, Y: y}
	for _, b := range l.buildings {
		if b.Visible && b.Contains(p) {
			return b, true
		}
	}
	return nil, false
}

// Each calls fn for every live building in registry order.
func (l *Layout) Each(fn func(b *Building)) {
	for _, b := range l.buildings {
		fn(b)
	}
}

// Buildings returns copies of all buildings in registry order.
func (l *Layout) Buildings() []Building {
	out := make([]Building, len(l.buildings))
	for i, b := range l.buildings {
		out[i] = *b
	}
	return out
}

// Roads returns the road tiles in insertion order.
func (l *Layout) Roads() []Point {
	return l.roads.Points()
}

// RoadCount returns the number of road tiles.
func (l *Layout) RoadCount() int {
	return l.roads.Len()
}

// HasRoad reports whether (x, y) is a road tile.
func (l *Layout) HasRoad(x, y int) bool {
	return l.roads.Has(Point{X: x, Y: y})
}

// Clone returns a deep copy: mutating the clone never affects l.
func (l *Layout) Clone() *Layout {
	c := &Layout{
		grid:      l.grid,
		buildings: make([]*Building, len(l.buildings)),
		roads:     l.roads.Clone(),
	}
	for i, b := range l.buildings {
		c.buildings[i] = b.Clone()
	}
	return c
}

// Equal reports whether both layouts have the same grid, the same buildings
// in the same order and the same road tiles in the same order.
func (l *Layout) Equal(o *Layout) bool {
	if l.grid != o.grid || len(l.buildings) != len(o.buildings) {
		return false
	}
	for i := range l.buildings {
		if *l.buildings[i] != *o.buildings[i] {
			return false
		}
	}
	return l.roads.Equal(o.roads)
}

// Resize changes the grid to widthUnits×heightUnits expansions, drops every
// building that no longer fits (the Town Hall included) and rebuilds roads.
// Returns the ids of dropped buildings.
func (l *Layout) Resize(widthUnits, heightUnits int) ([]string, error) {
	g, err := NewGrid(widthUnits, heightUnits)
	if err != nil {
		return nil, err
	}
	l.grid = g
	var dropped []string
	kept := l.buildings[:0]
	for _, b := range l.buildings {
		if g.Fits(b.Rect()) {
			kept = append(kept, b)
		} else {
			dropped = append(dropped, b.ID)
		}
	}
	// Clear the tail so dropped buildings are not retained by the backing array.
	for i := len(kept); i < len(l.buildings); i++ {
		l.buildings[i] = nil
	}
	l.buildings = kept
	l.RebuildRoads()
	return dropped, nil
}

// Validate checks the layout invariants: every visible building lies inside
// the grid and no two visible buildings overlap.
func (l *Layout) Validate() error {
	for i, b := range l.buildings {
		if !b.Visible {
			continue
		}
		if b.Width < 1 || b.Height < 1 {
			return fmt.Errorf("%w: %s has size %d×%d", ErrLayoutInvalid, b.ID, b.Width, b.Height)
		}
		if !l.grid.Fits(b.Rect()) {
			return fmt.Errorf("%w: %s at (%d,%d) %d×%d exceeds %d×%d grid",
				ErrLayoutInvalid, b.ID, b.X, b.Y, b.Width, b.Height, l.grid.Width, l.grid.Height)
		}
		for _, o := range l.buildings[i+1:] {
			if o.Visible && b.Rect().Overlaps(o.Rect()) {
				return fmt.Errorf("%w: %s overlaps %s", ErrLayoutInvalid, b.ID, o.ID)
			}
		}
	}
	return nil
}
