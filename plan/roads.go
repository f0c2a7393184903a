package plan

// RoadSet is a set of road tiles that remembers insertion order. Iteration
// order is the tie-break order for nearest-road lookups, so it must be stable.
type RoadSet struct {
	order []Point
	index map[Point]struct{}
}

// NewRoadSet returns an empty set.
func NewRoadSet() *RoadSet {
	return &RoadSet{index: make(map[Point]struct{})}
}

// Add inserts p. Re-adding an existing tile is a no-op.
func (s *RoadSet) Add(p Point) {
	if _, ok := s.index[p]; ok {
		return
	}
	s.index[p] = struct{}{}
	s.order = append(s.order, p)
}

// Has reports whether p is a road tile.
func (s *RoadSet) Has(p Point) bool {
	_, ok := s.index[p]
	return ok
}

// Len returns the number of tiles.
func (s *RoadSet) Len() int {
	return len(s.order)
}

// Points returns the tiles in insertion order.
func (s *RoadSet) Points() []Point {
	out := make([]Point, len(s.order))
	copy(out, s.order)
	return out
}

// Clear removes every tile.
func (s *RoadSet) Clear() {
	s.order = s.order[:0]
	clear(s.index)
}

// Clone returns an independent copy.
func (s *RoadSet) Clone() *RoadSet {
	c := &RoadSet{
		order: make([]Point, len(s.order)),
		index: make(map[Point]struct{}, len(s.index)),
	}
	copy(c.order, s.order)
	for p := range s.index {
		c.index[p] = struct{}{}
	}
	return c
}

// Equal reports whether both sets hold the same tiles in the same order.
func (s *RoadSet) Equal(o *RoadSet) bool {
	if len(s.order) != len(o.order) {
		return false
	}
	for i := range s.order {
		if s.order[i] != o.order[i] {
			return false
		}
	}
	return true
}

// nearest returns the road tile closest to p by Manhattan distance; the
// earliest inserted tile wins ties.
func (s *RoadSet) nearest(p Point) (Point, bool) {
	best, bestDist, found := Point{}, 0, false
	for _, r := range s.order {
		d := p.Manhattan(r)
		if !found || d < bestDist {
			best, bestDist, found = r, d, true
		}
	}
	return best, found
}

// touches reports whether p or one of its 4-neighbours is a road tile.
func (s *RoadSet) touches(p Point) bool {
	return s.Has(p) ||
		s.Has(Point{X: p.X - 1, Y: p.Y}) ||
		s.Has(Point{X: p.X + 1, Y: p.Y}) ||
		s.Has(Point{X: p.X, Y: p.Y - 1}) ||
		s.Has(Point{X: p.X, Y: p.Y + 1})
}

// RebuildRoads clears the road set and reconnects every visible
// road-requiring building, in registry order, to the existing network or to
// the Town Hall. With no visible Town Hall the road set stays empty.
func (l *Layout) RebuildRoads() {
	l.roads.Clear()

	th, ok := l.VisibleTownHall()
	if !ok {
		return
	}
	occupied := l.occupancy()
	thPoints := ConnectionPoints(th, l.grid)
	for _, b := range l.buildings {
		if b.RequiresRoad && b.Visible && !b.IsTownHall {
			l.connect(b, thPoints, occupied)
		}
	}
}

// connect lays the shortest L-shaped path from one of b's connection points
// either to the nearest existing road tile (when the point already touches
// the network) or to one of the Town Hall's connection points. Path tiles
// inside visible buildings are dropped, which can leave the road
// disconnected; this is accepted.
func (l *Layout) connect(b *Building, thPoints []Point, occupied []bool) {
	var (
		bestStart, bestEnd Point
		bestLen            int
		found              bool
	)
	consider := func(start, end Point) {
		// FindPath always yields |dx|+|dy|+1 tiles.
		n := start.Manhattan(end) + 1
		if !found || n < bestLen {
			bestStart, bestEnd, bestLen, found = start, end, n, true
		}
	}

	for _, p := range ConnectionPoints(b, l.grid) {
		if l.roads.touches(p) {
			if r, ok := l.roads.nearest(p); ok {
				consider(p, r)
			}
			continue
		}
		for _, q := range thPoints {
			consider(p, q)
		}
	}
	if !found {
		return
	}
	for _, t := range FindPath(bestStart, bestEnd) {
		if !l.occupiedAt(occupied, t) {
			l.roads.Add(t)
		}
	}
}

// occupancy returns a row-major bitmap of tiles covered by visible buildings.
func (l *Layout) occupancy() []bool {
	occ := make([]bool, l.grid.Tiles())
	for _, b := range l.buildings {
		if !b.Visible {
			continue
		}
		for y := max(b.Y, 0); y < min(b.Y+b.Height, l.grid.Height); y++ {
			for x := max(b.X, 0); x < min(b.X+b.Width, l.grid.Width); x++ {
				occ[y*l.grid.Width+x] = true
			}
		}
	}
	return occ
}

// occupiedAt reads the bitmap. Paths join two in-grid points, so p is
// always inside the grid.
func (l *Layout) occupiedAt(occ []bool, p Point) bool {
	return occ[p.Y*l.grid.Width+p.X]
}

// ConnectionPoints returns the in-grid tiles directly outside each edge of b:
// the top row, bottom row, left column, then right column.
func ConnectionPoints(b *Building, g Grid) []Point {
	pts := make([]Point, 0, 2*(b.Width+b.Height))
	add := func(p Point) {
		if g.Contains(p) {
			pts = append(pts, p)
		}
	}
	for i := 0; i < b.Width; i++ {
		add(Point{X: b.X + i, Y: b.Y - 1})
	}
	for i := 0; i < b.Width; i++ {
		add(Point{X: b.X + i, Y: b.Y + b.Height})
	}
	for i := 0; i < b.Height; i++ {
		add(Point{X: b.X - 1, Y: b.Y + i})
	}
	for i := 0; i < b.Height; i++ {
		add(Point{X: b.X + b.Width, Y: b.Y + i})
	}
	return pts
}

// FindPath returns the L-shaped path from start to end: a horizontal run at
// start.Y covering both x values, then a vertical run at end.X covering both
// y values, without duplicates. It is not obstacle-aware.
func FindPath(start, end Point) []Point {
	x0, x1 := min(start.X, end.X), max(start.X, end.X)
	y0, y1 := min(start.Y, end.Y), max(start.Y, end.Y)
	path := make([]Point, 0, x1-x0+y1-y0+1)
	for x := x0; x <= x1; x++ {
		path = append(path, Point{X: x, Y: start.Y})
	}
	for y := y0; y <= y1; y++ {
		if y == start.Y {
			// (end.X, start.Y) is already on the horizontal run.
			continue
		}
		path = append(path, Point{X: end.X, Y: y})
	}
	return path
}
