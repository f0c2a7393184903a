package plan

import "github.com/sirupsen/logrus"

// CanPlace reports whether b fits at (x, y): inside the grid and not
// overlapping any other visible building. The registry entry with b's id,
// if any, is ignored so that a building never collides with itself.
func (l *Layout) CanPlace(b *Building, x, y int) bool {
	r := b.RectAt(x, y)
	if !l.grid.Fits(r) {
		return false
	}
	for _, o := range l.buildings {
		if o.ID == b.ID || !o.Visible {
			continue
		}
		if r.Overlaps(o.Rect()) {
			return false
		}
	}
	return true
}

// DefaultOrigin is where fresh additions start searching: one tile right of
// the Town Hall, level with its top edge. Without a Town Hall it is (0,0).
func (l *Layout) DefaultOrigin() Point {
	th, ok := l.TownHall()
	if !ok {
		return Point{}
	}
	return Point{X: th.X + th.Width + 1, Y: th.Y}
}

// AutoPlace finds a free position for b starting at DefaultOrigin and sets
// b.X, b.Y. b is not added to the registry.
func (l *Layout) AutoPlace(b *Building) error {
	return l.SpiralPlace(b, l.DefaultOrigin())
}

// Relocate finds a free position for b starting at the grid centre. Used
// when a building's current position became invalid.
func (l *Layout) Relocate(b *Building) error {
	return l.SpiralPlace(b, l.grid.Center())
}

// SpiralPlace searches square rings of growing radius around origin,
// visiting only each ring's perimeter and clamping candidates into the grid.
// When every ring up to max(Width, Height) fails it falls back to a
// row-major scan of all top-left positions. On failure b keeps its previous
// coordinates and ErrPlacementFailed is returned.
func (l *Layout) SpiralPlace(b *Building, origin Point) error {
	maxRadius := max(l.grid.Width, l.grid.Height)
	for radius := 0; radius < maxRadius; radius++ {
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				p := l.grid.ClampOrigin(b.Width, b.Height, origin.X+dx, origin.Y+dy)
				if l.CanPlace(b, p.X, p.Y) {
					b.X, b.Y = p.X, p.Y
					return nil
				}
			}
		}
	}

	if p, ok := l.FirstFit(b); ok {
		b.X, b.Y = p.X, p.Y
		return nil
	}
	logrus.Debugf("placement: no room for %q (%d×%d) on %d×%d grid",
		b.Name, b.Width, b.Height, l.grid.Width, l.grid.Height)
	return ErrPlacementFailed
}

// FirstFit returns the first position, in row-major order, where b fits.
func (l *Layout) FirstFit(b *Building) (Point, bool) {
	for y := 0; y <= l.grid.Height-b.Height; y++ {
		for x := 0; x <= l.grid.Width-b.Width; x++ {
			if l.CanPlace(b, x, y) {
				return Point{X: x, Y: y}, true
			}
		}
	}
	return Point{}, false
}

// EachFreePosition calls fn, in row-major order, for every top-left position
// where b fits. fn returning false stops the walk.
func (l *Layout) EachFreePosition(b *Building, fn func(p Point) bool) {
	for y := 0; y <= l.grid.Height-b.Height; y++ {
		for x := 0; x <= l.grid.Width-b.Width; x++ {
			if l.CanPlace(b, x, y) && !fn(Point{X: x, Y: y}) {
				return
			}
		}
	}
}
