package optimize

import (
	"context"
	"math"

	"github.com/inference-sim/townplan/plan"
)

// Density packs buildings, road-requiring and largest first, into the first
// free row-major position.
type Density struct{}

// Name implements Strategy.
func (s *Density) Name() string { return StrategyDensity }

// Apply implements Strategy for Density.
func (s *Density) Apply(ctx context.Context, p *Problem) error {
	for _, b := range byPriority(p.Targets) {
		if pt, ok := p.Layout.FirstFit(b); ok {
			p.place(b, pt.X, pt.Y)
			continue
		}
		if err := p.relocate(b); err != nil {
			return err
		}
	}
	return nil
}

// Greedy tries every free position for each building (road-requiring and
// largest first), rebuilding all roads for each candidate, and keeps the
// position with the fewest road tiles. Exact for a single building, but one
// full rebuild per free cell.
type Greedy struct{}

// Name implements Strategy.
func (s *Greedy) Name() string { return StrategyGreedy }

// Apply implements Strategy for Greedy.
func (s *Greedy) Apply(ctx context.Context, p *Problem) error {
	for _, b := range byPriority(p.Targets) {
		if err := ctx.Err(); err != nil {
			return err
		}
		var (
			best      plan.Point
			bestScore int
			found     bool
		)
		p.Layout.EachFreePosition(b, func(pt plan.Point) bool {
			b.X, b.Y = pt.X, pt.Y
			p.Layout.Add(b)
			p.Layout.RebuildRoads()
			score := p.Layout.RoadCount()
			p.Layout.Remove(b.ID)
			if !found || score < bestScore {
				best, bestScore, found = pt, score, true
			}
			return true
		})
		if found {
			p.place(b, best.X, best.Y)
			continue
		}
		if err := p.relocate(b); err != nil {
			return err
		}
	}
	return nil
}

// SpanningTree grows the layout outward from the Town Hall: each road
// building, largest first, goes to the free position whose centre is
// closest (Manhattan) to the centre of any already placed building.
// Buildings without roads are placed afterwards with the centre-out search.
type SpanningTree struct{}

// Name implements Strategy.
func (s *SpanningTree) Name() string { return StrategySpanningTree }

// Apply implements Strategy for SpanningTree.
func (s *SpanningTree) Apply(ctx context.Context, p *Problem) error {
	road, noRoad := splitByRoad(p.Targets)
	placed := []*plan.Building{p.TownHall}

	for _, b := range byAreaDesc(road) {
		if err := ctx.Err(); err != nil {
			return err
		}
		var free []plan.Point
		p.Layout.EachFreePosition(b, func(pt plan.Point) bool {
			free = append(free, pt)
			return true
		})

		var (
			best    plan.Point
			minDist = math.Inf(1)
			found   bool
		)
		// Anchor-major order: the earliest anchor wins ties, then row-major.
		for _, anchor := range placed {
			ax, ay := anchor.Center()
			for _, pt := range free {
				cx := float64(pt.X) + float64(b.Width)/2
				cy := float64(pt.Y) + float64(b.Height)/2
				d := math.Abs(cx-ax) + math.Abs(cy-ay)
				if d < minDist {
					best, minDist, found = pt, d, true
				}
			}
		}
		if found {
			p.place(b, best.X, best.Y)
		} else if err := p.relocate(b); err != nil {
			return err
		}
		placed = append(placed, b)
	}

	for _, b := range noRoad {
		if err := p.relocate(b); err != nil {
			return err
		}
	}
	return nil
}

// Spiral places buildings, road-requiring and largest first, on an
// eight-direction spiral around the Town Hall's centre, widening the radius
// by one tile per revolution.
type Spiral struct{}

// Name implements Strategy.
func (s *Spiral) Name() string { return StrategySpiral }

// Apply implements Strategy for Spiral.
func (s *Spiral) Apply(ctx context.Context, p *Problem) error {
	g := p.Layout.Grid()
	th := p.TownHall
	cx := float64(th.X + th.Width/2)
	cy := float64(th.Y + th.Height/2)
	maxRadius := max(g.Width, g.Height)

	for _, b := range byPriority(p.Targets) {
		placed := false
		for radius := 1; !placed && radius < maxRadius; radius++ {
			for k := 0; k < 8 && !placed; k++ {
				angle := float64(k) * math.Pi / 4
				x := roundHalfUp(cx+float64(radius)*math.Cos(angle)) - b.Width/2
				y := roundHalfUp(cy+float64(radius)*math.Sin(angle)) - b.Height/2
				if p.Layout.CanPlace(b, x, y) {
					p.place(b, x, y)
					placed = true
				}
			}
		}
		if !placed {
			if err := p.relocate(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// roundHalfUp rounds .5 towards +Inf, so -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
