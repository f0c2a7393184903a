package optimize

import (
	"context"

	"github.com/inference-sim/townplan/plan"
)

// Cluster streams road buildings left-to-right from just right of the Town
// Hall, wrapping rows on overflow, then streams the other buildings below.
// Each building gets MaxAttempts one-tile shifts before falling back to the
// centre-out search.
type Cluster struct {
	MaxAttempts int
}

// Name implements Strategy.
func (s *Cluster) Name() string { return StrategyCluster }

// Apply implements Strategy for Cluster.
func (s *Cluster) Apply(ctx context.Context, p *Problem) error {
	th := p.TownHall
	road, noRoad := splitByRoad(p.Targets)

	cur := plan.Point{X: th.X + th.Width + 1, Y: th.Y}
	if err := s.stream(p, road, &cur, max(maxHeight(road), 2)+1); err != nil {
		return err
	}

	cur = plan.Point{X: 0, Y: max(cur.Y+2, th.Y+th.Height+2)}
	return s.stream(p, noRoad, &cur, max(maxHeight(noRoad), 2)+1)
}

// stream wraps to a new row before testing a position that would overflow.
func (s *Cluster) stream(p *Problem, bs []*plan.Building, cur *plan.Point, rowStep int) error {
	width := p.Layout.Grid().Width
	for _, b := range bs {
		placed := false
		for attempt := 0; attempt < s.MaxAttempts && !placed; attempt++ {
			if cur.X+b.Width > width {
				cur.X = 0
				cur.Y += rowStep
			}
			if p.Layout.CanPlace(b, cur.X, cur.Y) {
				p.place(b, cur.X, cur.Y)
				placed = true
				cur.X += b.Width + 1
			} else {
				cur.X++
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

// RoadMinimization lines road buildings up, largest first, in rows starting
// one tile below the Town Hall, then places the other buildings below them.
type RoadMinimization struct {
	MaxAttempts int
}

// Name implements Strategy.
func (s *RoadMinimization) Name() string { return StrategyRoadMinimization }

// Apply implements Strategy for RoadMinimization.
func (s *RoadMinimization) Apply(ctx context.Context, p *Problem) error {
	th := p.TownHall
	road, noRoad := splitByRoad(p.Targets)
	road = byAreaDesc(road)

	cur := plan.Point{X: th.X, Y: th.Y + th.Height + 1}
	if err := s.line(p, road, &cur, maxWidth(road), maxHeight(road)); err != nil {
		return err
	}

	cur = plan.Point{X: 0, Y: max(cur.Y+2, th.Y+th.Height+3)}
	return s.line(p, noRoad, &cur, max(maxWidth(noRoad), 1), max(maxHeight(noRoad), 2))
}

// line wraps to a new row after a placement once the widest building would
// no longer fit, and steps one row down when a failed shift runs off the edge.
func (s *RoadMinimization) line(p *Problem, bs []*plan.Building, cur *plan.Point, rowWidth, rowHeight int) error {
	width := p.Layout.Grid().Width
	for _, b := range bs {
		placed := false
		for attempt := 0; attempt < s.MaxAttempts && !placed; attempt++ {
			if p.Layout.CanPlace(b, cur.X, cur.Y) {
				p.place(b, cur.X, cur.Y)
				placed = true
				cur.X += b.Width + 1
				if cur.X+rowWidth > width {
					cur.X = 0
					cur.Y += rowHeight + 1
				}
			} else {
				cur.X++
				if cur.X > width {
					cur.X = 0
					cur.Y++
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
