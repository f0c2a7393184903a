// Package testutil provides shared test infrastructure for the layout engine.
// It consolidates fixture builders and invariant assertions used across the
// plan/optimize and plan/session test packages.
package testutil

import (
	"fmt"
	"testing"

	"github.com/inference-sim/townplan/plan"
)

// NewLayout returns a layout on a widthUnits×heightUnits grid with a
// centred, visible Town Hall registered first.
func NewLayout(t testing.TB, widthUnits, heightUnits int) *plan.Layout {
	t.Helper()
	g, err := plan.NewGrid(widthUnits, heightUnits)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d): %v", widthUnits, heightUnits, err)
	}
	l := plan.NewLayout(g)
	l.Add(plan.NewTownHall(g))
	return l
}

// AddAt registers a building at (x, y) without placement checks and returns it.
// IDs are deterministic ("<name>-<n>") so that failures are readable.
func AddAt(l *plan.Layout, name string, w, h, x, y int, requiresRoad bool) *plan.Building {
	b := &plan.Building{
		ID:           fmt.Sprintf("%s-%d", name, l.Len()),
		Name:         name,
		Width:        w,
		Height:       h,
		X:            x,
		Y:            y,
		RequiresRoad: requiresRoad,
		Visible:      true,
		Color:        plan.ColorFor(requiresRoad),
	}
	l.Add(b)
	return b
}

// TargetIDs returns the ids of every non-Town-Hall building in registry order.
func TargetIDs(l *plan.Layout) []string {
	var ids []string
	l.Each(func(b *plan.Building) {
		if !b.IsTownHall {
			ids = append(ids, b.ID)
		}
	})
	return ids
}

// AssertLayoutValid fails the test when buildings overlap, leave the grid,
// or a road tile lies inside a visible building.
func AssertLayoutValid(t testing.TB, l *plan.Layout) {
	t.Helper()
	if err := l.Validate(); err != nil {
		t.Errorf("layout invalid: %v", err)
	}
	AssertRoadsClear(t, l)
}

// AssertRoadsClear fails the test when a road tile is inside a visible building.
func AssertRoadsClear(t testing.TB, l *plan.Layout) {
	t.Helper()
	for _, p := range l.Roads() {
		if b, ok := l.BuildingAt(p.X, p.Y); ok {
			t.Errorf("road tile %v lies inside %s", p, b.ID)
		}
	}
}

// Connected reports whether a 4-adjacent chain of road tiles links one of
// b's connection points to one of the Town Hall's connection points.
func Connected(l *plan.Layout, b *plan.Building) bool {
	th, ok := l.VisibleTownHall()
	if !ok {
		return false
	}
	g := l.Grid()
	goal := make(map[plan.Point]bool)
	for _, p := range plan.ConnectionPoints(th, g) {
		goal[p] = true
	}

	seen := make(map[plan.Point]bool)
	var queue []plan.Point
	for _, p := range plan.ConnectionPoints(b, g) {
		if l.HasRoad(p.X, p.Y) && !seen[p] {
			seen[p] = true
			queue = append(queue, p)
		}
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if goal[p] {
			return true
		}
		for _, n := range []plan.Point{{X: p.X - 1, Y: p.Y}, {X: p.X + 1, Y: p.Y}, {X: p.X, Y: p.Y - 1}, {X: p.X, Y: p.Y + 1}} {
			if !seen[n] && l.HasRoad(n.X, n.Y) {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}
