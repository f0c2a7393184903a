package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/inference-sim/townplan/plan"
	"github.com/inference-sim/townplan/plan/optimize"
)

// Map legend.
const (
	glyphEmpty    = '.'
	glyphRoad     = '#'
	glyphTownHall = 'T'
	glyphRoadBldg = 'B' // building that needs a road
	glyphPlainBld = 'b'
)

// printStats writes the statistics block.
func printStats(w io.Writer, title string, s plan.Stats) {
	fmt.Fprintf(w, "=== %s ===\n", title)
	fmt.Fprintf(w, "Placed buildings : %d/%d\n", s.PlacedBuildings, s.TotalBuildings)
	fmt.Fprintf(w, "Road tiles       : %d\n", s.RoadTiles)
	fmt.Fprintf(w, "Empty tiles      : %d\n", s.EmptyTiles)
	fmt.Fprintf(w, "Total tiles      : %d\n", s.TotalTiles)
}

// printResult writes the per-strategy scores and the winner.
func printResult(w io.Writer, res *optimize.Result) {
	fmt.Fprintln(w, "=== Optimization ===")
	for _, c := range res.Candidates {
		if c.Failed() {
			fmt.Fprintf(w, "  %-18s failed: %v\n", c.Strategy, c.Err)
			continue
		}
		fmt.Fprintf(w, "  %-18s %4d road tiles  (%v)\n", c.Strategy, c.RoadTiles, c.Duration.Round(time.Microsecond))
	}
	fmt.Fprintf(w, "Best: %s with %d road tiles (was %d)\n", res.Strategy, res.RoadTiles, res.BaselineRoadTiles)
}

// renderMap draws the layout top-down, one character per tile.
func renderMap(w io.Writer, l *plan.Layout) {
	g := l.Grid()
	rows := make([][]byte, g.Height)
	for y := range rows {
		rows[y] = []byte(strings.Repeat(string(glyphEmpty), g.Width))
	}
	for _, p := range l.Roads() {
		rows[p.Y][p.X] = glyphRoad
	}
	l.Each(func(b *plan.Building) {
		if !b.Visible {
			return
		}
		glyph := byte(glyphPlainBld)
		switch {
		case b.IsTownHall:
			glyph = glyphTownHall
		case b.RequiresRoad:
			glyph = glyphRoadBldg
		}
		for y := b.Y; y < b.Y+b.Height; y++ {
			for x := b.X; x < b.X+b.Width; x++ {
				if g.Contains(plan.Point{X: x, Y: y}) {
					rows[y][x] = glyph
				}
			}
		}
	})
	for _, row := range rows {
		fmt.Fprintln(w, string(row))
	}
}
