package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/townplan/plan"
	"github.com/inference-sim/townplan/plan/optimize"
)

func TestRenderMap_DrawsBuildingsAndRoads(t *testing.T) {
	// GIVEN the Town Hall with one road building beside it
	l := plan.NewLayout(plan.DefaultGrid())
	l.Add(plan.NewTownHall(l.Grid()))
	l.Add(&plan.Building{ID: "h", Width: 3, Height: 3, X: 15, Y: 7, RequiresRoad: true, Visible: true})
	l.Add(&plan.Building{ID: "w", Width: 2, Height: 1, X: 0, Y: 0, Visible: true})
	l.RebuildRoads()

	// WHEN the map is rendered
	var buf bytes.Buffer
	renderMap(&buf, l)

	// THEN each row is one character per tile
	rows := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, rows, 20)
	assert.Equal(t, "bb..................", rows[0])
	assert.Equal(t, ".......TTTTTTT#BBB..", rows[7])
	assert.Equal(t, ".......TTTTTTT.BBB..", rows[8])
	assert.Equal(t, "....................", rows[19])
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer

	printStats(&buf, "Initial layout", plan.Stats{PlacedBuildings: 2, TotalBuildings: 3, RoadTiles: 5, EmptyTiles: 300, TotalTiles: 400})

	out := buf.String()
	assert.Contains(t, out, "=== Initial layout ===")
	assert.Contains(t, out, "Placed buildings : 2/3")
	assert.Contains(t, out, "Road tiles       : 5")
}

func TestPrintResult_ListsFailedCandidates(t *testing.T) {
	var buf bytes.Buffer
	res := &optimize.Result{
		Strategy:          "greedy",
		RoadTiles:         3,
		BaselineRoadTiles: 9,
		Candidates: []optimize.CandidateReport{
			{Strategy: optimize.BaselineName, RoadTiles: 9},
			{Strategy: "greedy", RoadTiles: 3, Duration: time.Millisecond},
			{Strategy: "spiral", Err: errors.New("no room")},
		},
	}

	printResult(&buf, res)

	out := buf.String()
	assert.Contains(t, out, "spiral")
	assert.Contains(t, out, "failed: no room")
	assert.Contains(t, out, "Best: greedy with 3 road tiles (was 9)")
}

// fastLayoutFile returns defaults with the evolutionary strategies scaled down.
func fastLayoutFile() LayoutFile {
	lf := defaultLayoutFile()
	lf.Optimizer.Genetic.Generations = 4
	lf.Optimizer.Genetic.Population = 4
	lf.Optimizer.Annealing.Iterations = 50
	return lf
}

func TestRunLayout_PlacementOnly(t *testing.T) {
	// GIVEN two auto-placed houses and one pinned well
	lf := fastLayoutFile()
	x, y := 0, 0
	lf.Buildings = []BuildingSpec{
		{Name: "House", Width: 3, Height: 3, Quantity: 2, RequiresRoad: true},
		{Name: "Well", Width: 1, Height: 1, X: &x, Y: &y},
	}

	// WHEN the layout runs without optimization
	var buf bytes.Buffer
	err := runLayout(context.Background(), &buf, lf, false, true)

	// THEN stats and the map are printed
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Placed buildings : 3/3")
	assert.NotContains(t, out, "=== Optimization ===")
	assert.Contains(t, out, "b...................")
}

func TestRunLayout_Optimizes(t *testing.T) {
	lf := fastLayoutFile()
	x, y := 0, 0
	lf.Buildings = []BuildingSpec{{Name: "House", Width: 3, Height: 3, RequiresRoad: true, X: &x, Y: &y}}

	var buf bytes.Buffer
	err := runLayout(context.Background(), &buf, lf, true, false)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "=== Optimization ===")
	assert.Contains(t, out, "(was 9)")
	assert.Contains(t, out, "=== Optimized layout ===")
}

func TestRunLayout_NothingToOptimize(t *testing.T) {
	var buf bytes.Buffer

	err := runLayout(context.Background(), &buf, fastLayoutFile(), true, false)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No buildings to optimize")
}

func TestRunLayout_CancelledKeepsPlacement(t *testing.T) {
	lf := fastLayoutFile()
	lf.Buildings = []BuildingSpec{{Name: "House", Width: 3, Height: 3, RequiresRoad: true}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := runLayout(ctx, &buf, lf, true, false)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Optimization cancelled")
}

func TestRunLayout_InvalidGrid(t *testing.T) {
	lf := fastLayoutFile()
	lf.Grid.Width = 0
	lf.Grid.Height = 16

	err := runLayout(context.Background(), &bytes.Buffer{}, lf, false, false)

	assert.True(t, plan.IsValidationError(err))
}
