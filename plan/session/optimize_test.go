package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/townplan/plan"
	"github.com/inference-sim/townplan/plan/internal/testutil"
	"github.com/inference-sim/townplan/plan/optimize"
)

func TestOptimize_NothingToOptimize(t *testing.T) {
	s := newSession(t)

	_, err := s.Optimize(context.Background(), 0)

	assert.True(t, errors.Is(err, optimize.ErrNothingToOptimize))
	assert.False(t, s.Optimizing())
}

func TestOptimize_CommitsImprovedLayout(t *testing.T) {
	// GIVEN buildings placed far from the Town Hall
	s := newSession(t)
	for _, at := range [][2]int{{0, 0}, {17, 0}, {0, 17}, {17, 17}} {
		_, err := s.PlaceBuildingAt("House", 3, 3, true, at[0], at[1])
		require.NoError(t, err)
	}
	_, err := s.PlaceBuildingAt("Well", 2, 2, false, 0, 10)
	require.NoError(t, err)
	before := s.Stats()
	ids := map[string]bool{}
	for _, b := range s.Buildings() {
		ids[b.ID] = true
	}

	// WHEN the layout is optimized
	res, err := s.Optimize(context.Background(), 2)

	// THEN the committed layout has no more roads, keeps every building and is valid
	require.NoError(t, err)
	assert.Equal(t, before.RoadTiles, res.BaselineRoadTiles)
	assert.LessOrEqual(t, s.Stats().RoadTiles, before.RoadTiles)
	assert.Equal(t, res.RoadTiles, s.Stats().RoadTiles)
	after := s.Buildings()
	assert.Len(t, after, len(ids))
	for _, b := range after {
		assert.True(t, ids[b.ID], "unexpected building %s", b.ID)
	}
	testutil.AssertLayoutValid(t, s.Snapshot())
	assert.False(t, s.Optimizing())
}

func TestOptimize_CancelledRestoresSnapshot(t *testing.T) {
	// GIVEN a populated session and an already-cancelled context
	s := newSession(t)
	_, err := s.AddBuildings("House", 3, 3, 3, true)
	require.NoError(t, err)
	before := s.Snapshot()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN optimization is requested
	res, err := s.Optimize(ctx, 0)

	// THEN it reports cancellation and the layout, roads included, is unchanged
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, optimize.ErrCancelled))
	assert.True(t, s.Snapshot().Equal(before))
	assert.False(t, s.Optimizing())

	// AND the session accepts edits again
	_, err = s.AddBuildings("Shed", 1, 1, 1, false)
	assert.NoError(t, err)
}

func TestCancelOptimize_IdleIsNoop(t *testing.T) {
	s := newSession(t)
	s.CancelOptimize()
	assert.False(t, s.Optimizing())
}

func TestCancelOptimize_StopsRunningOptimization(t *testing.T) {
	// GIVEN a 40×40 session with a dozen road buildings and an annealing run
	// far too long to finish on its own
	cfg := DefaultConfig()
	cfg.WidthUnits, cfg.HeightUnits = 10, 10
	cfg.Optimizer.Parallelism = 1
	cfg.Optimizer.Strategies = []string{optimize.StrategyAnnealing}
	cfg.Optimizer.Annealing.Iterations = 100_000_000
	s, err := New(cfg)
	require.NoError(t, err)
	res, err := s.AddBuildings("House", 3, 3, 12, true)
	require.NoError(t, err)
	require.Equal(t, 12, res.Placed)
	before := s.Snapshot()

	type outcome struct {
		res *optimize.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := s.Optimize(context.Background(), 0)
		done <- outcome{r, err}
	}()
	require.Eventually(t, s.Optimizing, 5*time.Second, time.Millisecond)

	// WHEN the optimization is cancelled through the session
	s.CancelOptimize()

	// THEN Optimize returns ErrCancelled and the pre-optimization layout is back
	var got outcome
	select {
	case got = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Optimize did not return after CancelOptimize")
	}
	assert.Nil(t, got.res)
	assert.True(t, errors.Is(got.err, optimize.ErrCancelled), "got %v", got.err)
	assert.True(t, s.Snapshot().Equal(before))
	assert.False(t, s.Optimizing())

	// AND edits are accepted again
	_, err = s.PlaceBuildingAt("Shed", 1, 1, false, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, plan.Grid{Width: 40, Height: 40}, s.Grid())
}
