package session

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/townplan/plan"
	"github.com/inference-sim/townplan/plan/optimize"
)

// Optimize searches for a layout with fewer road tiles and commits the best
// one found. parallelism <= 0 uses the configured default.
//
// The live layout is snapshotted first. On cancellation (ctx or
// CancelOptimize) or failure the snapshot is reinstated unchanged, roads
// included, and the error is returned.
func (s *Session) Optimize(ctx context.Context, parallelism int) (*optimize.Result, error) {
	s.mu.Lock()
	if s.optimizing {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	var targets []string
	s.layout.Each(func(b *plan.Building) {
		if !b.IsTownHall {
			targets = append(targets, b.ID)
		}
	})
	if len(targets) == 0 {
		s.mu.Unlock()
		return nil, optimize.ErrNothingToOptimize
	}
	snapshot := s.layout.Clone()
	ctx, cancel := context.WithCancel(ctx)
	s.optimizing = true
	s.cancel = cancel
	cfg := s.optimizer
	s.mu.Unlock()

	if parallelism > 0 {
		cfg.Parallelism = parallelism
	}
	// The engine only reads its input; handing it a private copy keeps the
	// snapshot pristine for rollback.
	res, err := optimize.NewEngine(cfg).Run(ctx, snapshot.Clone(), targets)

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel()
	s.optimizing = false
	s.cancel = nil

	if err != nil {
		s.layout = snapshot
		logrus.Infof("session: optimization aborted, layout restored: %v", err)
		return nil, err
	}
	s.layout = res.Layout
	s.layout.RebuildRoads()
	return res, nil
}

// CancelOptimize asks a running Optimize to stop. It is a no-op when idle.
func (s *Session) CancelOptimize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Optimizing reports whether an optimization is running.
func (s *Session) Optimizing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.optimizing
}

// Buildings returns copies of all buildings in registry order.
func (s *Session) Buildings() []plan.Building {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Buildings()
}

// Roads returns the road tiles.
func (s *Session) Roads() []plan.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Roads()
}

// HasRoad reports whether (x, y) is a road tile.
func (s *Session) HasRoad(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.HasRoad(x, y)
}

// Grid returns the grid dimensions.
func (s *Session) Grid() plan.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Grid()
}

// BuildingAt returns a copy of the visible building covering (x, y).
func (s *Session) BuildingAt(x, y int) (plan.Building, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.layout.BuildingAt(x, y)
	if !ok {
		return plan.Building{}, false
	}
	return *b, true
}

// Stats returns the current layout statistics.
func (s *Session) Stats() plan.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Stats()
}

// Snapshot returns a deep copy of the committed layout.
func (s *Session) Snapshot() *plan.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Clone()
}
