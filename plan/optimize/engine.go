// Package optimize searches building placements that minimise road tiles.
//
// An Engine runs a list of Strategy implementations in batches of
// Config.Parallelism goroutines. Every strategy works on its own deep copy of
// the layout and its own seeded RNG, so strategies never observe each other
// and a run is reproducible for a given seed. Each candidate is scored by the
// road-tile count after a full RebuildRoads; the lowest score wins and ties
// keep the earliest candidate.
package optimize

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/townplan/plan"
)

var (
	// ErrNothingToOptimize is returned when there are no target buildings.
	ErrNothingToOptimize = errors.New("nothing to optimize")

	// ErrNoTownHall is returned when the layout has no Town Hall to anchor to.
	ErrNoTownHall = errors.New("layout has no town hall")

	// ErrCancelled is returned when the context is cancelled mid-run.
	ErrCancelled = errors.New("optimization cancelled")

	// ErrAllStrategiesFailed is returned when no candidate could be scored.
	ErrAllStrategiesFailed = errors.New("all optimization strategies failed")

	// ErrStrategyPanic marks a candidate whose strategy panicked.
	ErrStrategyPanic = errors.New("strategy panicked")

	// ErrMissingBuilding marks a candidate that lost one of its buildings.
	ErrMissingBuilding = errors.New("candidate is missing a building")
)

// BaselineName labels the unmodified layout in candidate reports.
const BaselineName = "baseline"

// CandidateReport describes one evaluated candidate.
type CandidateReport struct {
	Strategy  string
	RoadTiles int   // valid only when Err is nil
	Err       error // non-nil when the candidate was discarded
	Duration  time.Duration
}

// Failed reports whether the candidate was discarded.
func (c CandidateReport) Failed() bool {
	return c.Err != nil
}

// Result is the outcome of a successful run.
type Result struct {
	Layout            *plan.Layout // winning layout, roads rebuilt
	Strategy          string       // winner's name (BaselineName when nothing beat it)
	RoadTiles         int
	BaselineRoadTiles int // road count of the input layout
	Candidates        []CandidateReport
	Duration          time.Duration
}

// Engine runs strategies against copies of a layout and picks the best.
type Engine struct {
	cfg        Config
	strategies []Strategy
}

// NewEngine builds the strategies named in cfg.Strategies.
// Panics on unknown names; call cfg.Validate() first for untrusted input.
func NewEngine(cfg Config) *Engine {
	strategies := make([]Strategy, 0, len(cfg.Strategies))
	for _, name := range cfg.Strategies {
		strategies = append(strategies, NewStrategy(name, cfg))
	}
	return NewEngineWithStrategies(cfg, strategies...)
}

// NewEngineWithStrategies uses the given strategies instead of cfg.Strategies.
// Names key the per-strategy RNG streams, so it panics on duplicate names.
func NewEngineWithStrategies(cfg Config, strategies ...Strategy) *Engine {
	seen := make(map[string]bool, len(strategies))
	for _, s := range strategies {
		if seen[s.Name()] {
			panic(fmt.Sprintf("duplicate strategy %q", s.Name()))
		}
		seen[s.Name()] = true
	}
	return &Engine{cfg: cfg, strategies: strategies}
}

// Strategies returns the strategy names in run order.
func (e *Engine) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

type candidate struct {
	report CandidateReport
	layout *plan.Layout
}

// Run optimises the buildings named by targetIDs. base is only read, never
// modified, and may be shared by the worker goroutines; callers must not
// mutate it until Run returns. Cancellation is observed between batches and
// inside the long-running strategies; a cancelled run returns ErrCancelled
// and no layout.
func (e *Engine) Run(ctx context.Context, base *plan.Layout, targetIDs []string) (*Result, error) {
	start := time.Now()
	if len(targetIDs) == 0 {
		return nil, ErrNothingToOptimize
	}
	if _, ok := base.TownHall(); !ok {
		return nil, ErrNoTownHall
	}

	baseline := base.Clone()
	baseline.RebuildRoads()
	result := &Result{BaselineRoadTiles: baseline.RoadCount()}

	var candidates []candidate
	if e.cfg.IncludeBaseline {
		candidates = append(candidates, candidate{
			report: CandidateReport{Strategy: BaselineName, RoadTiles: baseline.RoadCount()},
			layout: baseline,
		})
	}

	logrus.Infof("optimize: %d buildings, %d strategies, parallelism %d, baseline %d road tiles",
		len(targetIDs), len(e.strategies), e.cfg.Parallelism, result.BaselineRoadTiles)

	rngs := plan.NewPartitionedRNG(plan.NewSeedKey(e.cfg.Seed))
	batchSize := max(1, min(e.cfg.Parallelism, len(e.strategies)))
	batches := (len(e.strategies) + batchSize - 1) / batchSize

	for i := 0; i < len(e.strategies); i += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		batch := e.strategies[i:min(i+batchSize, len(e.strategies))]
		out := make([]candidate, len(batch))

		var g errgroup.Group
		for j, s := range batch {
			j, s := j, s
			rng := rngs.For(s.Name())
			g.Go(func() error {
				out[j] = evaluate(ctx, s, base, targetIDs, rng)
				return ctx.Err()
			})
		}
		// Strategy failures live in the reports; Wait only surfaces cancellation.
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		for _, c := range out {
			if c.report.Failed() {
				logrus.Warnf("optimize: strategy %s failed: %v", c.report.Strategy, c.report.Err)
			} else {
				logrus.Debugf("optimize: strategy %s scored %d road tiles in %v",
					c.report.Strategy, c.report.RoadTiles, c.report.Duration)
			}
		}
		candidates = append(candidates, out...)
		logrus.Infof("optimize: progress %d%%", (i/batchSize+1)*100/batches)
	}

	var best *candidate
	for i := range candidates {
		c := &candidates[i]
		result.Candidates = append(result.Candidates, c.report)
		if c.report.Failed() {
			continue
		}
		if best == nil || c.report.RoadTiles < best.report.RoadTiles {
			best = c
		}
	}
	if best == nil {
		return nil, ErrAllStrategiesFailed
	}

	result.Layout = best.layout
	result.Strategy = best.report.Strategy
	result.RoadTiles = best.report.RoadTiles
	result.Duration = time.Since(start)
	logrus.Infof("optimize: %s wins with %d road tiles (was %d)", result.Strategy, result.RoadTiles, result.BaselineRoadTiles)
	return result, nil
}

// evaluate runs one strategy on a private copy of base and scores it.
// Panics and invalid layouts become failed reports.
func evaluate(ctx context.Context, s Strategy, base *plan.Layout, targetIDs []string, rng *rand.Rand) (c candidate) {
	start := time.Now()
	c.report.Strategy = s.Name()
	defer func() {
		if r := recover(); r != nil {
			c = candidate{report: CandidateReport{Strategy: s.Name(), Err: fmt.Errorf("%w: %v", ErrStrategyPanic, r)}}
		}
		c.report.Duration = time.Since(start)
	}()

	p, err := NewProblem(base, targetIDs, rng)
	if err != nil {
		c.report.Err = err
		return c
	}
	if err := s.Apply(ctx, p); err != nil {
		c.report.Err = err
		return c
	}
	if err := checkCandidate(p.Layout, targetIDs); err != nil {
		c.report.Err = err
		return c
	}
	p.Layout.RebuildRoads()
	c.layout = p.Layout
	c.report.RoadTiles = p.Layout.RoadCount()
	return c
}

// checkCandidate enforces the layout invariants and that every target
// building survived.
func checkCandidate(l *plan.Layout, targetIDs []string) error {
	if err := l.Validate(); err != nil {
		return err
	}
	for _, id := range targetIDs {
		if _, ok := l.Find(id); !ok {
			return fmt.Errorf("%w: %s", ErrMissingBuilding, id)
		}
	}
	return nil
}
