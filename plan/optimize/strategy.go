package optimize

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/inference-sim/townplan/plan"
)

// Strategy names.
const (
	StrategyCluster          = "cluster"
	StrategyRoadMinimization = "road-minimization"
	StrategyDensity          = "density"
	StrategyGenetic          = "genetic"
	StrategyAnnealing        = "annealing"
	StrategyGreedy           = "greedy"
	StrategySpanningTree     = "spanning-tree"
	StrategySpiral           = "spiral"
)

// DefaultStrategies is the default run order.
var DefaultStrategies = []string{
	StrategyCluster,
	StrategyRoadMinimization,
	StrategyDensity,
	StrategyGenetic,
	StrategyAnnealing,
	StrategyGreedy,
	StrategySpanningTree,
	StrategySpiral,
}

// ValidStrategies is the set of recognized strategy names.
// Shared by Config.Validate() and NewStrategy() to avoid duplication.
var ValidStrategies = map[string]bool{
	StrategyCluster:          true,
	StrategyRoadMinimization: true,
	StrategyDensity:          true,
	StrategyGenetic:          true,
	StrategyAnnealing:        true,
	StrategyGreedy:           true,
	StrategySpanningTree:     true,
	StrategySpiral:           true,
}

// Strategy places the problem's target buildings into its layout.
// Implementations own the Problem exclusively and may replace p.Layout.
// Long-running implementations poll ctx and return their best-so-far.
type Strategy interface {
	Name() string
	Apply(ctx context.Context, p *Problem) error
}

// Problem is one strategy's private working copy.
type Problem struct {
	Layout   *plan.Layout     // Town Hall and untouched buildings; targets removed
	Targets  []*plan.Building // buildings to place, in original registry order
	TownHall *plan.Building
	RNG      *rand.Rand
}

// NewProblem clones base, detaches the buildings named by targetIDs and
// returns them as Targets in registry order.
func NewProblem(base *plan.Layout, targetIDs []string, rng *rand.Rand) (*Problem, error) {
	l := base.Clone()
	th, ok := l.TownHall()
	if !ok {
		return nil, ErrNoTownHall
	}
	want := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		want[id] = true
	}
	var targets []*plan.Building
	l.Each(func(b *plan.Building) {
		if want[b.ID] && !b.IsTownHall {
			targets = append(targets, b)
		}
	})
	if len(targets) != len(want) {
		return nil, fmt.Errorf("%w: %d of %d targets found", ErrMissingBuilding, len(targets), len(want))
	}
	for _, b := range targets {
		l.Remove(b.ID)
	}
	return &Problem{Layout: l, Targets: targets, TownHall: th, RNG: rng}, nil
}

// place commits b at (x, y).
func (p *Problem) place(b *plan.Building, x, y int) {
	b.X, b.Y = x, y
	p.Layout.Add(b)
}

// relocate places b with the centre-out search, failing the strategy when the
// grid has no room.
func (p *Problem) relocate(b *plan.Building) error {
	if err := p.Layout.Relocate(b); err != nil {
		return fmt.Errorf("placing %q: %w", b.Name, err)
	}
	p.Layout.Add(b)
	return nil
}

// NewStrategy creates a strategy by name. Panics on unknown names.
func NewStrategy(name string, cfg Config) Strategy {
	if !ValidStrategies[name] {
		panic(fmt.Sprintf("unknown strategy %q", name))
	}
	switch name {
	case StrategyCluster:
		return &Cluster{MaxAttempts: cfg.MaxRowAttempts}
	case StrategyRoadMinimization:
		return &RoadMinimization{MaxAttempts: cfg.MaxRowAttempts}
	case StrategyDensity:
		return &Density{}
	case StrategyGenetic:
		return &Genetic{Config: cfg.Genetic}
	case StrategyAnnealing:
		return &Annealing{Config: cfg.Annealing}
	case StrategyGreedy:
		return &Greedy{}
	case StrategySpanningTree:
		return &SpanningTree{}
	case StrategySpiral:
		return &Spiral{}
	default:
		panic(fmt.Sprintf("unhandled strategy %q", name))
	}
}

// splitByRoad partitions bs, keeping relative order.
func splitByRoad(bs []*plan.Building) (road, noRoad []*plan.Building) {
	for _, b := range bs {
		if b.RequiresRoad {
			road = append(road, b)
		} else {
			noRoad = append(noRoad, b)
		}
	}
	return road, noRoad
}

// byAreaDesc returns a copy of bs sorted by descending area; equal areas keep
// their order.
func byAreaDesc(bs []*plan.Building) []*plan.Building {
	out := append([]*plan.Building(nil), bs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Area() > out[j].Area()
	})
	return out
}

// byPriority returns a copy of bs with road-requiring buildings first, then
// by descending area.
func byPriority(bs []*plan.Building) []*plan.Building {
	out := append([]*plan.Building(nil), bs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RequiresRoad != out[j].RequiresRoad {
			return out[i].RequiresRoad
		}
		return out[i].Area() > out[j].Area()
	})
	return out
}

func maxHeight(bs []*plan.Building) int {
	m := 0
	for _, b := range bs {
		m = max(m, b.Height)
	}
	return m
}

func maxWidth(bs []*plan.Building) int {
	m := 0
	for _, b := range bs {
		m = max(m, b.Width)
	}
	return m
}
