package optimize

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/townplan/plan"
)

// randomAttempts bounds the random draws spent on one building before the
// deterministic search takes over.
const randomAttempts = 1000

// individual is a complete candidate layout and its road count.
type individual struct {
	layout  *plan.Layout
	fitness int
}

// fitness rebuilds l's roads and returns their count; lower is better.
func fitness(l *plan.Layout) int {
	l.RebuildRoads()
	return l.RoadCount()
}

// randomLayout places every target at a uniformly random free position,
// falling back to AutoPlace when random draws keep colliding.
func randomLayout(p *Problem) (*plan.Layout, error) {
	l := p.Layout.Clone()
	for _, t := range p.Targets {
		b := t.Clone()
		if !placeRandomly(p, l, b) {
			if err := l.AutoPlace(b); err != nil {
				return nil, fmt.Errorf("placing %q: %w", b.Name, err)
			}
		}
		l.Add(b)
	}
	return l, nil
}

// placeRandomly sets b to a random free position in l. b is not added.
func placeRandomly(p *Problem, l *plan.Layout, b *plan.Building) bool {
	g := l.Grid()
	if b.Width > g.Width || b.Height > g.Height {
		return false
	}
	for attempt := 0; attempt < randomAttempts; attempt++ {
		x := p.RNG.Intn(g.Width - b.Width + 1)
		y := p.RNG.Intn(g.Height - b.Height + 1)
		if l.CanPlace(b, x, y) {
			b.X, b.Y = x, y
			return true
		}
	}
	return false
}

// shift returns a uniform offset in [-n, n].
func shift(p *Problem, n int) int {
	return p.RNG.Intn(2*n+1) - n
}

// Genetic evolves a population of random layouts. Each generation keeps the
// fittest half, breeds the rest from uniformly chosen survivors by
// per-building crossover, and mutates children by small random moves.
// Children are built collision-free, so every individual is a valid layout.
type Genetic struct {
	Config GeneticConfig
}

// Name implements Strategy.
func (s *Genetic) Name() string { return StrategyGenetic }

// Apply implements Strategy for Genetic. On cancellation it stops between
// generations and keeps the best individual found so far.
func (s *Genetic) Apply(ctx context.Context, p *Problem) error {
	size := s.Config.Population
	population := make([]individual, 0, size)
	for i := 0; i < size; i++ {
		l, err := randomLayout(p)
		if err != nil {
			return err
		}
		population = append(population, individual{layout: l, fitness: fitness(l)})
	}

	gen := 0
	for ; gen < s.Config.Generations; gen++ {
		if ctx.Err() != nil {
			logrus.Debugf("genetic: cancelled after %d generations", gen)
			break
		}
		sortByFitness(population)
		survivors := population[:max(size/2, 1)]

		next := append(make([]individual, 0, size), survivors...)
		for len(next) < size {
			a := survivors[p.RNG.Intn(len(survivors))]
			b := survivors[p.RNG.Intn(len(survivors))]
			child, err := s.crossover(p, a.layout, b.layout)
			if err != nil {
				return err
			}
			s.mutate(p, child)
			next = append(next, individual{layout: child, fitness: fitness(child)})
		}
		population = next
	}

	sortByFitness(population)
	logrus.Debugf("genetic: best fitness %d after %d generations", population[0].fitness, gen)
	p.Layout = population[0].layout
	return nil
}

// crossover builds a child taking each building's position from a randomly
// chosen parent, trying the other parent and then a fresh random position
// when that spot is already taken in the child.
func (s *Genetic) crossover(p *Problem, a, b *plan.Layout) (*plan.Layout, error) {
	child := p.Layout.Clone()
	for _, t := range p.Targets {
		nb := t.Clone()
		first, second := a, b
		if p.RNG.Float64() >= 0.5 {
			first, second = b, a
		}
		if !inherit(child, nb, first) && !inherit(child, nb, second) && !placeRandomly(p, child, nb) {
			if err := child.AutoPlace(nb); err != nil {
				return nil, fmt.Errorf("placing %q: %w", nb.Name, err)
			}
		}
		child.Add(nb)
	}
	return child, nil
}

// inherit copies nb's coordinates from parent if they are free in child.
func inherit(child *plan.Layout, nb *plan.Building, parent *plan.Layout) bool {
	pb, ok := parent.Find(nb.ID)
	if !ok || !child.CanPlace(nb, pb.X, pb.Y) {
		return false
	}
	nb.X, nb.Y = pb.X, pb.Y
	return true
}

// mutate moves each target with probability MutationRate by up to MaxShift
// tiles per axis, clamped to the grid. Moves that would collide are skipped.
func (s *Genetic) mutate(p *Problem, l *plan.Layout) {
	g := l.Grid()
	for _, t := range p.Targets {
		if p.RNG.Float64() >= s.Config.MutationRate {
			continue
		}
		b, ok := l.Find(t.ID)
		if !ok {
			continue
		}
		dx, dy := shift(p, s.Config.MaxShift), shift(p, s.Config.MaxShift)
		np := g.ClampOrigin(b.Width, b.Height, b.X+dx, b.Y+dy)
		if l.CanPlace(b, np.X, np.Y) {
			b.X, b.Y = np.X, np.Y
		}
	}
}

func sortByFitness(pop []individual) {
	sort.SliceStable(pop, func(i, j int) bool {
		return pop[i].fitness < pop[j].fitness
	})
}

// Annealing starts from one random layout and repeatedly nudges a single
// building. Equal or better neighbours are always accepted; worse ones with
// probability exp(-Δ/T), where T decays geometrically.
type Annealing struct {
	Config AnnealingConfig
}

// Name implements Strategy.
func (s *Annealing) Name() string { return StrategyAnnealing }

// Apply implements Strategy for Annealing. The best layout seen is kept,
// including when ctx is cancelled mid-run.
func (s *Annealing) Apply(ctx context.Context, p *Problem) error {
	current, err := randomLayout(p)
	if err != nil {
		return err
	}
	currentFit := fitness(current)
	best, bestFit := current, currentFit
	g := current.Grid()
	temperature := s.Config.InitialTemperature

	for i := 0; i < s.Config.Iterations && len(p.Targets) > 0; i++ {
		if ctx.Err() != nil {
			logrus.Debugf("annealing: cancelled after %d iterations", i)
			break
		}
		neighbor := current.Clone()
		b, _ := neighbor.Find(p.Targets[p.RNG.Intn(len(p.Targets))].ID)
		dx, dy := shift(p, s.Config.MaxShift), shift(p, s.Config.MaxShift)
		np := g.ClampOrigin(b.Width, b.Height, b.X+dx, b.Y+dy)

		if neighbor.CanPlace(b, np.X, np.Y) {
			b.X, b.Y = np.X, np.Y
			nf := fitness(neighbor)
			delta := float64(nf - currentFit)
			if delta <= 0 || p.RNG.Float64() < math.Exp(-delta/temperature) {
				current, currentFit = neighbor, nf
				if currentFit < bestFit {
					best, bestFit = current, currentFit
				}
			}
		}
		temperature *= s.Config.CoolingRate
	}

	logrus.Debugf("annealing: best fitness %d", bestFit)
	p.Layout = best
	return nil
}
