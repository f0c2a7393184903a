// Package session owns one live layout and exposes the operations a UI or
// CLI performs on it. Every operation either commits a valid layout (with
// roads rebuilt) or leaves the previous one untouched.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/townplan/plan"
	"github.com/inference-sim/townplan/plan/optimize"
)

// ErrBusy is returned by mutating operations while an optimization runs.
var ErrBusy = errors.New("optimization in progress")

// MaxQuantity bounds how many copies AddBuildings creates per call.
const MaxQuantity = 100

// Config configures a new session.
type Config struct {
	WidthUnits  int // expansions; 0 means plan.DefaultExpansions
	HeightUnits int
	Optimizer   optimize.Config
}

// DefaultConfig returns a 20×20 session with the stock optimizer.
func DefaultConfig() Config {
	return Config{
		WidthUnits:  plan.DefaultExpansions,
		HeightUnits: plan.DefaultExpansions,
		Optimizer:   optimize.DefaultConfig(),
	}
}

// Session is the single owner of a layout.
type Session struct {
	mu         sync.Mutex
	layout     *plan.Layout
	optimizer  optimize.Config
	optimizing bool
	cancel     context.CancelFunc
}

// New creates a session with a centred Town Hall.
func New(cfg Config) (*Session, error) {
	if cfg.WidthUnits == 0 {
		cfg.WidthUnits = plan.DefaultExpansions
	}
	if cfg.HeightUnits == 0 {
		cfg.HeightUnits = plan.DefaultExpansions
	}
	g, err := plan.NewGrid(cfg.WidthUnits, cfg.HeightUnits)
	if err != nil {
		return nil, err
	}
	if err := cfg.Optimizer.Validate(); err != nil {
		return nil, fmt.Errorf("optimizer config: %w", err)
	}
	l := plan.NewLayout(g)
	th := plan.NewTownHall(g)
	if g.Fits(th.Rect()) {
		l.Add(th)
	} else {
		logrus.Warnf("session: %d×%d grid cannot hold the town hall", g.Width, g.Height)
	}
	l.RebuildRoads()
	return &Session{layout: l, optimizer: cfg.Optimizer}, nil
}

// AddResult reports the outcome of AddBuildings.
type AddResult struct {
	Placed int
	Failed int
	IDs    []string // ids of placed buildings
}

// AddBuildings creates quantity copies of a building and auto-places each one
// next to the Town Hall. Copies that find no room are counted in Failed.
func (s *Session) AddBuildings(name string, width, height, quantity int, requiresRoad bool) (AddResult, error) {
	var res AddResult
	name = strings.TrimSpace(name)
	if err := validateBuilding(name, width, height); err != nil {
		return res, err
	}
	if quantity < 1 || quantity > MaxQuantity {
		return res, &plan.ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be between 1 and %d, got %d", MaxQuantity, quantity)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.optimizing {
		return res, ErrBusy
	}

	for i := 0; i < quantity; i++ {
		b := plan.NewBuilding(name, width, height, requiresRoad)
		if err := s.layout.AutoPlace(b); err != nil {
			res.Failed++
			continue
		}
		s.layout.Add(b)
		res.Placed++
		res.IDs = append(res.IDs, b.ID)
	}
	if res.Placed > 0 {
		s.layout.RebuildRoads()
	}
	if res.Failed > 0 {
		logrus.Warnf("session: placed %d of %d %q, no space for %d", res.Placed, quantity, name, res.Failed)
	}
	return res, nil
}

// PlaceBuildingAt drops a new building at (x, y), clamped into the grid. When
// that spot is taken the building is relocated with the centre-out search.
// Returns the new building's id.
func (s *Session) PlaceBuildingAt(name string, width, height int, requiresRoad bool, x, y int) (string, error) {
	name = strings.TrimSpace(name)
	if err := validateBuilding(name, width, height); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.optimizing {
		return "", ErrBusy
	}

	b := plan.NewBuilding(name, width, height, requiresRoad)
	p := s.layout.Grid().ClampOrigin(width, height, x, y)
	if s.layout.CanPlace(b, p.X, p.Y) {
		b.X, b.Y = p.X, p.Y
	} else if err := s.layout.Relocate(b); err != nil {
		return "", err
	}
	s.layout.Add(b)
	s.layout.RebuildRoads()
	return b.ID, nil
}

// BuildingUpdate lists the editable fields; nil fields are left unchanged.
type BuildingUpdate struct {
	Name         *string
	Width        *int
	Height       *int
	RequiresRoad *bool
}

// UpdateBuilding edits a building. If its current position becomes invalid
// it is relocated; when no position exists the edit is rolled back and
// plan.ErrPlacementFailed is returned.
func (s *Session) UpdateBuilding(id string, u BuildingUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.optimizing {
		return ErrBusy
	}

	b, ok := s.layout.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", plan.ErrBuildingNotFound, id)
	}
	if b.IsTownHall {
		return plan.ErrTownHallImmutable
	}

	next := b.Clone()
	if u.Name != nil {
		next.Name = strings.TrimSpace(*u.Name)
	}
	if u.Width != nil {
		next.Width = *u.Width
	}
	if u.Height != nil {
		next.Height = *u.Height
	}
	if u.RequiresRoad != nil {
		next.RequiresRoad = *u.RequiresRoad
		next.Color = plan.ColorFor(next.RequiresRoad)
	}
	if err := validateBuilding(next.Name, next.Width, next.Height); err != nil {
		return err
	}
	if !s.layout.CanPlace(next, next.X, next.Y) {
		if err := s.layout.Relocate(next); err != nil {
			return err
		}
		logrus.Debugf("session: relocated %q to (%d,%d) after edit", next.Name, next.X, next.Y)
	}
	*b = *next
	s.layout.RebuildRoads()
	return nil
}

// DeleteBuilding removes a building. The Town Hall cannot be deleted.
func (s *Session) DeleteBuilding(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.optimizing {
		return ErrBusy
	}

	b, ok := s.layout.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", plan.ErrBuildingNotFound, id)
	}
	if b.IsTownHall {
		return plan.ErrTownHallImmutable
	}
	s.layout.Remove(id)
	s.layout.RebuildRoads()
	return nil
}

// MoveBuilding moves a building to (x, y). Overlapping or out-of-bounds
// targets are rejected with plan.ErrPlacementRejected and nothing changes.
func (s *Session) MoveBuilding(id string, x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.optimizing {
		return ErrBusy
	}

	b, ok := s.layout.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", plan.ErrBuildingNotFound, id)
	}
	if b.IsTownHall {
		return plan.ErrTownHallImmutable
	}
	if !s.layout.CanPlace(b, x, y) {
		return fmt.Errorf("%w: %q at (%d,%d)", plan.ErrPlacementRejected, b.Name, x, y)
	}
	b.X, b.Y = x, y
	s.layout.RebuildRoads()
	return nil
}

// SetTownHallVisible shows or hides the Town Hall. A hidden Town Hall
// anchors no roads.
func (s *Session) SetTownHallVisible(visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.optimizing {
		return ErrBusy
	}

	th, ok := s.layout.TownHall()
	if !ok {
		return optimize.ErrNoTownHall
	}
	if visible && !th.Visible && !s.layout.CanPlace(th, th.X, th.Y) {
		return fmt.Errorf("%w: town hall footprint is occupied", plan.ErrPlacementRejected)
	}
	th.Visible = visible
	s.layout.RebuildRoads()
	return nil
}

// ResizeGrid changes the grid size in expansion units. Buildings that no
// longer fit are dropped, the Town Hall included.
func (s *Session) ResizeGrid(widthUnits, heightUnits int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.optimizing {
		return ErrBusy
	}

	dropped, err := s.layout.Resize(widthUnits, heightUnits)
	if err != nil {
		return err
	}
	if len(dropped) > 0 {
		logrus.Warnf("session: resize to %d×%d expansions dropped %d buildings", widthUnits, heightUnits, len(dropped))
	}
	return nil
}

func validateBuilding(name string, width, height int) error {
	if name == "" {
		return &plan.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if width < 1 || height < 1 {
		return &plan.ValidationError{Field: "dimensions", Reason: fmt.Sprintf("must be at least 1×1, got %d×%d", width, height)}
	}
	return nil
}
