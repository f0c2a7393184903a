package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/townplan/plan"
	"github.com/inference-sim/townplan/plan/optimize"
)

// GridSpec is the grid size in expansion units.
type GridSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TownHallSpec controls the Town Hall.
type TownHallSpec struct {
	Visible *bool `yaml:"visible"` // nil keeps the default (visible)
}

// BuildingSpec describes one building entry. X and Y, when both set, place a
// single copy at that spot (relocating if taken); otherwise Quantity copies
// are auto-placed.
type BuildingSpec struct {
	Name         string `yaml:"name"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Quantity     int    `yaml:"quantity"`
	RequiresRoad bool   `yaml:"requires_road"`
	X            *int   `yaml:"x"`
	Y            *int   `yaml:"y"`
}

// LayoutFile represents the full layout YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type LayoutFile struct {
	Grid      GridSpec        `yaml:"grid"`
	TownHall  TownHallSpec    `yaml:"town_hall"`
	Optimizer optimize.Config `yaml:"optimizer"`
	Buildings []BuildingSpec  `yaml:"buildings"`
}

// defaultLayoutFile is what an empty file decodes to.
func defaultLayoutFile() LayoutFile {
	return LayoutFile{
		Grid:      GridSpec{Width: plan.DefaultExpansions, Height: plan.DefaultExpansions},
		Optimizer: optimize.DefaultConfig(),
	}
}

// loadLayoutFile parses a layout YAML file over the defaults.
// Uses strict field checking: typos must cause errors.
func loadLayoutFile(path string) (LayoutFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LayoutFile{}, fmt.Errorf("reading layout file: %w", err)
	}
	return parseLayoutFile(data)
}

func parseLayoutFile(data []byte) (LayoutFile, error) {
	lf := defaultLayoutFile()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&lf); err != nil && !errors.Is(err, io.EOF) {
		return lf, fmt.Errorf("parsing layout file: %w", err)
	}
	if err := lf.Validate(); err != nil {
		return lf, err
	}
	return lf, nil
}

// Validate checks the building entries and the optimizer section. Grid
// ranges are checked when the session is created.
func (lf LayoutFile) Validate() error {
	for i, b := range lf.Buildings {
		if b.Name == "" {
			return fmt.Errorf("buildings[%d]: name is required", i)
		}
		if b.Width < 1 || b.Height < 1 {
			return fmt.Errorf("buildings[%d] %q: dimensions must be at least 1×1, got %d×%d", i, b.Name, b.Width, b.Height)
		}
		if (b.X == nil) != (b.Y == nil) {
			return fmt.Errorf("buildings[%d] %q: x and y must be given together", i, b.Name)
		}
		if b.X != nil && b.Quantity > 1 {
			return fmt.Errorf("buildings[%d] %q: explicit x/y places a single building, got quantity %d", i, b.Name, b.Quantity)
		}
	}
	if err := lf.Optimizer.Validate(); err != nil {
		return fmt.Errorf("optimizer: %w", err)
	}
	return nil
}
