package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/townplan/plan"
	"github.com/inference-sim/townplan/plan/optimize"
	"github.com/inference-sim/townplan/plan/session"
)

var (
	// CLI flags for the run command
	layoutPath  string   // Layout YAML file
	logLevel    string   // Log verbosity level
	gridWidth   int      // Grid width in expansions
	gridHeight  int      // Grid height in expansions
	parallelism int      // Strategies per batch
	seed        int64    // Seed for randomized strategies
	strategies  []string // Strategy subset, in run order
	noOptimize  bool     // Only place buildings and lay roads
	showMap     bool     // Print the text map
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "townplan",
	Short: "Building placement and road minimization around a Town Hall",
}

// runCmd places the buildings from a layout file and optimizes them
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Place buildings, lay roads and optimize the layout",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		lf := defaultLayoutFile()
		if layoutPath != "" {
			lf, err = loadLayoutFile(layoutPath)
			if err != nil {
				logrus.Fatalf("Failed to load layout: %v", err)
			}
		}

		// Flags override the file only when given explicitly.
		flags := cmd.Flags()
		if flags.Changed("grid-width") {
			lf.Grid.Width = gridWidth
		}
		if flags.Changed("grid-height") {
			lf.Grid.Height = gridHeight
		}
		if flags.Changed("parallel") {
			lf.Optimizer.Parallelism = parallelism
		}
		if flags.Changed("seed") {
			lf.Optimizer.Seed = seed
		}
		if flags.Changed("strategies") {
			lf.Optimizer.Strategies = strategies
		}
		if err := lf.Optimizer.Validate(); err != nil {
			logrus.Fatalf("Invalid optimizer settings: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := runLayout(ctx, cmd.OutOrStdout(), lf, !noOptimize, showMap); err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		logrus.Info("Run complete.")
	},
}

// strategiesCmd lists the available strategies in default order
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List optimization strategies",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range optimize.DefaultStrategies {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

// runLayout builds a session from lf, reports it, and optionally optimizes.
// Cancellation of ctx aborts the optimization and keeps the placed layout.
func runLayout(ctx context.Context, w io.Writer, lf LayoutFile, doOptimize, withMap bool) error {
	sess, err := session.New(session.Config{
		WidthUnits:  lf.Grid.Width,
		HeightUnits: lf.Grid.Height,
		Optimizer:   lf.Optimizer,
	})
	if err != nil {
		return err
	}
	if lf.TownHall.Visible != nil {
		if err := sess.SetTownHallVisible(*lf.TownHall.Visible); err != nil {
			return err
		}
	}

	for _, b := range lf.Buildings {
		if b.X != nil {
			if _, err := sess.PlaceBuildingAt(b.Name, b.Width, b.Height, b.RequiresRoad, *b.X, *b.Y); err != nil {
				logrus.Warnf("Could not place %q at (%d,%d): %v", b.Name, *b.X, *b.Y, err)
			}
			continue
		}
		qty := b.Quantity
		if qty == 0 {
			qty = 1
		}
		res, err := sess.AddBuildings(b.Name, b.Width, b.Height, qty, b.RequiresRoad)
		if err != nil {
			return fmt.Errorf("adding %q: %w", b.Name, err)
		}
		if res.Placed == 0 {
			logrus.Warnf("Could not place any %q: the grid may be full", b.Name)
		}
	}

	printStats(w, "Initial layout", sess.Stats())
	if withMap {
		renderMap(w, sess.Snapshot())
	}
	if !doOptimize {
		return nil
	}

	res, err := sess.Optimize(ctx, 0)
	switch {
	case errors.Is(err, optimize.ErrNothingToOptimize):
		fmt.Fprintln(w, "No buildings to optimize (only the Town Hall exists)")
		return nil
	case errors.Is(err, optimize.ErrCancelled):
		fmt.Fprintln(w, "Optimization cancelled, layout restored")
		return nil
	case err != nil:
		return err
	}

	printResult(w, res)
	printStats(w, "Optimized layout", sess.Stats())
	if withMap {
		renderMap(w, sess.Snapshot())
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&layoutPath, "layout", "", "Path to a layout YAML file")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Grid
	runCmd.Flags().IntVar(&gridWidth, "grid-width", plan.DefaultExpansions, "Grid width in 4-tile expansions (1-15)")
	runCmd.Flags().IntVar(&gridHeight, "grid-height", plan.DefaultExpansions, "Grid height in 4-tile expansions (1-15)")

	// Optimizer
	defaults := optimize.DefaultConfig()
	runCmd.Flags().IntVar(&parallelism, "parallel", defaults.Parallelism, "Strategies evaluated concurrently per batch")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for the randomized strategies")
	runCmd.Flags().StringSliceVar(&strategies, "strategies", defaults.Strategies, "Comma-separated strategies to run, in order")
	runCmd.Flags().BoolVar(&noOptimize, "no-optimize", false, "Only place buildings and lay roads")
	runCmd.Flags().BoolVar(&showMap, "map", false, "Print a text map of the layout")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(strategiesCmd)
}
