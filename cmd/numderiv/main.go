// Package main provides the numderiv CLI. It compiles a formula in x and prints
// finite-difference derivative estimates at a point, over a range or at a list
// of points.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/numderiv/internal/infrastructure/config"
	"github.com/GriffinCanCode/numderiv/internal/infrastructure/logging"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/common"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
)

// app holds what every subcommand needs. It is filled in by the root
// command's PersistentPreRun once flags are parsed.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	ops     *common.MathOps
	verbose bool
}

func (a *app) setup() {
	if a.verbose {
		a.logger = logging.NewDevelopment()
	} else {
		a.logger = logging.NewNop()
	}

	opts := []derivative.Option{
		derivative.WithMaxPoints(a.cfg.Derivative.MaxPoints),
		derivative.WithParallelThreshold(a.cfg.Derivative.ParallelThreshold),
		derivative.WithLogger(a.logger.Logger),
	}
	if a.cfg.Derivative.Workers > 0 {
		opts = append(opts, derivative.WithWorkers(a.cfg.Derivative.Workers))
	}

	a.ops = &common.MathOps{
		Engine: derivative.NewEngine(opts...),
		Settings: common.Settings{
			DefaultStep:   a.cfg.Derivative.DefaultStep,
			DefaultPoints: a.cfg.Derivative.DefaultPoints,
			MaxLength:     a.cfg.Expression.MaxLength,
			MaxDepth:      a.cfg.Expression.MaxDepth,
		},
	}
	a.logger.Debug("CLI initialized",
		zap.Float64("default_step", a.ops.Settings.DefaultStep),
		zap.Int("default_points", a.ops.Settings.DefaultPoints),
	)
}

func (a *app) close() {
	if a.logger != nil {
		a.logger.Close()
	}
}

func newRootCommand(cfg *config.Config) (*cobra.Command, *app) {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:           "numderiv",
		Short:         "Numerical derivatives of formulas in x",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setup()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log engine activity to stderr")

	rootCmd.AddCommand(
		pointCommand(a),
		rangeCommand(a),
		pointsCommand(a),
		functionsCommand(),
	)
	return rootCmd, a
}

func main() {
	rootCmd, a := newRootCommand(config.LoadOrDefault())

	err := rootCmd.Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
