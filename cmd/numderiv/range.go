package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/export"
)

func rangeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Estimate derivatives over evenly spaced points",
		Example: `  numderiv range --expr "x ** 2" --min 0 --max 10 --points 11
  numderiv range --expr "1 / x" --min -1 --max 1 --format csv --output table.csv.gz --compression gzip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _ := cmd.Flags().GetString("expr")
			xMin, _ := cmd.Flags().GetFloat64("min")
			xMax, _ := cmd.Flags().GetFloat64("max")
			n, _ := cmd.Flags().GetInt("points")
			if !cmd.Flags().Changed("points") {
				n = a.ops.Settings.DefaultPoints
			}
			h := a.step(cmd)

			fn, err := a.ops.CompileString(src)
			if err != nil {
				return err
			}
			series, err := a.ops.Engine.Range(cmd.Context(), fn.Eval, derivative.Range{Min: xMin, Max: xMax, Points: n}, h)
			if err != nil {
				return err
			}
			return a.emit(cmd, fn.Source(), h, series)
		},
	}

	cmd.Flags().String("expr", "", "Formula in x")
	cmd.Flags().Float64("min", 0, "Lower bound")
	cmd.Flags().Float64("max", 0, "Upper bound")
	cmd.Flags().Int("points", 0, "Number of points, at least 2 (default from DERIV_DEFAULT_POINTS)")
	cmd.Flags().Float64("h", 0, "Step size (default from DERIV_DEFAULT_STEP)")
	addOutputFlags(cmd)
	_ = cmd.MarkFlagRequired("expr")
	_ = cmd.MarkFlagRequired("min")
	_ = cmd.MarkFlagRequired("max")

	return cmd
}

func pointsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "points",
		Short:   "Estimate derivatives at a comma-separated list of points",
		Example: `  numderiv points --expr "exp(x)" --at "0, 1, 2.5"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _ := cmd.Flags().GetString("expr")
			at, _ := cmd.Flags().GetString("at")
			h := a.step(cmd)

			xs, err := derivative.ParsePoints(at)
			if err != nil {
				return err
			}
			fn, err := a.ops.CompileString(src)
			if err != nil {
				return err
			}
			series, err := a.ops.Engine.Points(cmd.Context(), fn.Eval, xs, h)
			if err != nil {
				return err
			}
			return a.emit(cmd, fn.Source(), h, series)
		},
	}

	cmd.Flags().String("expr", "", "Formula in x")
	cmd.Flags().String("at", "", "Points, e.g. \"0, 1, 2.5\"")
	cmd.Flags().Float64("h", 0, "Step size (default from DERIV_DEFAULT_STEP)")
	addOutputFlags(cmd)
	_ = cmd.MarkFlagRequired("expr")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "table", "Output format: table, csv, json, yaml or toml")
	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	cmd.Flags().String("compression", "none", "Compression for file formats: none, gzip or zstd")
}

// emit writes series in the requested format to stdout or --output
func (a *app) emit(cmd *cobra.Command, src string, h float64, series derivative.Series) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	compression, _ := cmd.Flags().GetString("compression")

	var (
		opts export.Options
		err  error
	)
	if format != "table" {
		if opts.Format, err = export.ParseFormat(format); err != nil {
			return err
		}
	}
	if opts.Compression, err = export.ParseCompression(compression); err != nil {
		return err
	}
	if format == "table" && opts.Compression != export.CompressionNone {
		return fmt.Errorf("compression requires a file format (csv, json, yaml or toml)")
	}

	write := func(w io.Writer) error {
		if format == "table" {
			return writeTable(w, series)
		}
		return export.Write(w, export.Document{Expression: src, Step: h, Samples: series}, opts)
	}

	if output == "" {
		return write(cmd.OutOrStdout())
	}
	if err := writeOutput(output, write); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d samples to %s\n", len(series), output)
	return nil
}

var createOutput = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// writeOutput writes to the named file and returns the Close error when the
// write itself succeeded.
func writeOutput(name string, write func(io.Writer) error) (err error) {
	f, err := createOutput(name)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return write(f)
}

func writeTable(w io.Writer, series derivative.Series) error {
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "no data")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, col := range export.CSVHeader {
		fmt.Fprintf(tw, "%s\t", col)
	}
	fmt.Fprintln(tw)
	for _, s := range series {
		for _, v := range s.Values() {
			fmt.Fprintf(tw, "%.6g\t", v)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	agg := series.Agreement()
	_, err := fmt.Fprintf(w, "\n%d points, max method spread %.3g at x = %g\n", len(series), agg.MaxSpread, agg.WorstX)
	return err
}
