package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
)

// pointCommand prints f(x) and every estimate at one x, or a single method's
// estimate when --method is given.
func pointCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "point",
		Short: "Estimate derivatives at a single point",
		Example: `  numderiv point --expr "sin(x)" --x 0
  numderiv point --expr "x ** 3" --x 2 --method five_point`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _ := cmd.Flags().GetString("expr")
			x, _ := cmd.Flags().GetFloat64("x")
			method, _ := cmd.Flags().GetString("method")
			h := a.step(cmd)

			fn, err := a.ops.CompileString(src)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if method != "" {
				m, err := derivative.ParseMethod(method)
				if err != nil {
					return err
				}
				v, err := derivative.Estimate(m, fn.Eval, x, h)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s at x = %g (h = %g, %s): %.10g\n", m, x, h, m.Accuracy(), v)
				return nil
			}

			s, err := a.ops.Engine.Point(cmd.Context(), fn.Eval, x, h)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s at x = %g, h = %g\n\n", fn, x, h)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "f(x)\t%.10g\t\n", s.Fx)
			for _, m := range derivative.Methods() {
				note := m.Accuracy()
				if m == derivative.MethodCentral {
					note += "  recommended"
				}
				fmt.Fprintf(tw, "%s\t%.10g\t%s\n", m, s.Estimate(m), note)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().String("expr", "", "Formula in x, e.g. \"sin(x) + x ** 2\"")
	cmd.Flags().Float64("x", 0, "Point of evaluation")
	cmd.Flags().String("method", "", "Single method: forward, backward, central, five_point or second")
	cmd.Flags().Float64("h", 0, "Step size (default from DERIV_DEFAULT_STEP)")
	_ = cmd.MarkFlagRequired("expr")
	_ = cmd.MarkFlagRequired("x")

	return cmd
}

// step returns --h when set, otherwise the configured default
func (a *app) step(cmd *cobra.Command) float64 {
	if cmd.Flags().Changed("h") {
		h, _ := cmd.Flags().GetFloat64("h")
		return h
	}
	return a.ops.Settings.DefaultStep
}
