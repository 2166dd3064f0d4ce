package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/expression"
)

func functionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the functions and constants formulas may use",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintf(tw, "Variable:\t%s\t\n\nFunctions:\n", expression.Variable)
			for _, b := range expression.Builtins() {
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", b.Name, b.Category, b.Description)
			}
			fmt.Fprintln(tw, "\nConstants:")
			for _, c := range expression.Constants() {
				fmt.Fprintf(tw, "  %s\t%.10g\t%s\n", c.Name, c.Value, c.Description)
			}
			fmt.Fprintln(tw, "\nOperators:\t+ - * / % ** ( ) and comparisons, &&, ||, !\t")
			return tw.Flush()
		},
	}
}
