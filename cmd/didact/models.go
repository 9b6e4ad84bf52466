package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/didactlabs/didact/model"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the available chat models",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ALIAS\tMODEL\tPROVIDER")
			for _, m := range model.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.Alias(), m.String(), m.Provider())
			}
			return w.Flush()
		},
	}
}
