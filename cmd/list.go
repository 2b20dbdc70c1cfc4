package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/KaramelBytes/citybike-cli/internal/run"
	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List past runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		runs, err := run.List(c.OutputDir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "(no runs)")
			return nil
		}
		if listLimit > 0 && len(runs) > listLimit {
			runs = runs[:listLimit]
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCOMMAND\tSTATUS\tSTARTED\tTRIPS\tWARNINGS")
		for _, m := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
				shortID(m.ID), m.Command, m.Status, m.StartedAt.Format("2006-01-02 15:04:05"), m.Counts["trips"], len(m.Warnings))
		}
		return tw.Flush()
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "show at most n runs (0 = all)")
}
