package cmd

import (
	"fmt"

	"github.com/KaramelBytes/citybike-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the input tables and export them as CSV without a report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		res, err := pipeline.Run(c, pipeline.ModeClean)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, line := range res.Cleaned.Stats.Summary() {
			fmt.Fprintf(out, "  %s\n", line)
		}
		for _, w := range res.Manifest.Warnings {
			fmt.Fprintf(out, "⚠ %s\n", w)
		}
		for _, a := range res.Manifest.Artifacts {
			fmt.Fprintf(out, "✓ Wrote %s\n", a)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
