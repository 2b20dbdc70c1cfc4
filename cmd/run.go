package cmd

import (
	"fmt"

	"github.com/KaramelBytes/citybike-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	runTopN      int
	runThreshold float64
	runXLSX      bool
	runYAML      bool
	runQuiet     bool
)

var runPipelineCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean the input tables and write the analysis report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		rc := *c
		if cmd.Flags().Changed("top-n") {
			rc.TopN = runTopN
		}
		if cmd.Flags().Changed("outlier-threshold") {
			rc.OutlierThreshold = runThreshold
		}
		if cmd.Flags().Changed("xlsx") {
			rc.ExportXLSX = runXLSX
		}
		if cmd.Flags().Changed("yaml") {
			rc.ExportYAML = runYAML
		}

		res, err := pipeline.Run(&rc, pipeline.ModeFull)
		if err != nil {
			if res != nil && res.Manifest != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Run %s failed, manifest in %s\n", res.Manifest.ID, res.Manifest.RootDir())
			}
			return err
		}
		out := cmd.OutOrStdout()
		if !runQuiet {
			for _, line := range res.Cleaned.Stats.Summary() {
				fmt.Fprintf(out, "  %s\n", line)
			}
		}
		for _, a := range res.Manifest.Artifacts {
			fmt.Fprintf(out, "✓ Wrote %s\n", a)
		}
		if n := len(res.Report.Warnings); n > 0 {
			fmt.Fprintf(out, "⚠ %d warnings recorded in the report\n", n)
			if !runQuiet {
				for _, w := range res.Report.Warnings {
					fmt.Fprintf(out, "   - %s\n", w)
				}
			}
		}
		fmt.Fprintf(out, "✓ Run %s complete\n", res.Manifest.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runPipelineCmd)
	runPipelineCmd.Flags().IntVar(&runTopN, "top-n", 10, "rows kept by ranking questions (overrides config)")
	runPipelineCmd.Flags().Float64Var(&runThreshold, "outlier-threshold", 3.0, "|z| threshold for duration and fare outliers (overrides config)")
	runPipelineCmd.Flags().BoolVar(&runXLSX, "xlsx", true, "also write report.xlsx (overrides config)")
	runPipelineCmd.Flags().BoolVar(&runYAML, "yaml", false, "also write report.yaml (overrides config)")
	runPipelineCmd.Flags().BoolVar(&runQuiet, "quiet", false, "suppress cleaning details and warning list")
}
