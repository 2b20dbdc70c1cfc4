package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	inspOutputPath string
	inspDelimiter  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Profile raw input tables before cleaning",
	Long: `Profile raw CSV/TSV tables: inferred column kinds, missing counts, numeric
ranges and top categories. Without arguments the configured trips, stations and
maintenance files are inspected; missing ones are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var delim rune
		switch inspDelimiter {
		case "":
		case ",":
			delim = ','
		case "\t", "tab":
			delim = '\t'
		case ";":
			delim = ';'
		default:
			return fmt.Errorf("unsupported --delimiter: %s", inspDelimiter)
		}

		files := args
		explicit := len(args) > 0
		if !explicit {
			c, err := requireConfig()
			if err != nil {
				return err
			}
			files = []string{c.Path(c.TripsFile), c.Path(c.StationsFile), c.Path(c.MaintenanceFile)}
		}

		var parts []string
		for _, path := range files {
			if !utils.FileExists(path) {
				if explicit {
					return fmt.Errorf("file not found: %s", path)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Skipping %s: not found\n", path)
				continue
			}
			t, err := readTable(path, delim)
			if err != nil {
				return err
			}
			parts = append(parts, dataset.Inspect(t).Markdown())
		}
		if len(parts) == 0 {
			return fmt.Errorf("no input tables found")
		}
		md := strings.Join(parts, "\n")

		if inspOutputPath != "" {
			if err := utils.SafeWriteFile(inspOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote inspection to %s\n", inspOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

// readTable loads a table, honouring an explicit delimiter when given.
func readTable(path string, delim rune) (*dataset.Table, error) {
	if delim == 0 {
		return dataset.Read(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return dataset.ReadCSVFrom(f, name, delim)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspOutputPath, "output", "o", "", "optional path to write the inspection (Markdown)")
	inspectCmd.Flags().StringVar(&inspDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default by extension)")
}
