package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/citybike-cli/internal/config"
	"github.com/KaramelBytes/citybike-cli/internal/utils"
	"github.com/spf13/cobra"
)

var initSaveConfig bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data and output directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		for _, d := range []string{c.DataDir, c.OutputDir} {
			dir, err := utils.ExpandHome(d)
			if err != nil {
				return err
			}
			if err := utils.EnsureDir(dir); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Ready: %s\n", dir)
		}
		if initSaveConfig {
			if err := cfgpkg.Save(c, cfgFile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Place %s, %s and %s in %s, then run 'citybike run'.\n",
			c.TripsFile, c.StationsFile, c.MaintenanceFile, c.DataDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initSaveConfig, "save-config", false, "also write the effective configuration to the config file")
}
