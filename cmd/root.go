package cmd

import (
	"errors"
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/citybike-cli/internal/config"
	"github.com/KaramelBytes/citybike-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags (override config if set)
	cfgFile      string
	flagDataDir  string
	flagOutDir   string
	flagLogLevel string

	// Loaded configuration
	cfg    *cfgpkg.Global
	cfgErr error
)

var errNoCfg = errors.New("no configuration loaded")

var rootCmd = &cobra.Command{
	Use:   "citybike",
	Short: "CityBike CLI: clean and analyse bike-share trip data",
	Long: `CityBike loads trip, station and maintenance tables, repairs them and answers
a fixed set of business questions in a text report with optional XLSX and YAML exports.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.citybike/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding the input CSV files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOutDir, "output-dir", "", "directory for reports and cleaned tables (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

func loadConfig() {
	cfg, cfgErr = nil, nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report it through requireConfig
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfgErr = err
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data-dir") && flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if f.Changed("output-dir") && flagOutDir != "" {
		cfg.OutputDir = flagOutDir
	}
	if f.Changed("log-level") && flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := logging.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v, using info\n", err)
		_ = logging.Init("info")
	}
}

// requireConfig returns the loaded configuration or the reason it is missing.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	if cfgErr != nil {
		return nil, fmt.Errorf("%w: %v", errNoCfg, cfgErr)
	}
	return nil, errNoCfg
}
