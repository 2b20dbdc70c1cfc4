package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Rate is a linear fare rate as stored in the config file.
type Rate struct {
	UnlockFee float64 `mapstructure:"unlock_fee" yaml:"unlock_fee"`
	PerMinute float64 `mapstructure:"per_minute" yaml:"per_minute"`
	PerKm     float64 `mapstructure:"per_km" yaml:"per_km"`
}

// Tariffs holds the rate of every pricing tier.
type Tariffs struct {
	Casual   Rate `mapstructure:"casual" yaml:"casual"`
	Member   Rate `mapstructure:"member" yaml:"member"`
	Distance Rate `mapstructure:"distance" yaml:"distance"`
}

// Global configuration structure.
type Global struct {
	DataDir         string `mapstructure:"data_dir" yaml:"data_dir"`
	OutputDir       string `mapstructure:"output_dir" yaml:"output_dir"`
	TripsFile       string `mapstructure:"trips_file" yaml:"trips_file"`
	StationsFile    string `mapstructure:"stations_file" yaml:"stations_file"`
	MaintenanceFile string `mapstructure:"maintenance_file" yaml:"maintenance_file"`

	TopN             int     `mapstructure:"top_n" yaml:"top_n"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`
	LogLevel         string  `mapstructure:"log_level" yaml:"log_level"`

	// Report exports in addition to the text report
	ExportXLSX bool `mapstructure:"export_xlsx" yaml:"export_xlsx"`
	ExportYAML bool `mapstructure:"export_yaml" yaml:"export_yaml"`

	// Pricing
	Tariffs        Tariffs `mapstructure:"tariffs" yaml:"tariffs"`
	PeakMultiplier float64 `mapstructure:"peak_multiplier" yaml:"peak_multiplier"`
	PeakHours      []int   `mapstructure:"peak_hours" yaml:"peak_hours"`
}

// DefaultDir is the per-user config directory below $HOME.
const DefaultDir = ".citybike"

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DefaultDir, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.citybike/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("output_dir", "output")
	v.SetDefault("trips_file", "trips.csv")
	v.SetDefault("stations_file", "stations.csv")
	v.SetDefault("maintenance_file", "maintenance.csv")
	v.SetDefault("top_n", 10)
	v.SetDefault("outlier_threshold", 3.0)
	v.SetDefault("log_level", "info")
	v.SetDefault("export_xlsx", true)
	v.SetDefault("export_yaml", false)
	// Tariff defaults
	v.SetDefault("tariffs.casual.unlock_fee", 5.0)
	v.SetDefault("tariffs.casual.per_minute", 0.5)
	v.SetDefault("tariffs.casual.per_km", 0.0)
	v.SetDefault("tariffs.member.unlock_fee", 2.0)
	v.SetDefault("tariffs.member.per_minute", 0.2)
	v.SetDefault("tariffs.member.per_km", 0.0)
	v.SetDefault("tariffs.distance.unlock_fee", 3.0)
	v.SetDefault("tariffs.distance.per_minute", 0.3)
	v.SetDefault("tariffs.distance.per_km", 1.5)
	v.SetDefault("peak_multiplier", 1.5)
	v.SetDefault("peak_hours", []int{7, 8, 9, 16, 17, 18})
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command-line flags are applied
// on top by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CITYBIKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := defaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// The config file is optional; a malformed one is not.
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

// Validate rejects values the pipeline cannot run with.
func (c *Global) Validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.OutlierThreshold <= 0 {
		return fmt.Errorf("outlier_threshold must be positive, got %v", c.OutlierThreshold)
	}
	for name, r := range map[string]Rate{"casual": c.Tariffs.Casual, "member": c.Tariffs.Member, "distance": c.Tariffs.Distance} {
		if r.UnlockFee < 0 || r.PerMinute < 0 || r.PerKm < 0 {
			return fmt.Errorf("tariffs.%s: rates must be non-negative", name)
		}
	}
	if c.PeakMultiplier < 0 {
		return fmt.Errorf("peak_multiplier must be non-negative")
	}
	return nil
}

// Path joins a configured file name onto DataDir unless it is absolute.
func (c *Global) Path(file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.DataDir, file)
}

// Keys lists the scalar keys accepted by Set, in display order.
var Keys = []string{
	"data_dir", "output_dir", "trips_file", "stations_file", "maintenance_file",
	"top_n", "outlier_threshold", "log_level", "export_xlsx", "export_yaml",
	"peak_multiplier", "peak_hours",
	"tariffs.casual.unlock_fee", "tariffs.casual.per_minute", "tariffs.casual.per_km",
	"tariffs.member.unlock_fee", "tariffs.member.per_minute", "tariffs.member.per_km",
	"tariffs.distance.unlock_fee", "tariffs.distance.per_minute", "tariffs.distance.per_km",
}

// Set assigns one key from its string form.
func (c *Global) Set(key, val string) error {
	if strings.HasPrefix(key, "tariffs.") {
		return c.setRate(key, val)
	}
	switch key {
	case "data_dir":
		c.DataDir = val
	case "output_dir":
		c.OutputDir = val
	case "trips_file":
		c.TripsFile = val
	case "stations_file":
		c.StationsFile = val
	case "maintenance_file":
		c.MaintenanceFile = val
	case "top_n":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for top_n: %v", val)
		}
		c.TopN = i
	case "outlier_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid positive float for outlier_threshold: %v", val)
		}
		c.OutlierThreshold = f
	case "log_level":
		switch strings.ToLower(val) {
		case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s", val)
		}
	case "export_xlsx", "export_yaml":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %w", key, err)
		}
		if key == "export_xlsx" {
			c.ExportXLSX = b
		} else {
			c.ExportYAML = b
		}
	case "peak_multiplier":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid float for peak_multiplier: %v", val)
		}
		c.PeakMultiplier = f
	case "peak_hours":
		var hours []int
		for _, part := range strings.Split(val, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			h, err := strconv.Atoi(part)
			if err != nil || h < 0 || h > 23 {
				return fmt.Errorf("invalid hour in peak_hours: %q", part)
			}
			hours = append(hours, h)
		}
		c.PeakHours = hours
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func (c *Global) setRate(key, val string) error {
	parts := strings.Split(key, ".")
	if len(parts) != 3 {
		return fmt.Errorf("unknown key: %s", key)
	}
	var r *Rate
	switch parts[1] {
	case "casual":
		r = &c.Tariffs.Casual
	case "member":
		r = &c.Tariffs.Member
	case "distance":
		r = &c.Tariffs.Distance
	default:
		return fmt.Errorf("unknown tariff: %s", parts[1])
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("invalid non-negative float for %s: %v", key, val)
	}
	switch parts[2] {
	case "unlock_fee":
		r.UnlockFee = f
	case "per_minute":
		r.PerMinute = f
	case "per_km":
		r.PerKm = f
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
