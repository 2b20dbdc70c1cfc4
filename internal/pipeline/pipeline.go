// Package pipeline runs one load, clean, analyse and report pass over the
// configured data directory and records it as a run manifest.
package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/KaramelBytes/citybike-cli/internal/cleaning"
	"github.com/KaramelBytes/citybike-cli/internal/config"
	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/pricing"
	"github.com/KaramelBytes/citybike-cli/internal/report"
	"github.com/KaramelBytes/citybike-cli/internal/run"
	"github.com/KaramelBytes/citybike-cli/internal/utils"
	log "github.com/sirupsen/logrus"
)

// Output file names below output_dir.
const (
	TextReportFile      = "summary_report.txt"
	XLSXReportFile      = "report.xlsx"
	YAMLReportFile      = "report.yaml"
	TripsCleanedFile    = "trips_cleaned.csv"
	StationsCleanedFile = "stations_cleaned.csv"
	MaintCleanedFile    = "maintenance_cleaned.csv"
)

// Mode selects how far a run goes.
type Mode string

const (
	// ModeFull cleans, exports the cleaned tables and writes the reports.
	ModeFull Mode = "run"
	// ModeClean stops after exporting the cleaned tables.
	ModeClean Mode = "clean"
)

// Result is what a run produced.
type Result struct {
	Manifest *run.Manifest
	Cleaned  *cleaning.Result
	Report   *report.Report // nil in ModeClean
}

// TariffFrom builds the pricing tariff from the configured rates.
func TariffFrom(c *config.Global) pricing.Tariff {
	return pricing.Tariff{
		Casual:         pricing.Rate(c.Tariffs.Casual),
		Member:         pricing.Rate(c.Tariffs.Member),
		Distance:       pricing.Rate(c.Tariffs.Distance),
		PeakMultiplier: c.PeakMultiplier,
		PeakHours:      append([]int(nil), c.PeakHours...),
	}
}

// Load reads the three input tables, CSV or XLSX by extension. The trips
// file is required; a missing stations or maintenance file yields a nil
// table and a warning.
func Load(c *config.Global) (cleaning.Input, []string, error) {
	var in cleaning.Input
	var warnings []string

	trips, err := dataset.Read(c.Path(c.TripsFile))
	if err != nil {
		return in, nil, fmt.Errorf("load trips: %w", err)
	}
	in.Trips = trips

	optional := func(name, file string) *dataset.Table {
		path := c.Path(file)
		t, err := dataset.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				warnings = append(warnings, fmt.Sprintf("%s: %s not found, skipped", name, path))
				return nil
			}
			warnings = append(warnings, fmt.Sprintf("%s: %v", name, err))
			return nil
		}
		return t
	}
	in.Stations = optional("stations", c.StationsFile)
	in.Maintenance = optional("maintenance", c.MaintenanceFile)
	for _, w := range warnings {
		log.WithField("warning", w).Warn("optional table unavailable")
	}
	return in, warnings, nil
}

// Run executes one pipeline pass. The manifest is saved whether or not the
// run succeeds. A DataError from cleaning aborts before any output is written.
func Run(c *config.Global, mode Mode) (res *Result, err error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	tariff := TariffFrom(c)
	if err := tariff.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tariff: %w", err)
	}

	m := run.New(c.OutputDir, string(mode))
	res = &Result{Manifest: m}
	defer func() {
		m.Finish(err)
		if serr := m.Save(); serr != nil {
			if err == nil {
				err = fmt.Errorf("save manifest: %w", serr)
				return
			}
			log.WithError(serr).Error("could not save run manifest")
		}
	}()

	m.AddInput("trips", c.Path(c.TripsFile))
	m.AddInput("stations", c.Path(c.StationsFile))
	m.AddInput("maintenance", c.Path(c.MaintenanceFile))

	in, warnings, err := Load(c)
	if err != nil {
		return res, err
	}
	for _, w := range warnings {
		m.AddWarning(w)
	}

	cleaned, err := cleaning.Clean(in)
	if err != nil {
		return res, fmt.Errorf("clean: %w", err)
	}
	res.Cleaned = cleaned
	logStats(cleaned.Stats)
	m.Counts["trips"] = len(cleaned.Trips)
	m.Counts["stations"] = len(cleaned.Stations)
	m.Counts["maintenance"] = len(cleaned.Maintenance)

	if err := utils.EnsureDir(c.OutputDir); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}
	if err := exportCleaned(c.OutputDir, cleaned, in, m); err != nil {
		return res, err
	}
	if mode == ModeClean {
		return res, nil
	}

	rep := report.Assemble(report.Inputs{
		RunID:       m.ID,
		Trips:       cleaned.Trips,
		Stations:    cleaned.Stations,
		Maintenance: cleaned.Maintenance,
		TopN:        c.TopN,
		Threshold:   c.OutlierThreshold,
		Tariff:      tariff,
		Cleaning:    cleaned.Stats.Summary(),
	})
	res.Report = rep
	for _, w := range rep.Warnings {
		m.AddWarning(w)
	}
	m.Counts["warnings"] = len(m.Warnings)

	path := filepath.Join(c.OutputDir, TextReportFile)
	if err := rep.WriteText(path); err != nil {
		return res, fmt.Errorf("write text report: %w", err)
	}
	m.AddArtifact(path)
	if c.ExportXLSX {
		path := filepath.Join(c.OutputDir, XLSXReportFile)
		if err := rep.WriteXLSX(path); err != nil {
			return res, fmt.Errorf("write xlsx report: %w", err)
		}
		m.AddArtifact(path)
	}
	if c.ExportYAML {
		path := filepath.Join(c.OutputDir, YAMLReportFile)
		if err := rep.WriteYAML(path); err != nil {
			return res, fmt.Errorf("write yaml report: %w", err)
		}
		m.AddArtifact(path)
	}
	log.WithFields(log.Fields{"run": m.ID, "warnings": len(rep.Warnings)}).Info("report written")
	return res, nil
}

type cleanedFile struct {
	name  string
	table *dataset.Table
}

// exportCleaned writes a cleaned CSV for every table that was loaded.
func exportCleaned(dir string, cleaned *cleaning.Result, in cleaning.Input, m *run.Manifest) error {
	files := []cleanedFile{{TripsCleanedFile, dataset.TripsTable(cleaned.Trips)}}
	if in.Stations != nil {
		files = append(files, cleanedFile{StationsCleanedFile, dataset.StationsTable(cleaned.Stations)})
	}
	if in.Maintenance != nil {
		files = append(files, cleanedFile{MaintCleanedFile, dataset.MaintenanceTable(cleaned.Maintenance)})
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := f.table.WriteCSV(path); err != nil {
			return fmt.Errorf("export %s: %w", f.name, err)
		}
		m.AddArtifact(path)
	}
	return nil
}

func logStats(s cleaning.Stats) {
	for name, ts := range map[string]cleaning.TableStats{"trips": s.Trips, "stations": s.Stations, "maintenance": s.Maintenance} {
		if ts.Input == 0 {
			continue
		}
		log.WithFields(log.Fields{
			"table":   name,
			"rows":    ts.Output,
			"dropped": ts.Input - ts.Output,
		}).Info("table cleaned")
	}
}
