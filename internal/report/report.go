// Package report assembles the answers of every analysis question into one
// Report and renders it as text, XLSX and YAML.
package report

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/citybike-cli/internal/analysis"
	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/model"
	"github.com/KaramelBytes/citybike-cli/internal/numeric"
	"github.com/KaramelBytes/citybike-cli/internal/pricing"
	log "github.com/sirupsen/logrus"
)

// Inputs is everything Assemble needs. The tables must already be cleaned.
type Inputs struct {
	RunID       string
	Trips       []dataset.Trip
	Stations    []dataset.Station
	Maintenance []dataset.MaintenanceRecord
	TopN        int
	Threshold   float64
	Tariff      pricing.Tariff
	Cleaning    []string
}

// OutlierTrip is one row of the duration outlier list.
type OutlierTrip struct {
	TripID          string  `json:"trip_id" yaml:"trip_id"`
	BikeID          string  `json:"bike_id" yaml:"bike_id"`
	DurationMinutes float64 `json:"duration_minutes" yaml:"duration_minutes"`
}

// Trend summarises the monthly series.
type Trend struct {
	Direction    string  `json:"direction" yaml:"direction"`
	GrowthPct    float64 `json:"growth_pct" yaml:"growth_pct"`
	BusiestMonth string  `json:"busiest_month" yaml:"busiest_month"`
	BusiestTrips int     `json:"busiest_trips" yaml:"busiest_trips"`
}

// Trend directions.
const (
	TrendGrowth       = "growth"
	TrendDecline      = "decline"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient data"
)

// FleetSummary counts the distinct bikes and users per kind.
type FleetSummary struct {
	Bikes        map[string]int `json:"bikes" yaml:"bikes"`
	Users        map[string]int `json:"users" yaml:"users"`
	InvalidBikes int            `json:"invalid_bikes" yaml:"invalid_bikes"`
	InvalidUsers int            `json:"invalid_users" yaml:"invalid_users"`
}

// Report holds the answer to every question. Sections maps the fields to
// their question numbers.
type Report struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Cleaning    []string  `json:"cleaning" yaml:"cleaning"`

	Summary              analysis.TripSummary    `json:"summary" yaml:"summary"`
	TopStartStations     []analysis.StationCount `json:"top_start_stations" yaml:"top_start_stations"`
	TopEndStations       []analysis.StationCount `json:"top_end_stations" yaml:"top_end_stations"`
	PeakHours            []analysis.HourCount    `json:"peak_hours" yaml:"peak_hours"`
	Weekdays             []analysis.KeyCount     `json:"weekdays" yaml:"weekdays"`
	AvgDistanceByUser    []analysis.KeyValue     `json:"avg_distance_by_user_type" yaml:"avg_distance_by_user_type"`
	BikeUtilization      []analysis.BikeUsage    `json:"bike_utilization" yaml:"bike_utilization"`
	MonthlyTrend         []analysis.KeyCount     `json:"monthly_trend" yaml:"monthly_trend"`
	Trend                Trend                   `json:"trend" yaml:"trend"`
	MaintenanceCost      []analysis.KeyValue     `json:"maintenance_cost" yaml:"maintenance_cost"`
	ActiveUsers          []analysis.KeyCount     `json:"active_users" yaml:"active_users"`
	TopRoutes            []analysis.RouteCount   `json:"top_routes" yaml:"top_routes"`
	StatusDistribution   []analysis.KeyCount     `json:"status_distribution" yaml:"status_distribution"`
	SegmentAverage       []analysis.KeyValue     `json:"segment_average" yaml:"segment_average"`
	MaintenanceFrequency []analysis.KeyCount     `json:"maintenance_frequency" yaml:"maintenance_frequency"`
	DurationOutliers     []OutlierTrip           `json:"duration_outliers" yaml:"duration_outliers"`

	DurationStats        numeric.Summary        `json:"duration_stats" yaml:"duration_stats"`
	DurationDistanceCorr float64                `json:"duration_distance_correlation" yaml:"duration_distance_correlation"`
	RobustOutliers       int                    `json:"robust_duration_outliers" yaml:"robust_duration_outliers"`
	StationLoad          []analysis.StationLoad `json:"station_load" yaml:"station_load"`
	MaintenanceMix       []analysis.KeyCount    `json:"maintenance_mix" yaml:"maintenance_mix"`
	Fares                []pricing.TierSummary  `json:"fares" yaml:"fares"`
	Fleet                FleetSummary           `json:"fleet" yaml:"fleet"`
	Warnings             []string               `json:"warnings" yaml:"warnings"`
}

// Assemble runs every query. A query that fails or panics is recorded as a
// warning and leaves its section empty; the others still run.
func Assemble(in Inputs) *Report {
	r := &Report{
		RunID:       in.RunID,
		GeneratedAt: time.Now(),
		Cleaning:    in.Cleaning,
		Warnings:    []string{},
	}
	n := in.TopN
	trips, stations, maint := in.Trips, in.Stations, in.Maintenance

	r.step("summary", func() error { r.Summary = analysis.TotalSummary(trips); return nil })
	r.step("top_start_stations", func() error {
		var w *analysis.IntegrityWarning
		var err error
		r.TopStartStations, w, err = analysis.TopStations(trips, stations, analysis.StartStation, n)
		r.warn(w)
		return err
	})
	r.step("top_end_stations", func() error {
		var w *analysis.IntegrityWarning
		var err error
		r.TopEndStations, w, err = analysis.TopStations(trips, stations, analysis.EndStation, n)
		r.warn(w)
		return err
	})
	r.step("peak_hours", func() error { r.PeakHours = analysis.PeakHours(trips); return nil })
	r.step("weekdays", func() error { r.Weekdays = analysis.BusiestWeekday(trips); return nil })
	r.step("avg_distance", func() error { r.AvgDistanceByUser = analysis.AvgDistanceByUserType(trips); return nil })
	r.step("bike_utilization", func() error { r.BikeUtilization = analysis.BikeUtilization(trips, 0, n); return nil })
	r.step("monthly_trend", func() error {
		r.MonthlyTrend = analysis.MonthlyTrend(trips)
		r.Trend = TrendOf(r.MonthlyTrend)
		return nil
	})
	r.step("maintenance_cost", func() error { r.MaintenanceCost = analysis.MaintenanceCostByType(maint); return nil })
	r.step("active_users", func() error { r.ActiveUsers = analysis.TopActiveUsers(trips, n); return nil })
	r.step("top_routes", func() error {
		var w *analysis.IntegrityWarning
		r.TopRoutes, w = analysis.TopRoutes(trips, stations, n)
		r.warn(w)
		return nil
	})
	r.step("status_distribution", func() error { r.StatusDistribution = analysis.TripStatusDistribution(trips); return nil })
	r.step("segment_average", func() error { r.SegmentAverage = analysis.UserSegmentAverage(trips); return nil })
	r.step("maintenance_frequency", func() error {
		r.MaintenanceFrequency = analysis.MaintenanceFrequency(maint, n)
		return nil
	})
	r.step("duration_outliers", func() error {
		for _, t := range analysis.DurationOutliers(trips, in.Threshold) {
			r.DurationOutliers = append(r.DurationOutliers, OutlierTrip{TripID: t.TripID, BikeID: t.BikeID, DurationMinutes: t.DurationMinutes})
		}
		return nil
	})
	r.step("duration_stats", func() error { r.DurationStats = numeric.Describe(dataset.Durations(trips)); return nil })
	r.step("robust_outliers", func() error {
		mask := numeric.DetectRobustZScore(dataset.Durations(trips), in.Threshold)
		r.RobustOutliers = len(numeric.OutlierIndices(mask))
		return nil
	})
	r.step("duration_distance_correlation", func() error {
		m, err := numeric.CorrelationMatrix(dataset.Durations(trips), dataset.Distances(trips))
		if err != nil {
			return err
		}
		r.DurationDistanceCorr = numeric.Round2(m[0][1])
		return nil
	})
	r.step("station_load", func() error {
		var err error
		r.StationLoad, err = analysis.StationUtilization(trips, stations)
		return err
	})
	r.step("maintenance_mix", func() error { r.MaintenanceMix = analysis.MaintenanceTypeMix(maint); return nil })
	r.step("fares", func() error {
		quotes, err := in.Tariff.QuoteTrips(trips, in.Threshold)
		if err != nil {
			return err
		}
		r.Fares = pricing.Summarize(quotes)
		return nil
	})
	r.step("fleet", func() error {
		f := model.BuildFleet(trips)
		r.Fleet = FleetSummary{Bikes: map[string]int{}, Users: map[string]int{}, InvalidBikes: f.InvalidBikes, InvalidUsers: f.InvalidUsers}
		for k, c := range f.BikeMix() {
			r.Fleet.Bikes[string(k)] = c
		}
		for k, c := range f.UserMix() {
			r.Fleet.Users[string(k)] = c
		}
		return nil
	})
	return r
}

// step runs one query, converting an error or panic into a warning.
func (r *Report) step(name string, fn func() error) {
	defer func() {
		if p := recover(); p != nil {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: aborted: %v", name, p))
			log.WithField("query", name).Errorf("query panicked: %v", p)
		}
	}()
	if err := fn(); err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %v", name, err))
		log.WithField("query", name).WithError(err).Warn("query failed")
	}
}

func (r *Report) warn(w *analysis.IntegrityWarning) {
	if w == nil {
		return
	}
	r.Warnings = append(r.Warnings, w.Error())
	log.WithFields(log.Fields{"query": w.Query, "excluded": w.ExcludedRows}).Warn("unresolved references")
}

// TrendOf compares the first and last month of a monthly series. Growth
// above 5% is growth, below -5% decline, anything between stable. A series
// starting at zero trips cannot be rated.
func TrendOf(months []analysis.KeyCount) Trend {
	if len(months) == 0 {
		return Trend{Direction: TrendInsufficient}
	}
	var t Trend
	for _, m := range months {
		if m.Count > t.BusiestTrips {
			t.BusiestMonth, t.BusiestTrips = m.Key, m.Count
		}
	}
	first, last := months[0].Count, months[len(months)-1].Count
	if first == 0 {
		t.Direction = TrendInsufficient
		return t
	}
	t.GrowthPct = numeric.Round2(float64(last-first) / float64(first) * 100)
	switch {
	case t.GrowthPct > 5:
		t.Direction = TrendGrowth
	case t.GrowthPct < -5:
		t.Direction = TrendDecline
	default:
		t.Direction = TrendStable
	}
	return t
}
