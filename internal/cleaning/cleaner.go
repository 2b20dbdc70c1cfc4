// Package cleaning turns raw trip, station and maintenance tables into
// validated records: deduplicated by key, type-coerced, imputed, temporally
// consistent and with normalised categories.
package cleaning

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/numeric"
	log "github.com/sirupsen/logrus"
)

// Input bundles the raw tables of one run. Stations and Maintenance may be
// nil, in which case the corresponding output is empty.
type Input struct {
	Trips       *dataset.Table
	Stations    *dataset.Table
	Maintenance *dataset.Table
}

// Result holds the cleaned tables plus per-table repair counters.
type Result struct {
	Trips       []dataset.Trip
	Stations    []dataset.Station
	Maintenance []dataset.MaintenanceRecord
	Stats       Stats
}

// Stats counts what cleaning changed.
type Stats struct {
	Trips       TableStats
	Stations    TableStats
	Maintenance TableStats
}

// TableStats describes the repairs applied to one table.
type TableStats struct {
	Input       int
	Output      int
	Duplicates  int
	EmptyKeys   int
	InvalidTime int
	Dropped     int            // rows removed for unrepairable values other than time
	Imputed     map[string]int // column -> values replaced
	Fill        map[string]float64
}

func newTableStats(n int) TableStats {
	return TableStats{Input: n, Imputed: map[string]int{}, Fill: map[string]float64{}}
}

// Clean validates the raw tables. It fails only when a table lacks a required
// identifier column; every other irregularity is repaired or filtered.
// Inputs are not modified.
func Clean(in Input) (*Result, error) {
	if in.Trips == nil {
		return nil, &dataset.DataError{Table: "trips", Missing: dataset.RequiredTripColumns}
	}
	if err := in.Trips.Require(dataset.RequiredTripColumns...); err != nil {
		return nil, err
	}
	if in.Stations != nil {
		if err := in.Stations.Require(dataset.RequiredStationColumns...); err != nil {
			return nil, err
		}
	}
	if in.Maintenance != nil {
		if err := in.Maintenance.Require(dataset.RequiredMaintenanceColumns...); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	res.Trips, res.Stats.Trips = CleanTrips(in.Trips)
	if in.Stations != nil {
		res.Stations, res.Stats.Stations = CleanStations(in.Stations)
	}
	if in.Maintenance != nil {
		res.Maintenance, res.Stats.Maintenance = CleanMaintenance(in.Maintenance)
	}
	return res, nil
}

// dedupe returns the row indices of t whose key in col is non-empty and seen
// for the first time.
func dedupe(t *dataset.Table, col string, st *TableStats) []int {
	seen := make(map[string]struct{}, t.Len())
	keep := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		k := t.Value(i, col)
		if k == "" {
			st.EmptyKeys++
			continue
		}
		if _, dup := seen[k]; dup {
			st.Duplicates++
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	return keep
}

// nonNegative coerces a column to floats; negatives become missing (NaN).
func nonNegative(t *dataset.Table, rows []int, col string) []float64 {
	out := make([]float64, len(rows))
	for k, i := range rows {
		v := dataset.ParseFloat(t.Value(i, col))
		if v < 0 {
			v = math.NaN()
		}
		out[k] = v
	}
	return out
}

// impute replaces NaN entries with fill, recording the count.
func impute(vals []float64, fill float64, col string, st *TableStats) {
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = fill
			st.Imputed[col]++
		}
	}
	st.Fill[col] = fill
}

// CleanTrips applies the cleaning steps to a trips table.
func CleanTrips(t *dataset.Table) ([]dataset.Trip, TableStats) {
	st := newTableStats(t.Len())
	rows := dedupe(t, dataset.ColTripID, &st)

	starts := make([]*time.Time, len(rows))
	ends := make([]*time.Time, len(rows))
	for k, i := range rows {
		if ts, ok := dataset.ParseTime(t.Value(i, dataset.ColStartTime)); ok {
			starts[k] = &ts
		}
		if ts, ok := dataset.ParseTime(t.Value(i, dataset.ColEndTime)); ok {
			ends[k] = &ts
		}
	}

	durations := nonNegative(t, rows, dataset.ColDurationMinutes)
	distances := nonNegative(t, rows, dataset.ColDistanceKm)
	// Median for the skewed duration column, mean for distance. An all-missing
	// column has neither and fills with 0.
	impute(durations, numeric.Median(durations), dataset.ColDurationMinutes, &st)
	impute(distances, numeric.Mean(distances), dataset.ColDistanceKm, &st)

	trips := make([]dataset.Trip, 0, len(rows))
	for k, i := range rows {
		if starts[k] == nil || ends[k] == nil || ends[k].Before(*starts[k]) {
			st.InvalidTime++
			continue
		}
		trips = append(trips, dataset.Trip{
			TripID:          t.Value(i, dataset.ColTripID),
			UserID:          t.Value(i, dataset.ColUserID),
			UserType:        orUnknown(dataset.NormalizeCategory(t.Value(i, dataset.ColUserType))),
			BikeID:          t.Value(i, dataset.ColBikeID),
			BikeType:        orUnknown(dataset.NormalizeCategory(t.Value(i, dataset.ColBikeType))),
			StartStationID:  t.Value(i, dataset.ColStartStationID),
			EndStationID:    t.Value(i, dataset.ColEndStationID),
			StartTime:       *starts[k],
			EndTime:         *ends[k],
			DurationMinutes: durations[k],
			DistanceKm:      distances[k],
			Status:          normalizeStatus(t.Value(i, dataset.ColStatus)),
		})
	}
	st.Output = len(trips)
	log.WithFields(log.Fields{
		"table":        "trips",
		"rows":         st.Input,
		"kept":         st.Output,
		"duplicates":   st.Duplicates,
		"invalid_time": st.InvalidTime,
	}).Debug("cleaned table")
	return trips, st
}

// CleanStations deduplicates stations, drops rows whose coordinates are
// missing or out of range and imputes invalid capacities with the median,
// or 1 when no capacity is valid.
func CleanStations(t *dataset.Table) ([]dataset.Station, TableStats) {
	st := newTableStats(t.Len())
	rows := dedupe(t, dataset.ColStationID, &st)
	nameCol := dataset.ColStationName
	if !t.Has(nameCol) {
		nameCol = dataset.ColStationNameAlt
	}

	caps := make([]float64, len(rows))
	for k, i := range rows {
		c := dataset.ParseFloat(t.Value(i, dataset.ColCapacity))
		if c <= 0 || c != math.Trunc(c) {
			c = math.NaN()
		}
		caps[k] = c
	}
	fill := math.Round(numeric.Median(caps))
	if !(fill >= 1) {
		fill = 1
	}
	impute(caps, fill, dataset.ColCapacity, &st)

	stations := make([]dataset.Station, 0, len(rows))
	for k, i := range rows {
		lat := dataset.ParseFloat(t.Value(i, dataset.ColLatitude))
		lon := dataset.ParseFloat(t.Value(i, dataset.ColLongitude))
		if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			st.Dropped++
			continue
		}
		stations = append(stations, dataset.Station{
			StationID: t.Value(i, dataset.ColStationID),
			Name:      t.Value(i, nameCol),
			Capacity:  int(caps[k]),
			Latitude:  lat,
			Longitude: lon,
		})
	}
	st.Output = len(stations)
	return stations, st
}

// CleanMaintenance deduplicates records, parses dates and imputes missing
// costs with the median cost.
func CleanMaintenance(t *dataset.Table) ([]dataset.MaintenanceRecord, TableStats) {
	st := newTableStats(t.Len())
	rows := dedupe(t, dataset.ColRecordID, &st)
	costs := nonNegative(t, rows, dataset.ColCost)
	impute(costs, numeric.Median(costs), dataset.ColCost, &st)

	out := make([]dataset.MaintenanceRecord, 0, len(rows))
	for k, i := range rows {
		rec := dataset.MaintenanceRecord{
			RecordID:        t.Value(i, dataset.ColRecordID),
			BikeID:          t.Value(i, dataset.ColBikeID),
			BikeType:        orUnknown(dataset.NormalizeCategory(t.Value(i, dataset.ColBikeType))),
			MaintenanceType: maintenanceType(t.Value(i, dataset.ColMaintenanceType)),
			Cost:            costs[k],
			Description:     t.Value(i, dataset.ColDescription),
		}
		if d, ok := dataset.ParseTime(t.Value(i, dataset.ColDate)); ok {
			rec.Date = &d
		} else {
			st.Imputed[dataset.ColDate]++
		}
		out = append(out, rec)
	}
	st.Output = len(out)
	return out, st
}

func maintenanceType(s string) string {
	s = dataset.NormalizeCategory(s)
	if !dataset.IsMaintenanceType(s) {
		return dataset.MaintenanceOther
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return dataset.Unknown
	}
	return s
}

func normalizeStatus(s string) string {
	s = dataset.NormalizeCategory(s)
	switch s {
	case "", "nan", "none", "null":
		return dataset.StatusMissing
	}
	return s
}

// Summary renders the repair counters as one line per table.
func (s Stats) Summary() []string {
	return []string{
		s.Trips.line("trips"),
		s.Stations.line("stations"),
		s.Maintenance.line("maintenance"),
	}
}

func (ts TableStats) line(name string) string {
	out := fmt.Sprintf("%s: %d -> %d rows (duplicates %d, empty keys %d", name, ts.Input, ts.Output, ts.Duplicates, ts.EmptyKeys)
	if ts.InvalidTime > 0 {
		out += ", invalid time " + strconv.Itoa(ts.InvalidTime)
	}
	if ts.Dropped > 0 {
		out += ", dropped " + strconv.Itoa(ts.Dropped)
	}
	for _, col := range []string{dataset.ColDurationMinutes, dataset.ColDistanceKm, dataset.ColCost, dataset.ColCapacity, dataset.ColDate} {
		if n := ts.Imputed[col]; n > 0 {
			out += fmt.Sprintf(", imputed %s %d", col, n)
		}
	}
	return out + ")"
}
