package report

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/citybike-cli/internal/analysis"
)

// Section is one question rendered as a small table.
type Section struct {
	Number string
	Title  string
	Header []string
	Rows   [][]string
	Notes  []string
}

func f2(v float64) string  { return strconv.FormatFloat(v, 'f', 2, 64) }
func itoa(v int) string    { return strconv.Itoa(v) }
func pct(v float64) string { return f2(v) + "%" }

// Sections lays the report out by question number.
func (r *Report) Sections() []Section {
	out := []Section{
		{
			Number: "1", Title: "Trip summary",
			Header: []string{"metric", "value"},
			Rows: [][]string{
				{"total_trips", itoa(r.Summary.TotalTrips)},
				{"total_distance_km", f2(r.Summary.TotalDistanceKm)},
				{"avg_duration_min", f2(r.Summary.AvgDurationMin)},
				{"median_duration_min", f2(r.DurationStats.Median)},
				{"std_duration_min", f2(r.DurationStats.Std)},
				{"p25_duration_min", f2(r.DurationStats.P25)},
				{"p75_duration_min", f2(r.DurationStats.P75)},
				{"p90_duration_min", f2(r.DurationStats.P90)},
				{"duration_distance_corr", f2(r.DurationDistanceCorr)},
			},
		},
		stationSection("2a", "Top start stations", r.TopStartStations),
		stationSection("2b", "Top end stations", r.TopEndStations),
	}

	hours := Section{Number: "3", Title: "Trips by start hour", Header: []string{"hour", "trips"}}
	for _, h := range r.PeakHours {
		hours.Rows = append(hours.Rows, []string{fmt.Sprintf("%02d", h.Hour), itoa(h.Trips)})
	}
	out = append(out, hours,
		countSection("4", "Trips by weekday", "weekday", r.Weekdays),
		valueSection("5", "Average distance by user type (km)", "user_type", r.AvgDistanceByUser),
	)

	bikes := Section{Number: "6", Title: "Bike utilisation", Header: []string{"bike_id", "usage_min", "utilization"}}
	for _, b := range r.BikeUtilization {
		bikes.Rows = append(bikes.Rows, []string{b.BikeID, f2(b.UsageMinutes), pct(b.UtilizationPct)})
	}
	out = append(out, bikes)

	trend := countSection("7", "Monthly trend", "month", r.MonthlyTrend)
	trend.Notes = append(trend.Notes, r.Trend.Comment())
	out = append(out, trend,
		valueSection("8", "Maintenance cost by bike type", "bike_type", r.MaintenanceCost),
		countSection("9", "Most active users", "user_id", r.ActiveUsers),
	)
	if len(r.ActiveUsers) > 0 {
		top := r.ActiveUsers[0]
		out[len(out)-1].Notes = []string{fmt.Sprintf("User %s is the most active rider with %d trips.", top.Key, top.Count)}
	}

	routes := Section{Number: "10", Title: "Most popular routes", Header: []string{"from", "to", "trips"}}
	for _, rc := range r.TopRoutes {
		routes.Rows = append(routes.Rows, []string{rc.StartName, rc.EndName, itoa(rc.Trips)})
	}
	out = append(out, routes,
		countSection("11", "Trip status distribution", "status", r.StatusDistribution),
		valueSection("12", "Average trips per user by segment", "user_type", r.SegmentAverage),
		countSection("13", "Bikes by maintenance frequency", "bike_id", r.MaintenanceFrequency),
	)

	outliers := Section{Number: "14", Title: "Duration outliers", Header: []string{"trip_id", "bike_id", "duration_min"}}
	for _, o := range r.DurationOutliers {
		outliers.Rows = append(outliers.Rows, []string{o.TripID, o.BikeID, f2(o.DurationMinutes)})
	}
	outliers.Notes = []string{
		fmt.Sprintf("%d trips flagged.", len(r.DurationOutliers)),
		fmt.Sprintf("%d trips flagged by the median-based score.", r.RobustOutliers),
	}
	out = append(out, outliers)

	load := Section{Number: "15", Title: "Station utilisation", Header: []string{"station_id", "name", "departures", "capacity", "utilization"}}
	for _, l := range r.StationLoad {
		load.Rows = append(load.Rows, []string{l.StationID, l.Name, itoa(l.Departures), itoa(l.Capacity), pct(l.UtilizationPct)})
	}
	fares := Section{Number: "16", Title: "Fare summary", Header: []string{"tier", "trips", "revenue", "avg_fare", "suspicious"}}
	for _, f := range r.Fares {
		fares.Rows = append(fares.Rows, []string{string(f.Tier), itoa(f.Trips), f2(f.Revenue), f2(f.AvgFare), itoa(f.Suspicious)})
	}
	fleet := Section{Number: "17", Title: "Fleet composition", Header: []string{"entity", "kind", "count"}}
	for _, k := range sortedKeys(r.Fleet.Bikes) {
		fleet.Rows = append(fleet.Rows, []string{"bike", k, itoa(r.Fleet.Bikes[k])})
	}
	for _, k := range sortedKeys(r.Fleet.Users) {
		fleet.Rows = append(fleet.Rows, []string{"user", k, itoa(r.Fleet.Users[k])})
	}
	if r.Fleet.InvalidBikes+r.Fleet.InvalidUsers > 0 {
		fleet.Notes = []string{fmt.Sprintf("Skipped %d bikes and %d users that failed validation.", r.Fleet.InvalidBikes, r.Fleet.InvalidUsers)}
	}
	out = append(out, load,
		countSection("18", "Maintenance type mix", "maintenance_type", r.MaintenanceMix),
		fares, fleet,
	)
	return out
}

func stationSection(num, title string, rows []analysis.StationCount) Section {
	s := Section{Number: num, Title: title, Header: []string{"station_id", "name", "trips"}}
	for _, c := range rows {
		s.Rows = append(s.Rows, []string{c.StationID, c.Name, itoa(c.Trips)})
	}
	return s
}

func countSection(num, title, key string, rows []analysis.KeyCount) Section {
	s := Section{Number: num, Title: title, Header: []string{key, "count"}}
	for _, c := range rows {
		s.Rows = append(s.Rows, []string{c.Key, itoa(c.Count)})
	}
	return s
}

func valueSection(num, title, key string, rows []analysis.KeyValue) Section {
	s := Section{Number: num, Title: title, Header: []string{key, "value"}}
	for _, v := range rows {
		s.Rows = append(s.Rows, []string{v.Key, f2(v.Value)})
	}
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Comment renders the trend as one sentence.
func (t Trend) Comment() string {
	switch t.Direction {
	case TrendGrowth, TrendDecline, TrendStable:
		return fmt.Sprintf("Trips show %s against the first month (%+.1f%%). Busiest month: %s with %d trips.",
			t.Direction, t.GrowthPct, t.BusiestMonth, t.BusiestTrips)
	default:
		if t.BusiestMonth == "" {
			return "Not enough data for a trend."
		}
		return fmt.Sprintf("Not enough data for a trend. Busiest month: %s with %d trips.", t.BusiestMonth, t.BusiestTrips)
	}
}
