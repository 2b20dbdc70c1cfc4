// Package analysis holds the report queries. Every query is a pure function
// of the cleaned tables passed in; none of them modifies its input.
package analysis

import (
	"sort"
	"time"

	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/numeric"
)

// TripSummary is the headline trip count, distance and duration.
type TripSummary struct {
	TotalTrips      int     `json:"total_trips" yaml:"total_trips"`
	TotalDistanceKm float64 `json:"total_distance_km" yaml:"total_distance_km"`
	AvgDurationMin  float64 `json:"avg_duration_min" yaml:"avg_duration_min"`
}

// TotalSummary counts trips and sums their distance. The average duration of
// an empty table is 0.
func TotalSummary(trips []dataset.Trip) TripSummary {
	s := TripSummary{TotalTrips: len(trips)}
	if len(trips) == 0 {
		return s
	}
	var dur float64
	for _, t := range trips {
		s.TotalDistanceKm += t.DistanceKm
		dur += t.DurationMinutes
	}
	s.TotalDistanceKm = numeric.Round2(s.TotalDistanceKm)
	s.AvgDurationMin = numeric.Round2(dur / float64(len(trips)))
	return s
}

// HourCount is the number of trips starting in one hour of the day.
type HourCount struct {
	Hour  int `json:"hour" yaml:"hour"`
	Trips int `json:"trips" yaml:"trips"`
}

// PeakHours buckets trips by start hour. All 24 hours are present.
func PeakHours(trips []dataset.Trip) []HourCount {
	out := make([]HourCount, 24)
	for h := range out {
		out[h].Hour = h
	}
	for _, t := range trips {
		out[t.StartTime.Hour()].Trips++
	}
	return out
}

// weekdays in Monday-first order.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// BusiestWeekday counts trips per start weekday. All seven days are present,
// busiest first; ties keep Monday-first order.
func BusiestWeekday(trips []dataset.Trip) []KeyCount {
	counts := map[time.Weekday]int{}
	for _, t := range trips {
		counts[t.StartTime.Weekday()]++
	}
	out := make([]KeyCount, len(weekdays))
	for i, d := range weekdays {
		out[i] = KeyCount{Key: d.String(), Count: counts[d]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// AvgDistanceByUserType is the mean trip distance per user type.
func AvgDistanceByUserType(trips []dataset.Trip) []KeyValue {
	return meanBy(trips, func(t dataset.Trip) string { return t.UserType },
		func(t dataset.Trip) float64 { return t.DistanceKm })
}

func meanBy(trips []dataset.Trip, key func(dataset.Trip) string, val func(dataset.Trip) float64) []KeyValue {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, t := range trips {
		k := key(t)
		sums[k] += val(t)
		counts[k]++
	}
	for k := range sums {
		sums[k] = numeric.Round2(sums[k] / float64(counts[k]))
	}
	return sortedValues(sums)
}

// BikeUsage is one row of the bike utilisation ranking.
type BikeUsage struct {
	BikeID         string  `json:"bike_id" yaml:"bike_id"`
	UsageMinutes   float64 `json:"usage_minutes" yaml:"usage_minutes"`
	UtilizationPct float64 `json:"utilization_pct" yaml:"utilization_pct"`
}

// ObservationWindow is the span between the earliest and latest trip start.
func ObservationWindow(trips []dataset.Trip) time.Duration {
	if len(trips) == 0 {
		return 0
	}
	lo, hi := trips[0].StartTime, trips[0].StartTime
	for _, t := range trips[1:] {
		if t.StartTime.Before(lo) {
			lo = t.StartTime
		}
		if t.StartTime.After(hi) {
			hi = t.StartTime
		}
	}
	return hi.Sub(lo)
}

// BikeUtilization ranks bikes by the share of the observation window they
// spent in use. A non-positive window is derived from the data. A zero-width
// window gives every bike 0%.
func BikeUtilization(trips []dataset.Trip, window time.Duration, n int) []BikeUsage {
	if window <= 0 {
		window = ObservationWindow(trips)
	}
	minutes := window.Minutes()
	usage := map[string]float64{}
	for _, t := range trips {
		usage[t.BikeID] += t.DurationMinutes
	}
	out := make([]BikeUsage, 0, len(usage))
	for id, u := range usage {
		b := BikeUsage{BikeID: id, UsageMinutes: numeric.Round2(u)}
		if minutes > 0 {
			b.UtilizationPct = numeric.Round2(u / minutes * 100)
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsageMinutes == out[j].UsageMinutes {
			return out[i].BikeID < out[j].BikeID
		}
		return out[i].UsageMinutes > out[j].UsageMinutes
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// MonthLayout formats MonthlyTrend keys.
const MonthLayout = "2006-01"

// MonthlyTrend counts trips per calendar month of the start time in
// chronological order. Months without trips between the first and the last
// observed month are reported with a zero count.
func MonthlyTrend(trips []dataset.Trip) []KeyCount {
	if len(trips) == 0 {
		return []KeyCount{}
	}
	counts := map[string]int{}
	first, last := monthOf(trips[0].StartTime), monthOf(trips[0].StartTime)
	for _, t := range trips {
		m := monthOf(t.StartTime)
		counts[m.Format(MonthLayout)]++
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}
	var out []KeyCount
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		k := m.Format(MonthLayout)
		out = append(out, KeyCount{Key: k, Count: counts[k]})
	}
	return out
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// TopActiveUsers ranks users by trip count, ties by ascending user id.
func TopActiveUsers(trips []dataset.Trip, n int) []KeyCount {
	counts := map[string]int{}
	for _, t := range trips {
		counts[t.UserID]++
	}
	return rankCounts(counts, n)
}

// TripStatusDistribution counts trips per status.
func TripStatusDistribution(trips []dataset.Trip) []KeyCount {
	counts := map[string]int{}
	for _, t := range trips {
		counts[t.Status]++
	}
	return sortedCounts(counts)
}

// UserSegmentAverage is the mean number of trips per distinct user within
// each user type.
func UserSegmentAverage(trips []dataset.Trip) []KeyValue {
	perUser := map[string]map[string]int{}
	for _, t := range trips {
		seg := perUser[t.UserType]
		if seg == nil {
			seg = map[string]int{}
			perUser[t.UserType] = seg
		}
		seg[t.UserID]++
	}
	avg := map[string]float64{}
	for typ, users := range perUser {
		total := 0
		for _, c := range users {
			total += c
		}
		avg[typ] = numeric.Round2(float64(total) / float64(len(users)))
	}
	return sortedValues(avg)
}

// DurationOutliers returns the trips whose duration is a z-score outlier at
// threshold, longest first.
func DurationOutliers(trips []dataset.Trip, threshold float64) []dataset.Trip {
	mask := numeric.DetectZScore(dataset.Durations(trips), threshold)
	var out []dataset.Trip
	for _, i := range numeric.OutlierIndices(mask) {
		out = append(out, trips[i])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DurationMinutes == out[j].DurationMinutes {
			return out[i].TripID < out[j].TripID
		}
		return out[i].DurationMinutes > out[j].DurationMinutes
	})
	return out
}
