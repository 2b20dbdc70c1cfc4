package numeric

// StationUtilization estimates dock occupancy per station as
// (tripCounts/periodHours)/capacity*100, assuming each trip holds one dock
// for one hour. Zero capacities count as 1 and results are capped at 100.
func StationUtilization(tripCounts, capacities []float64, periodHours float64) ([]float64, error) {
	if err := checkShape("station utilization", tripCounts, capacities); err != nil {
		return nil, err
	}
	if periodHours <= 0 {
		periodHours = 24
	}
	out := make([]float64, len(tripCounts))
	for i := range tripCounts {
		capacity := capacities[i]
		if capacity == 0 {
			capacity = 1
		}
		u := tripCounts[i] / periodHours / capacity * 100
		if u > 100 {
			u = 100
		}
		out[i] = u
	}
	return out, nil
}
