package analysis

import (
	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/numeric"
)

// MaintenanceCostByType sums maintenance cost per bike type.
func MaintenanceCostByType(records []dataset.MaintenanceRecord) []KeyValue {
	sums := map[string]float64{}
	for _, r := range records {
		sums[r.BikeType] += r.Cost
	}
	for k, v := range sums {
		sums[k] = numeric.Round2(v)
	}
	return sortedValues(sums)
}

// MaintenanceFrequency ranks bikes by number of maintenance records, ties by
// ascending bike id.
func MaintenanceFrequency(records []dataset.MaintenanceRecord, n int) []KeyCount {
	counts := map[string]int{}
	for _, r := range records {
		counts[r.BikeID]++
	}
	return rankCounts(counts, n)
}

// MaintenanceTypeMix counts records per maintenance type. Types outside the
// known set are grouped under MaintenanceOther.
func MaintenanceTypeMix(records []dataset.MaintenanceRecord) []KeyCount {
	counts := map[string]int{}
	for _, r := range records {
		k := r.MaintenanceType
		if !dataset.IsMaintenanceType(k) {
			k = dataset.MaintenanceOther
		}
		counts[k]++
	}
	return sortedCounts(counts)
}
