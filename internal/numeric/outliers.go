package numeric

import (
	"math"
	"sort"
)

// DefaultZThreshold is the |z| above which a value counts as an outlier.
const DefaultZThreshold = 3.0

// DetectZScore flags values whose distance from the mean exceeds threshold
// population standard deviations. Mean and std are computed over the finite
// values only; NaN positions are never flagged. With fewer than two finite
// values or zero spread the mask is all false.
func DetectZScore(values []float64, threshold float64) []bool {
	mask := make([]bool, len(values))
	clean := Finite(values)
	if len(clean) < 2 {
		return mask
	}
	mean := Mean(clean)
	std := Std(clean)
	if std == 0 || math.IsNaN(std) {
		return mask
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		mask[i] = math.Abs(v-mean)/std > threshold
	}
	return mask
}

// OutlierIndices returns the positions set in mask.
func OutlierIndices(mask []bool) []int {
	var idx []int
	for i, m := range mask {
		if m {
			idx = append(idx, i)
		}
	}
	return idx
}

// DetectRobustZScore flags values by the modified z-score
// 0.6745*(v-median)/MAD. It tolerates the masking effect a single extreme
// value has on the standard deviation. Zero MAD yields an all-false mask.
func DetectRobustZScore(values []float64, threshold float64) []bool {
	mask := make([]bool, len(values))
	clean := Finite(values)
	if len(clean) < 2 {
		return mask
	}
	median, mad := medianMAD(clean)
	if mad == 0 {
		return mask
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		mask[i] = math.Abs(0.6745*(v-median)/mad) > threshold
	}
	return mask
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}
