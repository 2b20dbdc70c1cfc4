// Package numeric holds the array-level routines shared by the analytics:
// descriptive statistics, z-score outliers, fare vectors, distance matrices
// and correlations. Missing observations are represented as NaN.
package numeric

import (
	"math"
	"sort"
)

// Finite returns the non-NaN, non-Inf values of vals in their original order.
func Finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Mean is the arithmetic mean of the finite values; 0 when there are none.
func Mean(vals []float64) float64 {
	clean := Finite(vals)
	if len(clean) == 0 {
		return 0
	}
	var sum float64
	for _, v := range clean {
		sum += v
	}
	return sum / float64(len(clean))
}

// Median of the finite values; 0 when there are none.
func Median(vals []float64) float64 {
	clean := Finite(vals)
	if len(clean) == 0 {
		return 0
	}
	sort.Float64s(clean)
	return quantile(clean, 0.5)
}

// Std is the population standard deviation of the finite values.
func Std(vals []float64) float64 {
	clean := Finite(vals)
	if len(clean) == 0 {
		return 0
	}
	m := Mean(clean)
	var ss float64
	for _, v := range clean {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(clean)))
}

// Percentile returns the p-th percentile (0-100) of the finite values using
// linear interpolation between closest ranks.
func Percentile(vals []float64, p float64) float64 {
	clean := Finite(vals)
	if len(clean) == 0 {
		return 0
	}
	sort.Float64s(clean)
	return quantile(clean, p/100)
}

// Summary holds descriptive statistics of one numeric column.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Std    float64 `json:"std" yaml:"std"`
	P25    float64 `json:"p25" yaml:"p25"`
	P75    float64 `json:"p75" yaml:"p75"`
	P90    float64 `json:"p90" yaml:"p90"`
}

// Describe summarises the finite values of vals. Empty input yields zeros.
func Describe(vals []float64) Summary {
	clean := Finite(vals)
	if len(clean) == 0 {
		return Summary{}
	}
	sort.Float64s(clean)
	return Summary{
		Count:  len(clean),
		Mean:   Mean(clean),
		Median: quantile(clean, 0.5),
		Std:    Std(clean),
		P25:    quantile(clean, 0.25),
		P75:    quantile(clean, 0.75),
		P90:    quantile(clean, 0.90),
	}
}

// Round2 rounds to currency precision.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
