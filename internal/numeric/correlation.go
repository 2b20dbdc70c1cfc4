package numeric

import "math"

// CorrelationMatrix computes the Pearson correlation between every pair of
// columns. Rows where either value of a pair is missing are skipped for that
// pair. Pairs without spread correlate as 0; the diagonal is 1.
func CorrelationMatrix(cols ...[]float64) ([][]float64, error) {
	if err := checkShape("correlation matrix", cols...); err != nil {
		return nil, err
	}
	k := len(cols)
	mat := newMatrix(k)
	for a := 0; a < k; a++ {
		mat[a][a] = 1
		for b := a + 1; b < k; b++ {
			r := pearson(cols[a], cols[b])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return mat, nil
}

func pearson(xs, ys []float64) float64 {
	var n, sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		n++
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}
	if n < 2 {
		return 0
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 || math.IsNaN(denom) {
		return 0
	}
	r := (n*sumXY - sumX*sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
