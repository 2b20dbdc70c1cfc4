package numeric

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectZScoreConstantInput(t *testing.T) {
	for _, thr := range []float64{0, 0.5, 1, 3} {
		mask := DetectZScore([]float64{5, 5, 5, 5}, thr)
		assert.Equal(t, []bool{false, false, false, false}, mask, "threshold %v", thr)
	}
}

func TestDetectZScoreSingleExtremeValue(t *testing.T) {
	values := []float64{1, 2, 3, 4, 100}
	// With five points the largest attainable population z-score is
	// sqrt(n-1) = 2, reached only in the limit, so 1.9 is the tightest
	// useful threshold here.
	mask := DetectZScore(values, 1.9)
	assert.Equal(t, []int{4}, OutlierIndices(mask))

	robust := DetectRobustZScore(values, 2.0)
	assert.Equal(t, []int{4}, OutlierIndices(robust))
}

func TestDetectZScoreMissingAndDegenerate(t *testing.T) {
	nan := math.NaN()
	assert.Empty(t, DetectZScore(nil, 3))
	assert.Equal(t, []bool{false, false}, DetectZScore([]float64{nan, 7}, 0.1))
	assert.Equal(t, []bool{false, false, false}, DetectZScore([]float64{nan, nan, nan}, 0.1))

	values := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 500, nan}
	mask := DetectZScore(values, 2.5)
	require.Len(t, mask, len(values))
	assert.True(t, mask[9])
	assert.False(t, mask[10], "missing input is never classified")
	assert.Equal(t, []int{9}, OutlierIndices(mask))
}

func TestCalculateFares(t *testing.T) {
	fares, err := CalculateFares([]float64{10, 20}, []float64{2, 5}, 0.15, 0.10, 1.0)
	require.NoError(t, err)
	require.Len(t, fares, 2)
	assert.InDelta(t, 2.70, fares[0], 1e-9)
	assert.InDelta(t, 4.50, fares[1], 1e-9)

	rounded, err := CalculateFares([]float64{3.333}, []float64{0}, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.33, rounded[0])
}

func TestCalculateFaresShapeError(t *testing.T) {
	_, err := CalculateFares([]float64{1, 2, 3}, []float64{1}, 1, 1, 0)
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []int{3, 1}, se.Lengths)
}

func TestDistanceMatrixProperties(t *testing.T) {
	lats := []float64{48.78, 48.80, 48.75, 52.52}
	lons := []float64{9.18, 9.20, 9.15, 13.40}
	m, err := DistanceMatrix(lats, lons)
	require.NoError(t, err)
	require.Len(t, m, 4)
	for i := range m {
		assert.Zero(t, m[i][i])
		for j := range m {
			assert.Equal(t, m[i][j], m[j][i])
			assert.GreaterOrEqual(t, m[i][j], 0.0)
		}
	}
	assert.InDelta(t, math.Sqrt(0.02*0.02+0.02*0.02), m[0][1], 1e-9)

	_, err = DistanceMatrix([]float64{1}, nil)
	var se *ShapeError
	assert.True(t, errors.As(err, &se))

	empty, err := DistanceMatrix(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHaversineMatrix(t *testing.T) {
	m, err := HaversineMatrix([]float64{52.52, 48.137}, []float64{13.405, 11.575})
	require.NoError(t, err)
	assert.Zero(t, m[0][0])
	assert.InDelta(t, m[0][1], m[1][0], 1e-9)
	// Berlin to Munich is roughly 504 km.
	assert.InDelta(t, 504, m[0][1], 10)
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{10, 20, 30, 40, 50, math.NaN()})
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 30, s.Mean, 1e-9)
	assert.InDelta(t, 30, s.Median, 1e-9)
	assert.InDelta(t, math.Sqrt(200), s.Std, 1e-9)
	assert.InDelta(t, 20, s.P25, 1e-9)
	assert.InDelta(t, 40, s.P75, 1e-9)
	assert.InDelta(t, 46, s.P90, 1e-9)

	assert.Equal(t, Summary{}, Describe(nil))
	assert.Zero(t, Median([]float64{math.NaN()}))
	assert.Zero(t, Mean(nil))
}

func TestCorrelationMatrix(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}
	z := []float64{4, 3, 2, 1}
	c := []float64{7, 7, 7, 7}
	m, err := CorrelationMatrix(x, y, z, c)
	require.NoError(t, err)
	assert.InDelta(t, 1, m[0][1], 1e-9)
	assert.InDelta(t, -1, m[0][2], 1e-9)
	assert.Zero(t, m[0][3])
	for i := range m {
		assert.Equal(t, 1.0, m[i][i])
	}

	_, err = CorrelationMatrix(x, []float64{1})
	var se *ShapeError
	assert.True(t, errors.As(err, &se))
}

func TestStationUtilization(t *testing.T) {
	u, err := StationUtilization([]float64{48, 24, 1000}, []float64{10, 0, 5}, 24)
	require.NoError(t, err)
	assert.InDelta(t, 20, u[0], 1e-9)
	assert.InDelta(t, 100, u[1], 1e-9)
	assert.Equal(t, 100.0, u[2])
}
