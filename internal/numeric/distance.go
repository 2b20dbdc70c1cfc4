package numeric

import (
	"math"

	"github.com/umahmood/haversine"
)

// DistanceMatrix returns pairwise planar distances between coordinates,
// sqrt(dlat^2 + dlon^2) in degrees. This ignores Earth curvature; see
// HaversineMatrix for great-circle kilometres.
func DistanceMatrix(latitudes, longitudes []float64) ([][]float64, error) {
	if err := checkShape("station distance matrix", latitudes, longitudes); err != nil {
		return nil, err
	}
	n := len(latitudes)
	m := newMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dLat := latitudes[i] - latitudes[j]
			dLon := longitudes[i] - longitudes[j]
			m[i][j] = math.Sqrt(dLat*dLat + dLon*dLon)
		}
	}
	return m, nil
}

// HaversineMatrix returns pairwise great-circle distances in kilometres.
func HaversineMatrix(latitudes, longitudes []float64) ([][]float64, error) {
	if err := checkShape("station haversine matrix", latitudes, longitudes); err != nil {
		return nil, err
	}
	n := len(latitudes)
	m := newMatrix(n)
	for i := 0; i < n; i++ {
		a := haversine.Coord{Lat: latitudes[i], Lon: longitudes[i]}
		for j := 0; j < n; j++ {
			b := haversine.Coord{Lat: latitudes[j], Lon: longitudes[j]}
			_, km := haversine.Distance(a, b)
			m[i][j] = km
		}
	}
	return m, nil
}

func newMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}
