package numeric

// CalculateFares prices trips element-wise:
//
//	fare[i] = unlockFee + perMinute*durations[i] + perKm*distances[i]
//
// rounded to two decimals.
func CalculateFares(durations, distances []float64, perMinute, perKm, unlockFee float64) ([]float64, error) {
	if err := checkShape("calculate fares", durations, distances); err != nil {
		return nil, err
	}
	fares := make([]float64, len(durations))
	for i := range durations {
		fares[i] = Round2(unlockFee + perMinute*durations[i] + perKm*distances[i])
	}
	return fares, nil
}
