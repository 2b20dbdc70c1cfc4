package pricing

import (
	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/numeric"
)

// Quote is the fare of one trip.
type Quote struct {
	TripID     string  `json:"trip_id" yaml:"trip_id"`
	UserType   string  `json:"user_type" yaml:"user_type"`
	Tier       Tier    `json:"tier" yaml:"tier"`
	Fare       float64 `json:"fare" yaml:"fare"`
	Suspicious bool    `json:"suspicious,omitempty" yaml:"suspicious,omitempty"`
}

// QuoteTrips prices every trip at the tier picked by TierFor and flags
// fares that are z-score outliers at threshold across the whole batch.
func (t Tariff) QuoteTrips(trips []dataset.Trip, threshold float64) ([]Quote, error) {
	return t.quote(trips, func(tr dataset.Trip) Tier { return t.TierFor(tr.UserType, tr.StartTime) }, threshold)
}

// QuoteTier prices every trip at one fixed tier. Peak raises only trips
// starting in a peak hour; the rest pay the plain casual fare.
func (t Tariff) QuoteTier(trips []dataset.Trip, tier Tier, threshold float64) ([]Quote, error) {
	return t.quote(trips, func(dataset.Trip) Tier { return tier }, threshold)
}

func (t Tariff) quote(trips []dataset.Trip, pick func(dataset.Trip) Tier, threshold float64) ([]Quote, error) {
	quotes := make([]Quote, len(trips))
	groups := map[Tier][]int{}
	for i, tr := range trips {
		tier := pick(tr)
		quotes[i] = Quote{TripID: tr.TripID, UserType: tr.UserType, Tier: tier}
		groups[tier] = append(groups[tier], i)
	}
	for _, tier := range Tiers {
		idx := groups[tier]
		if len(idx) == 0 {
			continue
		}
		durations := make([]float64, len(idx))
		distances := make([]float64, len(idx))
		for k, i := range idx {
			durations[k] = trips[i].DurationMinutes
			distances[k] = trips[i].DistanceKm
		}
		r := t.Rate(tier)
		fares, err := numeric.CalculateFares(durations, distances, r.PerMinute, r.PerKm, r.UnlockFee)
		if err != nil {
			return nil, err
		}
		for k, i := range idx {
			quotes[i].Fare = numeric.Round2(fares[k] * t.multiplier(tier, trips[i].StartTime))
		}
	}

	all := make([]float64, len(quotes))
	for i, q := range quotes {
		all[i] = q.Fare
	}
	for _, i := range numeric.OutlierIndices(numeric.DetectZScore(all, threshold)) {
		quotes[i].Suspicious = true
	}
	return quotes, nil
}

// TierSummary aggregates the quotes of one tier.
type TierSummary struct {
	Tier       Tier    `json:"tier" yaml:"tier"`
	Trips      int     `json:"trips" yaml:"trips"`
	Revenue    float64 `json:"revenue" yaml:"revenue"`
	AvgFare    float64 `json:"avg_fare" yaml:"avg_fare"`
	Suspicious int     `json:"suspicious" yaml:"suspicious"`
}

// Summarize totals quotes per tier in Tiers order, skipping empty tiers.
func Summarize(quotes []Quote) []TierSummary {
	byTier := map[Tier]*TierSummary{}
	for _, q := range quotes {
		s := byTier[q.Tier]
		if s == nil {
			s = &TierSummary{Tier: q.Tier}
			byTier[q.Tier] = s
		}
		s.Trips++
		s.Revenue += q.Fare
		if q.Suspicious {
			s.Suspicious++
		}
	}
	var out []TierSummary
	for _, tier := range Tiers {
		s := byTier[tier]
		if s == nil {
			continue
		}
		s.Revenue = numeric.Round2(s.Revenue)
		s.AvgFare = numeric.Round2(s.Revenue / float64(s.Trips))
		out = append(out, *s)
	}
	return out
}
