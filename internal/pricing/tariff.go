// Package pricing quotes trip fares. A tariff is a set of linear rates; the
// rate for a trip is picked by user type and start hour and applied in batch
// through numeric.CalculateFares.
package pricing

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/citybike-cli/internal/dataset"
)

// Tier names a pricing rate.
type Tier string

const (
	TierCasual   Tier = "casual"
	TierMember   Tier = "member"
	TierPeak     Tier = "peak"
	TierDistance Tier = "distance"
)

// Tiers lists every tier in report order.
var Tiers = []Tier{TierCasual, TierMember, TierPeak, TierDistance}

// ParseTier maps a name to a Tier.
func ParseTier(s string) (Tier, error) {
	for _, t := range Tiers {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tariff tier %q (want casual, member, peak or distance)", s)
}

// Rate is a linear fare: UnlockFee + PerMinute*minutes + PerKm*km.
type Rate struct {
	UnlockFee float64 `json:"unlock_fee" yaml:"unlock_fee"`
	PerMinute float64 `json:"per_minute" yaml:"per_minute"`
	PerKm     float64 `json:"per_km" yaml:"per_km"`
}

// Tariff holds the rates of every tier. Peak pricing is the casual rate
// scaled by PeakMultiplier for trips starting in one of PeakHours.
type Tariff struct {
	Casual         Rate
	Member         Rate
	Distance       Rate
	PeakMultiplier float64
	PeakHours      []int
}

// DefaultTariff returns the standard city tariff.
func DefaultTariff() Tariff {
	return Tariff{
		Casual:         Rate{UnlockFee: 5.0, PerMinute: 0.5},
		Member:         Rate{UnlockFee: 2.0, PerMinute: 0.2},
		Distance:       Rate{UnlockFee: 3.0, PerMinute: 0.3, PerKm: 1.5},
		PeakMultiplier: 1.5,
		PeakHours:      []int{7, 8, 9, 16, 17, 18},
	}
}

// IsPeak reports whether hour is a peak hour.
func (t Tariff) IsPeak(hour int) bool {
	for _, h := range t.PeakHours {
		if h == hour {
			return true
		}
	}
	return false
}

// TierFor picks the tier for a trip: members pay the member rate, everyone
// else the casual rate, raised to peak when the trip starts in a peak hour.
func (t Tariff) TierFor(userType string, start time.Time) Tier {
	if userType == dataset.UserMember {
		return TierMember
	}
	if t.IsPeak(start.Hour()) {
		return TierPeak
	}
	return TierCasual
}

// Rate returns the linear rate behind tier. Peak shares the casual rate; the
// multiplier is applied to its result.
func (t Tariff) Rate(tier Tier) Rate {
	switch tier {
	case TierMember:
		return t.Member
	case TierDistance:
		return t.Distance
	default:
		return t.Casual
	}
}

// multiplier is the factor applied on top of tier's rate for a trip
// starting at start.
func (t Tariff) multiplier(tier Tier, start time.Time) float64 {
	if tier == TierPeak && t.PeakMultiplier > 0 && t.IsPeak(start.Hour()) {
		return t.PeakMultiplier
	}
	return 1
}

// Validate rejects negative rates and out-of-range peak hours.
func (t Tariff) Validate() error {
	for _, tier := range []Tier{TierCasual, TierMember, TierDistance} {
		r := t.Rate(tier)
		if r.UnlockFee < 0 || r.PerMinute < 0 || r.PerKm < 0 {
			return fmt.Errorf("tariff %s: rates must be non-negative", tier)
		}
	}
	if t.PeakMultiplier < 0 {
		return fmt.Errorf("peak multiplier must be non-negative")
	}
	for _, h := range t.PeakHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("peak hour %d out of range 0-23", h)
		}
	}
	return nil
}
