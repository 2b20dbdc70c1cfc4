// Package model builds the fleet entities (bikes and users) from field maps.
// Kinds are closed tags; constructors validate and fail instead of returning
// partially filled records.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KaramelBytes/citybike-cli/internal/dataset"
)

// BikeKind tags a Bike.
type BikeKind string

const (
	ClassicBike  BikeKind = dataset.BikeClassic
	ElectricBike BikeKind = dataset.BikeElectric
)

// UserKind tags a User.
type UserKind string

const (
	CasualUser UserKind = dataset.UserCasual
	MemberUser UserKind = dataset.UserMember
)

// Bike is a fleet bike. BatteryLevel and MaxRangeKm apply to electric bikes
// only; GearCount to classic bikes only.
type Bike struct {
	ID           string   `validate:"required"`
	Kind         BikeKind `validate:"oneof=classic electric"`
	Status       string   `validate:"oneof=available in_use maintenance"`
	GearCount    int      `validate:"required_if=Kind classic,gte=0"`
	BatteryLevel float64  `validate:"gte=0,lte=100"`
	MaxRangeKm   float64  `validate:"required_if=Kind electric,gte=0"`
}

// User is a rider. DayPassCount applies to casual users; MembershipTier to
// members.
type User struct {
	ID             string   `validate:"required"`
	Kind           UserKind `validate:"oneof=casual member"`
	Name           string
	Email          string `validate:"omitempty,email"`
	DayPassCount   int    `validate:"gte=0"`
	MembershipTier string `validate:"omitempty,oneof=basic premium"`
}

var validate = validator.New()

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Entity string
	ID     string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Entity, e.ID, strings.Join(e.Fields, "; "))
}

func check(entity, id string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Entity: entity, ID: id}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return ve
}

// NewBike builds a bike from a field map. Recognised keys: bike_id,
// bike_type, status, gear_count, battery_level, max_range_km. Missing kind
// specific fields fall back to fleet defaults.
func NewBike(fields map[string]string) (Bike, error) {
	b := Bike{
		ID:     strings.TrimSpace(fields[dataset.ColBikeID]),
		Kind:   BikeKind(dataset.NormalizeCategory(fields[dataset.ColBikeType])),
		Status: dataset.NormalizeCategory(fields["status"]),
	}
	if b.Status == "" {
		b.Status = "available"
	}
	switch b.Kind {
	case ClassicBike:
		b.GearCount = intOr(fields["gear_count"], 7)
	case ElectricBike:
		b.BatteryLevel = floatOr(fields["battery_level"], 100)
		b.MaxRangeKm = floatOr(fields["max_range_km"], 50)
	}
	if err := check("bike", b.ID, b); err != nil {
		return Bike{}, err
	}
	return b, nil
}

// NewUser builds a user from a field map. Recognised keys: user_id,
// user_type, name, email, day_pass_count, membership_tier.
func NewUser(fields map[string]string) (User, error) {
	u := User{
		ID:    strings.TrimSpace(fields[dataset.ColUserID]),
		Kind:  UserKind(dataset.NormalizeCategory(fields[dataset.ColUserType])),
		Name:  strings.TrimSpace(fields["name"]),
		Email: strings.TrimSpace(fields["email"]),
	}
	switch u.Kind {
	case CasualUser:
		u.DayPassCount = intOr(fields["day_pass_count"], 0)
	case MemberUser:
		u.MembershipTier = dataset.NormalizeCategory(fields["membership_tier"])
		if u.MembershipTier == "" {
			u.MembershipTier = "basic"
		}
	}
	if err := check("user", u.ID, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// String renders a bike for listings.
func (b Bike) String() string {
	switch b.Kind {
	case ElectricBike:
		return fmt.Sprintf("%s (electric, battery %.0f%%, range %.0f km)", b.ID, b.BatteryLevel, b.MaxRangeKm)
	default:
		return fmt.Sprintf("%s (classic, %d gears)", b.ID, b.GearCount)
	}
}

// String renders a user for listings.
func (u User) String() string {
	if u.Kind == MemberUser {
		return fmt.Sprintf("%s (member, %s)", u.ID, u.MembershipTier)
	}
	return fmt.Sprintf("%s (casual)", u.ID)
}

func intOr(s string, def int) int {
	f := dataset.ParseFloat(s)
	if math.IsNaN(f) {
		return def
	}
	return int(f)
}

func floatOr(s string, def float64) float64 {
	f := dataset.ParseFloat(s)
	if math.IsNaN(f) {
		return def
	}
	return f
}
