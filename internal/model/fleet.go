package model

import (
	"sort"

	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	log "github.com/sirupsen/logrus"
)

// Fleet is the set of distinct bikes and users seen in a trips table.
type Fleet struct {
	Bikes        []Bike
	Users        []User
	InvalidBikes int
	InvalidUsers int
}

// BuildFleet constructs one Bike per distinct bike id and one User per
// distinct user id, taking kinds from the first trip that names them. Ids
// whose record fails validation are counted, not returned.
func BuildFleet(trips []dataset.Trip) Fleet {
	var f Fleet
	seenBike := map[string]bool{}
	seenUser := map[string]bool{}
	for _, t := range trips {
		if !seenBike[t.BikeID] {
			seenBike[t.BikeID] = true
			b, err := NewBike(map[string]string{
				dataset.ColBikeID:   t.BikeID,
				dataset.ColBikeType: t.BikeType,
			})
			if err != nil {
				log.WithError(err).Debug("skipping bike")
				f.InvalidBikes++
			} else {
				f.Bikes = append(f.Bikes, b)
			}
		}
		if !seenUser[t.UserID] {
			seenUser[t.UserID] = true
			u, err := NewUser(map[string]string{
				dataset.ColUserID:   t.UserID,
				dataset.ColUserType: t.UserType,
			})
			if err != nil {
				log.WithError(err).Debug("skipping user")
				f.InvalidUsers++
			} else {
				f.Users = append(f.Users, u)
			}
		}
	}
	sort.Slice(f.Bikes, func(i, j int) bool { return f.Bikes[i].ID < f.Bikes[j].ID })
	sort.Slice(f.Users, func(i, j int) bool { return f.Users[i].ID < f.Users[j].ID })
	return f
}

// BikeMix counts bikes per kind.
func (f Fleet) BikeMix() map[BikeKind]int {
	m := map[BikeKind]int{}
	for _, b := range f.Bikes {
		m[b.Kind]++
	}
	return m
}

// UserMix counts users per kind.
func (f Fleet) UserMix() map[UserKind]int {
	m := map[UserKind]int{}
	for _, u := range f.Users {
		m[u.Kind]++
	}
	return m
}
