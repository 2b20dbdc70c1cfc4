package analysis

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/numeric"
)

// Endpoint selects which end of a trip a station ranking counts.
type Endpoint string

const (
	StartStation Endpoint = "start"
	EndStation   Endpoint = "end"
)

// StationCount is one row of a station ranking.
type StationCount struct {
	StationID string `json:"station_id" yaml:"station_id"`
	Name      string `json:"name" yaml:"name"`
	Trips     int    `json:"trips" yaml:"trips"`
}

// TopStations ranks stations by the number of trips starting or ending
// there, ties by ascending station id. Trips referencing a station missing
// from stations are excluded and reported through the warning.
func TopStations(trips []dataset.Trip, stations []dataset.Station, by Endpoint, n int) ([]StationCount, *IntegrityWarning, error) {
	var pick func(dataset.Trip) string
	var col string
	switch by {
	case StartStation:
		pick, col = func(t dataset.Trip) string { return t.StartStationID }, dataset.ColStartStationID
	case EndStation:
		pick, col = func(t dataset.Trip) string { return t.EndStationID }, dataset.ColEndStationID
	default:
		return nil, nil, fmt.Errorf("unknown station endpoint %q", by)
	}

	idx := dataset.StationIndex(stations)
	miss := newUnresolved("top_"+string(by)+"_stations", col)
	counts := map[string]int{}
	for _, t := range trips {
		id := pick(t)
		if _, ok := idx[id]; !ok {
			miss.add(id)
			continue
		}
		counts[id]++
	}
	ranked := rankCounts(counts, n)
	out := make([]StationCount, len(ranked))
	for i, kc := range ranked {
		out[i] = StationCount{StationID: kc.Key, Name: idx[kc.Key].Name, Trips: kc.Count}
	}
	return out, miss.warning(), nil
}

// RouteCount is one start/end station pair and its trip count.
type RouteCount struct {
	StartStationID string `json:"start_station_id" yaml:"start_station_id"`
	EndStationID   string `json:"end_station_id" yaml:"end_station_id"`
	StartName      string `json:"start_name" yaml:"start_name"`
	EndName        string `json:"end_name" yaml:"end_name"`
	Trips          int    `json:"trips" yaml:"trips"`
}

// TopRoutes ranks start/end station pairs by trip count, ties by start then
// end station id. Trips with an unknown station on either end are excluded
// and reported through the warning.
func TopRoutes(trips []dataset.Trip, stations []dataset.Station, n int) ([]RouteCount, *IntegrityWarning) {
	idx := dataset.StationIndex(stations)
	miss := newUnresolved("top_routes", "station_id")
	type route struct{ from, to string }
	counts := map[route]int{}
	for _, t := range trips {
		_, okFrom := idx[t.StartStationID]
		_, okTo := idx[t.EndStationID]
		if !okFrom || !okTo {
			if !okFrom {
				miss.ids[t.StartStationID] = struct{}{}
			}
			if !okTo {
				miss.ids[t.EndStationID] = struct{}{}
			}
			miss.rows++
			continue
		}
		counts[route{t.StartStationID, t.EndStationID}]++
	}
	out := make([]RouteCount, 0, len(counts))
	for r, c := range counts {
		out = append(out, RouteCount{
			StartStationID: r.from,
			EndStationID:   r.to,
			StartName:      idx[r.from].Name,
			EndName:        idx[r.to].Name,
			Trips:          c,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Trips != b.Trips {
			return a.Trips > b.Trips
		}
		if a.StartStationID != b.StartStationID {
			return a.StartStationID < b.StartStationID
		}
		return a.EndStationID < b.EndStationID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, miss.warning()
}

// StationLoad is the hourly turnover of a station relative to its capacity.
type StationLoad struct {
	StationID      string  `json:"station_id" yaml:"station_id"`
	Name           string  `json:"name" yaml:"name"`
	Departures     int     `json:"departures" yaml:"departures"`
	Capacity       int     `json:"capacity" yaml:"capacity"`
	UtilizationPct float64 `json:"utilization_pct" yaml:"utilization_pct"`
}

// StationUtilization rates every known station by departures per hour of the
// observation window against its capacity, busiest first.
func StationUtilization(trips []dataset.Trip, stations []dataset.Station) ([]StationLoad, error) {
	departures := map[string]int{}
	for _, t := range trips {
		departures[t.StartStationID]++
	}
	counts := make([]float64, len(stations))
	caps := make([]float64, len(stations))
	for i, s := range stations {
		counts[i] = float64(departures[s.StationID])
		caps[i] = float64(s.Capacity)
	}
	pct, err := numeric.StationUtilization(counts, caps, ObservationWindow(trips).Hours())
	if err != nil {
		return nil, err
	}
	out := make([]StationLoad, len(stations))
	for i, s := range stations {
		out[i] = StationLoad{
			StationID:      s.StationID,
			Name:           s.Name,
			Departures:     departures[s.StationID],
			Capacity:       s.Capacity,
			UtilizationPct: numeric.Round2(pct[i]),
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UtilizationPct == out[j].UtilizationPct {
			return out[i].StationID < out[j].StationID
		}
		return out[i].UtilizationPct > out[j].UtilizationPct
	})
	return out, nil
}
