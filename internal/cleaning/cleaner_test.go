package cleaning

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tripHeader = "trip_id,user_id,user_type,bike_id,bike_type,start_station_id,end_station_id,start_time,end_time,duration_minutes,distance_km,status"

func table(t *testing.T, name string, lines ...string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.ReadCSVFrom(strings.NewReader(strings.Join(lines, "\n")), name, ',')
	require.NoError(t, err)
	return tbl
}

func messyTrips(t *testing.T) *dataset.Table {
	return table(t, "trips",
		tripHeader,
		"TR1,U1, Casual ,B1,CLASSIC,ST1,ST2,2024-01-05 08:00:00,2024-01-05 08:20:00,20,3,Completed",
		"TR1,U9,member,B9,classic,ST1,ST2,2024-01-05 08:00:00,2024-01-05 08:20:00,99,9,completed",
		"TR2,U2,member,B2,electric,ST2,ST1,2024-01-06 09:00:00,2024-01-06 09:10:00,abc,,",
		"TR3,U3,member,B3,electric,ST2,ST1,2024-01-06 10:00:00,2024-01-06 09:00:00,10,1,completed",
		"TR4,U4,casual,B4,classic,ST1,ST1,2024-01-07 12:00:00,2024-01-07 12:00:00,0,0,cancelled",
		"TR5,U5,,B5,,ST1,ST2,not-a-date,2024-01-07 12:00:00,5,1,completed",
		"TR6,U6,member,B6,classic,ST2,ST2,2024-01-08 12:00:00,2024-01-08 12:40:00,-4,6,completed",
		",U7,member,B7,classic,ST2,ST2,2024-01-08 12:00:00,2024-01-08 12:40:00,40,6,completed",
	)
}

func TestCleanTripsOutputRules(t *testing.T) {
	trips, st := CleanTrips(messyTrips(t))

	ids := map[string]bool{}
	for _, tr := range trips {
		assert.False(t, ids[tr.TripID], "duplicate %s", tr.TripID)
		ids[tr.TripID] = true
		assert.False(t, tr.EndTime.Before(tr.StartTime), "trip %s ends before it starts", tr.TripID)
		assert.GreaterOrEqual(t, tr.DurationMinutes, 0.0)
		assert.GreaterOrEqual(t, tr.DistanceKm, 0.0)
	}
	assert.Equal(t, map[string]bool{"TR1": true, "TR2": true, "TR4": true, "TR6": true}, ids)
	assert.Equal(t, 1, st.Duplicates)
	assert.Equal(t, 1, st.EmptyKeys)
	assert.Equal(t, 2, st.InvalidTime)

	byID := map[string]dataset.Trip{}
	for _, tr := range trips {
		byID[tr.TripID] = tr
	}
	// First occurrence wins.
	assert.Equal(t, "U1", byID["TR1"].UserID)
	assert.Equal(t, "casual", byID["TR1"].UserType)
	assert.Equal(t, "classic", byID["TR1"].BikeType)
	assert.Equal(t, "completed", byID["TR1"].Status)
	assert.Equal(t, dataset.StatusMissing, byID["TR2"].Status)
	// Zero-length trips are kept.
	assert.True(t, byID["TR4"].EndTime.Equal(byID["TR4"].StartTime))
}

func TestCleanTripsImputation(t *testing.T) {
	trips, st := CleanTrips(messyTrips(t))
	byID := map[string]dataset.Trip{}
	for _, tr := range trips {
		byID[tr.TripID] = tr
	}
	// Durations observed across deduplicated rows: 20, 10, 0, 5 (TR2 and TR6
	// are missing), median 7.5. The fill is computed before temporal filtering.
	assert.InDelta(t, 7.5, byID["TR2"].DurationMinutes, 1e-9)
	assert.InDelta(t, 7.5, byID["TR6"].DurationMinutes, 1e-9)
	// Distances observed: 3, 1, 0, 1, 6, mean 2.2.
	assert.InDelta(t, 2.2, byID["TR2"].DistanceKm, 1e-9)
	assert.Equal(t, 2, st.Imputed[dataset.ColDurationMinutes])
	assert.Equal(t, 1, st.Imputed[dataset.ColDistanceKm])
}

func TestCleanIsIdempotent(t *testing.T) {
	once, _ := CleanTrips(messyTrips(t))
	twice, st := CleanTrips(dataset.TripsTable(once))
	assert.Equal(t, once, twice)
	assert.Zero(t, st.Duplicates)
	assert.Zero(t, st.InvalidTime)
	assert.Empty(t, st.Imputed)
}

func TestCleanIsIdempotentAcrossOffsets(t *testing.T) {
	tbl := table(t, "trips",
		tripHeader,
		"T1,U1,member,B1,classic,S1,S2,2024-01-05T08:00:00+02:00,2024-01-05T07:30:00Z,30,2,completed",
		"T2,U2,casual,B2,classic,S2,S1,2024-01-05T09:00:00Z,2024-01-05T09:10:00Z,10,1,completed",
	)
	once, st := CleanTrips(tbl)
	require.Len(t, once, 2)
	assert.Zero(t, st.InvalidTime)
	assert.True(t, once[0].StartTime.Equal(time.Date(2024, 1, 5, 6, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, once[0].StartTime.Location())

	twice, st := CleanTrips(dataset.TripsTable(once))
	assert.Equal(t, once, twice)
	assert.Zero(t, st.InvalidTime)
}

func TestCleanAllMissingColumnImputesZero(t *testing.T) {
	tbl := table(t, "trips",
		tripHeader,
		"T1,U1,member,B1,classic,S1,S2,2024-01-01 10:00:00,2024-01-01 10:05:00,,,completed",
		"T2,U2,member,B2,classic,S1,S2,2024-01-01 11:00:00,2024-01-01 11:05:00,,,completed",
	)
	trips, _ := CleanTrips(tbl)
	require.Len(t, trips, 2)
	for _, tr := range trips {
		assert.Zero(t, tr.DurationMinutes)
		assert.Zero(t, tr.DistanceKm)
	}
}

func TestCleanMissingRequiredColumn(t *testing.T) {
	tbl := table(t, "trips", "user_id,bike_id\nU1,B1")
	_, err := Clean(Input{Trips: tbl})
	var de *dataset.DataError
	require.True(t, errors.As(err, &de))
	assert.Contains(t, de.Missing, dataset.ColTripID)

	stations := table(t, "stations", "name,capacity\nA,10")
	_, err = Clean(Input{Trips: messyTrips(t), Stations: stations})
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "stations", de.Table)
}

func TestCleanStations(t *testing.T) {
	tbl := table(t, "stations",
		"station_id,station_name,capacity,latitude,longitude",
		"S1,Central,20,48.78,9.18",
		"S1,Central copy,99,48.78,9.18",
		"S2,North,abc,48.80,9.20",
		"S3,Broken,10,123,9.20",
		"S4,South,-3,48.75,9.15",
		"S5,East,30,48.77,9.22",
	)
	stations, st := CleanStations(tbl)
	require.Len(t, stations, 4)
	assert.Equal(t, 1, st.Duplicates)
	assert.Equal(t, 1, st.Dropped)
	idx := dataset.StationIndex(stations)
	assert.Equal(t, "Central", idx["S1"].Name)
	// Valid capacities 20, 10, 30 give median 20.
	assert.Equal(t, 20, idx["S2"].Capacity)
	assert.Equal(t, 20, idx["S4"].Capacity)
	for _, s := range stations {
		assert.Positive(t, s.Capacity)
	}
}

func TestCleanStationsWithoutValidCapacity(t *testing.T) {
	tbl := table(t, "stations",
		"station_id,station_name,capacity,latitude,longitude",
		"S1,Central,,48.78,9.18",
		"S2,North,abc,48.80,9.20",
	)
	stations, st := CleanStations(tbl)
	require.Len(t, stations, 2)
	for _, s := range stations {
		assert.Equal(t, 1, s.Capacity, s.StationID)
	}
	assert.Equal(t, 2, st.Imputed[dataset.ColCapacity])
}

func TestCleanStationsAcceptsNameAlias(t *testing.T) {
	tbl := table(t, "stations", "station_id,name,capacity,latitude,longitude\nS1,Plaza,12,1,2")
	stations, _ := CleanStations(tbl)
	require.Len(t, stations, 1)
	assert.Equal(t, "Plaza", stations[0].Name)
}

func TestCleanMaintenance(t *testing.T) {
	tbl := table(t, "maintenance",
		"record_id,bike_id,bike_type,date,maintenance_type,cost,description",
		"M1,B1,Classic,2024-01-02,Tire_Repair,10,flat",
		"M2,B2,electric,garbage,battery_replacement,,",
		"M3,B3,electric,2024-01-05,brake_adjustment,30,",
		"M3,B3,electric,2024-01-05,brake_adjustment,999,",
		"M4,B4,classic,2024-01-06,chain_lubrication,-5,",
		"M5,B5,classic,2024-01-07, Repaint ,10,",
	)
	recs, st := CleanMaintenance(tbl)
	require.Len(t, recs, 5)
	assert.Equal(t, dataset.MaintenanceOther, recs[4].MaintenanceType)
	assert.Equal(t, 1, st.Duplicates)
	assert.Equal(t, "classic", recs[0].BikeType)
	assert.Equal(t, "tire_repair", recs[0].MaintenanceType)
	assert.Nil(t, recs[1].Date)
	assert.Equal(t, 1, st.Imputed[dataset.ColDate])
	// Median of 10, 30 and 10.
	assert.InDelta(t, 10, recs[1].Cost, 1e-9)
	assert.InDelta(t, 10, recs[3].Cost, 1e-9)
}

func TestCleanWithOptionalTablesAbsent(t *testing.T) {
	res, err := Clean(Input{Trips: messyTrips(t)})
	require.NoError(t, err)
	assert.Len(t, res.Trips, 4)
	assert.Empty(t, res.Stations)
	assert.Empty(t, res.Maintenance)
	lines := res.Stats.Summary()
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "trips: 8 -> 4 rows"))
}
