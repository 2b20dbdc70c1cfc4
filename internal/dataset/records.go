package dataset

import (
	"strconv"
	"time"
)

// Trip is a cleaned trip record.
type Trip struct {
	TripID          string
	UserID          string
	UserType        string
	BikeID          string
	BikeType        string
	StartStationID  string
	EndStationID    string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes float64
	DistanceKm      float64
	Status          string
}

// Station is a cleaned station record.
type Station struct {
	StationID string
	Name      string
	Capacity  int
	Latitude  float64
	Longitude float64
}

// MaintenanceRecord is a cleaned maintenance record. Date is nil when the
// source value could not be parsed.
type MaintenanceRecord struct {
	RecordID        string
	BikeID          string
	BikeType        string
	Date            *time.Time
	MaintenanceType string
	Cost            float64
	Description     string
}

// Durations returns the duration column of trips.
func Durations(trips []Trip) []float64 {
	out := make([]float64, len(trips))
	for i, t := range trips {
		out[i] = t.DurationMinutes
	}
	return out
}

// Distances returns the distance column of trips.
func Distances(trips []Trip) []float64 {
	out := make([]float64, len(trips))
	for i, t := range trips {
		out[i] = t.DistanceKm
	}
	return out
}

// StationIndex maps station_id to its record.
func StationIndex(stations []Station) map[string]Station {
	m := make(map[string]Station, len(stations))
	for _, s := range stations {
		m[s.StationID] = s
	}
	return m
}

// TripsTable renders trips back into a raw table using the export layout.
func TripsTable(trips []Trip) *Table {
	rows := make([][]string, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, []string{
			t.TripID, t.UserID, t.UserType, t.BikeID, t.BikeType,
			t.StartStationID, t.EndStationID,
			t.StartTime.Format(TimeLayout), t.EndTime.Format(TimeLayout),
			FormatFloat(t.DurationMinutes), FormatFloat(t.DistanceKm), t.Status,
		})
	}
	return NewTable("trips", TripColumns, rows)
}

// StationsTable renders stations back into a raw table.
func StationsTable(stations []Station) *Table {
	rows := make([][]string, 0, len(stations))
	for _, s := range stations {
		rows = append(rows, []string{
			s.StationID, s.Name, strconv.Itoa(s.Capacity),
			FormatFloat(s.Latitude), FormatFloat(s.Longitude),
		})
	}
	return NewTable("stations", StationColumns, rows)
}

// MaintenanceTable renders maintenance records back into a raw table.
func MaintenanceTable(records []MaintenanceRecord) *Table {
	rows := make([][]string, 0, len(records))
	for _, m := range records {
		date := ""
		if m.Date != nil {
			date = m.Date.Format(DateLayout)
		}
		rows = append(rows, []string{
			m.RecordID, m.BikeID, m.BikeType, date, m.MaintenanceType,
			FormatFloat(m.Cost), m.Description,
		})
	}
	return NewTable("maintenance", MaintenanceColumns, rows)
}
