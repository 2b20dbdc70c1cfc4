package dataset

import (
	"fmt"
	"strings"
)

// Trip columns.
const (
	ColTripID          = "trip_id"
	ColUserID          = "user_id"
	ColUserType        = "user_type"
	ColBikeID          = "bike_id"
	ColBikeType        = "bike_type"
	ColStartStationID  = "start_station_id"
	ColEndStationID    = "end_station_id"
	ColStartTime       = "start_time"
	ColEndTime         = "end_time"
	ColDurationMinutes = "duration_minutes"
	ColDistanceKm      = "distance_km"
	ColStatus          = "status"
)

// Station columns. ColStationNameAlt is accepted when ColStationName is absent.
const (
	ColStationID      = "station_id"
	ColStationName    = "station_name"
	ColStationNameAlt = "name"
	ColCapacity       = "capacity"
	ColLatitude       = "latitude"
	ColLongitude      = "longitude"
)

// Maintenance columns.
const (
	ColRecordID        = "record_id"
	ColDate            = "date"
	ColMaintenanceType = "maintenance_type"
	ColCost            = "cost"
	ColDescription     = "description"
)

// Header layouts used when exporting cleaned tables.
var (
	TripColumns = []string{
		ColTripID, ColUserID, ColUserType, ColBikeID, ColBikeType,
		ColStartStationID, ColEndStationID, ColStartTime, ColEndTime,
		ColDurationMinutes, ColDistanceKm, ColStatus,
	}
	StationColumns     = []string{ColStationID, ColStationName, ColCapacity, ColLatitude, ColLongitude}
	MaintenanceColumns = []string{ColRecordID, ColBikeID, ColBikeType, ColDate, ColMaintenanceType, ColCost, ColDescription}
)

// Identifier columns each table must carry. Any other column may be absent and
// is then treated as entirely missing.
var (
	RequiredTripColumns = []string{
		ColTripID, ColUserID, ColBikeID, ColStartStationID, ColEndStationID,
	}
	RequiredStationColumns     = []string{ColStationID}
	RequiredMaintenanceColumns = []string{ColRecordID, ColBikeID}
)

// Canonical categorical values.
const (
	UserCasual = "casual"
	UserMember = "member"

	BikeClassic  = "classic"
	BikeElectric = "electric"

	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusMissing   = "missing"

	// Unknown replaces an empty user_type or bike_type.
	Unknown = "unknown"
)

// MaintenanceTypes is the closed set of maintenance categories.
var MaintenanceTypes = []string{
	"battery_replacement",
	"brake_adjustment",
	"chain_lubrication",
	"general_inspection",
	"tire_repair",
}

// MaintenanceOther replaces a maintenance type outside MaintenanceTypes.
const MaintenanceOther = "other"

// IsMaintenanceType reports whether s is one of MaintenanceTypes.
func IsMaintenanceType(s string) bool {
	for _, m := range MaintenanceTypes {
		if m == s {
			return true
		}
	}
	return false
}

// DataError reports that an input table lacks required columns. It is fatal
// to a pipeline run.
type DataError struct {
	Table   string
	Missing []string
}

func (e *DataError) Error() string {
	if e == nil {
		return "data error"
	}
	return fmt.Sprintf("table %q is missing required columns: %s", e.Table, strings.Join(e.Missing, ", "))
}
