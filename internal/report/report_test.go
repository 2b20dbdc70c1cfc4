package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/citybike-cli/internal/analysis"
	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func trip(id, user, userType, from, to string, start time.Time, minutes, km float64) dataset.Trip {
	return dataset.Trip{
		TripID: id, UserID: user, UserType: userType, BikeID: "B" + id, BikeType: dataset.BikeClassic,
		StartStationID: from, EndStationID: to,
		StartTime: start, EndTime: start.Add(time.Duration(minutes * float64(time.Minute))),
		DurationMinutes: minutes, DistanceKm: km, Status: "completed",
	}
}

func fixture() Inputs {
	jan := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	return Inputs{
		RunID: "run-1",
		Trips: []dataset.Trip{
			trip("1", "U1", dataset.UserMember, "S1", "S2", jan, 10, 2),
			trip("2", "U1", dataset.UserMember, "S1", "S2", jan.Add(time.Hour), 12, 2.5),
			trip("3", "U2", dataset.UserCasual, "S2", "S1", feb, 15, 3),
			trip("4", "U3", dataset.UserCasual, "S9", "S1", feb.Add(time.Hour), 20, 4),
		},
		Stations: []dataset.Station{
			{StationID: "S1", Name: "Central", Capacity: 10},
			{StationID: "S2", Name: "Harbour", Capacity: 4},
		},
		Maintenance: []dataset.MaintenanceRecord{
			{RecordID: "M1", BikeID: "B1", BikeType: dataset.BikeClassic, Date: &date, MaintenanceType: "brake_adjustment", Cost: 30},
			{RecordID: "M2", BikeID: "B1", BikeType: dataset.BikeClassic, Date: &date, MaintenanceType: "tire_repair", Cost: 10},
		},
		TopN:      5,
		Threshold: 3,
		Tariff:    pricing.DefaultTariff(),
		Cleaning:  []string{"trips: 4 -> 4 rows"},
	}
}

func TestAssemble(t *testing.T) {
	r := Assemble(fixture())

	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, 4, r.Summary.TotalTrips)
	assert.Greater(t, r.DurationDistanceCorr, 0.9)
	assert.Equal(t, 0, r.RobustOutliers)
	require.NotEmpty(t, r.TopStartStations)
	assert.Equal(t, "S1", r.TopStartStations[0].StationID)
	assert.Len(t, r.PeakHours, 24)
	assert.Len(t, r.Weekdays, 7)
	assert.Equal(t, []analysis.KeyCount{{Key: "2024-01", Count: 2}, {Key: "2024-02", Count: 2}}, r.MonthlyTrend)
	assert.Equal(t, TrendStable, r.Trend.Direction)
	assert.Equal(t, []analysis.KeyValue{{Key: dataset.BikeClassic, Value: 40}}, r.MaintenanceCost)
	require.NotEmpty(t, r.ActiveUsers)
	assert.Equal(t, "U1", r.ActiveUsers[0].Key)
	assert.Equal(t, []analysis.KeyCount{{Key: "B1", Count: 2}}, r.MaintenanceFrequency)
	assert.Len(t, r.StationLoad, 2)
	assert.NotEmpty(t, r.Fares)
	assert.Equal(t, 4, r.Fleet.Bikes[dataset.BikeClassic])
	assert.Equal(t, 1, r.Fleet.Users[dataset.UserMember])
	assert.Equal(t, 2, r.Fleet.Users[dataset.UserCasual])

	// Trip 4 starts at an unknown station: it is excluded from the start
	// ranking and the routes, and each query reports it once.
	require.Len(t, r.Warnings, 2)
	assert.True(t, strings.HasPrefix(r.Warnings[0], "top_start_stations: 1 rows"))
	assert.Contains(t, r.Warnings[0], "S9")
	assert.True(t, strings.HasPrefix(r.Warnings[1], "top_routes: 1 rows"))
}

func TestAssembleEmptyInputs(t *testing.T) {
	r := Assemble(Inputs{TopN: 3, Threshold: 3, Tariff: pricing.DefaultTariff()})
	assert.Equal(t, 0, r.Summary.TotalTrips)
	assert.Empty(t, r.TopRoutes)
	assert.Equal(t, TrendInsufficient, r.Trend.Direction)
	assert.NotPanics(t, func() { _ = r.Text() })
}

func TestStepRecoversPanics(t *testing.T) {
	r := &Report{}
	r.step("boom", func() error { panic("bad index") })
	r.step("fine", func() error { return nil })
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "boom: aborted: bad index", r.Warnings[0])
}

func TestTrendOf(t *testing.T) {
	months := func(counts ...int) []analysis.KeyCount {
		out := make([]analysis.KeyCount, len(counts))
		for i, c := range counts {
			out[i] = analysis.KeyCount{Key: time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format(analysis.MonthLayout), Count: c}
		}
		return out
	}
	cases := []struct {
		name   string
		counts []int
		dir    string
		growth float64
	}{
		{"growth", []int{100, 120}, TrendGrowth, 20},
		{"decline", []int{100, 50, 80}, TrendDecline, -20},
		{"stable", []int{100, 104}, TrendStable, 4},
		{"zero start", []int{0, 10}, TrendInsufficient, 0},
		{"empty", nil, TrendInsufficient, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := TrendOf(months(tc.counts...))
			assert.Equal(t, tc.dir, tr.Direction)
			assert.InDelta(t, tc.growth, tr.GrowthPct, 1e-9)
		})
	}

	tr := TrendOf(months(3, 9, 4))
	assert.Equal(t, "2024-02", tr.BusiestMonth)
	assert.Equal(t, 9, tr.BusiestTrips)
}

func TestTextSections(t *testing.T) {
	txt := Assemble(fixture()).Text()
	for _, want := range []string{
		"CITYBIKE ANALYSIS REPORT",
		"Run: run-1",
		"[CLEANING]",
		"[1] TRIP SUMMARY",
		"[2a] TOP START STATIONS",
		"[7] MONTHLY TREND",
		"[14] DURATION OUTLIERS",
		"0 trips flagged.",
		"User U1 is the most active rider with 2 trips.",
		"[WARNINGS]",
	} {
		assert.Contains(t, txt, want)
	}
	assert.Less(t, strings.Index(txt, "[1] "), strings.Index(txt, "[14] "))
}

func TestWriteXLSX(t *testing.T) {
	r := Assemble(fixture())
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, r.WriteXLSX(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.NotContains(t, sheets, "Sheet1")
	assert.Contains(t, sheets, "Q1 Trip summary")
	assert.Contains(t, sheets, "Warnings")
	for _, s := range sheets {
		assert.LessOrEqual(t, len(s), maxSheetName)
	}

	rows, err := f.GetRows("Q1 Trip summary")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, []string{"metric", "value"}, rows[0])
	assert.Equal(t, []string{"total_trips", "4"}, rows[1])

	for _, s := range r.Sections() {
		if len(s.Notes) == 0 {
			continue
		}
		rows, err := f.GetRows(SheetName(s))
		require.NoError(t, err)
		require.Len(t, rows, len(s.Rows)+2+len(s.Notes))
		assert.Equal(t, s.Notes[0], rows[len(s.Rows)+2][0])
	}

	warnings, err := f.GetCols("Warnings")
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	assert.Equal(t, r.Warnings, warnings[0])
}

func TestWriteYAML(t *testing.T) {
	r := Assemble(fixture())
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, r.WriteYAML(path))

	var back map[string]any
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(b, &back))
	assert.Equal(t, "run-1", back["run_id"])
	assert.Contains(t, back, "monthly_trend")
}
