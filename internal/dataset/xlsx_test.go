package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string, sheets map[string][][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for i, row := range rows {
			for j, v := range row {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
				if err := f.SetCellValue(name, cell, v); err != nil {
					t.Fatalf("set cell: %v", err)
				}
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("delete default sheet: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestReadXLSXSheetSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.xlsx")
	writeWorkbook(t, path, map[string][][]string{
		"Stations": {
			{"station_id", "station_name", "capacity"},
			{"S1", "Central", "20"},
			{"S2", "Harbour"},
		},
		"Notes": {{"note"}, {"draft"}},
	})

	tbl, err := ReadXLSX(path, "stations")
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if tbl.Name != "stations" || tbl.Len() != 2 {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	if tbl.Value(0, ColStationName) != "Central" || tbl.Value(1, ColCapacity) != "" {
		t.Fatalf("unexpected values: %v", tbl.Rows)
	}

	_, err = ReadXLSX(path, "Missing")
	if err == nil || !strings.Contains(err.Error(), "Available sheets:") {
		t.Fatalf("expected sheet list in error, got %v", err)
	}
}

func TestReadDispatchesByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.xlsx")
	writeWorkbook(t, path, map[string][][]string{
		"Data": {{"trip_id", "user_id"}, {"T1", "U1"}},
	})
	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tbl.Value(0, ColUserID) != "U1" {
		t.Fatalf("unexpected rows: %v", tbl.Rows)
	}
}
