package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads one worksheet of a workbook into a Table named after the
// file stem. The first row is the header. An empty sheet name selects the
// first sheet.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}
	if sheet == "" {
		sheet = sheets[0]
	} else {
		found := false
		for _, s := range sheets {
			if strings.EqualFold(s, sheet) {
				sheet, found = s, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				sheet, filepath.Base(path), strings.Join(sheets, ", "))
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if len(rows) == 0 {
		return NewTable(name, nil, nil), nil
	}
	return NewTable(name, rows[0], rows[1:]), nil
}

// Read loads a table by extension: .xlsx workbooks through ReadXLSX (first
// sheet), anything else as delimited text.
func Read(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, "")
	}
	return ReadCSV(path)
}
