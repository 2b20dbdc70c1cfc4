package report

import (
	"fmt"

	"github.com/KaramelBytes/citybike-cli/internal/utils"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// WriteText writes the plain-text report.
func (r *Report) WriteText(path string) error {
	return utils.SafeWriteFile(path, []byte(r.Text()))
}

// WriteYAML writes the report as YAML.
func (r *Report) WriteYAML(path string) error {
	b, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// WriteXLSX writes one worksheet per section.
func (r *Report) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, s := range r.Sections() {
		name := SheetName(s)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %q: %w", name, err)
		}
		rows := append([][]string{s.Header}, s.Rows...)
		for i, row := range rows {
			for j, v := range row {
				cell, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(name, cell, v); err != nil {
					return fmt.Errorf("set %s!%s: %w", name, cell, err)
				}
			}
		}
		for i, n := range s.Notes {
			cell, err := excelize.CoordinatesToCellName(1, len(rows)+2+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, n); err != nil {
				return fmt.Errorf("set %s!%s: %w", name, cell, err)
			}
		}
	}
	if len(r.Warnings) > 0 {
		if _, err := f.NewSheet("Warnings"); err != nil {
			return err
		}
		for i, w := range r.Warnings {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue("Warnings", cell, w); err != nil {
				return err
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// SheetName is the worksheet name used for a section, e.g. "Q1 Trip summary".
func SheetName(s Section) string {
	name := "Q" + s.Number + " " + s.Title
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
