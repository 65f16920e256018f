package table

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSXFile reads one sheet of an XLSX workbook into a table. An empty
// sheet name selects the first sheet. The first row is the header.
func ReadXLSXFile(path, sheetName string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "table: open xlsx %s", path)
	}

	var sheet *xlsx.Sheet
	if sheetName != "" {
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("table: sheet %q not found in %s", sheetName, path)
		}
		sheet = s
	} else {
		if len(f.Sheets) == 0 {
			return nil, eris.Errorf("table: %s has no sheets", path)
		}
		sheet = f.Sheets[0]
	}

	var header []string
	var rows [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			for k, name := range cells {
				cells[k] = strings.TrimSpace(name)
			}
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	if header == nil {
		return nil, eris.Errorf("table: sheet in %s has no header row", path)
	}

	return FromRows(header, rows)
}

// WriteXLSXFile writes the table to a single-sheet XLSX workbook.
func (t *Table) WriteXLSXFile(path, sheetName string) error {
	if sheetName == "" {
		sheetName = "results"
	}
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "table: add sheet %q", sheetName)
	}

	hdr := sheet.AddRow()
	for _, name := range t.cols {
		hdr.AddCell().SetString(name)
	}
	for i := 0; i < t.n; i++ {
		row := sheet.AddRow()
		for _, cell := range t.Row(i) {
			row.AddCell().SetString(cell)
		}
	}

	return eris.Wrapf(f.Save(path), "table: save xlsx %s", path)
}

// ReadFile reads a table from a CSV or XLSX file, dispatching on the
// extension.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path)
	case ".xlsx":
		return ReadXLSXFile(path, "")
	default:
		return nil, eris.Errorf("table: unsupported input format %q", filepath.Ext(path))
	}
}

// WriteFile writes a table to a CSV or XLSX file, dispatching on the
// extension.
func (t *Table) WriteFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return t.WriteCSVFile(path)
	case ".xlsx":
		return t.WriteXLSXFile(path, "")
	default:
		return eris.Errorf("table: unsupported output format %q", filepath.Ext(path))
	}
}
