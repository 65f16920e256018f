package table

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// ReadCSV parses a CSV stream into a table. The first record is the
// header. Non-UTF-8 cells (common in GIS tool exports) are re-decoded as
// Windows-1252 before use.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "table: read csv")
	}
	if len(records) == 0 {
		return nil, eris.New("table: csv has no header row")
	}

	header := records[0]
	for i, name := range header {
		header[i] = decodeCell(strings.TrimSpace(name))
	}
	rows := records[1:]
	for _, row := range rows {
		for i, cell := range row {
			row[i] = decodeCell(cell)
		}
	}

	return FromRows(header, rows)
}

// ReadCSVFile reads a CSV file into a table.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "table: open %s", path)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// WriteCSV writes the table as CSV, header first.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.cols); err != nil {
		return eris.Wrap(err, "table: write csv header")
	}
	for i := 0; i < t.n; i++ {
		if err := writer.Write(t.Row(i)); err != nil {
			return eris.Wrapf(err, "table: write csv row %d", i)
		}
	}
	writer.Flush()
	return eris.Wrap(writer.Error(), "table: flush csv")
}

// WriteCSVFile writes the table to a CSV file.
func (t *Table) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "table: create %s", path)
	}
	if err := t.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "table: close %s", path)
}

// decodeCell re-decodes invalid UTF-8 as Windows-1252, the usual culprit
// when a shapefile DBF or desktop-GIS CSV export carries accented names.
func decodeCell(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, "")
	}
	return decoded
}
