// Package dataset loads geographic point tables from delimited or
// spreadsheet files and writes the pipeline's result tables.
//
// Input files need three columns (identifier, latitude, longitude),
// located either by exact name or by keyword detection over the headers.
// Output is the original table annotated with a visiting_order column,
// plus a reduced identifier+order view.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/routelab/geotour/pkg/errors"
	"github.com/routelab/geotour/pkg/geo"
)

// Format is a supported tabular output format.
type Format string

// Supported output formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (must be csv or xlsx)", s)
}

// Table is an in-memory tabular dataset. The first row of the source
// file is the header; all cells are kept as strings so the original
// schema survives the round trip to the output table untouched.
type Table struct {
	Path    string
	Headers []string
	Rows    [][]string
}

// Load reads a tabular file by extension: .csv via encoding/csv, .xlsx
// via excelize. The header row is required.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unsupported file format %q (use .csv or .xlsx)", filepath.Ext(path))
	}
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; validation happens per column
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read %s", path)
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: file is empty, header row required", path)
	}

	return &Table{Path: path, Headers: records[0], Rows: records[1:]}, nil
}

func loadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read sheet %q of %s", sheet, path)
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: sheet %q is empty, header row required", path, sheet)
	}

	return &Table{Path: path, Headers: rows[0], Rows: rows[1:]}, nil
}

// ColumnIndex returns the index of the named header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// cell returns the value at (row, col), tolerating short rows.
func (t *Table) cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Points converts the table to geographic points using the given column
// names. Row order is preserved as the point Index. Missing columns and
// unparsable or non-finite coordinates fail with validation errors that
// name the offending row.
func (t *Table) Points(cols Columns) ([]geo.Point, error) {
	idIdx := t.ColumnIndex(cols.ID)
	latIdx := t.ColumnIndex(cols.Lat)
	lonIdx := t.ColumnIndex(cols.Lon)

	var missing []string
	if idIdx < 0 {
		missing = append(missing, "identifier ("+cols.ID+")")
	}
	if latIdx < 0 {
		missing = append(missing, "latitude ("+cols.Lat+")")
	}
	if lonIdx < 0 {
		missing = append(missing, "longitude ("+cols.Lon+")")
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidColumn,
			"missing columns: %s; available: %s",
			strings.Join(missing, ", "), strings.Join(t.Headers, ", "))
	}

	points := make([]geo.Point, len(t.Rows))
	for i := range t.Rows {
		lat, err := parseCoord(t.cell(i, latIdx))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCoordinate, err,
				"row %d: latitude %q", i+2, t.cell(i, latIdx))
		}
		lon, err := parseCoord(t.cell(i, lonIdx))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCoordinate, err,
				"row %d: longitude %q", i+2, t.cell(i, lonIdx))
		}
		points[i] = geo.Point{
			ID:    t.cell(i, idIdx),
			Lat:   lat,
			Lon:   lon,
			Index: i,
		}
	}
	return points, nil
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New(errors.ErrCodeInvalidCoordinate, "non-finite value")
	}
	return v, nil
}

// writeCSV writes rows (headers first) to w.
func writeCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeXLSX writes rows (headers first) to a new workbook at path.
func writeXLSX(path string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := setStringRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setStringRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func setStringRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	addr, err := excelize.JoinCellName("A", row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, addr, &cells)
}
