package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/routelab/geotour/pkg/errors"
)

// OrderColumn is the name of the visiting-order column appended to the
// output tables.
const OrderColumn = "visiting_order"

// WriteOrdered writes the full original table with an appended
// visiting_order column, sorted by visit position. visits holds the
// 1-based visit position per original row index; rows never visited
// carry 0 and therefore sort first. The sort is stable so unvisited
// rows keep their source order.
func WriteOrdered(path string, format Format, t *Table, visits []int) error {
	headers := append(append([]string{}, t.Headers...), OrderColumn)

	rows := make([][]string, len(t.Rows))
	for i, src := range t.Rows {
		row := make([]string, len(t.Headers)+1)
		copy(row, src)
		row[len(t.Headers)] = strconv.Itoa(visitAt(visits, i))
		rows[i] = row
	}

	order := sortedByVisit(visits, len(t.Rows))
	sorted := make([][]string, len(rows))
	for i, src := range order {
		sorted[i] = rows[src]
	}

	return writeTable(path, format, headers, sorted)
}

// WriteResponse writes the reduced view: identifier and visiting_order
// only, in the same sort order as the full table.
func WriteResponse(path string, format Format, t *Table, idCol string, visits []int) error {
	idIdx := t.ColumnIndex(idCol)
	if idIdx < 0 {
		return errors.New(errors.ErrCodeInvalidColumn, "identifier column %q not found", idCol)
	}

	headers := []string{idCol, OrderColumn}
	order := sortedByVisit(visits, len(t.Rows))
	rows := make([][]string, len(order))
	for i, src := range order {
		rows[i] = []string{t.cell(src, idIdx), strconv.Itoa(visitAt(visits, src))}
	}

	return writeTable(path, format, headers, rows)
}

// ResponsePath derives the reduced-view path from the main output path:
// "result.xlsx" becomes "result_response.xlsx".
func ResponsePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_response" + ext
}

func visitAt(visits []int, i int) int {
	if i < len(visits) {
		return visits[i]
	}
	return 0
}

// sortedByVisit returns row indices sorted by visit position, stable.
func sortedByVisit(visits []int, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return visitAt(visits, order[a]) < visitAt(visits, order[b])
	})
	return order
}

func writeTable(path string, format Format, headers []string, rows [][]string) error {
	switch format {
	case FormatCSV:
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
		}
		if err := writeCSV(f, headers, rows); err != nil {
			f.Close()
			return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
		}
		return nil
	case FormatXLSX:
		if err := writeXLSX(path, headers, rows); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
		}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}
