package tsplib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/routelab/geotour/pkg/errors"
)

// WriteInstance renders inst in TSPLIB format to w.
//
// Explicit-matrix instances use the exact header field order the solver
// requires (NAME, COMMENT, TYPE, DIMENSION, EDGE_WEIGHT_TYPE,
// EDGE_WEIGHT_FORMAT, EDGE_WEIGHT_SECTION) followed by n full matrix
// rows and a terminating EOF line. Coordinate instances replace the
// weight section with NODE_COORD_SECTION and one "<id> <lat> <lon>"
// line per point, ids assigned by traversal order starting at 1.
func WriteInstance(w io.Writer, inst *Instance) error {
	if err := inst.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	if inst.Matrix != nil {
		writeExplicit(bw, inst)
	} else {
		writeCoords(bw, inst)
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write instance %q", inst.Name)
	}
	return nil
}

// WriteInstanceFile renders inst to a new file at path, overwriting any
// existing file. A failed open surfaces as an IO_ERROR.
func WriteInstanceFile(path string, inst *Instance) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer f.Close()

	if err := WriteInstance(f, inst); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

func writeExplicit(bw *bufio.Writer, inst *Instance) {
	m := inst.Matrix
	n := m.Dimension()

	fmt.Fprintf(bw, "NAME : %s\n", inst.Name)
	fmt.Fprintf(bw, "COMMENT : Generated by geotour (scale=%d)\n", m.Scale())
	fmt.Fprintf(bw, "TYPE : TSP\n")
	fmt.Fprintf(bw, "DIMENSION : %d\n", n)
	fmt.Fprintf(bw, "EDGE_WEIGHT_TYPE : EXPLICIT\n")
	fmt.Fprintf(bw, "EDGE_WEIGHT_FORMAT : FULL_MATRIX\n")
	fmt.Fprintf(bw, "EDGE_WEIGHT_SECTION\n")

	for i := 0; i < n; i++ {
		row := m.Row(i)
		for j, w := range row {
			if j > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatInt(w, 10))
		}
		bw.WriteByte('\n')
	}

	bw.WriteString("EOF\n")
}

func writeCoords(bw *bufio.Writer, inst *Instance) {
	fmt.Fprintf(bw, "NAME : %s\n", inst.Name)
	fmt.Fprintf(bw, "COMMENT : Generated by geotour (coords mode)\n")
	fmt.Fprintf(bw, "TYPE : TSP\n")
	fmt.Fprintf(bw, "DIMENSION : %d\n", len(inst.Points))
	fmt.Fprintf(bw, "EDGE_WEIGHT_TYPE : %s\n", inst.CoordKind)
	fmt.Fprintf(bw, "NODE_COORD_SECTION\n")

	for i, p := range inst.Points {
		fmt.Fprintf(bw, "%d %s %s\n", i+1, formatCoord(p.Lat), formatCoord(p.Lon))
	}

	bw.WriteString("EOF\n")
}

// formatCoord renders a coordinate with shortest round-trip formatting.
// The solver parses free-form floats, so precision matters more than a
// fixed column width.
func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Header holds the fields recovered from a problem file header. Only the
// fields this pipeline emits are parsed; unknown keys are ignored.
type Header struct {
	Name             string
	Comment          string
	Type             string
	Dimension        int
	EdgeWeightType   string
	EdgeWeightFormat string
}

// ReadHeader parses the header block of a TSPLIB problem file, stopping
// at the first section keyword (EDGE_WEIGHT_SECTION, NODE_COORD_SECTION)
// or EOF marker. It exists so callers can verify a written instance
// round-trips its name and dimension.
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	h := &Header{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "EDGE_WEIGHT_SECTION" || line == "NODE_COORD_SECTION" || line == "EOF" {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "NAME":
			h.Name = value
		case "COMMENT":
			h.Comment = value
		case "TYPE":
			h.Type = value
		case "DIMENSION":
			d, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeParse, err, "%s: bad DIMENSION %q", path, value)
			}
			h.Dimension = d
		case "EDGE_WEIGHT_TYPE":
			h.EdgeWeightType = value
		case "EDGE_WEIGHT_FORMAT":
			h.EdgeWeightFormat = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return h, nil
}
