package tsplib

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/routelab/geotour/pkg/errors"
	"github.com/routelab/geotour/pkg/geo"
)

var testPoints = []geo.Point{
	{ID: "Paris", Lat: 48.8566, Lon: 2.3522, Index: 0},
	{ID: "Lyon", Lat: 45.764, Lon: 4.8357, Index: 1},
	{ID: "Marseille", Lat: 43.2965, Lon: 5.3698, Index: 2},
}

func testMatrix(t *testing.T) *geo.Matrix {
	t.Helper()
	m, err := geo.BuildMatrix(testPoints, 100, nil)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	return m
}

func TestWriteInstanceExplicitLayout(t *testing.T) {
	m := testMatrix(t)

	var buf bytes.Buffer
	err := WriteInstance(&buf, &Instance{Name: "demo", Matrix: m})
	if err != nil {
		t.Fatalf("WriteInstance: %v", err)
	}

	lines := strings.Split(buf.String(), "\n")

	// Header fields must appear in this exact order.
	wantPrefix := []string{
		"NAME : demo",
		"COMMENT : Generated by geotour (scale=100)",
		"TYPE : TSP",
		"DIMENSION : 3",
		"EDGE_WEIGHT_TYPE : EXPLICIT",
		"EDGE_WEIGHT_FORMAT : FULL_MATRIX",
		"EDGE_WEIGHT_SECTION",
	}
	for i, want := range wantPrefix {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}

	// Full matrix: 3 rows of 3 integers each, then EOF.
	for i := 0; i < 3; i++ {
		fields := strings.Fields(lines[7+i])
		if len(fields) != 3 {
			t.Fatalf("matrix row %d has %d fields, want 3: %q", i, len(fields), lines[7+i])
		}
	}
	if lines[10] != "EOF" {
		t.Errorf("terminator = %q, want EOF", lines[10])
	}
	if lines[11] != "" {
		t.Errorf("file must end with a single trailing newline")
	}

	// No BOM.
	if buf.Bytes()[0] != 'N' {
		t.Errorf("output must not start with a byte-order mark")
	}
}

func TestWriteInstanceDeterministic(t *testing.T) {
	m := testMatrix(t)
	inst := &Instance{Name: "demo", Matrix: m}

	var a, b bytes.Buffer
	if err := WriteInstance(&a, inst); err != nil {
		t.Fatal(err)
	}
	if err := WriteInstance(&b, inst); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("identical inputs must serialize to byte-identical output")
	}
}

func TestWriteInstanceCoords(t *testing.T) {
	var buf bytes.Buffer
	err := WriteInstance(&buf, &Instance{Name: "geom", CoordKind: CoordGeom, Points: testPoints})
	if err != nil {
		t.Fatalf("WriteInstance: %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if lines[4] != "EDGE_WEIGHT_TYPE : GEOM" {
		t.Errorf("line 4 = %q", lines[4])
	}
	if lines[5] != "NODE_COORD_SECTION" {
		t.Errorf("line 5 = %q", lines[5])
	}
	// Node ids are 1-indexed traversal order.
	if lines[6] != "1 48.8566 2.3522" {
		t.Errorf("first coord line = %q", lines[6])
	}
	if lines[8] != "3 43.2965 5.3698" {
		t.Errorf("third coord line = %q", lines[8])
	}
	if lines[9] != "EOF" {
		t.Errorf("terminator = %q, want EOF", lines[9])
	}
}

func TestInstanceValidate(t *testing.T) {
	m := testMatrix(t)

	tests := []struct {
		name    string
		inst    Instance
		wantErr bool
	}{
		{"explicit ok", Instance{Name: "a", Matrix: m}, false},
		{"coords ok", Instance{Name: "a", CoordKind: CoordEuc2D, Points: testPoints}, false},
		{"no name", Instance{Matrix: m}, true},
		{"neither representation", Instance{Name: "a"}, true},
		{"both representations", Instance{Name: "a", Matrix: m, CoordKind: CoordGeom, Points: testPoints}, true},
		{"bad coord kind", Instance{Name: "a", CoordKind: "MANHATTAN", Points: testPoints}, true},
	}

	for _, tt := range tests {
		err := tt.inst.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	m := testMatrix(t)
	path := filepath.Join(t.TempDir(), "demo.tsp")

	if err := WriteInstanceFile(path, &Instance{Name: "roundtrip", Matrix: m}); err != nil {
		t.Fatalf("WriteInstanceFile: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Name != "roundtrip" {
		t.Errorf("Name = %q, want %q", h.Name, "roundtrip")
	}
	if h.Dimension != 3 {
		t.Errorf("Dimension = %d, want 3", h.Dimension)
	}
	if h.Type != "TSP" {
		t.Errorf("Type = %q, want TSP", h.Type)
	}
	if h.EdgeWeightType != "EXPLICIT" {
		t.Errorf("EdgeWeightType = %q, want EXPLICIT", h.EdgeWeightType)
	}
	if h.EdgeWeightFormat != "FULL_MATRIX" {
		t.Errorf("EdgeWeightFormat = %q, want FULL_MATRIX", h.EdgeWeightFormat)
	}
}

func TestWriteInstanceFileUnwritable(t *testing.T) {
	m := testMatrix(t)
	err := WriteInstanceFile(filepath.Join(t.TempDir(), "missing", "demo.tsp"), &Instance{Name: "x", Matrix: m})
	if err == nil {
		t.Fatal("expected error for unwritable destination")
	}
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("error code = %v, want IO_ERROR", errors.GetCode(err))
	}
	if _, statErr := os.Stat(filepath.Join(t.TempDir(), "demo.tsp")); statErr == nil {
		t.Error("no file should have been created")
	}
}
