package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/routelab/geotour/pkg/tsplib"
)

const sampleCSV = `commune,latitude,longitude,population
Paris,48.8566,2.3522,2161000
Lyon,45.7640,4.8357,513275
Marseille,43.2965,5.3698,861635
Lille,50.6292,3.0573,232741
`

func writeSampleCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "communes.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCommand executes the CLI with the given args.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestConvertWritesProblemAndParams(t *testing.T) {
	dir := t.TempDir()
	input := writeSampleCSV(t, dir)

	if err := runCommand(t, "convert", input); err != nil {
		t.Fatalf("convert: %v", err)
	}

	header, err := tsplib.ReadHeader(filepath.Join(dir, "communes.tsp"))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if header.Name != "communes" {
		t.Errorf("NAME = %q", header.Name)
	}
	if header.Dimension != 4 {
		t.Errorf("DIMENSION = %d", header.Dimension)
	}
	if header.EdgeWeightType != "EXPLICIT" {
		t.Errorf("EDGE_WEIGHT_TYPE = %q", header.EdgeWeightType)
	}

	data, err := os.ReadFile(filepath.Join(dir, "communes.par"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "PROBLEM_FILE = ") {
		t.Errorf("param file must start with PROBLEM_FILE:\n%s", content)
	}
	if !strings.Contains(content, "TOUR_FILE = "+filepath.Join(dir, "communes.tour")) {
		t.Errorf("param file must name the tour file:\n%s", content)
	}
}

func TestConvertCoordsMode(t *testing.T) {
	dir := t.TempDir()
	input := writeSampleCSV(t, dir)

	err := runCommand(t, "convert", input, "--coords", "--weight-type", "GEOM", "--name", "geo1")
	if err != nil {
		t.Fatalf("convert --coords: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "geo1.tsp"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "EDGE_WEIGHT_TYPE : GEOM") {
		t.Errorf("coords instance must carry GEOM:\n%s", content)
	}
	if !strings.Contains(content, "NODE_COORD_SECTION") {
		t.Errorf("coords instance must carry NODE_COORD_SECTION:\n%s", content)
	}
	if !strings.Contains(content, "1 48.8566 2.3522") {
		t.Errorf("first point must use 1-based node id:\n%s", content)
	}
}

func TestConvertBadWeightType(t *testing.T) {
	dir := t.TempDir()
	input := writeSampleCSV(t, dir)

	err := runCommand(t, "convert", input, "--coords", "--weight-type", "MANHATTAN")
	if err == nil {
		t.Fatal("unknown weight type should fail")
	}
}

func TestConvertParamFlags(t *testing.T) {
	dir := t.TempDir()
	input := writeSampleCSV(t, dir)

	err := runCommand(t, "convert", input, "--runs", "2", "--population", "1")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "communes.par"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "RUNS = 2\n") {
		t.Errorf("RUNS flag not honored:\n%s", content)
	}
	// Population 1 must suppress the genetic keys entirely.
	if strings.Contains(content, "POPULATION_SIZE") || strings.Contains(content, "RECOMBINATION") {
		t.Errorf("population 1 must omit genetic keys:\n%s", content)
	}
}

func TestConvertMissingInput(t *testing.T) {
	if err := runCommand(t, "convert", filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("missing input should fail")
	}
}

func TestDetectExitsZeroWithoutCoordinates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Detection that finds nothing is still a successful answer.
	if err := runCommand(t, "detect", path); err != nil {
		t.Errorf("detect should exit zero, got %v", err)
	}
}

func TestDetectSuggestsConvert(t *testing.T) {
	dir := t.TempDir()
	input := writeSampleCSV(t, dir)

	if err := runCommand(t, "detect", input); err != nil {
		t.Errorf("detect: %v", err)
	}
}
