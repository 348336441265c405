package solver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/routelab/geotour/pkg/errors"
)

// sampleOutput is real-shaped LKH output pinned as the progress-parsing
// contract; upstream format drift should fail here, not mis-parse silently.
var sampleOutput = []string{
	"PARAMETER_FILE = demo.par",
	"Reading PROBLEM_FILE: \"demo.tsp\" ... done",
	"Run 1: Cost = 3514718, Time = 0.52 sec.",
	"Run 2: Cost = 3514718, Time = 0.49 sec.",
	"Run 10: Cost = 3498211, Time = 0.55 sec.",
	"Cost.min = 3498211, Cost.avg = 3509021.40",
	"Successes/Runs = 10/10",
}

func TestParseRunLine(t *testing.T) {
	tests := []struct {
		text         string
		wantRun      int
		wantFraction float64
	}{
		{"Run 1: Cost = 3514718, Time = 0.52 sec.", 1, 0.3 + 0.1*0.5},
		{"Run 2: Cost = 3514718, Time = 0.49 sec.", 2, 0.3 + 0.2*0.5},
		{"Run 10: Cost = 3498211, Time = 0.55 sec.", 10, 0.3 + 1.0*0.5},
		{"Reading PROBLEM_FILE: \"demo.tsp\" ... done", 0, -1},
		{"Cost.min = 3498211, Cost.avg = 3509021.40", 0, -1},
		{"Running...", 0, -1}, // prefix requires "Run <N>:"
		{"", 0, -1},
	}

	for _, tt := range tests {
		line := ParseRunLine(tt.text, 10, 0.3, 0.5)
		if line.Run != tt.wantRun {
			t.Errorf("ParseRunLine(%q).Run = %d, want %d", tt.text, line.Run, tt.wantRun)
		}
		if diff := line.Fraction - tt.wantFraction; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("ParseRunLine(%q).Fraction = %v, want %v", tt.text, line.Fraction, tt.wantFraction)
		}
	}
}

func TestParseRunLineSampleOutputContract(t *testing.T) {
	var runs []int
	for _, text := range sampleOutput {
		if l := ParseRunLine(text, 10, 0, 1); l.Run > 0 {
			runs = append(runs, l.Run)
		}
	}
	want := []int{1, 2, 10}
	if len(runs) != len(want) {
		t.Fatalf("parsed runs = %v, want %v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("parsed runs = %v, want %v", runs, want)
			break
		}
	}
}

func TestParseRunLineZeroTotalRuns(t *testing.T) {
	line := ParseRunLine("Run 3: Cost = 1", 0, 0, 1)
	if line.Fraction != -1 {
		t.Errorf("Fraction = %v, want -1 when total runs unknown", line.Fraction)
	}
}

// writeFakeSolver creates a shell script standing in for the external
// solver binary.
func writeFakeSolver(t *testing.T, dir, script string) string {
	t.Helper()
	path := filepath.Join(dir, "fakelkh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeParamFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "demo.par")
	if err := os.WriteFile(path, []byte("PROBLEM_FILE = demo.tsp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunStreamsLinesInOrder(t *testing.T) {
	dir := t.TempDir()
	exe := writeFakeSolver(t, dir, `echo "Run 1: Cost = 100"
echo "Run 2: Cost = 90"
echo "done" >&2
`)
	par := writeParamFile(t, dir)

	var got []Line
	r := NewRunner(exe)
	err := r.Run(context.Background(), Options{
		ParamFile:    par,
		TotalRuns:    2,
		BaseFraction: 0.0,
		SpanFraction: 1.0,
		OnLine:       func(l Line) { got = append(got, l) },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3: %+v", len(got), got)
	}
	if got[0].Run != 1 || got[1].Run != 2 {
		t.Errorf("run numbers = %d, %d", got[0].Run, got[1].Run)
	}
	if got[1].Fraction != 1.0 {
		t.Errorf("final run fraction = %v, want 1.0", got[1].Fraction)
	}
	// stderr is merged into the same ordered stream.
	if got[2].Text != "done" {
		t.Errorf("merged stderr line = %q", got[2].Text)
	}
}

func TestRunMissingExecutable(t *testing.T) {
	dir := t.TempDir()
	par := writeParamFile(t, dir)

	r := NewRunner(filepath.Join(dir, "no-such-binary"))
	err := r.Run(context.Background(), Options{ParamFile: par})
	if !errors.Is(err, errors.ErrCodeSolverNotFound) {
		t.Errorf("code = %v, want SOLVER_NOT_FOUND", errors.GetCode(err))
	}
}

func TestRunNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	// Partial output before failing: still a failure.
	exe := writeFakeSolver(t, dir, `echo "Run 1: Cost = 100"
exit 3
`)
	par := writeParamFile(t, dir)

	r := NewRunner(exe)
	err := r.Run(context.Background(), Options{ParamFile: par, TotalRuns: 2})
	if !errors.Is(err, errors.ErrCodeSolverFailed) {
		t.Errorf("code = %v, want SOLVER_FAILED", errors.GetCode(err))
	}
}

func TestRunCancellation(t *testing.T) {
	dir := t.TempDir()
	exe := writeFakeSolver(t, dir, `echo "Run 1: Cost = 100"
sleep 30
echo "Run 2: Cost = 90"
`)
	par := writeParamFile(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner(exe)

	start := time.Now()
	err := r.Run(ctx, Options{
		ParamFile: par,
		TotalRuns: 2,
		OnLine: func(l Line) {
			if l.Run == 1 {
				cancel()
			}
		},
	})

	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("cancellation took %v; child was not terminated", elapsed)
	}
}

func TestRunMissingParamFile(t *testing.T) {
	dir := t.TempDir()
	exe := writeFakeSolver(t, dir, "exit 0\n")

	r := NewRunner(exe)
	err := r.Run(context.Background(), Options{ParamFile: filepath.Join(dir, "absent.par")})
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("code = %v, want IO_ERROR", errors.GetCode(err))
	}
}
