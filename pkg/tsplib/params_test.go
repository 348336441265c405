package tsplib

import (
	"bytes"
	"strings"
	"testing"

	"github.com/routelab/geotour/pkg/errors"
)

func validParams() Params {
	p := DefaultParams()
	p.ProblemFile = "demo.tsp"
	p.TourFile = "demo.tour"
	return p
}

func TestWriteParamsFixedOrder(t *testing.T) {
	p := validParams()

	var buf bytes.Buffer
	if err := WriteParams(&buf, &p); err != nil {
		t.Fatalf("WriteParams: %v", err)
	}

	want := strings.Join([]string{
		"PROBLEM_FILE = demo.tsp",
		"MOVE_TYPE = 5",
		"PATCHING_C = 3",
		"PATCHING_A = 2",
		"RUNS = 10",
		"MAX_TRIALS = 1000",
		"POPULATION_SIZE = 3",
		"RECOMBINATION = CLARIST",
		"TOUR_FILE = demo.tour",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("parameter file mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteParamsOmitsPopulationAtSizeOne(t *testing.T) {
	p := validParams()
	p.PopulationSize = 1
	p.Recombination = "" // must not be required at population 1

	var buf bytes.Buffer
	if err := WriteParams(&buf, &p); err != nil {
		t.Fatalf("WriteParams: %v", err)
	}

	// The solver enables genetic mode on mere key presence, so both keys
	// must be absent entirely.
	out := buf.String()
	if strings.Contains(out, "POPULATION_SIZE") {
		t.Error("POPULATION_SIZE must be omitted when population size is 1")
	}
	if strings.Contains(out, "RECOMBINATION") {
		t.Error("RECOMBINATION must be omitted when population size is 1")
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[len(lines)-1] != "TOUR_FILE = demo.tour" {
		t.Errorf("TOUR_FILE must remain the last line, got %q", lines[len(lines)-1])
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		code   errors.Code
	}{
		{"missing problem file", func(p *Params) { p.ProblemFile = "" }, errors.ErrCodeInvalidParams},
		{"missing tour file", func(p *Params) { p.TourFile = "" }, errors.ErrCodeInvalidParams},
		{"zero runs", func(p *Params) { p.Runs = 0 }, errors.ErrCodeInvalidParams},
		{"bad move type", func(p *Params) { p.MoveType = 6 }, errors.ErrCodeInvalidParams},
		{"move type 1", func(p *Params) { p.MoveType = 1 }, errors.ErrCodeInvalidParams},
		{"zero trials", func(p *Params) { p.MaxTrials = 0 }, errors.ErrCodeInvalidParams},
		{"zero population", func(p *Params) { p.PopulationSize = 0 }, errors.ErrCodeInvalidParams},
		{"population without recombination", func(p *Params) { p.PopulationSize = 2; p.Recombination = "" }, errors.ErrCodeInvalidParams},
		{"unknown recombination", func(p *Params) { p.Recombination = "XOVER" }, errors.ErrCodeInvalidParams},
	}

	for _, tt := range tests {
		p := validParams()
		tt.mutate(&p)
		err := p.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !errors.Is(err, tt.code) {
			t.Errorf("%s: code = %v, want %v", tt.name, errors.GetCode(err), tt.code)
		}
	}

	p := validParams()
	if err := p.Validate(); err != nil {
		t.Errorf("valid params should pass: %v", err)
	}

	// Population of 1 with empty recombination is valid.
	p.PopulationSize = 1
	p.Recombination = ""
	if err := p.Validate(); err != nil {
		t.Errorf("population 1 without recombination should pass: %v", err)
	}
}

func TestWriteParamsAllMoveTypes(t *testing.T) {
	for _, mt := range []int{2, 3, 4, 5} {
		p := validParams()
		p.MoveType = mt
		var buf bytes.Buffer
		if err := WriteParams(&buf, &p); err != nil {
			t.Errorf("move type %d: %v", mt, err)
		}
	}
}
