package tsplib

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/routelab/geotour/pkg/errors"
)

// Recombination is a genetic recombination method understood by the solver.
type Recombination string

// Supported recombination methods.
const (
	RecombIPT     Recombination = "IPT"
	RecombGPX2    Recombination = "GPX2"
	RecombClarist Recombination = "CLARIST"
)

// ValidRecombinations is the set of accepted recombination methods.
var ValidRecombinations = map[Recombination]bool{
	RecombIPT:     true,
	RecombGPX2:    true,
	RecombClarist: true,
}

// ValidMoveTypes is the set of accepted Lin-Kernighan move types.
var ValidMoveTypes = map[int]bool{2: true, 3: true, 4: true, 5: true}

// Params is the solver parameter set for one problem instance. It binds
// exactly one problem file to one output tour file.
type Params struct {
	ProblemFile string
	TourFile    string

	Runs           int
	MoveType       int
	MaxTrials      int
	PopulationSize int
	Recombination  Recombination
	PatchingC      int
	PatchingA      int
}

// DefaultParams returns the solver defaults carried over from the
// original tool: 5-opt moves, 10 runs, population of 3 with CLARIST
// recombination.
func DefaultParams() Params {
	return Params{
		Runs:           10,
		MoveType:       5,
		MaxTrials:      1000,
		PopulationSize: 3,
		Recombination:  RecombClarist,
		PatchingC:      3,
		PatchingA:      2,
	}
}

// Validate checks parameter ranges. Recombination is required exactly
// when PopulationSize exceeds 1, since only then is it emitted.
func (p *Params) Validate() error {
	if p.ProblemFile == "" {
		return errors.New(errors.ErrCodeInvalidParams, "PROBLEM_FILE is required")
	}
	if p.TourFile == "" {
		return errors.New(errors.ErrCodeInvalidParams, "TOUR_FILE is required")
	}
	if p.Runs < 1 {
		return errors.New(errors.ErrCodeInvalidParams, "RUNS must be >= 1, got %d", p.Runs)
	}
	if !ValidMoveTypes[p.MoveType] {
		return errors.New(errors.ErrCodeInvalidParams, "MOVE_TYPE must be 2, 3, 4 or 5, got %d", p.MoveType)
	}
	if p.MaxTrials < 1 {
		return errors.New(errors.ErrCodeInvalidParams, "MAX_TRIALS must be >= 1, got %d", p.MaxTrials)
	}
	if p.PopulationSize < 1 {
		return errors.New(errors.ErrCodeInvalidParams, "POPULATION_SIZE must be >= 1, got %d", p.PopulationSize)
	}
	if p.PopulationSize > 1 && !ValidRecombinations[p.Recombination] {
		return errors.New(errors.ErrCodeInvalidParams,
			"RECOMBINATION must be IPT, GPX2 or CLARIST when POPULATION_SIZE > 1, got %q", p.Recombination)
	}
	return nil
}

// WriteParams renders p as a solver parameter file to w.
//
// Keys are emitted in the fixed order the solver expects: PROBLEM_FILE,
// MOVE_TYPE, PATCHING_C, PATCHING_A, RUNS, MAX_TRIALS, then TOUR_FILE.
// POPULATION_SIZE and RECOMBINATION appear between MAX_TRIALS and
// TOUR_FILE only when the population exceeds 1: the solver treats the
// mere presence of these keys as enabling genetic-recombination mode
// regardless of their values, so they must be omitted at size 1.
func WriteParams(w io.Writer, p *Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "PROBLEM_FILE = %s\n", p.ProblemFile)
	fmt.Fprintf(bw, "MOVE_TYPE = %d\n", p.MoveType)
	fmt.Fprintf(bw, "PATCHING_C = %d\n", p.PatchingC)
	fmt.Fprintf(bw, "PATCHING_A = %d\n", p.PatchingA)
	fmt.Fprintf(bw, "RUNS = %d\n", p.Runs)
	fmt.Fprintf(bw, "MAX_TRIALS = %d\n", p.MaxTrials)
	if p.PopulationSize > 1 {
		fmt.Fprintf(bw, "POPULATION_SIZE = %d\n", p.PopulationSize)
		fmt.Fprintf(bw, "RECOMBINATION = %s\n", p.Recombination)
	}
	fmt.Fprintf(bw, "TOUR_FILE = %s\n", p.TourFile)

	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write parameter file")
	}
	return nil
}

// WriteParamsFile renders p to a new file at path, overwriting any
// existing file.
func WriteParamsFile(path string, p *Params) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer f.Close()

	if err := WriteParams(f, p); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
