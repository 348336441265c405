// Package pipeline provides the core solve pipeline for geotour.
//
// This package implements the complete load → matrix → serialize →
// solve → parse → reconcile → export pipeline that can be used by the
// CLI, the TUI, and tests. By centralizing this logic, all entry points
// share identical behavior and file layouts.
//
// # Architecture
//
// The pipeline runs a strict stage sequence:
//
//  1. Load: read the tabular dataset and extract coordinates
//  2. Matrix: build the scaled integer distance matrix
//  3. Serialize: write the problem and parameter files
//  4. Solve: run the external optimizer as a child process
//  5. Parse: read the tour file the solver wrote
//  6. Reconcile: map the tour back onto the source records
//  7. Export: write the ordered and response tables
//
// A failed stage aborts everything downstream; intermediate files are
// left on disk for diagnosis.
//
// # Usage
//
// Create a Runner and execute the pipeline, draining events from a
// second goroutine:
//
//	runner, err := pipeline.NewRunner(&pipeline.Options{Input: "communes.csv"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go func() {
//	    for ev := range runner.Events() {
//	        fmt.Println(ev.Type, ev.Stage, ev.Fraction)
//	    }
//	}()
//	result, err := runner.Execute(ctx)
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/routelab/geotour/pkg/dataset"
	"github.com/routelab/geotour/pkg/errors"
	"github.com/routelab/geotour/pkg/geo"
	"github.com/routelab/geotour/pkg/solver"
	"github.com/routelab/geotour/pkg/tsplib"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI, and Tests
// =============================================================================

const (
	// DefaultEventBuf is the event channel buffer size. Large enough that
	// a consumer polling at interactive rates never stalls the solver
	// output reader.
	DefaultEventBuf = 64
)

// Stage names, in execution order.
const (
	StageLoad      = "load"
	StageMatrix    = "matrix"
	StageSerialize = "serialize"
	StageSolve     = "solve"
	StageParse     = "parse"
	StageReconcile = "reconcile"
	StageExport    = "export"
)

// Progress fractions per stage. The solver occupies the 0.30–0.80 band;
// everything before it is file preparation, everything after is export.
const (
	fractionConvert    = 0.10
	fractionConfigure  = 0.20
	fractionSolveBase  = 0.30
	fractionSolveSpan  = 0.50
	fractionExportBase = 0.80
	fractionDone       = 1.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input is the source dataset path (csv or xlsx). Required.
	Input string

	// OutputDir receives all generated files. Defaults to the input's
	// directory.
	OutputDir string

	// Name is the instance name, used for the problem header and as the
	// stem of every generated file. Defaults to the input filename
	// without extension.
	Name string

	// IDCol, LatCol and LonCol name the dataset columns. Empty columns
	// are auto-detected from the headers.
	IDCol  string
	LatCol string
	LonCol string

	// Scale is the integer distance scale factor.
	Scale int64

	// Params is the solver parameter set. Zero value means defaults;
	// ProblemFile and TourFile are always overwritten by the pipeline.
	Params tsplib.Params

	// Format selects the output table format. Defaults to the input's
	// own format.
	Format dataset.Format

	// Executable is the solver binary. Defaults to looking up "LKH" on
	// PATH.
	Executable string

	// EventBuf sizes the event channel buffer.
	EventBuf int

	// Logger receives stage-level progress logs. Defaults to a discard
	// logger.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}

	if o.OutputDir == "" {
		o.OutputDir = filepath.Dir(o.Input)
	}
	if o.Name == "" {
		base := filepath.Base(o.Input)
		o.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if o.Scale == 0 {
		o.Scale = geo.DefaultScale
	}
	if o.Params.Runs == 0 {
		o.Params = tsplib.DefaultParams()
	}
	if o.Format == "" {
		if strings.EqualFold(filepath.Ext(o.Input), ".xlsx") {
			o.Format = dataset.FormatXLSX
		} else {
			o.Format = dataset.FormatCSV
		}
	}
	if o.Executable == "" {
		o.Executable = solver.DefaultExecutable
	}
	if o.EventBuf <= 0 {
		o.EventBuf = DefaultEventBuf
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// ProblemPath is the generated TSPLIB problem file path.
func (o *Options) ProblemPath() string {
	return filepath.Join(o.OutputDir, o.Name+".tsp")
}

// ParamPath is the generated solver parameter file path.
func (o *Options) ParamPath() string {
	return filepath.Join(o.OutputDir, o.Name+".par")
}

// TourPath is the tour file the solver writes.
func (o *Options) TourPath() string {
	return filepath.Join(o.OutputDir, o.Name+".tour")
}

// OrderedPath is the full result table path.
func (o *Options) OrderedPath() string {
	return filepath.Join(o.OutputDir, o.Name+"_result."+string(o.Format))
}

// ResponsePath is the reduced id+order table path.
func (o *Options) ResponsePath() string {
	return dataset.ResponsePath(o.OrderedPath())
}

// guardKey identifies the output file set this run owns.
func (o *Options) guardKey() string {
	return filepath.Join(o.OutputDir, o.Name)
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tour is the parsed solver tour.
	Tour *tsplib.Tour

	// TotalKm is the reconciled closed-loop tour distance.
	TotalKm float64

	// Flagged lists source row indices the tour never visited. Empty
	// for any valid permutation.
	Flagged []int

	// Generated file paths.
	ProblemPath  string
	ParamPath    string
	TourPath     string
	OrderedPath  string
	ResponsePath string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PointCount    int
	LoadTime      time.Duration
	MatrixTime    time.Duration
	SerializeTime time.Duration
	SolveTime     time.Duration
	ExportTime    time.Duration
}
