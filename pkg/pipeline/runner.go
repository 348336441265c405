package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/routelab/geotour/pkg/dataset"
	"github.com/routelab/geotour/pkg/errors"
	"github.com/routelab/geotour/pkg/geo"
	"github.com/routelab/geotour/pkg/observability"
	"github.com/routelab/geotour/pkg/reconcile"
	"github.com/routelab/geotour/pkg/solver"
	"github.com/routelab/geotour/pkg/tsplib"
)

// Runner executes one pipeline run and streams events while doing so.
//
// A Runner is single-use: create one per run. The event channel is
// closed when Execute returns, so consumers can range over Events().
type Runner struct {
	opts   *Options
	solver *solver.Runner
	events chan Event
}

// NewRunner validates opts, applies defaults and returns a runner ready
// to Execute.
func NewRunner(opts *Options) (*Runner, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Runner{
		opts:   opts,
		solver: solver.NewRunner(opts.Executable),
		events: make(chan Event, opts.EventBuf),
	}, nil
}

// Events returns the event stream for this run. The channel is closed
// when Execute returns; consumers must drain it for the lifetime of the
// run or solver output delivery stalls.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Execute runs the complete pipeline.
//
// Stages run strictly in sequence and each checks for cancellation
// before starting. Any stage failure aborts everything downstream with
// the failing stage named in the returned error; files written by
// earlier stages are kept on disk for diagnosis. Cancellation returns
// ctx.Err() without an error event.
//
// Only one run per output file set may be active in a process at a
// time; a concurrent second run fails immediately.
func (r *Runner) Execute(ctx context.Context) (*Result, error) {
	defer close(r.events)

	opts := r.opts
	logger := opts.Logger

	key := opts.guardKey()
	if !defaultGuard.TryAcquire(key) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"a run writing to %s.* is already active", key)
	}
	defer defaultGuard.Release(key)

	result := &Result{
		ProblemPath:  opts.ProblemPath(),
		ParamPath:    opts.ParamPath(),
		TourPath:     opts.TourPath(),
		OrderedPath:  opts.OrderedPath(),
		ResponsePath: opts.ResponsePath(),
	}

	// Stage 1: Load
	var (
		table  *dataset.Table
		cols   dataset.Columns
		points []geo.Point
	)
	err := r.stage(ctx, StageLoad, &result.Stats.LoadTime, func() error {
		var err error
		table, err = dataset.Load(opts.Input)
		if err != nil {
			return err
		}
		cols = r.resolveColumns(table)
		points, err = table.Points(cols)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Stats.PointCount = len(points)
	logger.Info("loaded dataset",
		"points", len(points),
		"id", cols.ID, "lat", cols.Lat, "lon", cols.Lon,
		"duration", result.Stats.LoadTime)

	// Stage 2: Matrix
	var matrix *geo.Matrix
	err = r.stage(ctx, StageMatrix, &result.Stats.MatrixTime, func() error {
		var err error
		matrix, err = geo.BuildMatrix(points, opts.Scale, func(done, total int) {
			frac := float64(done) / float64(total) * fractionConvert
			r.emit(ctx, Event{Type: EventProgress, Fraction: frac})
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("built distance matrix",
		"dimension", matrix.Dimension(),
		"scale", matrix.Scale(),
		"duration", result.Stats.MatrixTime)

	// Stage 3: Serialize problem and parameter files
	err = r.stage(ctx, StageSerialize, &result.Stats.SerializeTime, func() error {
		inst := &tsplib.Instance{Name: opts.Name, Matrix: matrix}
		if err := tsplib.WriteInstanceFile(result.ProblemPath, inst); err != nil {
			return err
		}
		r.emit(ctx, Event{Type: EventProgress, Fraction: fractionConvert})

		params := opts.Params
		params.ProblemFile = result.ProblemPath
		params.TourFile = result.TourPath
		if err := tsplib.WriteParamsFile(result.ParamPath, &params); err != nil {
			return err
		}
		r.emit(ctx, Event{Type: EventProgress, Fraction: fractionConfigure})
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("wrote solver inputs",
		"problem", result.ProblemPath,
		"params", result.ParamPath)

	// Stage 4: Solve
	err = r.stage(ctx, StageSolve, &result.Stats.SolveTime, func() error {
		solveStart := time.Now()
		runErr := r.solver.Run(ctx, solver.Options{
			ParamFile:    result.ParamPath,
			TotalRuns:    opts.Params.Runs,
			BaseFraction: fractionSolveBase,
			SpanFraction: fractionSolveSpan,
			OnLine: func(l solver.Line) {
				observability.Solver().OnSolverLine(ctx, l.Text, l.Run)
				r.emit(ctx, Event{Type: EventLine, Line: l.Text})
				if l.Fraction >= 0 {
					r.emit(ctx, Event{Type: EventProgress, Fraction: l.Fraction})
				}
			},
		})
		observability.Solver().OnSolverExit(ctx, time.Since(solveStart), runErr)
		return runErr
	})
	if err != nil {
		return nil, err
	}
	logger.Info("solver finished", "duration", result.Stats.SolveTime)

	// Stage 5: Parse the tour the solver wrote
	err = r.stage(ctx, StageParse, nil, func() error {
		var err error
		result.Tour, err = tsplib.ParseTourFile(result.TourPath, len(points))
		return err
	})
	if err != nil {
		return nil, err
	}

	// Stage 6: Reconcile against the source records
	var rec *reconcile.Result
	err = r.stage(ctx, StageReconcile, nil, func() error {
		var err error
		rec, err = reconcile.Reconcile(points, result.Tour)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.TotalKm = rec.TotalKm
	result.Flagged = rec.Flagged
	logger.Info("reconciled tour", "total_km", rec.TotalKm, "flagged", len(rec.Flagged))

	// Stage 7: Export result tables
	err = r.stage(ctx, StageExport, &result.Stats.ExportTime, func() error {
		r.emit(ctx, Event{Type: EventProgress, Fraction: fractionExportBase})
		if err := dataset.WriteOrdered(result.OrderedPath, opts.Format, table, rec.Visits); err != nil {
			return err
		}
		if err := dataset.WriteResponse(result.ResponsePath, opts.Format, table, cols.ID, rec.Visits); err != nil {
			return err
		}
		r.emit(ctx, Event{Type: EventProgress, Fraction: fractionDone})
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("wrote result tables",
		"ordered", result.OrderedPath,
		"response", result.ResponsePath,
		"duration", result.Stats.ExportTime)

	r.emit(ctx, Event{Type: EventDone})
	return result, nil
}

// stage runs one named stage with cancellation check, timing, hooks and
// event emission. Cancellation surfaces as ctx.Err(), never as an error
// event.
func (r *Runner) stage(ctx context.Context, name string, elapsed *time.Duration, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.emit(ctx, Event{Type: EventStage, Stage: name})
	observability.Stage().OnStageStart(ctx, name)

	start := time.Now()
	err := fn()
	d := time.Since(start)
	if elapsed != nil {
		*elapsed = d
	}
	observability.Stage().OnStageComplete(ctx, name, d, err)

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.emit(ctx, Event{Type: EventError, Stage: name, Err: err})
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// resolveColumns fills unset column names from header detection.
func (r *Runner) resolveColumns(table *dataset.Table) dataset.Columns {
	detected := dataset.DetectColumns(table.Headers)
	cols := dataset.Columns{ID: r.opts.IDCol, Lat: r.opts.LatCol, Lon: r.opts.LonCol}
	if cols.ID == "" {
		cols.ID = detected.ID
	}
	if cols.Lat == "" {
		cols.Lat = detected.Lat
	}
	if cols.Lon == "" {
		cols.Lon = detected.Lon
	}
	return cols
}
