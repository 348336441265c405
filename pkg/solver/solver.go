// Package solver runs the external LKH optimizer as a child process.
//
// The package knows nothing about tours or matrices: its contract is
// "executable plus parameter file in, exit status and output lines out".
// Any optimizer honoring that boundary can replace LKH by pointing the
// Runner at a different binary.
//
// Solver runs can take minutes, so output is streamed line-by-line as
// produced rather than buffered. Progress is derived from the solver's
// "Run <N>: ..." lines; that prefix match is version-fragile by nature
// and is pinned by a contract test against sample solver output.
package solver

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/routelab/geotour/pkg/errors"
)

// DefaultExecutable is the solver binary looked up on PATH when no
// explicit path is configured.
const DefaultExecutable = "LKH"

// Line is one line of solver output with derived progress, delivered in
// the exact order the child process emitted it.
type Line struct {
	Text string

	// Run is the run number parsed from a "Run <N>: ..." line, 0 otherwise.
	Run int

	// Fraction is the overall pipeline progress derived from Run, or -1
	// for lines that carry no progress information.
	Fraction float64
}

// Options configures a single solver invocation.
type Options struct {
	// ParamFile is the parameter file passed as the solver's sole argument.
	ParamFile string

	// TotalRuns positions per-run progress; it should match the RUNS
	// value written to the parameter file.
	TotalRuns int

	// BaseFraction and SpanFraction position this sub-stage within a
	// larger pipeline progress bar: a run N maps to
	// BaseFraction + (N/TotalRuns)*SpanFraction.
	BaseFraction float64
	SpanFraction float64

	// OnLine receives each output line as it is produced. May be nil.
	OnLine func(Line)
}

// Runner spawns the external solver executable.
type Runner struct {
	Executable string
}

// NewRunner returns a runner for the given executable path, defaulting
// to DefaultExecutable when empty.
func NewRunner(executable string) *Runner {
	if executable == "" {
		executable = DefaultExecutable
	}
	return &Runner{Executable: executable}
}

// runLinePattern matches the solver's per-run progress lines, e.g.
// "Run 3: Cost = 3514718, Time = 1.23 sec.".
var runLinePattern = regexp.MustCompile(`^Run (\d+):`)

// ParseRunLine derives progress from a single solver output line. The
// returned Line has Fraction -1 when the line carries no run marker or
// totalRuns is not positive.
func ParseRunLine(text string, totalRuns int, base, span float64) Line {
	line := Line{Text: text, Fraction: -1}
	m := runLinePattern.FindStringSubmatch(text)
	if m == nil || totalRuns < 1 {
		return line
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return line
	}
	line.Run = n
	line.Fraction = base + float64(n)/float64(totalRuns)*span
	return line
}

// Run executes the solver to completion or cancellation.
//
// The child is spawned with the parameter file as its sole argument and
// its stdout and stderr merged into one stream, read line-by-line as it
// is produced. Cancelling ctx kills the child and stops reading; any
// partially written output files are left on disk for the caller to
// treat as stale. A missing executable yields SOLVER_NOT_FOUND; a
// non-zero exit yields SOLVER_FAILED even if a partial tour file exists.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	exePath, err := exec.LookPath(r.Executable)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSolverNotFound, err, "solver executable %q not found", r.Executable)
	}
	if _, err := os.Stat(opts.ParamFile); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "parameter file %s", opts.ParamFile)
	}

	cmd := exec.CommandContext(ctx, exePath, opts.ParamFile)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "solver stdout pipe")
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeSolverFailed, err, "start solver %s", r.Executable)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		text := scanner.Text()
		if opts.OnLine != nil {
			opts.OnLine(ParseRunLine(text, opts.TotalRuns, opts.BaseFraction, opts.SpanFraction))
		}
	}

	waitErr := cmd.Wait()

	// Cancellation is a distinct terminal outcome, not a solver failure.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		return errors.Wrap(errors.ErrCodeSolverFailed, waitErr, "solver exited abnormally")
	}
	return nil
}
