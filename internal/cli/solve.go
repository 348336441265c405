package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/routelab/geotour/pkg/dataset"
	"github.com/routelab/geotour/pkg/pipeline"
	"github.com/routelab/geotour/pkg/tsplib"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	outputDir   string
	name        string
	scale       int64
	format      string
	lkh         string
	preset      string
	presetsFile string
	noTUI       bool
	cols        columnFlags
	params      paramFlags
}

// solveCommand creates the solve command, the one-shot variant of
// convert + LKH + export.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOpts{}

	cmd := &cobra.Command{
		Use:   "solve <input>",
		Short: "Run the full convert-solve-export pipeline",
		Long: `Solve runs the complete pipeline over a coordinate table: it builds the
problem and parameter files, runs the external LKH solver, and writes the
visiting order back onto the source records.

Progress is shown in a live terminal view; use --no-tui for plain logged
output (also the right choice for scripts and CI). Ctrl-C cancels the
run and kills the solver.

Examples:
  geotour solve communes.csv
  geotour solve communes.csv --preset quality
  geotour solve stops.xlsx --lkh /opt/lkh/LKH --no-tui`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (input's directory if empty)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "instance name (input filename if empty)")
	cmd.Flags().Int64Var(&opts.scale, "scale", 0, "integer distance scale factor")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: csv or xlsx (input's format if empty)")
	cmd.Flags().StringVar(&opts.lkh, "lkh", "", "solver executable (LKH on PATH if empty)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "parameter preset (rapid|balanced|quality)")
	cmd.Flags().StringVar(&opts.presetsFile, "presets", "", "TOML file with additional presets")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "plain logged progress instead of the live view")
	opts.cols.register(cmd)
	opts.params.register(cmd)

	return cmd
}

// solveParams resolves the parameter set: preset first, then any
// explicitly set flags layered on top.
func solveParams(cmd *cobra.Command, opts *solveOpts) (tsplib.Params, error) {
	params := opts.params.params()
	if opts.preset != "" {
		base, err := resolvePreset(opts.preset, opts.presetsFile)
		if err != nil {
			return tsplib.Params{}, err
		}
		flagged := opts.params.params()
		params = base
		if cmd.Flags().Changed("runs") {
			params.Runs = flagged.Runs
		}
		if cmd.Flags().Changed("move-type") {
			params.MoveType = flagged.MoveType
		}
		if cmd.Flags().Changed("max-trials") {
			params.MaxTrials = flagged.MaxTrials
		}
		if cmd.Flags().Changed("population") {
			params.PopulationSize = flagged.PopulationSize
		}
		if cmd.Flags().Changed("recombination") {
			params.Recombination = flagged.Recombination
		}
		if cmd.Flags().Changed("patching-c") {
			params.PatchingC = flagged.PatchingC
		}
		if cmd.Flags().Changed("patching-a") {
			params.PatchingA = flagged.PatchingA
		}
	}
	return params, nil
}

func (c *CLI) runSolve(cmd *cobra.Command, input string, opts *solveOpts) error {
	logger := loggerFromContext(cmd.Context())

	params, err := solveParams(cmd, opts)
	if err != nil {
		return err
	}

	var format dataset.Format
	if opts.format != "" {
		format, err = dataset.ParseFormat(opts.format)
		if err != nil {
			return err
		}
	}

	runner, err := pipeline.NewRunner(&pipeline.Options{
		Input:      input,
		OutputDir:  opts.outputDir,
		Name:       opts.name,
		IDCol:      opts.cols.idCol,
		LatCol:     opts.cols.latCol,
		LonCol:     opts.cols.lonCol,
		Scale:      opts.scale,
		Params:     params,
		Format:     format,
		Executable: opts.lkh,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	type execResult struct {
		result *pipeline.Result
		err    error
	}
	resCh := make(chan execResult, 1)
	go func() {
		result, err := runner.Execute(ctx)
		resCh <- execResult{result, err}
	}()

	if opts.noTUI {
		logEvents(logger, runner.Events())
	} else {
		model := newSolveModel(input, cancel, runner.Events())
		if _, err := tea.NewProgram(model).Run(); err != nil {
			cancel()
			<-resCh
			return fmt.Errorf("progress view: %w", err)
		}
	}

	res := <-resCh
	if res.err != nil {
		return res.err
	}

	printSuccess("Solved %s", input)
	printTourStats(res.result.Stats.PointCount, res.result.TotalKm, len(res.result.Flagged))
	printFile(res.result.OrderedPath)
	printFile(res.result.ResponsePath)
	printDetail(fmt.Sprintf("solver ran %s over %d runs", res.result.Stats.SolveTime.Round(time.Millisecond), params.Runs))

	return nil
}

// logEvents consumes the event stream in plain logged mode, blocking
// until the pipeline closes it.
func logEvents(logger interface {
	Infof(string, ...any)
	Debugf(string, ...any)
}, events <-chan pipeline.Event) {
	for ev := range events {
		switch ev.Type {
		case pipeline.EventStage:
			logger.Infof("Stage %s", ev.Stage)
		case pipeline.EventProgress:
			logger.Debugf("Progress %.0f%%", ev.Fraction*100)
		case pipeline.EventLine:
			logger.Debugf("solver: %s", ev.Line)
		}
	}
}
