package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/routelab/geotour/pkg/dataset"
	"github.com/routelab/geotour/pkg/errors"
	"github.com/routelab/geotour/pkg/geo"
	"github.com/routelab/geotour/pkg/tsplib"
)

// columnFlags holds the shared column-mapping flags. Empty values are
// auto-detected from the dataset headers.
type columnFlags struct {
	idCol  string
	latCol string
	lonCol string
}

func (f *columnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.idCol, "id-col", "", "identifier column (auto-detected if empty)")
	cmd.Flags().StringVar(&f.latCol, "lat-col", "", "latitude column (auto-detected if empty)")
	cmd.Flags().StringVar(&f.lonCol, "lon-col", "", "longitude column (auto-detected if empty)")
}

// resolve merges explicit flags with header detection.
func (f *columnFlags) resolve(headers []string) dataset.Columns {
	detected := dataset.DetectColumns(headers)
	cols := dataset.Columns{ID: f.idCol, Lat: f.latCol, Lon: f.lonCol}
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

// paramFlags holds the solver parameter flags shared by convert and solve.
type paramFlags struct {
	runs          int
	moveType      int
	maxTrials     int
	population    int
	recombination string
	patchingC     int
	patchingA     int
}

func (f *paramFlags) register(cmd *cobra.Command) {
	d := tsplib.DefaultParams()
	cmd.Flags().IntVar(&f.runs, "runs", d.Runs, "number of solver runs")
	cmd.Flags().IntVar(&f.moveType, "move-type", d.MoveType, "Lin-Kernighan move type (2-5)")
	cmd.Flags().IntVar(&f.maxTrials, "max-trials", d.MaxTrials, "maximum trials per run")
	cmd.Flags().IntVar(&f.population, "population", d.PopulationSize, "genetic population size (1 disables recombination)")
	cmd.Flags().StringVar(&f.recombination, "recombination", string(d.Recombination), "recombination method (IPT|GPX2|CLARIST)")
	cmd.Flags().IntVar(&f.patchingC, "patching-c", d.PatchingC, "PATCHING_C value")
	cmd.Flags().IntVar(&f.patchingA, "patching-a", d.PatchingA, "PATCHING_A value")
}

// params builds the parameter set from the flags. ProblemFile and
// TourFile are left for the caller to fill.
func (f *paramFlags) params() tsplib.Params {
	return tsplib.Params{
		Runs:           f.runs,
		MoveType:       f.moveType,
		MaxTrials:      f.maxTrials,
		PopulationSize: f.population,
		Recombination:  tsplib.Recombination(strings.ToUpper(f.recombination)),
		PatchingC:      f.patchingC,
		PatchingA:      f.patchingA,
	}
}

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	outputDir  string
	name       string
	scale      int64
	coords     bool
	weightType string
	cols       columnFlags
	params     paramFlags
}

// convertCommand creates the convert command.
//
// It loads the dataset, builds the problem and parameter files, and
// prints the solver invocation as the next step. With --coords, the
// problem file carries raw coordinates instead of an explicit matrix
// and the solver computes distances itself.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{scale: geo.DefaultScale, weightType: string(tsplib.CoordGeom)}

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a coordinate table into solver input files",
		Long: `Convert a coordinate table (csv or xlsx) into a TSPLIB problem file and
a matching solver parameter file.

By default the problem file carries an explicit integer distance matrix
computed with haversine distances. With --coords the raw coordinates are
emitted instead and the distance function is chosen with --weight-type.

Examples:
  geotour convert communes.csv
  geotour convert communes.csv --name tour1 --scale 1000
  geotour convert stops.xlsx --coords --weight-type GEOM
  geotour convert communes.csv --runs 20 --population 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (input's directory if empty)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "instance name (input filename if empty)")
	cmd.Flags().Int64Var(&opts.scale, "scale", opts.scale, "integer distance scale factor")
	cmd.Flags().BoolVar(&opts.coords, "coords", false, "emit raw coordinates instead of an explicit matrix")
	cmd.Flags().StringVar(&opts.weightType, "weight-type", opts.weightType, "coordinate distance function (GEOM|GEO|EUC_2D|EUC_3D|ATT|CEIL_2D)")
	opts.cols.register(cmd)
	opts.params.register(cmd)

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, input string, opts *convertOpts) error {
	logger := loggerFromContext(cmd.Context())

	if opts.outputDir == "" {
		opts.outputDir = filepath.Dir(input)
	}
	if opts.name == "" {
		base := filepath.Base(input)
		opts.name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	table, err := dataset.Load(input)
	if err != nil {
		return err
	}
	cols := opts.cols.resolve(table.Headers)
	points, err := table.Points(cols)
	if err != nil {
		return err
	}
	logger.Debugf("Resolved columns id=%s lat=%s lon=%s", cols.ID, cols.Lat, cols.Lon)

	inst := &tsplib.Instance{Name: opts.name}
	if opts.coords {
		kind := tsplib.CoordKind(strings.ToUpper(opts.weightType))
		if !tsplib.ValidCoordKinds[kind] {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown weight type %q", opts.weightType)
		}
		inst.CoordKind = kind
		inst.Points = points
	} else {
		prog := newProgress(logger)
		matrix, err := geo.BuildMatrix(points, opts.scale, nil)
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Computed %dx%d distance matrix", matrix.Dimension(), matrix.Dimension()))
		inst.Matrix = matrix
	}

	problemPath := filepath.Join(opts.outputDir, opts.name+".tsp")
	paramPath := filepath.Join(opts.outputDir, opts.name+".par")
	tourPath := filepath.Join(opts.outputDir, opts.name+".tour")

	if err := tsplib.WriteInstanceFile(problemPath, inst); err != nil {
		return err
	}

	params := opts.params.params()
	params.ProblemFile = problemPath
	params.TourFile = tourPath
	if err := tsplib.WriteParamsFile(paramPath, &params); err != nil {
		return err
	}

	printSuccess("Converted %s (%d points)", input, len(points))
	printFile(problemPath)
	printFile(paramPath)
	printNewline()
	printNextStep("Run the solver", "LKH "+paramPath)
	printNextStep("Or do it in one go", fmt.Sprintf("%s solve %s", appName, input))

	return nil
}
