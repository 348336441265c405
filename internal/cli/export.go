package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/routelab/geotour/pkg/dataset"
	"github.com/routelab/geotour/pkg/reconcile"
	"github.com/routelab/geotour/pkg/tsplib"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	data   string
	output string
	format string
	cols   columnFlags
}

// exportCommand creates the export command.
//
// It maps an existing solver tour file back onto the source dataset and
// writes the ordered result tables. This is the manual counterpart of
// the solve command's final stages, for tours produced by running the
// solver by hand.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{}

	cmd := &cobra.Command{
		Use:   "export <tour>",
		Short: "Map a solver tour back onto the source dataset",
		Long: `Export reads a tour file written by the solver, reconciles it against the
source dataset, and writes two tables: the full dataset with an appended
visiting_order column sorted by visit position, and a reduced id+order
view alongside it.

Examples:
  geotour export communes.tour --data communes.csv
  geotour export tour1.tour --data stops.xlsx --output order.csv --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "source dataset the tour was built from (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "result table path (derived from the dataset if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: csv or xlsx (dataset's own format if empty)")
	opts.cols.register(cmd)
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, tourPath string, opts *exportOpts) error {
	logger := loggerFromContext(cmd.Context())

	table, err := dataset.Load(opts.data)
	if err != nil {
		return err
	}
	cols := opts.cols.resolve(table.Headers)
	points, err := table.Points(cols)
	if err != nil {
		return err
	}

	tour, err := tsplib.ParseTourFile(tourPath, len(points))
	if err != nil {
		return err
	}
	logger.Debugf("Parsed tour with %d nodes", len(tour.Order))

	result, err := reconcile.Reconcile(points, tour)
	if err != nil {
		return err
	}

	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(opts.data), ".")
	}
	outFormat, err := dataset.ParseFormat(format)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		base := strings.TrimSuffix(opts.data, filepath.Ext(opts.data))
		output = base + "_result." + string(outFormat)
	}
	responsePath := dataset.ResponsePath(output)

	sp := newSpinner("writing result tables")
	err = dataset.WriteOrdered(output, outFormat, table, result.Visits)
	if err == nil {
		err = dataset.WriteResponse(responsePath, outFormat, table, cols.ID, result.Visits)
	}
	sp.Stop()
	if err != nil {
		return err
	}

	printSuccess("Exported tour over %s", opts.data)
	printTourStats(len(points), result.TotalKm, len(result.Flagged))
	if len(result.Flagged) > 0 {
		printWarning("%d records were never visited and sort first with order 0", len(result.Flagged))
	}
	printFile(output)
	printFile(responsePath)
	if tour.Length != nil {
		printDetail(fmt.Sprintf("solver objective %d (scaled integer, informational only)", *tour.Length))
	}

	return nil
}
