package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/routelab/geotour/pkg/dataset"
)

// detectCommand creates the detect command.
//
// It loads only the dataset headers, shows which columns would be used
// for id, latitude and longitude, and suggests the matching convert
// invocation. Detection failures exit zero: an inconclusive mapping is
// an answer, not an error.
func (c *CLI) detectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <input>",
		Short: "Inspect a dataset and suggest column mappings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDetect(args[0])
		},
	}
}

func (c *CLI) runDetect(input string) error {
	table, err := dataset.Load(input)
	if err != nil {
		return err
	}
	cols := dataset.DetectColumns(table.Headers)

	printInfo("%s: %d columns, %d rows", input, len(table.Headers), len(table.Rows))
	printDetail(strings.Join(table.Headers, ", "))
	printNewline()

	printKeyValue("id", orUnknown(cols.ID))
	printKeyValue("latitude", orUnknown(cols.Lat))
	printKeyValue("longitude", orUnknown(cols.Lon))
	printNewline()

	if cols.Lat == "" || cols.Lon == "" {
		printWarning("could not detect both coordinate columns; pass --lat-col and --lon-col explicitly")
		return nil
	}

	printNextStep("Convert with these columns", fmt.Sprintf(
		"%s convert %s --id-col %q --lat-col %q --lon-col %q",
		appName, input, cols.ID, cols.Lat, cols.Lon))
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return StyleWarning.Render("(not detected)")
	}
	return s
}
