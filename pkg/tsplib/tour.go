package tsplib

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/routelab/geotour/pkg/errors"
)

// Tour is the solver's output: an ordered sequence of 1-indexed node ids
// forming a closed visiting sequence, plus the reported scaled integer
// length when the solver wrote one.
type Tour struct {
	// Order is a permutation of 1..n.
	Order []int

	// Length is the solver-reported scaled integer objective, if present.
	// It is informational only: user-facing distance is recomputed from
	// the original coordinates, never by unscaling this value.
	Length *int64
}

// lengthPattern matches the solver's "COMMENT : Length = <integer>" line.
// Captured anywhere in the file, regardless of section state.
var lengthPattern = regexp.MustCompile(`^COMMENT\s*:\s*Length\s*=\s*(-?\d+)`)

// ParseTour reads a solver tour file from r.
//
// The parser is a three-state machine (before section, in section, done).
// A line exactly equal to TOUR_SECTION enters the section. In-section
// integer lines are collected as node ids; non-integer lines are ignored
// to tolerate stray formatting. A "-1", "EOF" or empty line terminates
// the section only once at least one id has been collected; before that
// it is ignored, tolerating blank lines ahead of the body. End of input
// terminates the section the same way.
//
// If dimension > 0, the collected order is validated as a permutation of
// 1..dimension. Pass dimension 0 when the node count is not known; range
// checks are then skipped but duplicates still fail.
func ParseTour(r io.Reader, dimension int) (*Tour, error) {
	tour := &Tour{}
	inSection := false
	done := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := lengthPattern.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				tour.Length = &v
			}
		}

		if line == "TOUR_SECTION" {
			inSection = true
			continue
		}

		if line == "-1" || line == "EOF" || line == "" {
			if inSection && len(tour.Order) > 0 {
				done = true
				break
			}
			continue
		}

		if inSection {
			id, err := strconv.Atoi(line)
			if err != nil {
				// Stray formatting inside the section is tolerated.
				continue
			}
			tour.Order = append(tour.Order, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read tour")
	}

	// End of input terminates the section like an explicit "-1" or "EOF".
	if inSection && len(tour.Order) > 0 {
		done = true
	}

	if !done {
		return nil, errors.New(errors.ErrCodeParse,
			"tour file has no terminated TOUR_SECTION with node ids")
	}

	if err := validateOrder(tour.Order, dimension); err != nil {
		return nil, err
	}
	return tour, nil
}

// ParseTourFile reads and parses the tour file at path.
func ParseTourFile(path string, dimension int) (*Tour, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	return ParseTour(f, dimension)
}

// validateOrder checks that order is duplicate-free and, when dimension
// is known, a full permutation of 1..dimension.
func validateOrder(order []int, dimension int) error {
	seen := make(map[int]bool, len(order))
	for _, id := range order {
		if seen[id] {
			return errors.New(errors.ErrCodeInvalidTour, "duplicate node id %d", id)
		}
		seen[id] = true
		if id < 1 || (dimension > 0 && id > dimension) {
			return errors.New(errors.ErrCodeInvalidTour,
				"node id %d outside valid range 1..%d", id, dimension)
		}
	}
	if dimension > 0 && len(order) != dimension {
		return errors.New(errors.ErrCodeInvalidTour,
			"tour visits %d nodes, expected %d", len(order), dimension)
	}
	return nil
}
