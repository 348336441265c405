// Package reconcile maps a solver tour back onto the original source
// records and recomputes the user-facing tour distance.
//
// The solver works on abstract 1-indexed node ids over integer-scaled
// weights; reconciliation is the step that turns its output into
// something meaningful for the dataset owner: a visit position per
// record and a float64 kilometre total computed from the original
// coordinates. The solver's own reported length is never unscaled into
// the result, because matrix scaling and rounding are lossy.
package reconcile

import (
	"github.com/routelab/geotour/pkg/errors"
	"github.com/routelab/geotour/pkg/geo"
	"github.com/routelab/geotour/pkg/tsplib"
)

// Result is the reconciled outcome of one successful solver run. It is
// derived per run, written to the output tables, and then discarded; it
// is not retained as process state.
type Result struct {
	// Visits maps original record index to 1-based visit position.
	// A value of 0 means the record was never assigned (defended
	// against, cannot occur for a valid permutation).
	Visits []int

	// TotalKm is the closed-loop tour distance in kilometres, float64
	// haversine over the original coordinates in tour order.
	TotalKm float64

	// Flagged lists original record indices left unassigned.
	Flagged []int
}

// Reconcile maps tour onto the original points.
//
// Every node id must fall within 1..len(points); out-of-range ids fail
// with a validation error. Records with no assigned position keep visit
// 0 (they sort first in the output tables) and are flagged.
func Reconcile(points []geo.Point, tour *tsplib.Tour) (*Result, error) {
	n := len(points)
	visits := make([]int, n)

	for pos, id := range tour.Order {
		if id < 1 || id > n {
			return nil, errors.New(errors.ErrCodeInvalidNode,
				"tour node id %d outside valid range 1..%d", id, n)
		}
		visits[id-1] = pos + 1
	}

	var flagged []int
	for i, v := range visits {
		if v == 0 {
			flagged = append(flagged, i)
		}
	}

	return &Result{
		Visits:  visits,
		TotalKm: geo.TourDistance(points, tour.Order),
		Flagged: flagged,
	}, nil
}
