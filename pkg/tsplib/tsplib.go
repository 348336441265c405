// Package tsplib reads and writes the external solver's text formats:
// TSPLIB-style problem files, LKH parameter files, and tour files.
//
// The grammar implemented here is a contract with an external,
// non-negotiable consumer. Header field order, section keywords, and the
// tour terminator vocabulary (TOUR_SECTION, -1, EOF) are load-bearing and
// must not be cleaned up; the package tests pin them byte-for-byte.
//
// All output is plain LF-terminated text with no byte-order mark.
package tsplib

import (
	"github.com/routelab/geotour/pkg/errors"
	"github.com/routelab/geotour/pkg/geo"
)

// CoordKind selects the solver-side distance function for coordinate-mode
// instances (EDGE_WEIGHT_TYPE header value).
type CoordKind string

// Supported coordinate-mode edge weight types.
const (
	CoordGeom   CoordKind = "GEOM"    // geographic, decimal degrees
	CoordGeo    CoordKind = "GEO"     // geographic, DDD.MM format
	CoordEuc2D  CoordKind = "EUC_2D"  // Euclidean 2D
	CoordEuc3D  CoordKind = "EUC_3D"  // Euclidean 3D
	CoordAtt    CoordKind = "ATT"     // pseudo-Euclidean
	CoordCeil2D CoordKind = "CEIL_2D" // Euclidean 2D, ceiling
)

// ValidCoordKinds is the set of accepted coordinate-mode weight types.
var ValidCoordKinds = map[CoordKind]bool{
	CoordGeom:   true,
	CoordGeo:    true,
	CoordEuc2D:  true,
	CoordEuc3D:  true,
	CoordAtt:    true,
	CoordCeil2D: true,
}

// Instance is a TSP problem instance ready for serialization. Exactly one
// of Matrix (explicit weights) or Points (coordinate mode) must be set.
type Instance struct {
	Name string

	// Matrix holds explicit scaled integer weights (EDGE_WEIGHT_TYPE
	// EXPLICIT, FULL_MATRIX). Preferred: maximum precision control.
	Matrix *geo.Matrix

	// Points plus CoordKind emit a NODE_COORD_SECTION instance and let
	// the solver derive distances itself. Node ids are assigned by
	// traversal order of Points, not by the external identifier.
	CoordKind CoordKind
	Points    []geo.Point
}

// Dimension returns the node count of whichever representation is set.
func (inst *Instance) Dimension() int {
	if inst.Matrix != nil {
		return inst.Matrix.Dimension()
	}
	return len(inst.Points)
}

// Validate checks that exactly one weight representation is populated and
// that the coordinate kind, when used, is one the solver understands.
func (inst *Instance) Validate() error {
	if inst.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "instance name is required")
	}
	hasMatrix := inst.Matrix != nil
	hasCoords := len(inst.Points) > 0
	if hasMatrix == hasCoords {
		return errors.New(errors.ErrCodeInvalidInput,
			"instance requires exactly one of an explicit matrix or coordinate points")
	}
	if hasCoords && !ValidCoordKinds[inst.CoordKind] {
		return errors.New(errors.ErrCodeInvalidInput,
			"unsupported edge weight type %q (must be one of GEOM, GEO, EUC_2D, EUC_3D, ATT, CEIL_2D)", inst.CoordKind)
	}
	return nil
}
