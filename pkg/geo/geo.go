// Package geo provides geographic primitives for the tour pipeline:
// coordinate points, great-circle distances, and the scaled integer
// distance matrix consumed by the external solver.
//
// Distances are computed with the haversine formula on a sphere of mean
// radius 6371.008 km. The matrix holds integer weights (scaled, rounded
// kilometres) because the solver's branch-and-bound internals require
// integer edge costs; user-facing distances are always recomputed in
// float64 from the original coordinates.
package geo

// EarthRadiusKm is the Earth's mean radius in kilometres.
const EarthRadiusKm = 6371.008

// DefaultScale is the default multiplier converting fractional kilometre
// distances into the integer weights the solver requires.
const DefaultScale = 1000000

// Point is a single geographic record. Index is the 0-based position of
// the record in the source dataset. Points are immutable once loaded.
type Point struct {
	ID    string
	Lat   float64
	Lon   float64
	Index int
}
