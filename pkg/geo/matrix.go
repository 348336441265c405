package geo

import (
	"math"

	"github.com/routelab/geotour/pkg/errors"
)

// Matrix is a symmetric n×n matrix of non-negative scaled integer
// distances. It is built once per pipeline run and read-only thereafter,
// so it may be read by multiple observers without synchronization.
//
// The scale factor is fixed at build time and travels with the matrix:
// any consumer that needs to invert the scaling must read it from here.
type Matrix struct {
	n       int
	scale   int64
	weights [][]int64
}

// Dimension returns the number of points n.
func (m *Matrix) Dimension() int { return m.n }

// Scale returns the integer scale factor applied at build time.
func (m *Matrix) Scale() int64 { return m.scale }

// At returns the scaled integer distance between nodes i and j (0-based).
func (m *Matrix) At(i, j int) int64 { return m.weights[i][j] }

// Row returns the full weight row for node i. The returned slice is
// owned by the matrix and must not be modified.
func (m *Matrix) Row(i int) []int64 { return m.weights[i] }

// ProgressFunc receives coarse progress during matrix construction as
// (completed pairs, total pairs). It is invoked at roughly every 10% of
// the total pair count, never per pair.
type ProgressFunc func(done, total int)

// BuildMatrix computes the full pairwise distance matrix for the given
// points. Each entry is round(haversine_km * scale) with half-away-from-zero
// rounding, mirrored into both triangles; the diagonal is zero.
//
// onProgress may be nil. BuildMatrix is a pure function of its inputs:
// identical points and scale always produce an identical matrix.
func BuildMatrix(points []Point, scale int64, onProgress ProgressFunc) (*Matrix, error) {
	if len(points) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "need at least 2 points, got %d", len(points))
	}
	if scale < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be a positive integer, got %d", scale)
	}
	for _, p := range points {
		if !isFinite(p.Lat) || !isFinite(p.Lon) {
			return nil, errors.New(errors.ErrCodeInvalidCoordinate,
				"point %q (row %d): non-finite coordinate (%v, %v)", p.ID, p.Index, p.Lat, p.Lon)
		}
	}

	n := len(points)
	weights := make([][]int64, n)
	for i := range weights {
		weights[i] = make([]int64, n)
	}

	total := n * (n - 1) / 2
	done := 0
	lastPercent := 0

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Distance(points[i], points[j])
			// math.Round rounds half away from zero, matching the
			// solver-side expectation exactly.
			w := int64(math.Round(d * float64(scale)))
			weights[i][j] = w
			weights[j][i] = w

			done++
			if onProgress != nil {
				percent := done * 100 / total
				if percent >= lastPercent+10 {
					onProgress(done, total)
					lastPercent = percent
				}
			}
		}
	}

	return &Matrix{n: n, scale: scale, weights: weights}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
