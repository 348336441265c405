package geo

import "math"

// Haversine returns the great-circle distance in kilometres between two
// points given in decimal degrees. The computation is float64 throughout.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Distance returns the haversine distance in kilometres between two points.
func Distance(p, q Point) float64 {
	return Haversine(p.Lat, p.Lon, q.Lat, q.Lon)
}

// TourDistance returns the total closed-loop distance in kilometres for
// visiting points in the given order, where order holds 1-indexed node
// ids. The closing edge from the last point back to the first is included.
//
// This is the user-facing distance: it is computed from the original
// float64 coordinates, never by unscaling the solver's integer objective,
// which is lossy due to scaling and rounding.
func TourDistance(points []Point, order []int) float64 {
	if len(order) < 2 {
		return 0
	}
	total := 0.0
	for i := range order {
		p := points[order[i]-1]
		q := points[order[(i+1)%len(order)]-1]
		total += Distance(p, q)
	}
	return total
}
