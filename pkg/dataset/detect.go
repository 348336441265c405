package dataset

import "strings"

// Columns names the three required columns of an input dataset.
type Columns struct {
	ID  string
	Lat string
	Lon string
}

// Keyword lists for column detection, checked in order. The identifier
// list deliberately carries domain names (commune, city) from the
// datasets this tool grew up on.
var (
	latKeywords = []string{"latitude", "lat", "y", "coord_y", "lat_deg"}
	lonKeywords = []string{"longitude", "lon", "long", "x", "coord_x", "lon_deg", "lng"}
	idKeywords  = []string{"id", "commune", "name", "city", "node", "point", "index"}
)

// DetectColumns locates the identifier, latitude and longitude columns
// by case-insensitive keyword match over the headers. An exact match is
// preferred; failing that, a substring pass catches headers like
// "Y-coordinate". When no identifier keyword matches, the first column
// is used as the identifier. Lat/Lon are left empty when nothing
// matches; detection is advisory and the caller decides whether an
// empty result is fatal.
func DetectColumns(headers []string) Columns {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(h)
	}

	cols := Columns{
		Lat: matchColumn(headers, lower, latKeywords),
		Lon: matchColumn(headers, lower, lonKeywords),
		ID:  matchColumn(headers, lower, idKeywords),
	}

	if cols.ID == "" && len(headers) > 0 {
		cols.ID = headers[0]
	}
	return cols
}

// matchColumn returns the original header whose lowercase form equals a
// keyword, or contains one when no exact match exists. Keywords are
// tried in list order so "latitude" wins over "lat", and headers in
// header order so the leftmost candidate wins.
func matchColumn(headers, lower []string, keywords []string) string {
	for _, kw := range keywords {
		for i, h := range lower {
			if h == kw {
				return headers[i]
			}
		}
	}
	for _, kw := range keywords {
		// Single-letter keywords ("x", "y") are too noisy as plain
		// substrings; they only match as a leading axis letter, e.g.
		// "Y-coordinate".
		for i, h := range lower {
			if len(kw) == 1 {
				if strings.HasPrefix(h, kw+"-") || strings.HasPrefix(h, kw+"_") || strings.HasPrefix(h, kw+" ") {
					return headers[i]
				}
				continue
			}
			if strings.Contains(h, kw) {
				return headers[i]
			}
		}
	}
	return ""
}
