// Package sky implements great-circle geometry over catalog coordinates, and
// selection of the healpix partition best covering a query position.
package sky

import (
	"fmt"
	"math"
)

// Point is a sky position in decimal degrees.
type Point struct {
	RA, Dec float64
}

// Separation returns the great-circle angular separation of |a| and |b| in
// degrees, computed with the haversine formula. Unlike a flat approximation,
// it remains correct near the poles and at large separations.
func Separation(a, b Point) float64 {
	var (
		ra1, dec1 = a.RA * math.Pi / 180, a.Dec * math.Pi / 180
		ra2, dec2 = b.RA * math.Pi / 180, b.Dec * math.Pi / 180

		sinDec = math.Sin((dec2 - dec1) / 2)
		sinRA  = math.Sin((ra2 - ra1) / 2)
	)
	var h = sinDec*sinDec + math.Cos(dec1)*math.Cos(dec2)*sinRA*sinRA
	return 2 * math.Asin(math.Sqrt(h)) * 180 / math.Pi
}

// Selection is the outcome of a partition query.
type Selection struct {
	// Healpix is the selected partition id.
	Healpix int64
	// Matched is the number of catalog records of that partition within the
	// search radius.
	Matched int
}

// NoMatchError indicates that no catalog record lies within the search
// radius of the query position.
type NoMatchError struct {
	Center Point
	Radius float64
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no catalog records within %g deg of (%g, %g)",
		e.Radius, e.Center.RA, e.Center.Dec)
}

// SelectPartition returns the healpix partition holding the most of the
// records within |radius| degrees of |center|. |points| and |healpix| are
// parallel: healpix[i] is the partition of points[i]. If no record is within
// the radius, a *NoMatchError is returned. Among partitions of equal count,
// the lowest partition id wins.
func SelectPartition(points []Point, healpix []int64, center Point, radius float64) (Selection, error) {
	var counts = make(map[int64]int)
	for i, p := range points {
		if Separation(p, center) <= radius {
			counts[healpix[i]]++
		}
	}
	if len(counts) == 0 {
		return Selection{}, &NoMatchError{Center: center, Radius: radius}
	}

	var best Selection
	for hpix, n := range counts {
		if n > best.Matched || (n == best.Matched && hpix < best.Healpix) {
			best = Selection{Healpix: hpix, Matched: n}
		}
	}
	return best, nil
}
