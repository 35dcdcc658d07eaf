package sky

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSeparationOfIdenticalPointsIsZero(t *testing.T) {
	for _, p := range []Point{
		{0, 0}, {180, 45}, {359.9, -89.9}, {12.34, 56.78},
	} {
		require.Equal(t, 0.0, Separation(p, p))
	}
}

func TestSeparationIsMonotoneAlongMeridian(t *testing.T) {
	var center = Point{RA: 120, Dec: 10}
	var prev float64
	for _, dec := range []float64{10.1, 10.5, 12, 20, 45, 80} {
		var sep = Separation(center, Point{RA: 120, Dec: dec})
		require.Greater(t, sep, prev)
		require.InDelta(t, dec-10, sep, 1e-9) // Along a meridian, separation is the Dec offset.
		prev = sep
	}
}

func TestSeparationNearPole(t *testing.T) {
	// Two points near the pole are close despite a 180 degree RA difference.
	var sep = Separation(Point{RA: 0, Dec: 89.9}, Point{RA: 180, Dec: 89.9})
	require.InDelta(t, 0.2, sep, 1e-6)
}

func TestSelectPartition(t *testing.T) {
	var center = Point{RA: 150, Dec: 2}

	var points []Point
	var healpix []int64
	var add = func(hpix int64, n int, p Point) {
		for i := 0; i != n; i++ {
			points = append(points, p)
			healpix = append(healpix, hpix)
		}
	}
	add(100, 5, Point{RA: 150.01, Dec: 2.01})
	add(200, 12, Point{RA: 149.99, Dec: 1.99})
	add(300, 3, Point{RA: 150.02, Dec: 2.02})
	add(400, 50, Point{RA: 10, Dec: -45}) // Far outside the radius.

	var sel, err = SelectPartition(points, healpix, center, 0.1)
	require.NoError(t, err)
	require.Equal(t, Selection{Healpix: 200, Matched: 12}, sel)

	// Shrinking the radius below all separations is an explicit error.
	_, err = SelectPartition(points, healpix, center, 1e-6)
	var noMatch *NoMatchError
	require.True(t, errors.As(err, &noMatch))
	require.Equal(t, center, noMatch.Center)
}

func TestSelectPartitionTieBreaksToLowestID(t *testing.T) {
	var p = Point{RA: 30, Dec: 30}
	var points = []Point{p, p, p, p}
	var healpix = []int64{900, 700, 900, 700}

	var sel, err = SelectPartition(points, healpix, p, 0.5)
	require.NoError(t, err)
	require.Equal(t, Selection{Healpix: 700, Matched: 2}, sel)
}
