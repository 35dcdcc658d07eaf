package catalog

import (
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fibermapRow struct {
	TileID int32 `fits:"TILEID"`
}

var fibermapColumns = []fitsio.Column{
	{Name: "TILEID", Format: "J"},
}

func writeFibermap(t *testing.T, path string, tileIDs []int32) {
	writeTable(t, path, "EXP_FIBERMAP", fibermapColumns, len(tileIDs),
		func(i int) interface{} { return &fibermapRow{TileID: tileIDs[i]} })
}

func TestTileContributorsRanking(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "redrock-main-dark-555.fits")
	// Tile 200 dominates; 80 and 100 tie and are ordered by ascending id.
	writeFibermap(t, path, []int32{
		200, 100, 200, 80, 200, 100, 80, 200, 100, 80, 200,
	})

	var ranked, err = TileContributors(path)
	require.NoError(t, err)
	require.Equal(t, []TileCount{
		{TileID: 200, Count: 5},
		{TileID: 80, Count: 3},
		{TileID: 100, Count: 3},
	}, ranked)
}

func TestTileContributorsOfEmptyTable(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "redrock-empty.fits")
	writeFibermap(t, path, nil)

	var ranked, err = TileContributors(path)
	require.NoError(t, err)
	require.Empty(t, ranked)
}

func TestTileContributorsMissingExtension(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "nofibermap.fits")
	writeTable(t, path, "ZCATALOG", catalogColumns, 0, nil)

	var _, err = TileContributors(path)
	var dfErr *DataFormatError
	require.True(t, errors.As(err, &dfErr))
	require.Contains(t, err.Error(), "EXP_FIBERMAP")
}

func TestTileContributorsMissingColumn(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "nocolumn.fits")
	writeTable(t, path, "EXP_FIBERMAP", []fitsio.Column{
		{Name: "FIBER", Format: "J"},
	}, 1, func(int) interface{} {
		return &struct {
			Fiber int32 `fits:"FIBER"`
		}{Fiber: 7}
	})

	var _, err = TileContributors(path)
	var dfErr *DataFormatError
	require.True(t, errors.As(err, &dfErr))
	require.Contains(t, err.Error(), "TILEID")
}
