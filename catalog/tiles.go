package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/astrogo/fitsio"
)

// Fit-result table layout. EXP_FIBERMAP holds one row per (object, exposure)
// pair, and its TILEID column attributes each observation to a tile.
const (
	fibermapHDU  = "EXP_FIBERMAP"
	tileIDColumn = "TILEID"
)

// TileCount is the contribution of one tile to a partition.
type TileCount struct {
	TileID int32
	Count  int
}

// TileContributors derives the ranked tile contributions of the partition
// fit-result file at |path|: tiles ordered by descending observation count,
// with ties broken by ascending tile id. The ordering is deterministic for a
// fixed input file.
func TileContributors(path string) ([]TileCount, error) {
	var f, err = os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fits, err := fitsio.Open(f)
	if err != nil {
		return nil, &DataFormatError{Path: path, Reason: err.Error()}
	}
	defer fits.Close()

	tbl, err := findTable(fits, path, fibermapHDU)
	if err != nil {
		return nil, err
	}
	if !hasColumn(tbl, tileIDColumn) {
		return nil, &DataFormatError{Path: path,
			Reason: fmt.Sprintf("%s has no %s column", fibermapHDU, tileIDColumn)}
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, &DataFormatError{Path: path, Reason: err.Error()}
	}
	defer rows.Close()

	var counts = make(map[int32]int)
	var rec struct {
		TileID int32 `fits:"TILEID"`
	}
	for rows.Next() {
		if err = rows.Scan(&rec); err != nil {
			return nil, &DataFormatError{Path: path, Reason: err.Error()}
		}
		counts[rec.TileID]++
	}
	if err = rows.Err(); err != nil {
		return nil, &DataFormatError{Path: path, Reason: err.Error()}
	}

	var ranked = make([]TileCount, 0, len(counts))
	for id, n := range counts {
		ranked = append(ranked, TileCount{TileID: id, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].TileID < ranked[j].TileID
	})
	return ranked, nil
}
