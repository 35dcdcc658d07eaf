// Package catalog reads the FITS tables of a spectroscopic production: the
// per-object redshift catalog, and the per-partition fit results which
// attribute objects to observation tiles.
package catalog

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"

	"github.com/desihub/desida/sky"
)

// Catalog table layout.
const (
	catalogHDU = "ZCATALOG"
	raColumn   = "TARGET_RA"
	decColumn  = "TARGET_DEC"
	hpixColumn = "HEALPIX"
)

// DataFormatError indicates a FITS file which is readable but is missing an
// expected table or column.
type DataFormatError struct {
	Path   string
	Reason string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Table is an in-memory columnar view of the catalog coordinates and
// partition ids. It is a read-only snapshot, loaded fully for one query.
type Table struct {
	// Points holds per-record sky coordinates.
	Points []sky.Point
	// Healpix holds the partition id of each record, parallel to Points.
	Healpix []int64
}

// Read loads the ZCATALOG extension of the catalog file at |path|.
func Read(path string) (*Table, error) {
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

	tbl, err := findTable(fits, path, catalogHDU)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{raColumn, decColumn, hpixColumn} {
		if !hasColumn(tbl, col) {
			return nil, &DataFormatError{Path: path,
				Reason: fmt.Sprintf("%s has no %s column", catalogHDU, col)}
		}
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, &DataFormatError{Path: path, Reason: err.Error()}
	}
	defer rows.Close()

	var out = &Table{
		Points:  make([]sky.Point, 0, int(tbl.NumRows())),
		Healpix: make([]int64, 0, int(tbl.NumRows())),
	}
	var rec struct {
		RA      float64 `fits:"TARGET_RA"`
		Dec     float64 `fits:"TARGET_DEC"`
		Healpix int64   `fits:"HEALPIX"`
	}
	for rows.Next() {
		if err = rows.Scan(&rec); err != nil {
			return nil, &DataFormatError{Path: path, Reason: err.Error()}
		}
		out.Points = append(out.Points, sky.Point{RA: rec.RA, Dec: rec.Dec})
		out.Healpix = append(out.Healpix, rec.Healpix)
	}
	if err = rows.Err(); err != nil {
		return nil, &DataFormatError{Path: path, Reason: err.Error()}
	}
	return out, nil
}

func hasColumn(tbl *fitsio.Table, name string) bool {
	for _, col := range tbl.Cols() {
		if col.Name == name {
			return true
		}
	}
	return false
}

// findTable returns the named binary table extension of |fits|.
func findTable(fits *fitsio.File, path, name string) (*fitsio.Table, error) {
	for _, hdu := range fits.HDUs() {
		if hdu.Name() != name {
			continue
		}
		if tbl, ok := hdu.(*fitsio.Table); ok {
			return tbl, nil
		}
		return nil, &DataFormatError{Path: path,
			Reason: fmt.Sprintf("extension %s is not a table", name)}
	}
	return nil, &DataFormatError{Path: path,
		Reason: fmt.Sprintf("no %s extension", name)}
}
