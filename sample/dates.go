package sample

import (
	"context"
	"path"
	"strings"

	"github.com/desihub/desida/fetch"
	"github.com/desihub/desida/release"
)

// LatestTileDate resolves the most recent cumulative processing date of
// |tileID| by listing its cumulative-results directory. Date directories are
// named YYYYMMDD, so the lexicographic maximum is the chronological latest.
// ok is false if the tile has no date directories at all, which is distinct
// from the listing having failed.
func LatestTileDate(ctx context.Context, c *fetch.Client, cfg release.Config, tileID int32) (date string, ok bool, err error) {
	var entries, lerr = c.List(ctx, cfg.RootURL+cfg.TileBase(tileID))
	if lerr != nil {
		return "", false, lerr
	}

	for _, entry := range entries {
		if !strings.HasSuffix(entry, "/") {
			continue
		}
		var name = path.Base(strings.TrimSuffix(entry, "/"))
		if !isDate(name) {
			continue
		}
		if name > date {
			date = name
		}
	}
	return date, date != "", nil
}

// isDate reports whether |name| is exactly eight numeric characters.
func isDate(name string) bool {
	if len(name) != 8 {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
