// Package sample sequences the end-to-end retrieval of a representative
// slice of a spectroscopic production: the healpix partition with the most
// catalog objects near a query position, plus the cumulative results of the
// tiles which contributed to it.
package sample

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/desihub/desida/catalog"
	"github.com/desihub/desida/fetch"
	"github.com/desihub/desida/release"
	"github.com/desihub/desida/sky"
)

// Tile outcome statuses of a Run.
const (
	TileFetched = "fetched"
	TileNoDates = "no cumulative results"
	TileFailed  = "failed"
)

// Config parameterizes one retrieval run.
type Config struct {
	// Release is the resolved access configuration.
	Release release.Config
	// Center is the query position.
	Center sky.Point
	// Radius is the search radius in degrees.
	Radius float64
	// SkipTiles disables discovery and download of contributing tiles.
	SkipTiles bool
}

// TileResult records the outcome of one contributing tile.
type TileResult struct {
	TileID int32
	Count  int
	Date   string
	Status string
}

// Summary is the outcome of a Run.
type Summary struct {
	// Partition is the selected healpix id.
	Partition int64
	// Matched is the number of catalog records which selected it.
	Matched int
	// Tiles records per-tile outcomes, ranked by descending contribution.
	Tiles []TileResult
	// Partial is set if any non-fatal step failed.
	Partial bool
}

// Sampler runs the retrieval pipeline. All steps are sequential and
// blocking; a run holds at most one request in flight.
type Sampler struct {
	cfg    Config
	client *fetch.Client
}

// New returns a Sampler using |client| for all archive access.
func New(cfg Config, client *fetch.Client) *Sampler {
	return &Sampler{cfg: cfg, client: client}
}

// Run performs the retrieval. Only a failure to obtain and read the catalog
// is fatal: every other failure is logged, recorded in the Summary as
// Partial, and never halts remaining work.
func (s *Sampler) Run(ctx context.Context) (*Summary, error) {
	var cfg = s.cfg.Release
	var summary = new(Summary)

	log.WithFields(log.Fields{
		"specprod": cfg.Specprod,
		"root":     cfg.RootURL,
		"ra":       s.cfg.Center.RA,
		"dec":      s.cfg.Center.Dec,
		"radius":   s.cfg.Radius,
	}).Info("fetching sample data")

	// Production manifests are useful context but nothing depends on them.
	for _, name := range cfg.ManifestFiles() {
		if err := s.client.File(ctx, cfg.RootURL+name, ""); err != nil {
			log.WithFields(log.Fields{"err": err, "file": name}).Warn("failed to fetch manifest")
			summary.Partial = true
		}
	}

	// The catalog drives everything downstream, so its failure is fatal.
	var catalogURL = cfg.RootURL + cfg.CatalogPath
	if err := s.client.File(ctx, catalogURL, ""); err != nil {
		return nil, errors.WithMessage(err, "fetching catalog")
	}
	catalogPath, err := s.client.LocalPath(catalogURL)
	if err != nil {
		return nil, err
	}
	table, err := catalog.Read(catalogPath)
	if err != nil {
		return nil, errors.WithMessage(err, "reading catalog")
	}
	log.WithField("records", len(table.Points)).Info("loaded catalog")

	selection, err := sky.SelectPartition(table.Points, table.Healpix, s.cfg.Center, s.cfg.Radius)
	if err != nil {
		return nil, err
	}
	summary.Partition = selection.Healpix
	summary.Matched = selection.Matched

	log.WithFields(log.Fields{
		"healpix": selection.Healpix,
		"matched": selection.Matched,
	}).Info("selected partition")

	if err = s.client.SyncDir(ctx, cfg.RootURL+cfg.PartitionPath(selection.Healpix)); err != nil {
		log.WithField("err", err).Warn("partition synchronization was incomplete")
		summary.Partial = true
	}

	if s.cfg.SkipTiles {
		return summary, nil
	}
	s.fetchTiles(ctx, selection.Healpix, summary)
	return summary, nil
}

// fetchTiles discovers the tiles contributing to partition |hpix| and
// downloads the latest cumulative results of each. A single tile's failure
// never halts processing of the remaining tiles.
func (s *Sampler) fetchTiles(ctx context.Context, hpix int64, summary *Summary) {
	var cfg = s.cfg.Release

	fitPath, err := s.client.LocalPath(cfg.RootURL + cfg.FitResultFile(hpix))
	if err == nil {
		var ranked []catalog.TileCount
		if ranked, err = catalog.TileContributors(fitPath); err == nil {
			log.WithField("tiles", len(ranked)).Info("ranked contributing tiles")
			for _, tc := range ranked {
				summary.Tiles = append(summary.Tiles, s.fetchTile(ctx, tc, summary))
			}
			return
		}
	}
	// Without the fit-result table no tile list can be derived, but the
	// partition data already fetched stands on its own.
	log.WithField("err", err).Warn("cannot derive contributing tiles")
	summary.Partial = true
}

func (s *Sampler) fetchTile(ctx context.Context, tc catalog.TileCount, summary *Summary) TileResult {
	var cfg = s.cfg.Release
	var result = TileResult{TileID: tc.TileID, Count: tc.Count}

	var date, ok, err = LatestTileDate(ctx, s.client, cfg, tc.TileID)
	if err != nil {
		log.WithFields(log.Fields{"err": err, "tile": tc.TileID}).Warn("failed to resolve tile date")
		result.Status = TileFailed
		summary.Partial = true
		return result
	} else if !ok {
		log.WithField("tile", tc.TileID).Info("tile has no cumulative results")
		result.Status = TileNoDates
		return result
	}
	result.Date = date

	if err = s.client.SyncDir(ctx, cfg.RootURL+cfg.TilePath(tc.TileID, date)); err != nil {
		log.WithFields(log.Fields{"err": err, "tile": tc.TileID}).Warn("tile synchronization was incomplete")
		result.Status = TileFailed
		summary.Partial = true
		return result
	}
	result.Status = TileFetched
	return result
}
