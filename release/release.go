// Package release resolves DESI data release tags and spectroscopic
// production names ("specprods") into concrete archive access configurations.
package release

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	// PublicEndpoint serves released data and requires no authentication.
	PublicEndpoint = "https://data.desi.lbl.gov/public"
	// PrivateEndpoint serves embargoed and in-progress productions, and
	// always requires collaboration credentials.
	PrivateEndpoint = "https://data.desi.lbl.gov/desi"

	// DefaultRelease is used when neither a release nor a specprod is given,
	// or when an unknown release tag is given on its own.
	DefaultRelease = "dr1"
	// EmbargoedRelease is the release currently under collaboration embargo.
	// It is served from the private endpoint regardless of other arguments.
	EmbargoedRelease = "dr2"
)

// specprods maps release tags to their spectroscopic production names.
var specprods = map[string]string{
	"edr": "fuji",
	"dr1": "iron",
	"dr2": "loa",
}

// catalogPaths maps release tags to the redshift catalog file, relative to
// the production's redux root.
var catalogPaths = map[string]string{
	"edr": "zcatalog/zall-pix-fuji.fits",
	"dr1": "zcatalog/v1/zall-pix-iron.fits",
	"dr2": "zcatalog/v1/zall-pix-loa.fits",
}

// surveyPaths maps release tags to the healpix directory of the survey and
// program sampled by this tool. EDR predates the main survey, so its sample
// comes from the SV3 dark program instead.
var surveyPaths = map[string]string{
	"edr": "healpix/sv3/dark",
	"dr1": "healpix/main/dark",
	"dr2": "healpix/main/dark",
}

// Preset is a query coordinate default for a release, chosen to land in a
// well-populated region of that release's footprint.
type Preset struct {
	RA, Dec float64
}

// presets maps release tags to their default query coordinates.
// The EDR preset points into SV3 rosette 15 and selects healpix 17683; the
// main-survey preset points at the Coma field and selects healpix 26965.
var presets = map[string]Preset{
	"edr": {RA: 179.60, Dec: 0.00},
	"dr1": {RA: 194.75, Dec: 27.98},
	"dr2": {RA: 194.75, Dec: 27.98},
}

// Config is the resolved access configuration for one production. It is
// immutable once produced by Resolve.
type Config struct {
	// Release tag, empty if resolution was driven by specprod alone.
	Release string
	// Specprod is the spectroscopic production name.
	Specprod string
	// RootURL is the production's redux root, with a trailing slash.
	RootURL string
	// NeedsAuth is true exactly when RootURL is under the private endpoint.
	NeedsAuth bool
	// CatalogPath locates the redshift catalog, relative to RootURL.
	CatalogPath string
	// SurveyPath locates the sampled healpix tree, relative to RootURL.
	SurveyPath string
}

// Resolve maps a (release tag, specprod) pair to an access Config. Either or
// both arguments may be empty. Resolution is deterministic: the embargoed
// release always requires authentication; a known public (release, specprod)
// pair uses the public endpoint; any custom or unknown specprod is assumed to
// be an unreleased production on the private endpoint.
func Resolve(tag, specprod string) Config {
	switch {
	case tag == EmbargoedRelease:
		if specprod == "" {
			specprod = specprods[tag]
		}
		return newConfig(tag, specprod, true)

	case tag != "" && specprod != "":
		if specprods[tag] == specprod {
			return newConfig(tag, specprod, false)
		}
		// A specprod which doesn't match its release is a custom or private
		// variant, served only from the private endpoint.
		return newConfig(tag, specprod, true)

	case tag != "":
		if sp, ok := specprods[tag]; ok {
			return newConfig(tag, sp, false)
		}
		log.WithFields(log.Fields{"release": tag, "fallback": DefaultRelease}).
			Warn("unknown release; falling back to default")
		return newConfig(DefaultRelease, specprods[DefaultRelease], false)

	case specprod != "":
		for t, sp := range specprods {
			if sp == specprod {
				return newConfig(t, sp, t == EmbargoedRelease)
			}
		}
		// Not a released production: access it verbatim on the private side.
		return newConfig("", specprod, true)

	default:
		return newConfig(DefaultRelease, specprods[DefaultRelease], false)
	}
}

func newConfig(tag, specprod string, private bool) Config {
	var cfg = Config{
		Release:   tag,
		Specprod:  specprod,
		NeedsAuth: private,
	}
	if private {
		cfg.RootURL = fmt.Sprintf("%s/spectro/redux/%s/", PrivateEndpoint, specprod)
	} else {
		cfg.RootURL = fmt.Sprintf("%s/%s/spectro/redux/%s/", PublicEndpoint, tag, specprod)
	}

	// The release's catalog path applies only to its own production; any
	// custom specprod follows the unversioned catalog layout.
	if p, ok := catalogPaths[tag]; ok && specprods[tag] == specprod {
		cfg.CatalogPath = p
	} else {
		cfg.CatalogPath = fmt.Sprintf("zcatalog/zall-pix-%s.fits", specprod)
	}
	if p, ok := surveyPaths[tag]; ok {
		cfg.SurveyPath = p
	} else {
		cfg.SurveyPath = surveyPaths[DefaultRelease]
	}
	return cfg
}

// Preset returns the default query coordinates for the resolved release.
func (c Config) Preset() Preset {
	if p, ok := presets[c.Release]; ok {
		return p
	}
	return presets[DefaultRelease]
}

// ManifestFiles names the top-level production summary files, relative to
// RootURL. Their download is best-effort.
func (c Config) ManifestFiles() []string {
	return []string{
		fmt.Sprintf("tiles-%s.fits", c.Specprod),
		fmt.Sprintf("tiles-%s.csv", c.Specprod),
		fmt.Sprintf("exposures-%s.fits", c.Specprod),
		fmt.Sprintf("exposures-%s.csv", c.Specprod),
	}
}

// PartitionPath is the healpix partition directory for |hpix|, relative to
// RootURL and with a trailing slash. Partitions are grouped into directories
// of one hundred.
func (c Config) PartitionPath(hpix int64) string {
	return fmt.Sprintf("%s/%d/%d/", c.SurveyPath, hpix/100, hpix)
}

// FitResultFile names the redshift fit output of partition |hpix|, relative
// to RootURL.
func (c Config) FitResultFile(hpix int64) string {
	var parts = strings.Split(c.SurveyPath, "/")
	var survey, program = parts[len(parts)-2], parts[len(parts)-1]
	return fmt.Sprintf("%sredrock-%s-%s-%d.fits", c.PartitionPath(hpix), survey, program, hpix)
}

// TileBase is the cumulative-results directory of tile |tileID|, relative to
// RootURL and with a trailing slash. Its children are per-date directories.
func (c Config) TileBase(tileID int32) string {
	return fmt.Sprintf("tiles/cumulative/%d/", tileID)
}

// TilePath is the cumulative-results directory of tile |tileID| processed on
// |date|, relative to RootURL and with a trailing slash.
func (c Config) TilePath(tileID int32, date string) string {
	return c.TileBase(tileID) + date + "/"
}
