package release

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveIsDeterministic(t *testing.T) {
	for _, tc := range [][2]string{
		{"", ""},
		{"edr", ""},
		{"dr1", "iron"},
		{"dr2", "guadalupe"},
		{"", "daily"},
	} {
		require.Equal(t, Resolve(tc[0], tc[1]), Resolve(tc[0], tc[1]))
	}
}

func TestResolveEmbargoedRelease(t *testing.T) {
	var cfg = Resolve("dr2", "")
	require.True(t, cfg.NeedsAuth)
	require.Equal(t, "loa", cfg.Specprod)
	require.True(t, strings.HasPrefix(cfg.RootURL, PrivateEndpoint))

	// Embargo holds regardless of any production override.
	cfg = Resolve("dr2", "loa")
	require.True(t, cfg.NeedsAuth)
	cfg = Resolve("dr2", "guadalupe")
	require.True(t, cfg.NeedsAuth)
	require.Equal(t, "guadalupe", cfg.Specprod)
}

func TestResolveMatchedPublicPair(t *testing.T) {
	var cfg = Resolve("edr", "fuji")
	require.False(t, cfg.NeedsAuth)
	require.Equal(t, PublicEndpoint+"/edr/spectro/redux/fuji/", cfg.RootURL)
	require.Equal(t, "zcatalog/zall-pix-fuji.fits", cfg.CatalogPath)
	require.Equal(t, "healpix/sv3/dark", cfg.SurveyPath)
}

func TestResolveMismatchedPairIsPrivate(t *testing.T) {
	var cfg = Resolve("dr1", "fuji")
	require.True(t, cfg.NeedsAuth)
	require.Equal(t, "fuji", cfg.Specprod)
	require.True(t, strings.HasPrefix(cfg.RootURL, PrivateEndpoint))
	// The catalog is the override's, not the release's.
	require.Equal(t, "zcatalog/zall-pix-fuji.fits", cfg.CatalogPath)
}

func TestResolveReleaseAlone(t *testing.T) {
	var cfg = Resolve("dr1", "")
	require.False(t, cfg.NeedsAuth)
	require.Equal(t, "iron", cfg.Specprod)
	require.Equal(t, "zcatalog/v1/zall-pix-iron.fits", cfg.CatalogPath)

	// An unknown release falls back to the default public pair.
	cfg = Resolve("dr99", "")
	require.False(t, cfg.NeedsAuth)
	require.Equal(t, DefaultRelease, cfg.Release)
	require.Equal(t, "iron", cfg.Specprod)
}

func TestResolveSpecprodAlone(t *testing.T) {
	var cfg = Resolve("", "iron")
	require.False(t, cfg.NeedsAuth)
	require.Equal(t, "dr1", cfg.Release)

	// The embargoed release's production requires auth.
	cfg = Resolve("", "loa")
	require.True(t, cfg.NeedsAuth)
	require.Equal(t, "dr2", cfg.Release)

	// A production of no known release is accessed verbatim, with auth.
	cfg = Resolve("", "daily")
	require.True(t, cfg.NeedsAuth)
	require.Equal(t, "daily", cfg.Specprod)
	require.Equal(t, PrivateEndpoint+"/spectro/redux/daily/", cfg.RootURL)
	require.Equal(t, "zcatalog/zall-pix-daily.fits", cfg.CatalogPath)
}

func TestResolveNeitherGiven(t *testing.T) {
	var cfg = Resolve("", "")
	require.Equal(t, DefaultRelease, cfg.Release)
	require.Equal(t, "iron", cfg.Specprod)
	require.False(t, cfg.NeedsAuth)
}

func TestAuthMatchesEndpointInvariant(t *testing.T) {
	for _, tc := range [][2]string{
		{"", ""}, {"edr", ""}, {"dr1", ""}, {"dr2", ""}, {"dr99", ""},
		{"edr", "fuji"}, {"dr1", "fuji"}, {"dr2", "daily"},
		{"", "fuji"}, {"", "iron"}, {"", "loa"}, {"", "daily"},
	} {
		var cfg = Resolve(tc[0], tc[1])
		require.Equal(t, cfg.NeedsAuth, strings.HasPrefix(cfg.RootURL, PrivateEndpoint),
			"release %q specprod %q", tc[0], tc[1])
	}
}

func TestConfigPaths(t *testing.T) {
	var cfg = Resolve("dr1", "")
	require.Equal(t, "healpix/main/dark/269/26965/", cfg.PartitionPath(26965))
	require.Equal(t, "healpix/main/dark/269/26965/redrock-main-dark-26965.fits",
		cfg.FitResultFile(26965))
	require.Equal(t, "tiles/cumulative/1234/", cfg.TileBase(1234))
	require.Equal(t, "tiles/cumulative/1234/20240315/", cfg.TilePath(1234, "20240315"))
	require.Equal(t, []string{
		"tiles-iron.fits", "tiles-iron.csv",
		"exposures-iron.fits", "exposures-iron.csv",
	}, cfg.ManifestFiles())
}

func TestPresets(t *testing.T) {
	require.Equal(t, Preset{RA: 179.60, Dec: 0.00}, Resolve("edr", "").Preset())
	require.Equal(t, Preset{RA: 194.75, Dec: 27.98}, Resolve("dr1", "").Preset())
	// Custom productions use the main-survey preset.
	require.Equal(t, Preset{RA: 194.75, Dec: 27.98}, Resolve("", "daily").Preset())
}
