package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/desihub/desida/auth"
	"github.com/desihub/desida/fetch"
	mbp "github.com/desihub/desida/mainboilerplate"
	"github.com/desihub/desida/metrics"
	"github.com/desihub/desida/release"
	"github.com/desihub/desida/sample"
	"github.com/desihub/desida/sky"
)

const iniFilename = "desida.ini"

// Config is the top-level configuration object of desi-sample-data.
var Config = new(struct {
	Sample struct {
		RA       *float64 `long:"ra" env:"RA" description:"Query right ascension in degrees (default: release preset)"`
		Dec      *float64 `long:"dec" env:"DEC" description:"Query declination in degrees (default: release preset)"`
		Radius   float64  `long:"radius" env:"RADIUS" default:"0.1" description:"Search radius in degrees"`
		Release  string   `long:"release" env:"RELEASE" default:"dr1" description:"Data release tag (edr, dr1, dr2)"`
		Specprod string   `long:"specprod" env:"SPECPROD" description:"Override the spectroscopic production name"`
		NoTiles  bool     `long:"no-tiles" description:"Skip download of contributing tile data"`
		Output   string   `long:"output" env:"OUTPUT" default:"./desi-sample-data" description:"Base output directory"`
		Timeout  uint     `long:"timeout" env:"TIMEOUT" default:"300" description:"Timeout of a single HTTP request, in seconds"`
	} `group:"Sample" namespace:"sample" env-namespace:"SAMPLE"`

	Log mbp.LogConfig `group:"Logging" namespace:"log" env-namespace:"LOG"`
})

type fetchSample struct{}

func (fetchSample) Execute(args []string) error {
	mbp.InitLog(Config.Log)
	prometheus.MustRegister(metrics.FetchCollectors()...)

	var rel = release.Resolve(Config.Sample.Release, Config.Sample.Specprod)
	log.WithFields(log.Fields{
		"release":  rel.Release,
		"specprod": rel.Specprod,
		"auth":     rel.NeedsAuth,
	}).Info("resolved data release")

	var center = sky.Point{RA: rel.Preset().RA, Dec: rel.Preset().Dec}
	if Config.Sample.RA != nil {
		center.RA = *Config.Sample.RA
	}
	if Config.Sample.Dec != nil {
		center.Dec = *Config.Sample.Dec
	}

	var client, err = fetch.NewClient(
		new(auth.Store),
		rel.RootURL,
		Config.Sample.Output,
		time.Duration(Config.Sample.Timeout)*time.Second,
	)
	mbp.Must(err, "failed to build archive client")

	var sampler = sample.New(sample.Config{
		Release:   rel,
		Center:    center,
		Radius:    Config.Sample.Radius,
		SkipTiles: Config.Sample.NoTiles,
	}, client)

	summary, err := sampler.Run(context.Background())
	mbp.Must(err, "failed to fetch sample data")

	writeSummary(summary)

	if summary.Partial {
		log.Warn("sample data download completed with failures")
	} else {
		log.Info("sample data download complete")
	}
	return nil
}

func writeSummary(summary *sample.Summary) {
	fmt.Printf("Selected healpix %d (%d matched objects).\n",
		summary.Partition, summary.Matched)

	if len(summary.Tiles) == 0 {
		return
	}
	var table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Tile", "Objects", "Date", "Status"})

	for _, t := range summary.Tiles {
		table.Append([]string{
			fmt.Sprintf("%d", t.TileID),
			fmt.Sprintf("%d", t.Count),
			t.Date,
			t.Status,
		})
	}
	table.Render()
}

func main() {
	var parser = flags.NewParser(Config, flags.Default)

	var _, err = parser.AddCommand("fetch", "Fetch sample data", `
fetch downloads a small, self-contained slice of a DESI data release: the
healpix partition holding the most catalog objects near the query position,
and the latest cumulative results of every tile which contributed to it.

Accessing an embargoed release or a custom production requires collaboration
credentials in a '`+auth.CredentialFileName+`' file under your home directory,
as a single username:password line.
`, &fetchSample{})
	mbp.Must(err, "failed to add command")

	mbp.AddPrintConfigCmd(parser, iniFilename)
	mbp.MustParseConfig(parser, iniFilename)
}
