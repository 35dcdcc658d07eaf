package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Keys for desida metrics.
const (
	Fail = "fail"
	Ok   = "ok"
)

// Collectors for fetch.Client metrics.
var (
	FetchBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "desida_fetch_bytes_total",
		Help: "Cumulative number of bytes downloaded from the archive.",
	})
	FetchFilesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "desida_fetch_files_total",
		Help: "Cumulative number of file downloads, by status.",
	}, []string{"status"})
	FetchSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "desida_fetch_skipped_total",
		Help: "Cumulative number of downloads skipped because the destination already exists.",
	})
	FetchRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "desida_fetch_requests_total",
		Help: "Cumulative number of HTTP requests issued against the archive.",
	})
)

// FetchCollectors lists collectors used by the sample-data fetch pipeline.
func FetchCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		FetchBytesTotal,
		FetchFilesTotal,
		FetchSkippedTotal,
		FetchRequestsTotal,
	}
}
