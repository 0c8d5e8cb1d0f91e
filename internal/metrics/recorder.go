package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/mdlinkcheck/internal/checker"
)

// Recorder exposes scan metrics for watch mode, where the process lives long
// enough to be scraped.
type Recorder struct {
	registry     *prom.Registry
	scans        prom.Counter
	scanDuration prom.Histogram
	filesScanned prom.Counter
	brokenTotal  prom.Counter
	lastBroken   prom.Gauge
}

// NewRecorder constructs and registers the scan metrics on a fresh registry.
func NewRecorder() *Recorder {
	reg := prom.NewRegistry()

	r := &Recorder{
		registry: reg,
		scans: prom.NewCounter(prom.CounterOpts{
			Namespace: "mdlinkcheck",
			Name:      "scans_total",
			Help:      "Completed scans",
		}),
		scanDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mdlinkcheck",
			Name:      "scan_duration_seconds",
			Help:      "Duration of full scans",
			Buckets:   prom.DefBuckets,
		}),
		filesScanned: prom.NewCounter(prom.CounterOpts{
			Namespace: "mdlinkcheck",
			Name:      "files_scanned_total",
			Help:      "Markdown files scanned across all scans",
		}),
		brokenTotal: prom.NewCounter(prom.CounterOpts{
			Namespace: "mdlinkcheck",
			Name:      "broken_links_total",
			Help:      "Broken links found across all scans",
		}),
		lastBroken: prom.NewGauge(prom.GaugeOpts{
			Namespace: "mdlinkcheck",
			Name:      "last_scan_broken_links",
			Help:      "Broken links in the most recent scan",
		}),
	}

	reg.MustRegister(r.scans, r.scanDuration, r.filesScanned, r.brokenTotal, r.lastBroken)
	return r
}

// RecordScan updates all metrics from one completed scan.
func (r *Recorder) RecordScan(rep *checker.Report, elapsed time.Duration) {
	r.scans.Inc()
	r.scanDuration.Observe(elapsed.Seconds())
	r.filesScanned.Add(float64(rep.FilesScanned))
	broken := rep.BrokenCount()
	r.brokenTotal.Add(float64(broken))
	r.lastBroken.Set(float64(broken))
}

// Handler returns an http.Handler serving the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
