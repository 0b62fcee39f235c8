// Package metrics exposes run statistics as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every collector of this package.
var Registry = prometheus.NewRegistry()

var (
	filesAnalyzed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokensniff_files_total",
			Help: "Files processed, partitioned by outcome i.e. ok, fatal, canceled, cached",
		}, []string{"status"},
	)

	diagnosticsReported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokensniff_diagnostics_total",
			Help: "Visible diagnostics, partitioned by severity",
		}, []string{"severity"},
	)

	diagnosticsSuppressed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tokensniff_diagnostics_suppressed_total",
			Help: "Diagnostics hidden by inline suppression markers",
		},
	)

	ruleFaults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokensniff_rule_faults_total",
			Help: "Rules that failed while processing a file",
		}, []string{"rule"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokensniff_cache_lookups_total",
			Help: "Result cache lookups, partitioned by result i.e. hit, miss",
		}, []string{"result"},
	)

	fileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tokensniff_file_duration_seconds",
			Help:    "Time to tokenize, resolve and check one file",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)

func init() {
	Registry.MustRegister(filesAnalyzed, diagnosticsReported, diagnosticsSuppressed, ruleFaults, cacheLookups, fileDuration)
}

// File records the outcome of one file.
func File(status string, dur time.Duration) {
	filesAnalyzed.WithLabelValues(status).Inc()
	if dur > 0 {
		fileDuration.Observe(dur.Seconds())
	}
}

// Diagnostics records visible and suppressed counts of one file.
func Diagnostics(errors, warnings, suppressed int) {
	diagnosticsReported.WithLabelValues("error").Add(float64(errors))
	diagnosticsReported.WithLabelValues("warning").Add(float64(warnings))
	diagnosticsSuppressed.Add(float64(suppressed))
}

// RuleFault records a failed rule.
func RuleFault(rule string, n int) {
	ruleFaults.WithLabelValues(rule).Add(float64(n))
}

// CacheLookup records a cache hit or miss.
func CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// WriteFile dumps the registry in the text exposition format.
func WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
