// Package metrics provides Prometheus metrics for the Trellis service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DuplicateScansTotal tracks completed duplicate analysis runs
	DuplicateScansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "dedupe",
			Name:      "scans_total",
			Help:      "Total number of duplicate analysis runs",
		},
	)

	// DuplicateScanDuration tracks duplicate analysis duration in seconds
	DuplicateScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trellis",
			Subsystem: "dedupe",
			Name:      "scan_duration_seconds",
			Help:      "Duration of duplicate analysis runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// DuplicateScanCompanies tracks how many companies each run scanned
	DuplicateScanCompanies = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trellis",
			Subsystem: "dedupe",
			Name:      "scan_companies",
			Help:      "Number of companies scanned per analysis run",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	// DuplicateGroupsFound tracks duplicate groups found per run
	DuplicateGroupsFound = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trellis",
			Subsystem: "dedupe",
			Name:      "groups_found",
			Help:      "Number of duplicate groups found per analysis run",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// MergesTotal tracks merge attempts by outcome
	MergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "merge",
			Name:      "merges_total",
			Help:      "Total number of merge attempts by outcome",
		},
		[]string{"outcome"},
	)

	// LeaderboardCacheTotal tracks leaderboard cache lookups by result
	LeaderboardCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "leaderboard",
			Name:      "cache_total",
			Help:      "Total number of leaderboard cache lookups by result",
		},
		[]string{"result"},
	)
)

// ObserveDuplicateScan records the metrics for one completed analysis run
func ObserveDuplicateScan(duration time.Duration, scanned, groups int) {
	DuplicateScansTotal.Inc()
	DuplicateScanDuration.Observe(duration.Seconds())
	DuplicateScanCompanies.Observe(float64(scanned))
	DuplicateGroupsFound.Observe(float64(groups))
}

// RecordMerge records one merge attempt by outcome
func RecordMerge(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	MergesTotal.WithLabelValues(outcome).Inc()
}

// RecordLeaderboardCache records one cache lookup result ("hit" or "miss")
func RecordLeaderboardCache(result string) {
	LeaderboardCacheTotal.WithLabelValues(result).Inc()
}
