package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "talentlink"

// tickResults label values for ticksTotal.
const (
	resultPublished    = "published"
	resultNoIdentity   = "skipped_no_identity"
	resultStationary   = "skipped_stationary"
	resultSampleError  = "sample_error"
	resultPublishError = "publish_error"
)

// ticksTotal counts every sampling tick by outcome.
// Labels:
//   - result: published, skipped_no_identity, skipped_stationary,
//     sample_error, publish_error
var ticksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "ticks_total",
		Help:      "Total number of location sampling ticks, by outcome.",
	},
	[]string{"result"},
)

// reporterRunning is 1 while the reporter loop is active.
var reporterRunning = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "running",
		Help:      "Whether the background location reporter is running (0/1).",
	},
)

// publishDuration measures a single feed publish end-to-end.
var publishDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "publish_duration_seconds",
		Help:      "Duration of one location feed publish.",
		Buckets:   prometheus.DefBuckets,
	},
)
