package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	postPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "social_service",
		Subsystem: "posts",
		Name:      "last_post_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent post batch committed to the document store.",
	})
	feedChunkCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "social_service",
		Subsystem: "feed",
		Name:      "fanout_chunks_total",
		Help:      "Number of per-chunk post queries issued by the feed aggregator.",
	})
	feedFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "social_service",
		Subsystem: "feed",
		Name:      "fanout_failures_total",
		Help:      "Number of feed aggregations aborted by a chunk failure.",
	})
	feedDurationHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "social_service",
		Subsystem: "feed",
		Name:      "fanout_duration_seconds",
		Help:      "Wall time of complete feed aggregations.",
		Buckets:   prometheus.DefBuckets,
	})
	eventPublishFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "social_service",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Number of domain events that could not be published.",
	})
)

func init() {
	prometheus.MustRegister(
		postPersistGauge,
		feedChunkCounter,
		feedFailureCounter,
		feedDurationHistogram,
		eventPublishFailureCounter,
	)
}

// RecordPostPersisted updates the post persistence watermark gauge.
func RecordPostPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	postPersistGauge.Set(float64(ts.Unix()))
}

// ObserveFeedFanout records a completed feed aggregation.
func ObserveFeedFanout(chunks int, elapsed time.Duration) {
	feedChunkCounter.Add(float64(chunks))
	feedDurationHistogram.Observe(elapsed.Seconds())
}

// RecordFeedFailure counts an aborted feed aggregation.
func RecordFeedFailure() {
	feedFailureCounter.Inc()
}

// RecordEventPublishFailure counts a dropped domain event.
func RecordEventPublishFailure() {
	eventPublishFailureCounter.Inc()
}
