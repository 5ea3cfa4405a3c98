package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuoteFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "currencybot_quote_fetches_total",
			Help: "Total number of quote service fetches per outcome",
		},
		[]string{"outcome"},
	)

	QuoteFetchDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "currencybot_quote_fetch_duration_seconds",
			Help:    "Quote service fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotTickers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "currencybot_snapshot_tickers",
			Help: "Number of tickers in the current rate snapshot",
		},
	)

	SnapshotLastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "currencybot_snapshot_last_refresh_timestamp",
			Help: "Unix timestamp of the last successful rate refresh",
		},
	)

	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "currencybot_conversions_total",
			Help: "Total number of conversion requests per result kind",
		},
		[]string{"kind"},
	)

	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "currencybot_messages_total",
			Help: "Total number of chat messages handled per transport",
		},
		[]string{"transport"},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveFetch records one quote service fetch.
func ObserveFetch(begin time.Time, err error) {
	QuoteFetchesTotal.WithLabelValues(outcome(err)).Inc()
	QuoteFetchDurationSeconds.Observe(time.Since(begin).Seconds())
}

// UpdateSnapshot records a successfully swapped in snapshot.
func UpdateSnapshot(tickers int, fetchedAt time.Time) {
	SnapshotTickers.Set(float64(tickers))
	SnapshotLastRefresh.Set(float64(fetchedAt.Unix()))
}
