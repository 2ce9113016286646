package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var BatchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "botwatch_batch_runs_total",
	Help: "Bot scoring batch runs by trigger and outcome",
}, []string{"trigger", "outcome"})

var BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "botwatch_batch_duration_seconds",
	Help:    "Wall time of one bot scoring batch",
	Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
})

var AccountsScored = promauto.NewCounter(prometheus.CounterOpts{
	Name: "botwatch_accounts_scored_total",
	Help: "Accounts whose bot score was written",
})

var AccountsFailed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "botwatch_accounts_failed_total",
	Help: "Accounts skipped within a batch after an error",
})

var BotScores = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "botwatch_bot_score",
	Help:    "Distribution of computed bot scores",
	Buckets: prometheus.LinearBuckets(0, 0.1, 11),
})

var Communities = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "botwatch_last_batch_communities",
	Help: "Communities detected in the most recent batch",
})

var StoreRetries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "botwatch_store_retries_total",
	Help: "Retried store operations by operation name",
}, []string{"op"})
