package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dream_analyzer"

// 结果标签取值
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid_input"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

var (
	// Analyses 解析请求数，按流派与结果划分
	Analyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Dream analysis requests by resolved school and outcome.",
		},
		[]string{"school", "outcome"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Latency of the external analysis call.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s to 64s
		},
	)

	SymbolsMatched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "symbols_matched",
			Help:      "Number of lexicon symbols matched per narrative.",
			Buckets:   prometheus.LinearBuckets(0, 1, 6),
		},
	)

	Reports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "PDF report generations by outcome.",
		},
		[]string{"outcome"},
	)

	ReportBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_size_bytes",
			Help:      "Size of generated PDF reports.",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 10), // 1KB to 512KB
		},
	)
)
