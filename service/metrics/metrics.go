// Package metrics 提供导入与审核相关的Prometheus指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportsTotal 各类导入次数，按结果区分
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inspection",
			Subsystem: "import",
			Name:      "runs_total",
			Help:      "Total number of imports by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// ImportedRecords 最近一次成功导入的记录数
	ImportedRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "inspection",
			Subsystem: "import",
			Name:      "records",
			Help:      "Number of records written by the last successful import",
		},
		[]string{"kind"},
	)

	// UnmatchedStores 最近一次审核结果导入的未匹配门店数
	UnmatchedStores = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "inspection",
			Subsystem: "import",
			Name:      "unmatched_stores",
			Help:      "Number of unmatched stores in the last review import",
		},
	)

	// ImportDuration 导入耗时
	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "inspection",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Duration of imports in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// ReviewSubmissions 审核提交次数，按结果区分
	ReviewSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inspection",
			Subsystem: "review",
			Name:      "submissions_total",
			Help:      "Total number of review decisions written",
		},
		[]string{"result", "source"},
	)

	// ExportsTotal CSV导出次数
	ExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inspection",
			Subsystem: "export",
			Name:      "runs_total",
			Help:      "Total number of CSV exports",
		},
	)
)
