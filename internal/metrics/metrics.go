package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	StockDeductions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStockDeductions,
			Help: HelpTextStockDeductions,
		},
		[]string{LabelIngredient},
	)

	StockDeductionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStockDeductionsRejected,
			Help: HelpTextStockDeductionsRejected,
		},
		[]string{LabelIngredient},
	)

	OrdersExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOrdersExported,
			Help: HelpTextOrdersExported,
		},
		[]string{LabelMode},
	)

	OrderExportFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOrderExportFailures,
			Help: HelpTextOrderExportFailures,
		},
		[]string{LabelMode},
	)

	LowStockIngredients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameLowStockIngredients,
			Help: HelpTextLowStockIngredients,
		},
	)
)
