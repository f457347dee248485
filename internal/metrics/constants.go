package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameStockDeductions         = "stock_deductions_total"
	MetricNameStockDeductionsRejected = "stock_deductions_rejected_total"
	MetricNameOrdersExported          = "orders_exported_total"
	MetricNameOrderExportFailures     = "order_export_failures_total"
	MetricNameLowStockIngredients     = "low_stock_ingredients"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextStockDeductions         = "Total number of successful stock deductions"
	HelpTextStockDeductionsRejected = "Total number of deductions rejected for insufficient stock"
	HelpTextOrdersExported          = "Total number of orders exported to the ingredient ledger"
	HelpTextOrderExportFailures     = "Total number of order exports with at least one failed line"
	HelpTextLowStockIngredients     = "Number of active ingredients at or below their threshold"
)

// Metric label names
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelIngredient = "ingredient"
	LabelMode       = "mode"
)

// HTTPLatencyBuckets are the histogram buckets for request duration.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
