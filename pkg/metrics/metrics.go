// Package metrics provides the centralized Prometheus metrics registry for
// the Help Scout client. All metrics are defined in their respective packages
// (auth, client, pagination, ratelimit) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - helpscout_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - helpscout_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - helpscout_errors_total{kind} (Counter): API errors by kind (validation, unauthorized, ...)
//
// Auth Metrics (pkg/auth, pkg/client):
//   - helpscout_auth_retries_total (Counter): Requests retried after a refresh on 401
//   - helpscout_token_acquisitions_total{result} (Counter): Token grants by result (success, failure)
//   - helpscout_token_refreshes_total (Counter): Forced token refreshes
//
// Pagination Metrics (pkg/pagination):
//   - helpscout_pages_fetched_total{endpoint} (Counter): Pages fetched during collection
//   - helpscout_collected_items_total{endpoint} (Counter): Items accumulated across pages
//
// Rate Limit Metrics (pkg/ratelimit):
//   - helpscout_rate_limited_total (Counter): 429 responses observed
//   - helpscout_retry_after_seconds (Gauge): Most recently observed Retry-After window
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(helpscout_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(helpscout_request_duration_seconds_bucket[5m]))
//
//   # Rate Limit Pressure
//   rate(helpscout_rate_limited_total[5m])
//
//   # Auth Retry Rate
//   rate(helpscout_auth_retries_total[5m]) / rate(helpscout_requests_total[5m])
