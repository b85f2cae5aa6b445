// Package metrics defines the custom Prometheus metrics of the expense API.
// HTTP request metrics come from echoprometheus; this package covers
// authentication and resource operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expense"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register, login and token checks.
// Labels:
//   - action: "register", "login" or "authenticate"
//   - result: "ok" or a short failure reason (e.g. "invalid_credentials", "conflict")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// ResourceOperationsTotal counts category and expense operations.
// Labels:
//   - resource: "category" or "expense"
//   - op: "list", "get", "create", "update", "delete"
//   - result: "ok", "forbidden", "not_found", "invalid" or "error"
var ResourceOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_operations_total",
		Help:      "Total number of category and expense operations, by outcome.",
	},
	[]string{"resource", "op", "result"},
)
