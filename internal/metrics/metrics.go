// Package metrics exposes Prometheus counters for the ledger's core
// operations. Everything is registered on the default registry; the server
// mounts promhttp on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExpensesRecorded counts persisted expense entries.
	ExpensesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hogarledger_expenses_recorded_total",
		Help: "Number of expenses recorded.",
	})

	// SettlementsComputed counts period settlements calculated after the
	// final confirmation. Idempotent re-confirms do not increment it.
	SettlementsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hogarledger_settlements_computed_total",
		Help: "Number of period settlements computed.",
	})

	// PlansCreated counts installment plans created.
	PlansCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hogarledger_plans_created_total",
		Help: "Number of installment plans created.",
	})

	// InstallmentsPaid counts installments moved to the paid state.
	InstallmentsPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hogarledger_installments_paid_total",
		Help: "Number of installments paid.",
	})

	// SummaryCacheHits and SummaryCacheMisses track the monthly summary
	// memoization.
	SummaryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hogarledger_summary_cache_hits_total",
		Help: "Monthly summary cache hits.",
	})
	SummaryCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hogarledger_summary_cache_misses_total",
		Help: "Monthly summary cache misses.",
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
