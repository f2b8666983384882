// Package metrics holds the prometheus collectors of the settlement pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CommissionRowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tierpay_commission_rows_written_total",
			Help: "Commission rows created or updated, by commission type",
		},
		[]string{"commission_type"},
	)
	CommissionCleanups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tierpay_commission_cleanups_total",
		Help: "Compensating cleanups after a partial commission write",
	})
	PaymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tierpay_payments_confirmed_total",
		Help: "Agency payments transitioned to paid",
	})
	PaymentAmountConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tierpay_payment_amount_confirmed_total",
		Help: "Sum of confirmed payment amounts in currency units",
	})
	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tierpay_payment_record_failures_total",
		Help: "Payment records that could not be written after a confirmation",
	})
	ExportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tierpay_exports_generated_total",
			Help: "Generated payment export files, by format",
		},
		[]string{"format"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
