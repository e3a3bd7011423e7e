package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	PaymentsTotal       *prometheus.CounterVec
	DisbursementsTotal  *prometheus.CounterVec
	LoanCloseFailures   prometheus.Counter
	OverdueInstallments prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trackloan_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackloan_payments_total",
				Help: "Total number of payment attempts by outcome.",
			},
			[]string{"status"},
		),
		DisbursementsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackloan_disbursements_total",
				Help: "Total number of loan disbursement attempts by outcome.",
			},
			[]string{"status"},
		),
		LoanCloseFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "trackloan_loan_close_failures_total",
				Help: "Payments that settled a loan but failed to flip its status to CLOSED.",
			},
		),
		OverdueInstallments: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "trackloan_overdue_installments",
				Help: "Number of DUE transactions past their payment date, from the last scan.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordPayment(status string) {
	Business.PaymentsTotal.WithLabelValues(status).Inc()
}

func RecordDisbursement(status string) {
	Business.DisbursementsTotal.WithLabelValues(status).Inc()
}

func RecordLoanCloseFailure() {
	Business.LoanCloseFailures.Inc()
}

func SetOverdueInstallments(n int) {
	Business.OverdueInstallments.Set(float64(n))
}
