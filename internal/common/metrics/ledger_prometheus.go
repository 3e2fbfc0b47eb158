package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type LedgerPrometheusMetrics struct {
	transactionOps  *prometheus.CounterVec
	splitsCleared   prometheus.Counter
	reconcileDrifts prometheus.Counter
	reportRuns      *prometheus.CounterVec
}

func newLedgerPrometheusMetrics(reg prometheus.Registerer) *LedgerPrometheusMetrics {
	mtc := &LedgerPrometheusMetrics{
		transactionOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lmsmono_ledger_transaction_operations_total",
				Help: "Number of ledger transaction writes by operation",
			},
			[]string{"operation"},
		),
		splitsCleared: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lmsmono_reconcile_splits_cleared_total",
				Help: "Number of splits cleared by reconcile finalize",
			},
		),
		reconcileDrifts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lmsmono_reconcile_statement_drifts_total",
				Help: "Number of finalize attempts rejected for statement drift",
			},
		),
		reportRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lmsmono_report_runs_total",
				Help: "Number of report computations by report name",
			},
			[]string{"report"},
		),
	}

	reg.MustRegister(mtc.transactionOps)
	reg.MustRegister(mtc.splitsCleared)
	reg.MustRegister(mtc.reconcileDrifts)
	reg.MustRegister(mtc.reportRuns)

	return mtc
}

func (m *LedgerPrometheusMetrics) RecordTransactionOp(operation string) {
	if m == nil {
		return
	}
	m.transactionOps.WithLabelValues(operation).Inc()
}

func (m *LedgerPrometheusMetrics) RecordSplitsCleared(count int) {
	if m == nil {
		return
	}
	m.splitsCleared.Add(float64(count))
}

func (m *LedgerPrometheusMetrics) RecordStatementDrift() {
	if m == nil {
		return
	}
	m.reconcileDrifts.Inc()
}

func (m *LedgerPrometheusMetrics) RecordReportRun(report string) {
	if m == nil {
		return
	}
	m.reportRuns.WithLabelValues(report).Inc()
}
