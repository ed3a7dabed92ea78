// Package metrics exposes prometheus counters for the billing scheduler
// and report engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "habita_"

var (
	registerOnce sync.Once

	schedulerRuns        *prometheus.CounterVec
	definitionsProcessed *prometheus.CounterVec
	invoicesGenerated    *prometheus.CounterVec
	reportRequests       *prometheus.CounterVec
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		schedulerRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "scheduler_runs_total",
				Help: "Total scheduler cycles by result",
			},
			[]string{"result"},
		)
		definitionsProcessed = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "billing_definitions_processed_total",
				Help: "Total due definitions processed by outcome",
			},
			[]string{"outcome"},
		)
		invoicesGenerated = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoices_generated_total",
				Help: "Total auto-generated invoices by subject kind",
			},
			[]string{"subject_kind"},
		)
		reportRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ledger_reports_total",
				Help: "Total ledger statement requests by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			schedulerRuns,
			definitionsProcessed,
			invoicesGenerated,
			reportRequests,
		)
	})
}

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func SchedulerRun(result string) {
	if schedulerRuns != nil {
		schedulerRuns.WithLabelValues(result).Inc()
	}
}

func DefinitionProcessed(outcome string) {
	if definitionsProcessed != nil {
		definitionsProcessed.WithLabelValues(outcome).Inc()
	}
}

func InvoiceGenerated(subjectKind string) {
	if invoicesGenerated != nil {
		invoicesGenerated.WithLabelValues(subjectKind).Inc()
	}
}

func ReportRequest(result string) {
	if reportRequests != nil {
		reportRequests.WithLabelValues(result).Inc()
	}
}
