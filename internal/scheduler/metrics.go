package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
	outcomeExpired = "expired"
)

var passCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recurring_passes_total",
		Help: "How many scheduler passes ran, partitioned by trigger and result.",
	},
	[]string{"trigger", "result"},
)

var templateCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recurring_templates_total",
		Help: "How many due recurring transactions were processed, partitioned by outcome.",
	},
	[]string{"outcome"},
)

var passDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name: "recurring_pass_duration_seconds",
		Help: "The duration of scheduler passes in seconds.",
	},
)

// Collectors returns the Prometheus metrics of the scheduler.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{passCount, templateCount, passDuration}
}

func observePass(pass *Pass, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}

	passCount.WithLabelValues(pass.Trigger, result).Inc()
	passDuration.Observe(pass.Result.Finished.Sub(pass.Result.Started).Seconds())
}

func observeTemplate(outcome string) {
	templateCount.WithLabelValues(outcome).Inc()
}
