package poller

import "github.com/prometheus/client_golang/prometheus"

func init() {
	prometheus.MustRegister(cyclesCounter)
	prometheus.MustRegister(updatesCounter)
	prometheus.MustRegister(updateFailuresCounter)
	prometheus.MustRegister(offsetGauge)
	prometheus.MustRegister(batchSizeHistogram)
}

var cyclesCounter = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "echobot",
		Subsystem: "poller",
		Name:      "cycles_total",
		Help:      "Total number of completed fetches from the update queue",
	},
)

var updatesCounter = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "echobot",
		Subsystem: "poller",
		Name:      "updates_total",
		Help:      "Total number of updates processed successfully",
	},
)

var updateFailuresCounter = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "echobot",
		Subsystem: "poller",
		Name:      "update_failures_total",
		Help:      "Total number of updates whose handler returned an error",
	},
)

var offsetGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "echobot",
		Subsystem: "poller",
		Name:      "offset",
		Help:      "The current update offset, every update below it has been acknowledged",
	},
)

var batchSizeHistogram = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "echobot",
		Subsystem: "poller",
		Name:      "batch_size",
		Help:      "Number of updates received per fetch",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
	},
)
