package common

import "github.com/prometheus/client_golang/prometheus"

func init() {
	prometheus.MustRegister(httpRequestsCounter)
	prometheus.MustRegister(httpRequestsInFlight)
}

var httpRequestsCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "echobot",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of requests served by the monitoring server",
	},
	[]string{"method", "path", "status"},
)

var httpRequestsInFlight = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "echobot",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of requests currently being served by the monitoring server",
	},
	[]string{"method", "path"},
)
