package telegram

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(apiRequestsCounter)
	prometheus.MustRegister(apiRequestDuration)
}

const (
	outcomeApiError       = "api_error"
	outcomeError          = "error"
	outcomeOk             = "ok"
	outcomeParseError     = "parse_error"
	outcomeTransportError = "transport_error"
)

var apiRequestsCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "echobot",
		Subsystem: "telegram",
		Name:      "api_requests_total",
		Help:      "Total number of requests made to the telegram bot api",
	},
	[]string{"method", "outcome"},
)

var apiRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "echobot",
		Subsystem: "telegram",
		Name:      "api_request_duration_seconds",
		Help:      "Duration of requests made to the telegram bot api, long polls included",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
	[]string{"method"},
)

func observeApiRequest(method string, err error, duration time.Duration) {
	apiRequestsCounter.WithLabelValues(method, getOutcome(err)).Inc()
	apiRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func getOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeOk
	case errors.Is(err, ErrorApi):
		return outcomeApiError
	case errors.Is(err, ErrorParse):
		return outcomeParseError
	case errors.Is(err, ErrorTransport):
		return outcomeTransportError
	}
	return outcomeError
}
