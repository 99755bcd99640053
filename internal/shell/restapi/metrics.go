package restapi

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsOnce     sync.Once
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xcalota",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Restaurant API requests by operation and outcome",
		}, []string{"op", "outcome"})

		requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "xcalota",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of restaurant API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"})
	})
}

// observe records one finished request.
func observe(op string, start time.Time, err error) {
	requestsTotal.WithLabelValues(op, outcome(err)).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// outcome classifies a request error for the requests_total label.
func outcome(err error) string {
	var apiErr *Error
	switch {
	case err == nil:
		return "ok"
	case !errors.As(err, &apiErr) || apiErr.StatusCode == 0:
		return "transport_error"
	case apiErr.StatusCode >= 300:
		return "http_error"
	case apiErr.Message == msgReadResponse:
		return "read_error"
	default:
		return "decode_error"
	}
}

