// Package metrics provides Prometheus metrics for the bot and its health server.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DialogEventsTotal counts handled events by the state they arrived in and their outcome.
	DialogEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_events_total",
			Help: "Total number of handled dialog events",
		},
		[]string{"state", "outcome"},
	)

	// DialogEventDuration includes session load and save.
	DialogEventDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dialog_event_duration_seconds",
			Help:    "Dialog event handling duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
	)

	// CalculationsTotal counts finalized pack calculations.
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculations_total",
			Help: "Total number of pack calculations",
		},
		[]string{"product", "kind"},
	)

	ZeroAreaAbortsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zero_area_aborts_total",
			Help: "Calculations aborted because openings covered the whole area",
		},
	)

	// QuotesTotal counts completed price quotes by mode (single, all).
	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotes_total",
			Help: "Total number of price quotes",
		},
		[]string{"mode"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
)

// RecordEvent records one dialog event.
func RecordEvent(state, outcome string, duration time.Duration) {
	DialogEventDuration.Observe(duration.Seconds())
	DialogEventsTotal.WithLabelValues(state, outcome).Inc()
}

func RecordCalculation(product, kind string) {
	CalculationsTotal.WithLabelValues(product, kind).Inc()
}

func RecordZeroAreaAbort() {
	ZeroAreaAbortsTotal.Inc()
}

func RecordQuote(mode string) {
	QuotesTotal.WithLabelValues(mode).Inc()
}

// PrometheusMiddleware returns a Gin middleware that counts HTTP requests.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		HTTPRequestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
