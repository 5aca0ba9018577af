package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roamclear_operations_total",
		Help: "Settlement operations by route and HTTP status.",
	}, []string{"route", "status"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roamclear_operation_duration_seconds",
		Help:    "Operation latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

func observeOperation(route string, status int, elapsed time.Duration) {
	operationsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	operationDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
