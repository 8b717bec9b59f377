package middleware

import (
	"strconv"
	"time"

	"reviewhub/internal/metrics"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics records a counter and a latency histogram per route pattern.
func HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, status).Inc()
		metrics.RequestLatency.WithLabelValues(c.Request.Method, route, status).
			Observe(time.Since(start).Seconds())
	}
}
