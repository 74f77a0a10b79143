package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"opsflow/pkg/metrics"
)

// MetricsMiddleware records request counts and latency per route. The
// route template is used instead of the raw path so /requests/:id does
// not explode the label space.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
