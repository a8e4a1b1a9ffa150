package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"example.com/procurement/internal/metrics"
)

// Metrics returns a gin middleware that records per-route request timing and
// error counts into the in-process collector.
func Metrics(collector *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		collector.RecordTimer("http "+c.Request.Method+" "+route, time.Since(start))
		collector.IncrementCounter("http_requests_total")
		if c.Writer.Status() >= 500 {
			collector.IncrementCounter("http_requests_failed")
		}
	}
}
