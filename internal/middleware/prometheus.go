package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/socialgraph/internal/metrics"
)

// Metrics records HTTP request duration and count per route pattern.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())

		// Route pattern rather than raw path keeps label cardinality bounded
		// when usernames appear in URLs.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
