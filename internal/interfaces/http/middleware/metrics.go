package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/infrastructure/telemetry"
)

// Metrics records request count, latency and in-flight requests. The route
// label is the matched route pattern so IDs do not blow up cardinality.
func Metrics(m *telemetry.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		done := m.Begin()
		start := time.Now()

		c.Next()

		done()
		m.Observe(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
