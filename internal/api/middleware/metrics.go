package middleware

import (
	"strconv"
	"time"

	"github.com/RuchiketJadhav/sammati-approval/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录每个请求的计数和处理时长
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// 用路由模板做标签，避免 :id 导致基数爆炸
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.APIRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.APIRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
