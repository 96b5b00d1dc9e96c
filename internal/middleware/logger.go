package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"tourbook/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request, records server-side failures and recovers
// from panics with a JSON response.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.ErrorLogger.Errorf(
					"panic method=%s path=%s client_ip=%s user_id=%d err=%v stack=%s",
					c.Request.Method, c.Request.URL.Path, c.ClientIP(),
					c.GetInt64("user_id"), recovered, debug.Stack(),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Internal Server Error",
					},
				})
				return
			}

			status := c.Writer.Status()
			line := fmt.Sprintf(
				"method=%s path=%s status=%d client_ip=%s user_id=%d latency=%s",
				c.Request.Method, c.Request.URL.Path, status, c.ClientIP(),
				c.GetInt64("user_id"), time.Since(start),
			)
			if status >= http.StatusInternalServerError {
				logger.ErrorLogger.Error(line)
			} else {
				logger.InfoLogger.Info(line)
			}
		}()

		c.Next()
	}
}
