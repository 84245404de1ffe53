package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
)

// Recovery converts panics into 500 responses with a logged stack reference
// instead of tearing down the connection.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	logger = logger.Named("recovery")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					logging.Any("panic", r),
					logging.String("path", c.Request.URL.Path),
					logging.String("request_id", GetRequestID(c)))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
