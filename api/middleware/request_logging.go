package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"typograph/logger"
)

const headerRequestID = "X-Request-Id"

// RequestLogging logs every inbound request with its id, status and
// duration. A request id is generated when the client supplies none.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.Request.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set(headerRequestID, requestID)

		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		durationMillis := time.Since(start).Milliseconds()

		logger.Log.Infof(
			"api_request request_id=%s method=%s path=%s status=%d duration_ms=%d",
			requestID,
			method,
			path,
			status,
			durationMillis,
		)
	}
}
