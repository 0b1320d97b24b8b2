package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/unitrack/portal/internal/apiclient"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing the caller's when given.
// The id is echoed back, logged by GinLogger and forwarded on upstream calls.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(apiclient.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
