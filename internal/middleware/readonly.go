package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/pkg/response"
)

// ReadOnly refuses mutating requests while the viewer is a guest. Services
// check the gate themselves; this stops the request before any body is read.
func ReadOnly(g *gate.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if g.IsReadOnly() {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Response{
				Code:    http.StatusForbidden,
				Message: "Guest mode is read-only.",
			})
			return
		}
		c.Next()
	}
}
