package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"orion/app"
)

// corsMiddleware allows the SPA origin to talk to the API
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-User")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// actor extracts who is calling: the X-User header and the client IP,
// honoring X-Forwarded-For when a proxy sits in front.
func actor(c *gin.Context) app.Actor {
	user := c.GetHeader("X-User")
	if user == "" {
		user = "anonymous"
	}
	return app.Actor{User: user, IPAddress: clientIP(c)}
}

func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		// First hop is the original client.
		if idx := strings.Index(fwd, ","); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	return c.ClientIP()
}
