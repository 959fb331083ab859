package middleware

import "github.com/gin-gonic/gin"

// ContextKeyClientIP is the gin context key the rate limiter and request
// logs read the caller address from.
const ContextKeyClientIP = "client_ip"

// IPMiddleware resolves the client address once per request and stores it
// in the context. Gin's ClientIP already honors X-Forwarded-For and the
// trusted proxy settings.
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyClientIP, c.ClientIP())
		c.Next()
	}
}
