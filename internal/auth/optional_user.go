package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OptionalUser trusts X-User-Id and X-User-Email as sent by the client. Callers that
// send neither stay anonymous. Development only; production mounts the Firebase
// middleware instead.
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
			c.Set(CtxUserID, uid)
		}
		if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
			c.Set(CtxUserEmail, email)
		}
		c.Next()
	}
}
