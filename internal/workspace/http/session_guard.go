package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmdesk/filmdesk-backend/internal/auth"
)

// sessionGuard rejects callers that authenticated as someone other than the user
// signed in on this device. Anonymous callers pass; the workspace answers them with
// ErrNoSession when nobody is signed in.
func (h *Handler) sessionGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := auth.UserID(c)
		current := h.ws.UserID()
		if caller != "" && current != "" && caller != current {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "signed in on this device as another user"})
			return
		}
		c.Next()
	}
}
