package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID    = "firebase_uid"
	CtxUserEmail = "email"
	CtxUserName  = "name"
)

// UserID is the authenticated caller, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserEmail))
}

// UserName is the display name carried by the ID token, if any.
func UserName(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserName))
}
