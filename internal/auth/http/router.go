package http

import "github.com/gin-gonic/gin"

// Register mounts the session routes; authed must resolve the caller's user id.
func (h *Handler) Register(rg *gin.RouterGroup, authed gin.HandlerFunc) {
	rg.POST("/login", authed, h.Login)
	rg.POST("/register", authed, h.RegisterUser)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", h.Me)
}
