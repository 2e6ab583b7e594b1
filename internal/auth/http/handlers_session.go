package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmdesk/filmdesk-backend/internal/auth"
	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
)

// Login signs the verified caller in on this device.
func (h *Handler) Login(c *gin.Context) {
	h.signIn(c, h.sessions.Login)
}

// RegisterUser signs in a brand-new account after wiping any device data under its id.
func (h *Handler) RegisterUser(c *gin.Context) {
	h.signIn(c, h.sessions.Register)
}

func (h *Handler) signIn(c *gin.Context, fn func(context.Context, domain.User) (*domain.User, error)) {
	uid := auth.UserID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var body sessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
			return
		}
	}
	email := auth.UserEmail(c)
	if email == "" {
		email = body.Email
	}

	name := body.Name
	if name == "" {
		name = auth.UserName(c)
	}

	user, err := fn(c.Request.Context(), domain.User{ID: uid, Email: email, Name: name})
	if err != nil {
		logging.New(c.Request.Context(), "session").LogError("sign_in", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to start session", "retryable": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "signed out, but provider tokens could not be cleared"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	u := h.sessions.Current()
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
