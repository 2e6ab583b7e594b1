package http

import "github.com/filmdesk/filmdesk-backend/internal/auth/service"

type Handler struct {
	sessions *service.SessionService
}

func New(sessions *service.SessionService) *Handler {
	return &Handler{sessions: sessions}
}

type sessionRequest struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}
