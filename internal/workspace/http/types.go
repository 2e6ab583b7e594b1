package http

import (
	"time"

	"github.com/filmdesk/filmdesk-backend/internal/google"
	"github.com/filmdesk/filmdesk-backend/internal/workspace"
)

type Handler struct {
	ws     *workspace.Workspace
	tokens *google.TokenStore
}

// New builds the workspace handlers. tokens may be nil when Google is not configured.
func New(ws *workspace.Workspace, tokens *google.TokenStore) *Handler {
	return &Handler{ws: ws, tokens: tokens}
}

type folderRequest struct {
	FolderID string `json:"folderId" binding:"required"`
}

type statusResponse struct {
	UserID            string     `json:"userId"`
	Loading           bool       `json:"loading"`
	Connected         bool       `json:"connected"`
	CalendarFetchedAt *time.Time `json:"calendarFetchedAt,omitempty"`
}
