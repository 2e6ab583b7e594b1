package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmdesk/filmdesk-backend/internal/calendar"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
	"github.com/filmdesk/filmdesk-backend/internal/workspace"
)

var errBadInput = errors.New("invalid input")

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, workspace.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
	case errors.Is(err, workspace.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, workspace.ErrInvalidTransition),
		errors.Is(err, workspace.ErrInvalidOption),
		errors.Is(err, storage.ErrUnknownField),
		errors.Is(err, errBadInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, workspace.ErrNotConnected):
		c.JSON(http.StatusConflict, gin.H{"error": "google account not connected"})
	case errors.Is(err, calendar.ErrThrottled):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "refresh requested too often", "retryable": true})
	default:
		logging.New(c.Request.Context(), "workspace-http").LogError(op, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage unavailable, please retry", "retryable": true})
	}
}

// bindJSON decodes the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return false
	}
	return true
}

// patchBody reads a partial JSON document. The returned apply overlays it onto a
// record, leaving absent keys untouched.
func patchBody[T any](c *gin.Context) (func(*T), bool) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return nil, false
	}
	var check T
	if err := json.Unmarshal(raw, &check); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return nil, false
	}
	return func(rec *T) { _ = json.Unmarshal(raw, rec) }, true
}
