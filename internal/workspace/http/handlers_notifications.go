package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

type markReadRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

type optionRequest struct {
	Value string `json:"value" binding:"required"`
	Label string `json:"label"`
}

func (h *Handler) listNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.ws.Notifications(), "unread": h.ws.UnreadNotifications()})
}

// markNotificationsRead marks the listed ids, or every current notification with "all".
func (h *Handler) markNotificationsRead(c *gin.Context) {
	var req markReadRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.All {
		n, err := h.ws.MarkAllNotificationsRead(c.Request.Context())
		if err != nil {
			writeError(c, "mark_all_read", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"marked": n})
		return
	}
	if err := h.ws.MarkNotificationsRead(c.Request.Context(), req.IDs...); err != nil {
		writeError(c, "mark_read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": len(req.IDs)})
}

func (h *Handler) completeNotificationTask(c *gin.Context) {
	task, err := h.ws.CompleteTaskFromNotification(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "complete_task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *Handler) sendTaskReminder(c *gin.Context) {
	sent, err := h.ws.SendTaskReminder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "task_reminder", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

func (h *Handler) listOptions(c *gin.Context) {
	labels, err := h.ws.OptionLabels(domain.OptionKind(c.Param("kind")))
	if err != nil {
		writeError(c, "list_options", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": labels})
}

func (h *Handler) setOption(c *gin.Context) {
	var req optionRequest
	if !bindJSON(c, &req) {
		return
	}
	labels, err := h.ws.SetOption(c.Request.Context(), domain.OptionKind(c.Param("kind")), req.Value, req.Label)
	if err != nil {
		writeError(c, "set_option", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": labels})
}

func (h *Handler) removeOption(c *gin.Context) {
	labels, err := h.ws.RemoveOption(c.Request.Context(), domain.OptionKind(c.Param("kind")), c.Param("value"))
	if err != nil {
		writeError(c, "remove_option", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": labels})
}
