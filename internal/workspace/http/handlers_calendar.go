package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/workspace"
)

const dayLayout = "2006-01-02"

func (h *Handler) listFestivals(c *gin.Context) {
	if y := c.Query("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			writeError(c, "list_festivals", fmt.Errorf("year %q: %w", y, errBadInput))
			return
		}
		c.JSON(http.StatusOK, gin.H{"festivals": h.ws.FestivalsByYear(year)})
		return
	}
	if r := c.Query("region"); r != "" {
		c.JSON(http.StatusOK, gin.H{"festivals": h.ws.FestivalsByRegion(domain.Region(r))})
		return
	}
	c.JSON(http.StatusOK, gin.H{"festivals": h.ws.Festivals()})
}

func (h *Handler) addFestival(c *gin.Context) {
	var f domain.Festival
	if !bindJSON(c, &f) {
		return
	}
	created, err := h.ws.AddFestival(c.Request.Context(), f)
	if err != nil {
		writeError(c, "add_festival", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"festival": created})
}

func (h *Handler) updateFestival(c *gin.Context) {
	apply, ok := patchBody[domain.Festival](c)
	if !ok {
		return
	}
	updated, err := h.ws.UpdateFestival(c.Request.Context(), c.Param("id"), apply)
	if err != nil {
		writeError(c, "update_festival", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"festival": updated})
}

func (h *Handler) removeFestival(c *gin.Context) {
	if err := h.ws.RemoveFestival(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "remove_festival", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) rolloverFestivals(c *gin.Context) {
	plan, err := h.ws.RolloverFestivals(c.Request.Context())
	if err != nil {
		writeError(c, "rollover_festivals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": len(plan.Add), "removed": plan.Remove})
}

// listEvents returns local events, or the merged local and provider events of ?day=.
func (h *Handler) listEvents(c *gin.Context) {
	d := c.Query("day")
	if d == "" {
		c.JSON(http.StatusOK, gin.H{"events": h.ws.Events()})
		return
	}
	day, err := time.Parse(dayLayout, d)
	if err != nil {
		writeError(c, "list_events", fmt.Errorf("day %q: %w", d, errBadInput))
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": h.ws.EventsOn(day)})
}

func (h *Handler) addEvent(c *gin.Context) {
	var e domain.CalendarEvent
	if !bindJSON(c, &e) {
		return
	}
	created, err := h.ws.AddEvent(c.Request.Context(), e)
	if err != nil {
		writeError(c, "add_event", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": created})
}

func (h *Handler) updateEvent(c *gin.Context) {
	apply, ok := patchBody[domain.CalendarEvent](c)
	if !ok {
		return
	}
	updated, err := h.ws.UpdateEvent(c.Request.Context(), c.Param("id"), apply)
	if err != nil {
		writeError(c, "update_event", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": updated})
}

func (h *Handler) removeEvent(c *gin.Context) {
	if err := h.ws.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "remove_event", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) publishEvent(c *gin.Context) {
	ev, err := h.ws.PublishEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "publish_event", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": ev})
}

func (h *Handler) refreshCalendar(c *gin.Context) {
	if err := h.ws.RefreshCalendar(c.Request.Context()); err != nil {
		writeError(c, "refresh_calendar", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// saveGoogleToken stores a token obtained by the client and connects the providers.
func (h *Handler) saveGoogleToken(c *gin.Context) {
	if h.tokens == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "google integration not configured"})
		return
	}
	uid := h.ws.UserID()
	if uid == "" {
		writeError(c, "save_google_token", workspace.ErrNoSession)
		return
	}
	var tok oauth2.Token
	if !bindJSON(c, &tok) {
		return
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		writeError(c, "save_google_token", fmt.Errorf("token: %w", errBadInput))
		return
	}
	if err := h.tokens.Save(c.Request.Context(), uid, &tok); err != nil {
		writeError(c, "save_google_token", err)
		return
	}
	if err := h.ws.Reconnect(c.Request.Context()); err != nil {
		writeError(c, "save_google_token", err)
		return
	}
	c.Status(http.StatusNoContent)
}
