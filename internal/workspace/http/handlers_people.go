package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

func (h *Handler) listCollaborators(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"collaborators": h.ws.Collaborators(c.Param("id"))})
}

func (h *Handler) addCollaborator(c *gin.Context) {
	var collab domain.Collaborator
	if !bindJSON(c, &collab) {
		return
	}
	created, err := h.ws.AddCollaborator(c.Request.Context(), c.Param("id"), collab)
	if err != nil {
		writeError(c, "add_collaborator", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"collaborator": created})
}

func (h *Handler) updateCollaborator(c *gin.Context) {
	apply, ok := patchBody[domain.Collaborator](c)
	if !ok {
		return
	}
	updated, err := h.ws.UpdateCollaborator(c.Request.Context(), c.Param("id"), apply)
	if err != nil {
		writeError(c, "update_collaborator", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collaborator": updated})
}

func (h *Handler) removeCollaborator(c *gin.Context) {
	if err := h.ws.RemoveCollaborator(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "remove_collaborator", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listContacts returns the registry, or the best matches for ?q=.
func (h *Handler) listContacts(c *gin.Context) {
	if q, ok := c.GetQuery("q"); ok {
		c.JSON(http.StatusOK, gin.H{"contacts": h.ws.SearchContacts(q)})
		return
	}
	if name := c.Query("name"); name != "" {
		contact, found := h.ws.FindContactByName(name)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"contact": contact})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": h.ws.Contacts()})
}

func (h *Handler) upsertContact(c *gin.Context) {
	var contact domain.Contact
	if !bindJSON(c, &contact) {
		return
	}
	saved, err := h.ws.UpsertContact(c.Request.Context(), contact)
	if err != nil {
		writeError(c, "upsert_contact", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": saved})
}

func (h *Handler) updateContact(c *gin.Context) {
	apply, ok := patchBody[domain.Contact](c)
	if !ok {
		return
	}
	updated, err := h.ws.UpdateContact(c.Request.Context(), c.Param("id"), apply)
	if err != nil {
		writeError(c, "update_contact", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": updated})
}

func (h *Handler) removeContact(c *gin.Context) {
	if err := h.ws.RemoveContact(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "remove_contact", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listVisitors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"visitors": h.ws.Visitors(c.Param("id"))})
}

func (h *Handler) inviteVisitor(c *gin.Context) {
	var v domain.Visitor
	if !bindJSON(c, &v) {
		return
	}
	created, err := h.ws.InviteVisitor(c.Request.Context(), c.Param("id"), v)
	if err != nil {
		writeError(c, "invite_visitor", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"visitor": created})
}

func (h *Handler) updateVisitor(c *gin.Context) {
	apply, ok := patchBody[domain.Visitor](c)
	if !ok {
		return
	}
	updated, err := h.ws.UpdateVisitor(c.Request.Context(), c.Param("id"), apply)
	if err != nil {
		writeError(c, "update_visitor", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visitor": updated})
}

func (h *Handler) removeVisitor(c *gin.Context) {
	if err := h.ws.RemoveVisitor(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "remove_visitor", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) lookupInvitation(c *gin.Context) {
	inv, err := h.ws.LookupInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, "lookup_invitation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitation": inv})
}

func (h *Handler) acceptInvitation(c *gin.Context) {
	inv, err := h.ws.AcceptInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, "accept_invitation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitation": inv})
}

func (h *Handler) activateVisitor(c *gin.Context) {
	inv, err := h.ws.ActivateVisitor(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, "activate_visitor", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitation": inv})
}
