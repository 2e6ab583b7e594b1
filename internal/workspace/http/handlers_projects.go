package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

func (h *Handler) status(c *gin.Context) {
	resp := statusResponse{
		UserID:    h.ws.UserID(),
		Loading:   h.ws.Loading(),
		Connected: h.ws.Connected(),
	}
	if t := h.ws.CalendarFetchedAt(); !t.IsZero() {
		resp.CalendarFetchedAt = &t
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": h.ws.Projects()})
}

func (h *Handler) createProject(c *gin.Context) {
	var p domain.Project
	if !bindJSON(c, &p) {
		return
	}
	created, err := h.ws.CreateProject(c.Request.Context(), p)
	if err != nil {
		writeError(c, "create_project", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": created})
}

func (h *Handler) updateProject(c *gin.Context) {
	apply, ok := patchBody[domain.Project](c)
	if !ok {
		return
	}
	updated, err := h.ws.UpdateProject(c.Request.Context(), c.Param("id"), apply)
	if err != nil {
		writeError(c, "update_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": updated})
}

// removeProject cascades; a partial cascade failure is reported but the project is gone.
func (h *Handler) removeProject(c *gin.Context) {
	if err := h.ws.RemoveProject(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "remove_project", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listScripts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scripts": h.ws.Scripts(c.Param("id"))})
}

func (h *Handler) addScript(c *gin.Context) {
	var s domain.Script
	if !bindJSON(c, &s) {
		return
	}
	created, err := h.ws.AddScript(c.Request.Context(), c.Param("id"), s)
	if err != nil {
		writeError(c, "add_script", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"script": created})
}

func (h *Handler) removeScript(c *gin.Context) {
	if err := h.ws.RemoveScript(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "remove_script", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"documents": h.ws.Documents(c.Param("id"))})
}

func (h *Handler) addDocument(c *gin.Context) {
	var d domain.Document
	if !bindJSON(c, &d) {
		return
	}
	created, err := h.ws.AddDocument(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		writeError(c, "add_document", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": created})
}

func (h *Handler) importDriveFolder(c *gin.Context) {
	var req folderRequest
	if !bindJSON(c, &req) {
		return
	}
	added, err := h.ws.ImportDriveFolder(c.Request.Context(), c.Param("id"), req.FolderID)
	if err != nil {
		writeError(c, "import_drive_folder", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": added})
}

// uploadDocument takes a multipart "file" part plus an optional "folderId" field.
func (h *Handler) uploadDocument(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer f.Close()

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	d, err := h.ws.UploadDocument(c.Request.Context(), c.Param("id"), c.PostForm("folderId"), fh.Filename, mimeType, f)
	if err != nil {
		writeError(c, "upload_document", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": d})
}

func (h *Handler) downloadDocument(c *gin.Context) {
	d, rc, err := h.ws.OpenDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "download_document", err)
		return
	}
	defer rc.Close()

	contentType := d.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extra := map[string]string{"Content-Disposition": fmt.Sprintf("attachment; filename=%q", d.Name)}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, extra)
}

func (h *Handler) removeDocument(c *gin.Context) {
	if err := h.ws.RemoveDocument(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "remove_document", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getDirector(c *gin.Context) {
	d, ok := h.ws.Director(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no director set"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"director": d})
}

func (h *Handler) setDirector(c *gin.Context) {
	var d domain.Director
	if !bindJSON(c, &d) {
		return
	}
	saved, err := h.ws.SetDirector(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		writeError(c, "set_director", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"director": saved})
}

func (h *Handler) getBudget(c *gin.Context) {
	pid := c.Param("id")
	c.JSON(http.StatusOK, gin.H{"items": h.ws.Budget(pid), "summary": h.ws.BudgetSummary(pid)})
}

func (h *Handler) addBudgetItem(c *gin.Context) {
	var b domain.BudgetItem
	if !bindJSON(c, &b) {
		return
	}
	created, err := h.ws.AddBudgetItem(c.Request.Context(), c.Param("id"), b)
	if err != nil {
		writeError(c, "add_budget_item", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": created})
}

func (h *Handler) updateBudgetItem(c *gin.Context) {
	apply, ok := patchBody[domain.BudgetItem](c)
	if !ok {
		return
	}
	updated, err := h.ws.UpdateBudgetItem(c.Request.Context(), c.Param("id"), apply)
	if err != nil {
		writeError(c, "update_budget_item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": updated})
}

func (h *Handler) removeBudgetItem(c *gin.Context) {
	if err := h.ws.RemoveBudgetItem(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "remove_budget_item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.ws.Tasks(c.Param("id"))})
}

func (h *Handler) addTask(c *gin.Context) {
	var t domain.Task
	if !bindJSON(c, &t) {
		return
	}
	created, err := h.ws.AddTask(c.Request.Context(), c.Param("id"), t)
	if err != nil {
		writeError(c, "add_task", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": created})
}

func (h *Handler) updateTask(c *gin.Context) {
	apply, ok := patchBody[domain.Task](c)
	if !ok {
		return
	}
	updated, err := h.ws.UpdateTask(c.Request.Context(), c.Param("id"), apply)
	if err != nil {
		writeError(c, "update_task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": updated})
}

func (h *Handler) removeTask(c *gin.Context) {
	if err := h.ws.RemoveTask(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "remove_task", err)
		return
	}
	c.Status(http.StatusNoContent)
}
