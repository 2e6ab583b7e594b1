package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.Use(h.sessionGuard())

	rg.GET("/workspace", h.status)

	projects := rg.Group("/projects")
	projects.GET("", h.listProjects)
	projects.POST("", h.createProject)
	projects.PATCH("/:id", h.updateProject)
	projects.DELETE("/:id", h.removeProject)

	projects.GET("/:id/collaborators", h.listCollaborators)
	projects.POST("/:id/collaborators", h.addCollaborator)
	projects.GET("/:id/budget", h.getBudget)
	projects.POST("/:id/budget", h.addBudgetItem)
	projects.GET("/:id/scripts", h.listScripts)
	projects.POST("/:id/scripts", h.addScript)
	projects.GET("/:id/documents", h.listDocuments)
	projects.POST("/:id/documents", h.addDocument)
	projects.POST("/:id/documents/import", h.importDriveFolder)
	projects.POST("/:id/documents/upload", h.uploadDocument)
	projects.GET("/:id/director", h.getDirector)
	projects.PUT("/:id/director", h.setDirector)
	projects.GET("/:id/visitors", h.listVisitors)
	projects.POST("/:id/visitors", h.inviteVisitor)
	projects.GET("/:id/tasks", h.listTasks)
	projects.POST("/:id/tasks", h.addTask)

	rg.PATCH("/collaborators/:id", h.updateCollaborator)
	rg.DELETE("/collaborators/:id", h.removeCollaborator)
	rg.PATCH("/budget/:id", h.updateBudgetItem)
	rg.DELETE("/budget/:id", h.removeBudgetItem)
	rg.DELETE("/scripts/:id", h.removeScript)
	rg.DELETE("/documents/:id", h.removeDocument)
	rg.GET("/documents/:id/content", h.downloadDocument)
	rg.PATCH("/visitors/:id", h.updateVisitor)
	rg.DELETE("/visitors/:id", h.removeVisitor)
	rg.PATCH("/tasks/:id", h.updateTask)
	rg.DELETE("/tasks/:id", h.removeTask)

	rg.GET("/invitations/:token", h.lookupInvitation)
	rg.POST("/invitations/:token/accept", h.acceptInvitation)
	rg.POST("/invitations/:token/activate", h.activateVisitor)

	contacts := rg.Group("/contacts")
	contacts.GET("", h.listContacts)
	contacts.POST("", h.upsertContact)
	contacts.PATCH("/:id", h.updateContact)
	contacts.DELETE("/:id", h.removeContact)

	festivals := rg.Group("/festivals")
	festivals.GET("", h.listFestivals)
	festivals.POST("", h.addFestival)
	festivals.POST("/rollover", h.rolloverFestivals)
	festivals.PATCH("/:id", h.updateFestival)
	festivals.DELETE("/:id", h.removeFestival)

	events := rg.Group("/events")
	events.GET("", h.listEvents)
	events.POST("", h.addEvent)
	events.POST("/refresh", h.refreshCalendar)
	events.PATCH("/:id", h.updateEvent)
	events.DELETE("/:id", h.removeEvent)
	events.POST("/:id/publish", h.publishEvent)

	notifications := rg.Group("/notifications")
	notifications.GET("", h.listNotifications)
	notifications.POST("/read", h.markNotificationsRead)
	notifications.POST("/:id/complete", h.completeNotificationTask)
	notifications.POST("/:id/remind", h.sendTaskReminder)

	options := rg.Group("/options")
	options.GET("/:kind", h.listOptions)
	options.PUT("/:kind", h.setOption)
	options.DELETE("/:kind/:value", h.removeOption)

	rg.PUT("/google/token", h.saveGoogleToken)
}
