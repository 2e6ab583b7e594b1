package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/filmdesk/filmdesk-backend/internal/api/http/middleware"
	"github.com/filmdesk/filmdesk-backend/internal/auth"
	authhttp "github.com/filmdesk/filmdesk-backend/internal/auth/http"
	authmw "github.com/filmdesk/filmdesk-backend/internal/auth/middleware"
	"github.com/filmdesk/filmdesk-backend/internal/auth/service"
	"github.com/filmdesk/filmdesk-backend/internal/google"
	"github.com/filmdesk/filmdesk-backend/internal/workspace"
	wshttp "github.com/filmdesk/filmdesk-backend/internal/workspace/http"
)

type V1Deps struct {
	Workspace *workspace.Workspace
	Sessions  *service.SessionService
	Tokens    *google.TokenStore
	Verifier  auth.TokenVerifier
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	authed := auth.OptionalUser()
	if dep.Verifier != nil {
		authed = authmw.FirebaseAuthMiddleware(dep.Verifier)
	}

	authhttp.New(dep.Sessions).Register(api.Group("/session"), authed)

	ws := api.Group("")
	ws.Use(authed)
	wshttp.New(dep.Workspace, dep.Tokens).Register(ws)
}
