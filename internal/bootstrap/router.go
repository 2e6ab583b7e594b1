package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/filmdesk/filmdesk-backend/internal/api/http"
	"github.com/filmdesk/filmdesk-backend/internal/api/http/routes"
	"github.com/filmdesk/filmdesk-backend/internal/auth"
	"github.com/filmdesk/filmdesk-backend/internal/auth/service"
	"github.com/filmdesk/filmdesk-backend/internal/db"
	"github.com/filmdesk/filmdesk-backend/internal/google"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
	"github.com/filmdesk/filmdesk-backend/internal/workspace"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string

	DB        *db.DB
	KV        storage.KV
	Workspace *workspace.Workspace
	Sessions  *service.SessionService
	Tokens    *google.TokenStore
	// Verifier checks Firebase ID tokens; nil trusts the X-User-Id header (development only).
	Verifier auth.TokenVerifier
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id", "X-User-Id", "X-User-Email"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var dbPinger httpapi.Pinger
	if dep.DB != nil {
		dbPinger = dep.DB
	}
	var kvPinger httpapi.Pinger
	if dep.KV != nil {
		kvPinger = dep.KV
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dbPinger, kvPinger)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{
		Workspace: dep.Workspace,
		Sessions:  dep.Sessions,
		Tokens:    dep.Tokens,
		Verifier:  dep.Verifier,
	})

	return r
}
