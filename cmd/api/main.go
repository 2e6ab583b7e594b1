package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/filmdesk/filmdesk-backend/config"
	"github.com/filmdesk/filmdesk-backend/internal/auth"
	"github.com/filmdesk/filmdesk-backend/internal/auth/service"
	"github.com/filmdesk/filmdesk-backend/internal/bootstrap"
	"github.com/filmdesk/filmdesk-backend/internal/google"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
	"github.com/filmdesk/filmdesk-backend/internal/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.SetLevel(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := bootstrap.OpenKV(ctx, cfg.Local)
	if err != nil {
		log.Fatalf("local store: %v", err)
	}
	defer kv.Close()

	remote, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{Config: cfg.Database})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer remote.Close()

	var verifier auth.TokenVerifier
	if cfg.Firebase.CredentialsPath != "" {
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		verifier = client
	} else {
		log.Println("[auth] FIREBASE_CREDENTIALS_PATH not set, trusting X-User-Id (development only)")
	}

	opts := workspace.Options{
		Local:                kv,
		CalendarPollInterval: cfg.Google.CalendarPollEvery,
	}
	if remote != nil {
		opts.Remote = remote.SQL
	}
	var tokens *google.TokenStore
	if cfg.Google.Enabled() {
		tokens = google.NewTokenStore(kv)
		oauthCfg := google.OAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
		opts.Providers = workspace.GoogleProviders(tokens, oauthCfg)
	}

	ws := workspace.New(opts)
	identity := auth.NewIdentity()
	detach := ws.Attach(identity)
	defer detach()

	var revoker service.TokenRevoker
	if tokens != nil {
		revoker = tokens
	}
	sessions := service.NewSessionService(identity, kv, revoker)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "filmdesk-backend",
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		DB:          remote,
		KV:          kv,
		Workspace:   ws,
		Sessions:    sessions,
		Tokens:      tokens,
		Verifier:    verifier,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s (env=%s, remote=%t, local=%s)", cfg.Server.Port, cfg.App.Environment, remote != nil, cfg.Local.Kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	identity.Set("")
}
