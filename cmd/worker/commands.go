package main

import (
	"context"
	"log"
	"time"

	"github.com/filmdesk/filmdesk-backend/config"
	"github.com/filmdesk/filmdesk-backend/internal/bootstrap"
	"github.com/filmdesk/filmdesk-backend/internal/db"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
	"github.com/filmdesk/filmdesk-backend/internal/workspace"
)

func mustConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// RunMigrate applies the remote schema migrations.
func RunMigrate(_ []string) {
	cfg := mustConfig()
	if !cfg.Database.Enabled() {
		log.Fatal("DB_DSN is required")
	}
	if err := db.Migrate(cfg.Database.DSN); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

// RunRollover loads a user's workspace (migrating device data if needed) and rolls the
// festival calendar forward.
func RunRollover(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: worker rollover <userID>")
	}
	cfg := mustConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

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

	opts := workspace.Options{Local: kv, FestivalInitialDelay: time.Hour}
	if remote != nil {
		opts.Remote = remote.SQL
	}
	ws := workspace.New(opts)
	ws.OnIdentity(args[0])
	defer ws.OnIdentity("")

	plan, err := ws.RolloverFestivals(ctx)
	if err != nil {
		log.Fatalf("rollover: %v", err)
	}
	log.Printf("[worker] rollover user=%s added=%d removed=%d", args[0], len(plan.Add), len(plan.Remove))
}

// RunClear wipes every collection the device holds for a user.
func RunClear(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: worker clear <userID>")
	}
	cfg := mustConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	kv, err := bootstrap.OpenKV(ctx, cfg.Local)
	if err != nil {
		log.Fatalf("local store: %v", err)
	}
	defer kv.Close()
	if err := storage.ClearUser(ctx, kv, args[0]); err != nil {
		log.Fatalf("clear: %v", err)
	}
	log.Printf("[worker] cleared device data user=%s", args[0])
}
