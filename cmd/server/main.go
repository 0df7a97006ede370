package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/glasspane/glasspane/internal/catalog"
	"github.com/glasspane/glasspane/internal/config"
	"github.com/glasspane/glasspane/internal/eventbus"
	"github.com/glasspane/glasspane/internal/gateway"
	"github.com/glasspane/glasspane/internal/server"
	"github.com/glasspane/glasspane/internal/store"
	"github.com/glasspane/glasspane/internal/studio/intent"
	"github.com/glasspane/glasspane/internal/studio/mutator"
	"github.com/glasspane/glasspane/internal/studio/suggest"
	"github.com/glasspane/glasspane/internal/telemetry"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	// Enable foreign keys explicitly — required for SQLite.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		log.Fatalf("enabling foreign keys: %v", err)
	}

	st := store.New(db)
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("running schema migration: %v", err)
	}
	log.Println("database migrated successfully")

	catalogs := catalog.NewRegistry()
	loaded, err := catalog.LoadDir(catalogs, cfg.Catalog.Dir)
	if err != nil {
		log.Fatalf("loading catalogs from %s: %v", cfg.Catalog.Dir, err)
	}
	log.Printf("registered %d catalog namespace(s)", len(loaded))

	skills := gateway.NewSkillRegistry()

	// DB, analytics and integration collaborators plug in per deployment;
	// skill-backed reads and actions work out of the box.
	resolver := gateway.NewResolver(catalogs, nil, nil, nil, skills, st, &gateway.Options{
		DefaultCacheTTL: cfg.Gateway.CacheTTL,
	})

	aggregator := telemetry.NewAggregator()
	buffer := telemetry.NewBuffer(aggregator, telemetry.BufferOptions{
		FlushThreshold: cfg.Telemetry.FlushThreshold,
		FlushInterval:  cfg.Telemetry.FlushInterval,
		MaxPending:     cfg.Telemetry.MaxPending,
	})
	go buffer.Run(ctx)

	bus := eventbus.New(256)
	bus.Subscribe("log", eventbus.NewLogConsumer())
	bus.Subscribe("telemetry", eventbus.NewTelemetryConsumer(buffer))
	bus.Start(ctx)

	err = server.Run(ctx, server.Config{
		Addr:       cfg.Server.Addr,
		Store:      st,
		Catalogs:   catalogs,
		Resolver:   resolver,
		Parser:     intent.NewKeywordParser(),
		Mutator:    mutator.New(),
		Suggest:    suggest.New(),
		Telemetry:  buffer,
		Aggregator: aggregator,
		Bus:        bus,
	})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}

	// Let the bus drain queued lifecycle events before exit.
	bus.Wait()
}
