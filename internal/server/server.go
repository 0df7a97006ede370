// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glasspane/glasspane/internal/catalog"
	"github.com/glasspane/glasspane/internal/eventbus"
	"github.com/glasspane/glasspane/internal/gateway"
	"github.com/glasspane/glasspane/internal/handler"
	"github.com/glasspane/glasspane/internal/store"
	"github.com/glasspane/glasspane/internal/studio/intent"
	"github.com/glasspane/glasspane/internal/studio/mutator"
	"github.com/glasspane/glasspane/internal/studio/suggest"
	"github.com/glasspane/glasspane/internal/studio/wire"
	"github.com/glasspane/glasspane/internal/telemetry"
)

// Config holds the assembled collaborators for the HTTP server.
type Config struct {
	Addr       string
	Store      *store.Store
	Catalogs   *catalog.Registry
	Resolver   *gateway.Resolver
	Parser     intent.Parser
	Mutator    *mutator.Mutator
	Suggest    *suggest.Engine
	Telemetry  *telemetry.Buffer
	Aggregator *telemetry.Aggregator
	Bus        *eventbus.Bus
}

// Run starts the HTTP server with all routes registered and shuts it down
// when ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	r := chi.NewRouter()

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// --- Dashboards ---
	dh := handler.NewDashboardHandler(cfg.Store, cfg.Mutator, cfg.Parser, cfg.Suggest, cfg.Bus)
	r.Post("/v1/dashboards", dh.Generate)
	r.Get("/v1/dashboards", dh.List)
	r.Get("/v1/dashboards/{id}", dh.Get)
	r.Post("/v1/dashboards/{id}/edit", dh.Edit)
	r.Post("/v1/dashboards/{id}/publish", dh.Publish)
	r.Get("/v1/dashboards/{id}/publishes", dh.PublishHistory)
	r.Post("/v1/dashboards/{id}/suggestions", dh.Suggest)

	// --- Binding gateway ---
	gh := handler.NewGatewayHandler(cfg.Catalogs, cfg.Resolver)
	r.Get("/v1/catalogs", gh.ListCatalogs)
	r.Get("/v1/catalogs/{namespace}/widgets", gh.AvailableWidgets)
	r.Post("/v1/data/{namespace}/{key}", gh.FetchData)
	r.Post("/v1/actions/{namespace}/{key}", gh.ExecuteAction)

	// --- Telemetry intake ---
	th := handler.NewTelemetryHandler(cfg.Telemetry, cfg.Aggregator)
	r.Post("/v1/telemetry/events", th.Intake)
	r.Get("/v1/telemetry/snapshot", th.Snapshot)

	// --- Live edit studio (WebSocket) ---
	wh := wire.NewHandler(cfg.Store, cfg.Parser, cfg.Mutator)
	r.Get("/v1/dashboards/{id}/studio", wh.ServeHTTP)

	// Wrap with middleware
	wrapped := handler.Recovery(handler.Logging(r))

	log.Printf("starting server on %s", cfg.Addr)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: wrapped,
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	return server.ListenAndServe()
}
