package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/George-br/WorldVoice/internal/bus"
	"github.com/George-br/WorldVoice/internal/config"
	"github.com/George-br/WorldVoice/internal/dispatch"
	"github.com/George-br/WorldVoice/internal/engine"
	"github.com/George-br/WorldVoice/internal/natsserver"
	"github.com/George-br/WorldVoice/internal/pipeline"
	"github.com/George-br/WorldVoice/internal/voice"
	"github.com/George-br/WorldVoice/internal/voicestore"
)

// Runtime assembles the daemon: telemetry, voice store, bus, engine
// bindings, the dispatcher and the HTTP surface.
type Runtime struct {
	cfg         config.Config
	logger      *slog.Logger
	session     pipeline.SessionConfig
	main        voice.Role
	store       *voicestore.Store
	httpServer  *http.Server
	tracerClose func(context.Context) error
	ready       atomic.Bool
	wg          sync.WaitGroup
}

func New(cfg config.Config, logger *slog.Logger) *Runtime {
	return &Runtime{
		cfg:     cfg,
		logger:  logger,
		session: sessionConfig(cfg),
		main:    mainRole(cfg.MainRole),
	}
}

func (r *Runtime) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownTelemetry, metricsHandler, err := setupTelemetry(r.cfg, r.logger)
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	r.tracerClose = shutdownTelemetry

	store, err := voicestore.Open(ctx, r.cfg.VoiceStore, r.logger)
	if err != nil {
		return fmt.Errorf("failed to open voice store: %w", err)
	}
	defer store.Close()
	r.store = store

	if len(r.cfg.Regions) > 0 {
		if err := store.Seed(ctx, r.cfg.Regions); err != nil {
			return fmt.Errorf("failed to seed regions: %w", err)
		}
	}

	embedded, err := natsserver.Start(r.cfg.Bus, r.logger)
	if err != nil {
		return fmt.Errorf("failed to start embedded bus: %w", err)
	}
	defer embedded.Shutdown()

	busClient, err := bus.Connect(r.cfg.Bus, r.logger)
	if err != nil {
		return fmt.Errorf("failed to connect to bus: %w", err)
	}
	defer busClient.Close()

	registry, err := engine.NewRegistry(r.cfg.Engines, r.logger)
	if err != nil {
		return fmt.Errorf("failed to build engine registry: %w", err)
	}

	engines := engine.NewService(ctx, registry, busClient, r.logger)
	if err := engines.Start(); err != nil {
		return fmt.Errorf("failed to start engine service: %w", err)
	}
	defer engines.Close()

	dispatcher := dispatch.NewService(ctx, r.session, r.main, store, registry, busClient, r.logger)
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	defer dispatcher.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", r.handleHealth)
	mux.HandleFunc("/readyz", r.handleReady)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}
	mux.HandleFunc("POST /v1/preview", r.handlePreview)
	mux.HandleFunc("GET /v1/regions", r.handleListRegions)
	mux.HandleFunc("PUT /v1/regions/{tag}", r.handlePutRegion)
	mux.HandleFunc("DELETE /v1/regions/{tag}", r.handleDeleteRegion)

	addr := fmt.Sprintf("%s:%d", r.cfg.HTTP.Bind, r.cfg.HTTP.Port)
	r.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	r.ready.Store(true)
	r.logger.Info("runtime started",
		slog.String("addr", addr),
		slog.String("main_engine", r.main.Engine),
		slog.String("main_language", string(r.session.MainLanguage)))

	<-ctx.Done()
	r.logger.Info("runtime stopping")
	r.ready.Store(false)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Error("http shutdown error", slog.String("error", err.Error()))
	}
	r.wg.Wait()

	if r.tracerClose != nil {
		if err := r.tracerClose(shutdownCtx); err != nil {
			r.logger.Error("telemetry shutdown error", slog.String("error", err.Error()))
		}
	}

	return nil
}

func (r *Runtime) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (r *Runtime) handleReady(w http.ResponseWriter, _ *http.Request) {
	if r.ready.Load() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready"))
}
