package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/George-br/WorldVoice/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Registry holds the engine bindings available to this runtime.
type Registry struct {
	log      *slog.Logger
	mu       sync.RWMutex
	bindings map[string]Binding
	meter    metric.Meter
}

func NewRegistry(cfgs []config.EngineConfig, log *slog.Logger) (*Registry, error) {
	r := &Registry{
		log:      log.With(slog.String("component", "engine-registry")),
		bindings: make(map[string]Binding, len(cfgs)),
		meter:    otel.Meter("github.com/George-br/WorldVoice/engine"),
	}
	for _, cfg := range cfgs {
		b, err := New(cfg)
		if err != nil {
			return nil, fmt.Errorf("engine %q: %w", cfg.Name, err)
		}
		r.bindings[b.Name()] = b
		r.log.Info("registered engine",
			slog.String("engine", b.Name()),
			slog.Bool("rate_boost", b.SupportsRateBoost()),
			slog.Bool("variants", b.SupportsVariant()))
	}
	if err := r.initMetrics(); err != nil {
		r.log.Warn("failed to initialize metrics", slog.String("error", err.Error()))
	}
	return r, nil
}

// Get returns the binding for an engine name.
func (r *Registry) Get(name string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[name]
	return b, ok
}

// Has reports whether an engine is available.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names lists the registered engine names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	return names
}

func (r *Registry) initMetrics() error {
	gauge, err := r.meter.Int64ObservableGauge("worldvoice.engines.registered",
		metric.WithDescription("Number of registered engine bindings"))
	if err != nil {
		return err
	}
	_, err = r.meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		r.mu.RLock()
		n := int64(len(r.bindings))
		r.mu.RUnlock()
		obs.ObserveInt64(gauge, n)
		return nil
	}, gauge)
	return err
}
