// Package engine hosts the TTS engine bindings behind a narrow capability
// interface. Engine-specific quirks live entirely here; the pipeline never
// special-cases a backend.
package engine

import (
	"context"
	"fmt"

	"github.com/George-br/WorldVoice/internal/config"
	"github.com/George-br/WorldVoice/internal/protocol"
)

// Param names one of the three speaking parameters.
type Param string

const (
	ParamRate   Param = "rate"
	ParamPitch  Param = "pitch"
	ParamVolume Param = "volume"
)

// Binding is the contract every engine backend implements. Speak returns
// once the utterance has been fully rendered, which is the completion
// signal the dispatcher waits on before advancing.
type Binding interface {
	Name() string
	SupportsVariant() bool
	SupportsRateBoost() bool
	// NativeRange reports the engine's native range for a parameter. The
	// normalized 0-100 settings are mapped onto it with Scale.
	NativeRange(p Param) (min, max int)
	Speak(ctx context.Context, msg protocol.DirectiveMessage) error
}

// ranges carries the per-engine native parameter ranges plus capability
// flags, shared by the concrete bindings.
type ranges struct {
	name      string
	rateBoost bool
	variants  bool
	rate      [2]int
	pitch     [2]int
	volume    [2]int
}

func rangesFromConfig(cfg config.EngineConfig) ranges {
	return ranges{
		name:      cfg.Name,
		rateBoost: cfg.RateBoost,
		variants:  cfg.Variants,
		rate:      [2]int{cfg.RateMin, cfg.RateMax},
		pitch:     [2]int{cfg.PitchMin, cfg.PitchMax},
		volume:    [2]int{cfg.VolumeMin, cfg.VolumeMax},
	}
}

func (r ranges) Name() string            { return r.name }
func (r ranges) SupportsVariant() bool   { return r.variants }
func (r ranges) SupportsRateBoost() bool { return r.rateBoost }

func (r ranges) NativeRange(p Param) (int, int) {
	switch p {
	case ParamRate:
		return r.rate[0], r.rate[1]
	case ParamPitch:
		return r.pitch[0], r.pitch[1]
	default:
		return r.volume[0], r.volume[1]
	}
}

// New builds a binding from its configuration.
func New(cfg config.EngineConfig) (Binding, error) {
	switch cfg.Mode {
	case "mock":
		return NewMock(cfg), nil
	case "exec":
		return NewExec(cfg)
	default:
		return nil, fmt.Errorf("unknown engine mode %q", cfg.Mode)
	}
}
