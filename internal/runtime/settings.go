package runtime

import (
	"time"

	"github.com/George-br/WorldVoice/internal/config"
	"github.com/George-br/WorldVoice/internal/language"
	"github.com/George-br/WorldVoice/internal/numbers"
	"github.com/George-br/WorldVoice/internal/pipeline"
	"github.com/George-br/WorldVoice/internal/voice"
)

// mainRole builds the fallback voice role from configuration.
func mainRole(cfg config.MainRoleConfig) voice.Role {
	return voice.Role{
		Engine:  cfg.Engine,
		Voice:   cfg.Voice,
		Variant: cfg.Variant,
		Params: voice.Params{
			Speed:  cfg.Speed,
			Pitch:  cfg.Pitch,
			Volume: cfg.Volume,
		},
	}
}

// sessionConfig converts the YAML session settings into the pipeline's
// immutable snapshot form.
func sessionConfig(cfg config.Config) pipeline.SessionConfig {
	return pipeline.SessionConfig{
		MainLanguage:      language.Tag(cfg.MainRole.Language),
		NumberLanguage:    language.Tag(cfg.Session.NumberLanguage),
		NumberMode:        numbers.Mode(cfg.Session.NumberMode),
		IgnoreComma:       cfg.Session.IgnoreComma,
		IgnoreDigits:      cfg.Session.IgnoreDigits,
		IgnorePunct:       cfg.Session.IgnorePunctuation,
		DetectionTiming:   pipeline.Timing(cfg.Session.DetectionTiming),
		Consistency: voice.Consistency{
			Engine:     cfg.Session.Consistency.Engine,
			Voice:      cfg.Session.Consistency.Voice,
			Parameters: cfg.Session.Consistency.Parameters,
		},
		NumberPause:       time.Duration(cfg.Session.NumberPauseMS) * time.Millisecond,
		ItemPause:         time.Duration(cfg.Session.ItemPauseMS) * time.Millisecond,
		ChineseSpacePause: time.Duration(cfg.Session.ChineseSpacePauseMS) * time.Millisecond,
		SayAllPause:       time.Duration(cfg.Session.SayAllPauseMS) * time.Millisecond,
	}
}
