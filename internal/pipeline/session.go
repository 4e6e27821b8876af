package pipeline

import (
	"time"

	"github.com/George-br/WorldVoice/internal/language"
	"github.com/George-br/WorldVoice/internal/numbers"
	"github.com/George-br/WorldVoice/internal/voice"
)

// Timing says whether the pipeline runs before or after the host's symbol
// processing stage. The pipeline itself is timing-agnostic; the value only
// tells the host at which point to invoke it.
type Timing string

const (
	TimingBeforeSymbols Timing = "before"
	TimingAfterSymbols  Timing = "after"
)

// SessionConfig is the immutable per-utterance snapshot of every setting
// the pipeline reads. It is owned by the configuration subsystem and passed
// by value; the pipeline never mutates it.
type SessionConfig struct {
	// MainLanguage is the language of the main role, used as the fallback
	// tag for unclassifiable characters and leading ignored characters.
	MainLanguage language.Tag

	NumberLanguage language.Tag
	NumberMode     numbers.Mode
	IgnoreComma    bool

	// IgnoreDigits and IgnorePunct control whether digits/punctuation open
	// run boundaries during language detection.
	IgnoreDigits bool
	IgnorePunct  bool

	DetectionTiming Timing
	Consistency     voice.Consistency

	// SayAll marks continuous-reading mode, which selects the say-all
	// pause class at plain boundaries.
	SayAll bool

	// Pause durations per boundary category. Zero means the switch
	// directive is still emitted but carries no delay.
	NumberPause       time.Duration
	ItemPause         time.Duration
	ChineseSpacePause time.Duration
	SayAllPause       time.Duration
}

func (c SessionConfig) classifier() language.Classifier {
	return language.NewClassifier(c.MainLanguage)
}

func (c SessionConfig) numberOptions() numbers.Options {
	mode := c.NumberMode
	if mode == "" {
		mode = numbers.ModeValue
	}
	lang := c.NumberLanguage
	if lang == "" {
		lang = c.MainLanguage
	}
	return numbers.Options{IgnoreComma: c.IgnoreComma, Mode: mode, Language: lang}
}
