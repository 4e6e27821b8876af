// Package pipeline assembles the speech pipeline: classify, segment,
// normalize numbers, resolve roles and emit directives. Every stage is a
// pure function of its inputs, so a single invocation is re-entrant and
// completes in time proportional to the input length.
package pipeline

import (
	"strings"
	"time"
	"unicode"

	"github.com/George-br/WorldVoice/internal/language"
	"github.com/George-br/WorldVoice/internal/numbers"
	"github.com/George-br/WorldVoice/internal/segment"
	"github.com/George-br/WorldVoice/internal/voice"
)

// Speak transforms text into the ordered directive sequence the host
// forwards to its engines. The stage order classify -> segment -> normalize
// is a fixed contract; reordering changes output.
func Speak(text string, cfg SessionConfig, regions voice.RegionMap, main voice.Role) []Directive {
	if text == "" {
		return nil
	}

	runs := segment.Segment(text, cfg.classifier(), segment.Options{
		IgnoreDigits: cfg.IgnoreDigits,
		IgnorePunct:  cfg.IgnorePunct,
	})
	runs = numbers.Normalize(runs, cfg.numberOptions())

	return emit(runs, cfg, regions, main)
}

// emit walks the run sequence as a two-state machine: IDLE before the first
// run, then IN_ROLE. A run resolving to the same role appends only an
// utterance; a role change appends a pause for the boundary category first.
// No trailing pause is emitted after the last run.
func emit(runs []segment.Run, cfg SessionConfig, regions voice.RegionMap, main voice.Role) []Directive {
	var (
		out     []Directive
		prev    segment.Run
		prevRol voice.Role
		inRole  bool
	)
	for _, r := range runs {
		role := voice.EffectiveRole(voice.Resolve(r.Tag, regions, main), main, cfg.Consistency)
		if inRole && role != prevRol {
			out = append(out, PauseFor(cfg.pauseFor(boundaryCategory(prev, r, cfg.SayAll))))
		}
		out = append(out, Utterance(r.Text, pronunciation(r, cfg), role))
		prev, prevRol, inRole = r, role, true
	}
	return out
}

// pronunciation picks the language a run is read in. Numeric tokens carry
// the configured number language; non-letter tags fall back to the main
// role's language.
func pronunciation(r segment.Run, cfg SessionConfig) language.Tag {
	if r.Lang != "" {
		return r.Lang
	}
	if r.Tag.Letter() {
		return r.Tag
	}
	return cfg.MainLanguage
}

// boundaryCategory classifies the transition between two adjacent runs.
// Precedence when several apply: numeric, chinese-space, say-all, item.
type boundary int

const (
	boundaryItem boundary = iota
	boundaryNumber
	boundaryChineseSpace
	boundarySayAll
)

func boundaryCategory(prev, next segment.Run, sayAll bool) boundary {
	if prev.Numeric || next.Numeric {
		return boundaryNumber
	}
	spaceAtBoundary := endsWithSpace(prev.Text) || startsWithSpace(next.Text)
	if spaceAtBoundary && (prev.Tag == language.TagChinese || next.Tag == language.TagChinese) {
		return boundaryChineseSpace
	}
	if sayAll {
		return boundarySayAll
	}
	return boundaryItem
}

func (c SessionConfig) pauseFor(b boundary) time.Duration {
	switch b {
	case boundaryNumber:
		return c.NumberPause
	case boundaryChineseSpace:
		return c.ChineseSpacePause
	case boundarySayAll:
		return c.SayAllPause
	default:
		return c.ItemPause
	}
}

func endsWithSpace(s string) bool {
	rs := []rune(s)
	return len(rs) > 0 && unicode.IsSpace(rs[len(rs)-1])
}

func startsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace([]rune(s)[0])
}

// Reconstruct is a debugging helper: the concatenated text of a segmented
// sequence must equal the original input byte for byte.
func Reconstruct(runs []segment.Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
