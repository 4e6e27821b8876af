// Package numbers rewrites numeric runs according to the configured
// number-reading mode.
package numbers

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/George-br/WorldVoice/internal/language"
	"github.com/George-br/WorldVoice/internal/segment"
)

// Mode selects how digit groups are spoken.
type Mode string

const (
	// ModeValue reads adjacent digits as one cardinal value.
	ModeValue Mode = "value"
	// ModeDigit reads every digit as an individual token.
	ModeDigit Mode = "digit"
)

// Options carry the session knobs that apply to numeric runs.
type Options struct {
	// IgnoreComma strips thousands separators when the grouping is valid.
	IgnoreComma bool
	Mode        Mode
	// Language is the pronunciation language attached to numeric tokens.
	// The run tag stays "digit" so voice-role lookup is unaffected.
	Language language.Tag
}

// grouping is the conservative thousands-separator shape: commas are
// treated as separators only when every group between them has exactly
// three digits. Anything else keeps its commas as literal text.
var grouping = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)

// Normalize rewrites the numeric runs of a segmented sequence. Non-numeric
// runs pass through untouched. Must run after segmentation; the segmenter's
// ignore flags decide which digits still live in numeric runs at all.
func Normalize(runs []segment.Run, opts Options) []segment.Run {
	out := make([]segment.Run, 0, len(runs))
	for _, r := range runs {
		if !r.Numeric {
			out = append(out, r)
			continue
		}
		out = append(out, normalizeRun(r.Text, opts)...)
	}
	return out
}

func normalizeRun(text string, opts Options) []segment.Run {
	var out []segment.Run
	for _, span := range splitSpans(text) {
		if !span.numeric {
			out = append(out, literalRun(span.text))
			continue
		}
		s := span.text
		if opts.IgnoreComma && grouping.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		}
		out = append(out, tokenize(s, opts)...)
	}
	return out
}

type span struct {
	text    string
	numeric bool
}

// splitSpans cuts a numeric run into maximal digit/separator candidates and
// everything else (whitespace that was folded into the run, stray symbols).
func splitSpans(text string) []span {
	var (
		spans []span
		buf   strings.Builder
		num   bool
		open  bool
	)
	flush := func() {
		if open && buf.Len() > 0 {
			spans = append(spans, span{text: buf.String(), numeric: num})
		}
		buf.Reset()
		open = false
	}
	for _, r := range text {
		candidate := unicode.IsDigit(r) || r == ',' || r == '.'
		if !open || candidate != num {
			flush()
			num = candidate
			open = true
		}
		buf.WriteRune(r)
	}
	flush()
	// A candidate span without a single digit is pure punctuation.
	for i, s := range spans {
		if s.numeric && !strings.ContainsFunc(s.text, unicode.IsDigit) {
			spans[i].numeric = false
		}
	}
	return spans
}

// tokenize splits a candidate span into spoken tokens. A period joins a
// numeric token only when that token has no decimal point yet and a digit
// follows, so strings like "1.2.3" yield independent tokens instead of one
// merged number. Ambiguous separators stay literal rather than guessed.
func tokenize(s string, opts Options) []segment.Run {
	var (
		out []segment.Run
		cur strings.Builder
	)
	emit := func() {
		if cur.Len() == 0 {
			return
		}
		out = append(out, segment.Run{
			Text:    cur.String(),
			Tag:     language.TagDigit,
			Lang:    opts.Language,
			Numeric: true,
		})
		cur.Reset()
	}

	rs := []rune(s)
	for i, r := range rs {
		switch {
		case unicode.IsDigit(r):
			if opts.Mode == ModeDigit {
				emit()
				cur.WriteRune(r)
				emit()
			} else {
				cur.WriteRune(r)
			}
		case r == '.' && opts.Mode == ModeValue &&
			cur.Len() > 0 && !strings.ContainsRune(cur.String(), '.') &&
			i+1 < len(rs) && unicode.IsDigit(rs[i+1]):
			cur.WriteRune(r)
		default:
			emit()
			out = append(out, literalRun(string(r)))
		}
	}
	emit()
	return out
}

func literalRun(text string) segment.Run {
	tag := language.TagPunct
	if strings.TrimSpace(text) == "" {
		tag = language.TagSpace
	}
	return segment.Run{Text: text, Tag: tag}
}
