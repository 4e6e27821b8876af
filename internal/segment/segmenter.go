// Package segment turns raw text into maximal same-language runs.
package segment

import (
	"strings"

	"github.com/George-br/WorldVoice/internal/language"
)

// Run is a contiguous span of text carrying a single language tag.
// Concatenating the Text fields of the runs produced for an input
// reconstructs that input exactly.
type Run struct {
	Text string
	Tag  language.Tag
	// Lang overrides the language used to pronounce the run. Empty means
	// "derive from Tag". The number normalizer sets it on numeric tokens so
	// they are read in the configured number language while Tag stays
	// "digit" for voice-role lookup.
	Lang    language.Tag
	Numeric bool
}

// Options control which raw categories are folded into the surrounding run
// instead of opening a boundary of their own.
type Options struct {
	// IgnoreDigits folds digit characters into the current run's tag.
	IgnoreDigits bool
	// IgnorePunct folds punctuation into the current run's tag.
	IgnorePunct bool
}

// Segment scans text left to right and merges adjacent same-tag characters
// into runs. It is a pure function of (text, classifier, options): no state
// survives between calls. Leading ignored characters, which have no current
// run to inherit from, take the classifier's fallback tag.
func Segment(text string, cls language.Classifier, opts Options) []Run {
	var (
		runs []Run
		buf  strings.Builder
		cur  language.Tag
		open bool
	)

	closeRun := func() {
		if !open || buf.Len() == 0 {
			return
		}
		runs = append(runs, Run{
			Text:    buf.String(),
			Tag:     cur,
			Numeric: cur == language.TagDigit,
		})
		buf.Reset()
		open = false
	}

	openRun := func(tag language.Tag) {
		cur = tag
		open = true
	}

	rs := []rune(text)
	for i, r := range rs {
		raw := cls.Classify(r)

		switch {
		case open && raw == cur:
			// Same tag, keep accumulating.
		case open && cur == language.TagDigit && isNumericSeparator(r, raw) && nextIsDigit(rs, i, cls):
			// A comma or period between digits stays with the digit run so
			// the number normalizer can judge it later. The raw punctuation
			// identity is not lost: the normalizer re-examines every
			// separator inside a numeric run.
		case raw == language.TagSpace:
			if !open {
				openRun(cls.Fallback)
			}
		case raw == language.TagDigit && opts.IgnoreDigits:
			if !open {
				openRun(cls.Fallback)
			}
		case raw == language.TagPunct && opts.IgnorePunct:
			if !open {
				openRun(cls.Fallback)
			}
		default:
			closeRun()
			openRun(raw)
		}
		buf.WriteRune(r)
	}
	closeRun()
	return runs
}

func isNumericSeparator(r rune, raw language.Tag) bool {
	return raw == language.TagPunct && (r == ',' || r == '.')
}

func nextIsDigit(rs []rune, i int, cls language.Classifier) bool {
	if i+1 >= len(rs) {
		return false
	}
	return cls.Classify(rs[i+1]) == language.TagDigit
}
