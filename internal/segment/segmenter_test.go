package segment

import (
	"strings"
	"testing"

	"github.com/George-br/WorldVoice/internal/language"
)

func reconstruct(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func TestSegmentMixedScripts(t *testing.T) {
	cls := language.NewClassifier(language.TagLatin)
	runs := Segment("我愛Python", cls, Options{})
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].Text != "我愛" || runs[0].Tag != language.TagChinese {
		t.Fatalf("unexpected first run: %+v", runs[0])
	}
	if runs[1].Text != "Python" || runs[1].Tag != language.TagLatin {
		t.Fatalf("unexpected second run: %+v", runs[1])
	}
}

func TestSegmentDigitsOpenRun(t *testing.T) {
	cls := language.NewClassifier(language.TagLatin)
	runs := Segment("我愛Python3000", cls, Options{})
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d: %+v", len(runs), runs)
	}
	last := runs[2]
	if last.Text != "3000" || last.Tag != language.TagDigit || !last.Numeric {
		t.Fatalf("unexpected digit run: %+v", last)
	}
}

func TestSegmentWhitespaceInherits(t *testing.T) {
	cls := language.NewClassifier(language.TagLatin)
	runs := Segment("Hello 世界", cls, Options{})
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].Text != "Hello " {
		t.Fatalf("expected space folded into latin run, got %q", runs[0].Text)
	}
	if runs[1].Text != "世界" || runs[1].Tag != language.TagChinese {
		t.Fatalf("unexpected second run: %+v", runs[1])
	}
}

func TestSegmentLeadingSpaceTakesFallback(t *testing.T) {
	cls := language.NewClassifier(language.TagChinese)
	runs := Segment("  你好", cls, Options{})
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d: %+v", len(runs), runs)
	}
	if runs[0].Tag != language.TagChinese || runs[0].Text != "  你好" {
		t.Fatalf("unexpected run: %+v", runs[0])
	}
}

func TestSegmentIgnoreDigits(t *testing.T) {
	cls := language.NewClassifier(language.TagLatin)
	runs := Segment("abc123def", cls, Options{IgnoreDigits: true})
	if len(runs) != 1 {
		t.Fatalf("expected digits folded into one run, got %+v", runs)
	}
	if runs[0].Text != "abc123def" || runs[0].Tag != language.TagLatin {
		t.Fatalf("unexpected run: %+v", runs[0])
	}
	if runs[0].Numeric {
		t.Fatal("folded run must not be numeric")
	}
}

func TestSegmentLeadingIgnoredDigitsTakeFallback(t *testing.T) {
	cls := language.NewClassifier(language.TagLatin)
	runs := Segment("12你好", cls, Options{IgnoreDigits: true})
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].Text != "12" || runs[0].Tag != language.TagLatin {
		t.Fatalf("unexpected leading run: %+v", runs[0])
	}
}

func TestSegmentIgnoredDigitsInheritPunctRun(t *testing.T) {
	// Inheritance is literal: an ignored digit joins whatever run is open,
	// including a punctuation run, rather than reaching back to the last
	// letter run.
	cls := language.NewClassifier(language.TagLatin)
	runs := Segment("a, 12", cls, Options{IgnoreDigits: true})
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].Text != "a" || runs[0].Tag != language.TagLatin {
		t.Fatalf("unexpected first run: %+v", runs[0])
	}
	if runs[1].Text != ", 12" || runs[1].Tag != language.TagPunct {
		t.Fatalf("unexpected second run: %+v", runs[1])
	}
	if runs[1].Numeric {
		t.Fatal("ignored digits must not mark the run numeric")
	}
}

func TestSegmentIgnorePunct(t *testing.T) {
	cls := language.NewClassifier(language.TagLatin)
	runs := Segment("hi, there", cls, Options{IgnorePunct: true})
	if len(runs) != 1 {
		t.Fatalf("expected punctuation folded into one run, got %+v", runs)
	}
}

func TestSegmentNumericSeparatorStaysWithDigits(t *testing.T) {
	cls := language.NewClassifier(language.TagLatin)
	runs := Segment("price 1,234.5 up", cls, Options{})

	var digit *Run
	for i := range runs {
		if runs[i].Numeric {
			digit = &runs[i]
		}
	}
	if digit == nil {
		t.Fatalf("expected a numeric run in %+v", runs)
	}
	if !strings.Contains(digit.Text, "1,234.5") {
		t.Fatalf("expected separators kept inside numeric run, got %q", digit.Text)
	}
}

func TestSegmentSeparatorWithoutFollowingDigitBreaks(t *testing.T) {
	cls := language.NewClassifier(language.TagLatin)
	runs := Segment("1, 2", cls, Options{})
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].Text != "1" || !runs[0].Numeric {
		t.Fatalf("unexpected first run: %+v", runs[0])
	}
	if runs[1].Tag != language.TagPunct {
		t.Fatalf("expected punct run between numbers, got %+v", runs[1])
	}
	if runs[2].Text != "2" || !runs[2].Numeric {
		t.Fatalf("unexpected last run: %+v", runs[2])
	}
}

func TestSegmentReconstruction(t *testing.T) {
	cls := language.NewClassifier(language.TagLatin)
	inputs := []string{
		"",
		"plain",
		"我愛Python3000",
		"  leading and trailing  ",
		"価格は1,234,567円です",
		"Привет, мир! 42",
		"中文 空格 邊界",
	}
	for _, in := range inputs {
		for _, opts := range []Options{{}, {IgnoreDigits: true}, {IgnorePunct: true}, {IgnoreDigits: true, IgnorePunct: true}} {
			runs := Segment(in, cls, opts)
			if got := reconstruct(runs); got != in {
				t.Fatalf("reconstruction mismatch for %q with %+v: got %q", in, opts, got)
			}
			for _, r := range runs {
				if r.Text == "" {
					t.Fatalf("empty run produced for %q: %+v", in, runs)
				}
			}
		}
	}
}

func TestSegmentAdjacentRunsDiffer(t *testing.T) {
	cls := language.NewClassifier(language.TagLatin)
	runs := Segment("abc我愛def你好123", cls, Options{})
	for i := 1; i < len(runs); i++ {
		if runs[i].Tag == runs[i-1].Tag {
			t.Fatalf("adjacent runs share tag %q: %+v", runs[i].Tag, runs)
		}
	}
}
