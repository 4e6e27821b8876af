package numbers

import (
	"testing"

	"github.com/George-br/WorldVoice/internal/language"
	"github.com/George-br/WorldVoice/internal/segment"
)

func numericRun(text string) segment.Run {
	return segment.Run{Text: text, Tag: language.TagDigit, Numeric: true}
}

func texts(runs []segment.Run) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.Text
	}
	return out
}

func TestNormalizePassesNonNumericThrough(t *testing.T) {
	in := []segment.Run{
		{Text: "hello", Tag: language.TagLatin},
		{Text: "你好", Tag: language.TagChinese},
	}
	out := Normalize(in, Options{Mode: ModeValue, Language: language.TagLatin})
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("non-numeric runs changed: %+v", out)
	}
}

func TestNormalizeStripsValidGrouping(t *testing.T) {
	out := Normalize([]segment.Run{numericRun("1,234,567")},
		Options{IgnoreComma: true, Mode: ModeValue, Language: language.TagLatin})
	if len(out) != 1 {
		t.Fatalf("expected a single token, got %v", texts(out))
	}
	if out[0].Text != "1234567" {
		t.Fatalf("expected commas stripped, got %q", out[0].Text)
	}
	if !out[0].Numeric || out[0].Tag != language.TagDigit {
		t.Fatalf("token lost numeric identity: %+v", out[0])
	}
	if out[0].Lang != language.TagLatin {
		t.Fatalf("expected pronunciation language on token, got %q", out[0].Lang)
	}
}

func TestNormalizeStripsGroupingWithDecimal(t *testing.T) {
	out := Normalize([]segment.Run{numericRun("1,234.56")},
		Options{IgnoreComma: true, Mode: ModeValue, Language: language.TagLatin})
	if len(out) != 1 || out[0].Text != "1234.56" {
		t.Fatalf("expected one decimal token, got %v", texts(out))
	}
}

func TestNormalizeKeepsCommasWhenDisabled(t *testing.T) {
	out := Normalize([]segment.Run{numericRun("1,234")},
		Options{IgnoreComma: false, Mode: ModeValue, Language: language.TagLatin})
	want := []string{"1", ",", "234"}
	got := texts(out)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if out[1].Numeric || out[1].Tag != language.TagPunct {
		t.Fatalf("comma should stay literal punctuation: %+v", out[1])
	}
}

func TestNormalizeMalformedGroupingStaysLiteral(t *testing.T) {
	// "1,23" is not a valid thousands grouping, so the comma is spoken text
	// even when comma stripping is on.
	out := Normalize([]segment.Run{numericRun("1,23")},
		Options{IgnoreComma: true, Mode: ModeValue, Language: language.TagLatin})
	want := []string{"1", ",", "23"}
	got := texts(out)
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeVersionStringNotMerged(t *testing.T) {
	out := Normalize([]segment.Run{numericRun("1.2.3")},
		Options{Mode: ModeValue, Language: language.TagLatin})
	want := []string{"1.2", ".", "3"}
	got := texts(out)
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !out[0].Numeric {
		t.Fatalf("decimal token lost numeric identity: %+v", out[0])
	}
	if out[1].Numeric {
		t.Fatalf("bare period must stay literal: %+v", out[1])
	}
}

func TestNormalizeDigitMode(t *testing.T) {
	out := Normalize([]segment.Run{numericRun("42")},
		Options{Mode: ModeDigit, Language: language.TagChinese})
	got := texts(out)
	if len(got) != 2 || got[0] != "4" || got[1] != "2" {
		t.Fatalf("expected per-digit tokens, got %v", got)
	}
	for _, r := range out {
		if !r.Numeric || r.Lang != language.TagChinese {
			t.Fatalf("digit token malformed: %+v", r)
		}
	}
}

func TestNormalizeDigitModePeriodLiteral(t *testing.T) {
	out := Normalize([]segment.Run{numericRun("3.5")},
		Options{Mode: ModeDigit, Language: language.TagLatin})
	want := []string{"3", ".", "5"}
	got := texts(out)
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeFoldedWhitespacePreserved(t *testing.T) {
	// The segmenter folds trailing whitespace into numeric runs; the
	// normalizer must keep it as a space run so text reconstructs exactly.
	out := Normalize([]segment.Run{numericRun("1,234 ")},
		Options{IgnoreComma: true, Mode: ModeValue, Language: language.TagLatin})
	if len(out) != 2 {
		t.Fatalf("expected token plus space, got %v", texts(out))
	}
	if out[0].Text != "1234" {
		t.Fatalf("expected stripped token, got %q", out[0].Text)
	}
	if out[1].Text != " " || out[1].Tag != language.TagSpace {
		t.Fatalf("expected trailing space run, got %+v", out[1])
	}
}
