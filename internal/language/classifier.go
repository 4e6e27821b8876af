package language

import "unicode"

// Tag identifies the script or category a character belongs to. Tags are
// opaque identifiers compared only for equality; they double as the keys of
// the region voice map.
type Tag string

const (
	TagChinese  Tag = "zh"
	TagJapanese Tag = "ja"
	TagKorean   Tag = "ko"
	TagLatin    Tag = "en"
	TagCyrillic Tag = "ru"
	TagArabic   Tag = "ar"
	TagDigit    Tag = "digit"
	TagPunct    Tag = "punct"
	TagSpace    Tag = "space"
)

// Classifier maps single code points to language tags using Unicode
// code-point ranges. It is pure and total: every rune gets a tag, with
// unassigned ranges falling back to Fallback (the main role's language).
type Classifier struct {
	// Fallback is returned for runes outside every known range.
	Fallback Tag
}

// NewClassifier returns a classifier whose unknown ranges map to fallback.
func NewClassifier(fallback Tag) Classifier {
	if fallback == "" {
		fallback = TagLatin
	}
	return Classifier{Fallback: fallback}
}

// Classify returns the tag for a single rune. Digits and punctuation are
// tagged separately from letters even though the segmenter may later fold
// them into a neighboring run; the raw identity is needed downstream by the
// number normalizer.
func (c Classifier) Classify(r rune) Tag {
	switch {
	case unicode.IsSpace(r):
		return TagSpace
	case unicode.IsDigit(r):
		return TagDigit
	case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
		return TagJapanese
	case unicode.Is(unicode.Han, r):
		return TagChinese
	case unicode.Is(unicode.Hangul, r):
		return TagKorean
	case unicode.Is(unicode.Latin, r):
		return TagLatin
	case unicode.Is(unicode.Cyrillic, r):
		return TagCyrillic
	case unicode.Is(unicode.Arabic, r):
		return TagArabic
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return TagPunct
	default:
		return c.fallback()
	}
}

func (c Classifier) fallback() Tag {
	if c.Fallback == "" {
		return TagLatin
	}
	return c.Fallback
}

// Letter reports whether the tag names a writing system rather than a
// digit, punctuation or whitespace category.
func (t Tag) Letter() bool {
	switch t {
	case TagDigit, TagPunct, TagSpace:
		return false
	}
	return t != ""
}
