package pipeline

import (
	"time"

	"github.com/George-br/WorldVoice/internal/language"
	"github.com/George-br/WorldVoice/internal/voice"
)

// Kind discriminates the two directive shapes.
type Kind string

const (
	KindUtterance Kind = "utterance"
	KindPause     Kind = "pause"
)

// Directive is one element of the ordered sequence handed to the dispatch
// layer: either an utterance bound to a role, or a pause. Directives are
// built once per input text and never retained.
type Directive struct {
	Kind   Kind         `json:"kind"`
	Text   string       `json:"text,omitempty"`
	Lang   language.Tag `json:"lang,omitempty"`
	Role   voice.Role   `json:"role,omitempty"`
	Params voice.Params `json:"params,omitempty"`
	Pause  time.Duration `json:"pause,omitempty"`
}

// Utterance builds a speak directive.
func Utterance(text string, lang language.Tag, role voice.Role) Directive {
	return Directive{
		Kind:   KindUtterance,
		Text:   text,
		Lang:   lang,
		Role:   role,
		Params: role.Params,
	}
}

// PauseFor builds a pause directive. A zero duration is a valid directive:
// the role switch still happens, just without delay.
func PauseFor(d time.Duration) Directive {
	return Directive{Kind: KindPause, Pause: d}
}
