package protocol

import "time"

// SpeakRequest asks the dispatcher to speak one text unit.
type SpeakRequest struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	SayAll    bool      `json:"say_all,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DirectiveMessage is one pipeline directive on the wire, addressed to a
// single engine binding. Engine params are already mapped to the binding's
// native range by the subscriber, not here: the wire carries the
// normalized 0-100 values.
type DirectiveMessage struct {
	SessionID string `json:"session_id"`
	Sequence  int    `json:"sequence"`
	Text      string `json:"text"`
	Lang      string `json:"lang"`
	Engine    string `json:"engine"`
	Voice     string `json:"voice"`
	Variant   string `json:"variant,omitempty"`
	Speed     int    `json:"speed"`
	Pitch     int    `json:"pitch"`
	Volume    int    `json:"volume"`
	Final     bool   `json:"final"`
}

// SpeakDone reports that a whole request finished dispatching.
type SpeakDone struct {
	SessionID  string    `json:"session_id"`
	Directives int       `json:"directives"`
	Completed  bool      `json:"completed"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	SubjectSpeak           = "speech.say"
	SubjectDirectivePrefix = "speech.directive"
	SubjectSpeakDone       = "speech.done"
)

// DirectiveSubject returns the per-engine directive subject.
func DirectiveSubject(engine string) string {
	return SubjectDirectivePrefix + "." + engine
}
