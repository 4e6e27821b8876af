// Package voice defines voice roles, the region voice map and the rules
// that keep per-role parameters consistent with the main role.
package voice

import "github.com/George-br/WorldVoice/internal/language"

// Params are the speaking parameters of a role, each normalized to the
// 0-100 range. The mapping onto an engine's native range is non-linear and
// lives in the engine binding layer; a stored 50 is not the engine's native
// midpoint.
type Params struct {
	Speed  int `json:"speed" yaml:"speed"`
	Pitch  int `json:"pitch" yaml:"pitch"`
	Volume int `json:"volume" yaml:"volume"`
}

// Role is a concrete (engine, voice, variant) tuple plus its stored
// speaking parameters.
type Role struct {
	Engine  string `json:"engine" yaml:"engine"`
	Voice   string `json:"voice" yaml:"voice"`
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`
	Params  Params `json:"params" yaml:"params"`
}

// SameVoice reports whether two roles name the same spoken identity,
// ignoring parameters.
func (r Role) SameVoice(other Role) bool {
	return r.Engine == other.Engine && r.Voice == other.Voice && r.Variant == other.Variant
}

// Mapping is one entry of the region voice map. NoSelect means "defer to
// the main role for this tag".
type Mapping struct {
	NoSelect bool `json:"no_select"`
	Role     Role `json:"role"`
}

// RegionMap maps language tags to voice roles. It is owned by the
// configuration subsystem; the pipeline only ever reads a snapshot.
type RegionMap map[language.Tag]Mapping

// Resolve returns the role that should speak a run with the given tag.
// Pure and total: an absent or NoSelect mapping resolves to the main role.
func Resolve(tag language.Tag, regions RegionMap, main Role) Role {
	m, ok := regions[tag]
	if !ok || m.NoSelect {
		return main
	}
	return m.Role
}

// Consistency flags force parts of a resolved role back to the main role.
// The three flags are independent and govern disjoint fields, so their
// order of application does not matter.
type Consistency struct {
	Engine     bool `json:"engine" yaml:"engine"`
	Voice      bool `json:"voice" yaml:"voice"`
	Parameters bool `json:"parameters" yaml:"parameters"`
}

// EffectiveRole applies the consistency flags to a resolved role. With
// parameter consistency on, speed/pitch/volume come from the main role on
// every call; no stored per-role value changes.
func EffectiveRole(role, main Role, flags Consistency) Role {
	if flags.Engine {
		role.Engine = main.Engine
	}
	if flags.Voice {
		role.Voice = main.Voice
		role.Variant = main.Variant
	}
	if flags.Parameters {
		role.Params = main.Params
	}
	return role
}

// EffectiveParams returns just the parameters a role speaks with under the
// given consistency flags.
func EffectiveParams(role, main Role, flags Consistency) Params {
	return EffectiveRole(role, main, flags).Params
}
