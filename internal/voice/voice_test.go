package voice

import (
	"testing"

	"github.com/George-br/WorldVoice/internal/language"
)

var (
	mainRole = Role{Engine: "mock", Voice: "default", Params: Params{Speed: 50, Pitch: 50, Volume: 80}}
	zhRole   = Role{Engine: "espeak", Voice: "zh", Variant: "f3", Params: Params{Speed: 60, Pitch: 45, Volume: 90}}
)

func TestResolveMappedTag(t *testing.T) {
	regions := RegionMap{language.TagChinese: {Role: zhRole}}
	if got := Resolve(language.TagChinese, regions, mainRole); got != zhRole {
		t.Fatalf("expected mapped role, got %+v", got)
	}
}

func TestResolveAbsentTagFallsBack(t *testing.T) {
	regions := RegionMap{language.TagChinese: {Role: zhRole}}
	if got := Resolve(language.TagKorean, regions, mainRole); got != mainRole {
		t.Fatalf("expected main role for absent tag, got %+v", got)
	}
}

func TestResolveNoSelectFallsBack(t *testing.T) {
	regions := RegionMap{language.TagChinese: {NoSelect: true, Role: zhRole}}
	if got := Resolve(language.TagChinese, regions, mainRole); got != mainRole {
		t.Fatalf("expected main role for no-select mapping, got %+v", got)
	}
}

func TestResolveIdempotent(t *testing.T) {
	regions := RegionMap{language.TagChinese: {Role: zhRole}}
	first := Resolve(language.TagChinese, regions, mainRole)
	second := Resolve(language.TagChinese, regions, mainRole)
	if first != second {
		t.Fatalf("resolution not stable: %+v vs %+v", first, second)
	}
}

func TestSameVoiceIgnoresParams(t *testing.T) {
	a := zhRole
	b := zhRole
	b.Params.Speed = 10
	if !a.SameVoice(b) {
		t.Fatal("parameter change must not change voice identity")
	}
	b.Variant = "f4"
	if a.SameVoice(b) {
		t.Fatal("variant change must change voice identity")
	}
}

func TestEffectiveRoleFlagsIndependent(t *testing.T) {
	got := EffectiveRole(zhRole, mainRole, Consistency{Engine: true})
	if got.Engine != mainRole.Engine {
		t.Fatalf("expected engine forced to main, got %q", got.Engine)
	}
	if got.Voice != zhRole.Voice || got.Params != zhRole.Params {
		t.Fatalf("engine flag must not touch voice or params: %+v", got)
	}

	got = EffectiveRole(zhRole, mainRole, Consistency{Voice: true})
	if got.Voice != mainRole.Voice || got.Variant != mainRole.Variant {
		t.Fatalf("expected voice forced to main, got %+v", got)
	}
	if got.Engine != zhRole.Engine {
		t.Fatalf("voice flag must not touch engine: %+v", got)
	}

	got = EffectiveRole(zhRole, mainRole, Consistency{Parameters: true})
	if got.Params != mainRole.Params {
		t.Fatalf("expected params forced to main, got %+v", got)
	}
	if got.Engine != zhRole.Engine || got.Voice != zhRole.Voice {
		t.Fatalf("parameter flag must not touch identity: %+v", got)
	}
}

func TestEffectiveRoleNoFlagsIsIdentity(t *testing.T) {
	if got := EffectiveRole(zhRole, mainRole, Consistency{}); got != zhRole {
		t.Fatalf("no flags must not change the role: %+v", got)
	}
}

func TestEffectiveParamsTracksMainChanges(t *testing.T) {
	flags := Consistency{Parameters: true}
	main := mainRole
	if got := EffectiveParams(zhRole, main, flags); got != main.Params {
		t.Fatalf("expected main params, got %+v", got)
	}
	// A later main-role change shows up on the next call without any stored
	// per-role value changing.
	main.Params.Speed = 70
	if got := EffectiveParams(zhRole, main, flags); got.Speed != 70 {
		t.Fatalf("expected updated main speed, got %+v", got)
	}
	if zhRole.Params.Speed != 60 {
		t.Fatalf("stored role params mutated: %+v", zhRole.Params)
	}
}
