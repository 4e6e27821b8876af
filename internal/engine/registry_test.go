package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/George-br/WorldVoice/internal/config"
	"github.com/George-br/WorldVoice/internal/protocol"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mockConfig(name string) config.EngineConfig {
	return config.EngineConfig{
		Name:      name,
		Mode:      "mock",
		RateMin:   80,
		RateMax:   450,
		PitchMin:  0,
		PitchMax:  99,
		VolumeMin: 0,
		VolumeMax: 100,
	}
}

func TestRegistryLookup(t *testing.T) {
	r, err := NewRegistry([]config.EngineConfig{mockConfig("mock"), mockConfig("other")}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Has("mock") || !r.Has("other") {
		t.Fatalf("expected both engines registered, got %v", r.Names())
	}
	if r.Has("absent") {
		t.Fatal("unexpected engine")
	}
	b, ok := r.Get("mock")
	if !ok || b.Name() != "mock" {
		t.Fatalf("unexpected binding: %+v", b)
	}
	if len(r.Names()) != 2 {
		t.Fatalf("expected 2 names, got %v", r.Names())
	}
}

func TestRegistryRejectsUnknownMode(t *testing.T) {
	bad := mockConfig("bad")
	bad.Mode = "dbus"
	if _, err := NewRegistry([]config.EngineConfig{bad}, testLogger()); err == nil {
		t.Fatal("expected error for unknown engine mode")
	}
}

func TestBindingNativeRanges(t *testing.T) {
	cfg := mockConfig("mock")
	cfg.RateBoost = true
	b := NewMock(cfg)
	if min, max := b.NativeRange(ParamRate); min != 80 || max != 450 {
		t.Fatalf("unexpected rate range %d-%d", min, max)
	}
	if min, max := b.NativeRange(ParamPitch); min != 0 || max != 99 {
		t.Fatalf("unexpected pitch range %d-%d", min, max)
	}
	if min, max := b.NativeRange(ParamVolume); min != 0 || max != 100 {
		t.Fatalf("unexpected volume range %d-%d", min, max)
	}
	if !b.SupportsRateBoost() {
		t.Fatal("expected rate boost capability")
	}
	if b.SupportsVariant() {
		t.Fatal("unexpected variant capability")
	}
}

func TestMockSpeakRecordsInOrder(t *testing.T) {
	b := NewMock(mockConfig("mock")).(*mockBinding)
	ctx := context.Background()
	for _, text := range []string{"first", "second", "third"} {
		if err := b.Speak(ctx, protocol.DirectiveMessage{Text: text}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	spoken := b.Spoken()
	if len(spoken) != 3 {
		t.Fatalf("expected 3 utterances, got %d", len(spoken))
	}
	if spoken[0].Text != "first" || spoken[2].Text != "third" {
		t.Fatalf("utterances out of order: %+v", spoken)
	}
}

func TestMockSpeakHonorsContext(t *testing.T) {
	b := NewMock(mockConfig("mock"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	if err := b.Speak(ctx, protocol.DirectiveMessage{Text: "should not render"}); err == nil {
		t.Fatal("expected context error")
	}
}
