package engine

import (
	"context"
	"sync"
	"time"

	"github.com/George-br/WorldVoice/internal/config"
	"github.com/George-br/WorldVoice/internal/protocol"
)

// mockBinding renders nothing and completes after a short delay scaled by
// text length, which is enough to exercise the dispatch ordering.
type mockBinding struct {
	ranges

	mu     sync.Mutex
	spoken []protocol.DirectiveMessage
}

func NewMock(cfg config.EngineConfig) Binding {
	return &mockBinding{ranges: rangesFromConfig(cfg)}
}

func (m *mockBinding) Speak(ctx context.Context, msg protocol.DirectiveMessage) error {
	delay := time.Millisecond * time.Duration(1+len(msg.Text)/8)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
	}
	m.mu.Lock()
	m.spoken = append(m.spoken, msg)
	m.mu.Unlock()
	return nil
}

// Spoken returns the utterances rendered so far, in order.
func (m *mockBinding) Spoken() []protocol.DirectiveMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]protocol.DirectiveMessage(nil), m.spoken...)
}
