package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/George-br/WorldVoice/internal/bus"
	"github.com/George-br/WorldVoice/internal/protocol"
	"github.com/nats-io/nats.go"
)

// Service subscribes every registered binding to its directive subject and
// replies when the utterance has been rendered. The reply is the async
// completion signal the dispatcher waits for before advancing.
type Service struct {
	registry *Registry
	bus      *bus.Client
	subs     []*nats.Subscription
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *slog.Logger
}

func NewService(parent context.Context, registry *Registry, busClient *bus.Client, log *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(parent)
	return &Service{
		registry: registry,
		bus:      busClient,
		ctx:      ctx,
		cancel:   cancel,
		logger:   log.With(slog.String("component", "engine-service")),
	}
}

func (s *Service) Start() error {
	for _, name := range s.registry.Names() {
		binding, _ := s.registry.Get(name)
		sub, err := s.bus.Conn().Subscribe(protocol.DirectiveSubject(name), s.handler(binding))
		if err != nil {
			for _, prev := range s.subs {
				_ = prev.Drain()
			}
			return err
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

func (s *Service) Close() {
	s.cancel()
	for _, sub := range s.subs {
		_ = sub.Drain()
	}
	s.wg.Wait()
}

func (s *Service) Healthy() bool {
	return len(s.subs) == len(s.registry.Names())
}

func (s *Service) handler(binding Binding) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var directive protocol.DirectiveMessage
		if err := json.Unmarshal(msg.Data, &directive); err != nil {
			s.logger.Warn("failed to decode directive", slogError(err))
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()

			ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
			defer cancel()

			if err := binding.Speak(ctx, directive); err != nil {
				s.logger.Warn("engine speak failed",
					slog.String("engine", binding.Name()), slogError(err))
			}
			// Reply even on failure: speech must never stall waiting for a
			// broken utterance.
			if msg.Reply != "" {
				_ = msg.Respond([]byte(`{"done":true}`))
			}
		}()
	}
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
