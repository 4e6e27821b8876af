// Package dispatch forwards pipeline directives to engine bindings over
// the bus, one at a time, advancing only on each engine's completion
// signal.
package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/George-br/WorldVoice/internal/bus"
	"github.com/George-br/WorldVoice/internal/engine"
	"github.com/George-br/WorldVoice/internal/pipeline"
	"github.com/George-br/WorldVoice/internal/protocol"
	"github.com/George-br/WorldVoice/internal/voice"
	"github.com/George-br/WorldVoice/internal/voicestore"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const speakTimeout = 10 * time.Second

type Service struct {
	session  pipeline.SessionConfig
	main     voice.Role
	store    *voicestore.Store
	registry *engine.Registry
	bus      *bus.Client
	sub      *nats.Subscription
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *slog.Logger

	utterances metric.Int64Counter
	pauses     metric.Int64Counter
}

func NewService(
	parent context.Context,
	session pipeline.SessionConfig,
	main voice.Role,
	store *voicestore.Store,
	registry *engine.Registry,
	busClient *bus.Client,
	log *slog.Logger,
) *Service {
	ctx, cancel := context.WithCancel(parent)
	s := &Service{
		session:  session,
		main:     main,
		store:    store,
		registry: registry,
		bus:      busClient,
		ctx:      ctx,
		cancel:   cancel,
		logger:   log.With(slog.String("component", "dispatch")),
	}
	s.initMetrics()
	return s
}

func (s *Service) initMetrics() {
	meter := otel.Meter("github.com/George-br/WorldVoice/dispatch")
	var err error
	if s.utterances, err = meter.Int64Counter("worldvoice.dispatch.utterances",
		metric.WithDescription("Utterance directives dispatched")); err != nil {
		s.logger.Warn("failed to create utterance counter", slogError(err))
	}
	if s.pauses, err = meter.Int64Counter("worldvoice.dispatch.pauses",
		metric.WithDescription("Pause directives dispatched")); err != nil {
		s.logger.Warn("failed to create pause counter", slogError(err))
	}
}

func (s *Service) Start() error {
	sub, err := s.bus.Conn().Subscribe(protocol.SubjectSpeak, s.handleSpeak)
	if err != nil {
		return err
	}
	s.sub = sub
	s.logger.Info("dispatch started",
		slog.String("detection_timing", string(s.session.DetectionTiming)))
	return nil
}

func (s *Service) Close() {
	s.cancel()
	if s.sub != nil {
		_ = s.sub.Drain()
	}
	s.wg.Wait()
}

func (s *Service) Healthy() bool { return s.sub != nil }

func (s *Service) handleSpeak(msg *nats.Msg) {
	var req protocol.SpeakRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Warn("failed to decode speak request", slogError(err))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatch(req)
	}()
}

func (s *Service) dispatch(req protocol.SpeakRequest) {
	snapCtx, cancelSnap := context.WithTimeout(s.ctx, speakTimeout)
	// A failing snapshot must not silence speech: fall back to an empty
	// map, which resolves everything to the main role.
	regions, err := s.store.Snapshot(snapCtx)
	cancelSnap()
	if err != nil {
		s.logger.Warn("region snapshot failed, using main role only", slogError(err))
		regions = voice.RegionMap{}
	}

	session := s.session
	session.SayAll = req.SayAll
	directives := pipeline.Speak(req.Text, session, regions, s.main)

	// The deadline scales with the work: a continuous-reading request can
	// carry an arbitrarily long directive sequence, and a fixed wall clock
	// would cut it off mid-text.
	ctx, cancel := context.WithTimeout(s.ctx, requestBudget(directives))
	defer cancel()

	for i, d := range directives {
		select {
		case <-ctx.Done():
			s.publishDone(req, i, false)
			return
		default:
		}

		switch d.Kind {
		case pipeline.KindPause:
			s.add(s.pauses, ctx)
			if d.Pause > 0 {
				select {
				case <-ctx.Done():
					s.publishDone(req, i, false)
					return
				case <-time.After(d.Pause):
				}
			}
		case pipeline.KindUtterance:
			s.add(s.utterances, ctx)
			s.sendUtterance(ctx, req, i, d, i == len(directives)-1)
		}
	}
	s.publishDone(req, len(directives), true)
}

// sendUtterance publishes one utterance and blocks on the engine's reply.
// An unresolvable engine falls back to the main role; a timeout is logged
// and dispatch continues, because dropping a run is worse than overlapping
// it.
func (s *Service) sendUtterance(ctx context.Context, req protocol.SpeakRequest, seq int, d pipeline.Directive, final bool) {
	role := d.Role
	if !s.registry.Has(role.Engine) {
		s.logger.Warn("engine unavailable, falling back to main role",
			slog.String("engine", role.Engine))
		role = s.main
	}

	wire := protocol.DirectiveMessage{
		SessionID: req.SessionID,
		Sequence:  seq,
		Text:      d.Text,
		Lang:      string(d.Lang),
		Engine:    role.Engine,
		Voice:     role.Voice,
		Variant:   role.Variant,
		Speed:     d.Params.Speed,
		Pitch:     d.Params.Pitch,
		Volume:    d.Params.Volume,
		Final:     final,
	}
	data, err := json.Marshal(wire)
	if err != nil {
		s.logger.Warn("failed to marshal directive", slogError(err))
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, speakTimeout)
	defer cancel()
	if _, err := s.bus.Conn().RequestWithContext(reqCtx, protocol.DirectiveSubject(role.Engine), data); err != nil {
		s.logger.Warn("engine did not acknowledge directive",
			slog.String("engine", role.Engine), slog.Int("sequence", seq), slogError(err))
	}
}

func (s *Service) publishDone(req protocol.SpeakRequest, directives int, completed bool) {
	done := protocol.SpeakDone{
		SessionID:  req.SessionID,
		Directives: directives,
		Completed:  completed,
		Timestamp:  time.Now().UTC(),
	}
	data, err := json.Marshal(done)
	if err != nil {
		return
	}
	if err := s.bus.Conn().Publish(protocol.SubjectSpeakDone, data); err != nil {
		s.logger.Warn("failed to publish speak done", slogError(err))
	}
}

// requestBudget sizes a request's deadline from its directive sequence:
// one speak timeout per utterance plus the sum of the pause delays, with
// one extra timeout of headroom.
func requestBudget(directives []pipeline.Directive) time.Duration {
	budget := speakTimeout
	for _, d := range directives {
		switch d.Kind {
		case pipeline.KindUtterance:
			budget += speakTimeout
		case pipeline.KindPause:
			budget += d.Pause
		}
	}
	return budget
}

func (s *Service) add(counter metric.Int64Counter, ctx context.Context) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
