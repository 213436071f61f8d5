package orch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

var opus = domain.RTPCodecCapability{Kind: domain.KindAudio, MimeType: "audio/opus", ClockRate: 48000, Channels: 2}

func opusParams() domain.RTPParameters {
	return domain.RTPParameters{
		Codecs:    []domain.RTPCodecParameters{{MimeType: "audio/opus", PayloadType: 111, ClockRate: 48000, Channels: 2}},
		Encodings: []domain.RTPEncodingParameters{{SSRC: 1111}},
	}
}

func opusCaps() domain.RTPCapabilities {
	return domain.RTPCapabilities{Codecs: []domain.RTPCodecCapability{opus}}
}

type fakeEngine struct {
	seq atomic.Int64

	mu         sync.Mutex
	notReady   int
	neverReady bool
	producers  map[domain.ProducerID]*fakeProducer

	// produceGate, when set, blocks Produce until closed; produceEntered is
	// signalled once Produce is waiting on it.
	produceGate    chan struct{}
	produceEntered chan struct{}

	// stallConnect makes Connect hang until its context is done.
	stallConnect bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{producers: make(map[domain.ProducerID]*fakeProducer)}
}

func (e *fakeEngine) next(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, e.seq.Add(1))
}

func (e *fakeEngine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.neverReady {
		return false
	}
	if e.notReady > 0 {
		e.notReady--
		return false
	}
	return true
}

func (e *fakeEngine) RTPCapabilities() domain.RTPCapabilities { return opusCaps() }

func (e *fakeEngine) CreateWebRtcTransport(_ context.Context, _ core.TransportOptions) (core.EngineTransport, error) {
	id := domain.TransportID(e.next("t"))
	return &fakeTransport{id: id, engine: e, stall: e.stallConnect}, nil
}

func (e *fakeEngine) CanConsume(id domain.ProducerID, caps domain.RTPCapabilities) bool {
	e.mu.Lock()
	p, ok := e.producers[id]
	e.mu.Unlock()
	if !ok || p.isClosed() {
		return false
	}
	for _, c := range caps.Codecs {
		if domain.SameCodec(p.codec.MimeType, p.codec.ClockRate, p.codec.Channels, c) {
			return true
		}
	}
	return false
}

func (e *fakeEngine) producer(id domain.ProducerID) (*fakeProducer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.producers[id]
	return p, ok
}

type fakeTransport struct {
	id        domain.TransportID
	engine    *fakeEngine
	connected atomic.Bool
	closed    atomic.Bool
	failWith  error
	stall     bool
}

func (t *fakeTransport) ID() domain.TransportID { return t.id }

func (t *fakeTransport) Params() domain.TransportParams {
	return domain.TransportParams{
		ID:             t.id,
		ICEParameters:  domain.ICEParameters{UsernameFragment: "u", Password: "p", ICELite: true},
		ICECandidates:  []domain.ICECandidate{{Foundation: "1", IP: "127.0.0.1", Port: 40000, Protocol: "udp", Type: "host"}},
		DTLSParameters: domain.DTLSParameters{Role: "auto", Fingerprints: []domain.DTLSFingerprint{{Algorithm: "sha-256", Value: "AA"}}},
	}
}

func (t *fakeTransport) Connect(ctx context.Context, _ domain.RemoteTransportParams) error {
	if t.stall {
		<-ctx.Done()
		return ctx.Err()
	}
	if t.failWith != nil {
		return t.failWith
	}
	t.connected.Store(true)
	return nil
}

func (t *fakeTransport) Produce(ctx context.Context, kind domain.MediaKind, params domain.RTPParameters) (core.EngineProducer, error) {
	e := t.engine
	if e.produceGate != nil {
		if e.produceEntered != nil {
			close(e.produceEntered)
		}
		select {
		case <-e.produceGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := params.Codecs[0]
	p := &fakeProducer{
		id:    domain.ProducerID(e.next("p")),
		kind:  kind,
		codec: domain.RTPCodecCapability{MimeType: c.MimeType, ClockRate: c.ClockRate, Channels: c.Channels},
	}
	e.mu.Lock()
	e.producers[p.id] = p
	e.mu.Unlock()
	return p, nil
}

func (t *fakeTransport) Consume(_ context.Context, producerID domain.ProducerID, _ domain.RTPCapabilities, paused bool) (core.EngineConsumer, error) {
	p, ok := t.engine.producer(producerID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := &fakeConsumer{id: domain.ConsumerID(t.engine.next("c")), producer: p}
	c.paused.Store(paused)
	return c, nil
}

func (t *fakeTransport) Close() error {
	t.closed.Store(true)
	return nil
}

type fakeProducer struct {
	id     domain.ProducerID
	kind   domain.MediaKind
	codec  domain.RTPCodecCapability
	closed atomic.Bool
}

func (p *fakeProducer) ID() domain.ProducerID  { return p.id }
func (p *fakeProducer) Kind() domain.MediaKind { return p.kind }
func (p *fakeProducer) isClosed() bool         { return p.closed.Load() }

func (p *fakeProducer) Close() error {
	p.closed.Store(true)
	return nil
}

type fakeConsumer struct {
	id       domain.ConsumerID
	producer *fakeProducer
	paused   atomic.Bool
	closed   atomic.Bool
}

func (c *fakeConsumer) ID() domain.ConsumerID         { return c.id }
func (c *fakeConsumer) ProducerID() domain.ProducerID { return c.producer.id }
func (c *fakeConsumer) Kind() domain.MediaKind        { return c.producer.kind }
func (c *fakeConsumer) Type() string                  { return "simple" }
func (c *fakeConsumer) Paused() bool                  { return c.paused.Load() }

func (c *fakeConsumer) RTPParameters() domain.RTPParameters { return opusParams() }

func (c *fakeConsumer) Resume(_ context.Context) error {
	if c.closed.Load() || c.producer.isClosed() {
		return fmt.Errorf("consumer %s: %w", c.id, domain.ErrNotFound)
	}
	c.paused.Store(false)
	return nil
}

func (c *fakeConsumer) Close() error {
	c.closed.Store(true)
	return nil
}

type sent struct {
	To      domain.SessionID
	Room    domain.RoomID
	Event   string
	Payload any
}

// recorder is a Messenger that keeps every delivery.
type recorder struct {
	rooms core.RoomIndex

	mu   sync.Mutex
	sent []sent

	onRoom func(event string, payload any)
}

func (r *recorder) Emit(to domain.SessionID, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{To: to, Event: event, Payload: payload})
	return nil
}

func (r *recorder) EmitRoom(room domain.RoomID, except domain.SessionID, event string, payload any) core.PublishResult {
	if r.onRoom != nil {
		r.onRoom(event, payload)
	}
	res := core.PublishResult{}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sid := range r.rooms.Members(room) {
		if sid == except {
			continue
		}
		r.sent = append(r.sent, sent{To: sid, Room: room, Event: event, Payload: payload})
		res.SendTo++
	}
	return res
}

func (r *recorder) Broadcast(_ domain.SessionID, event string, payload any) core.PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{Event: event, Payload: payload})
	return core.PublishResult{}
}

func (r *recorder) events(to domain.SessionID, event string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, 0)
	for _, s := range r.sent {
		if s.To == to && s.Event == event {
			out = append(out, s.Payload)
		}
	}
	return out
}

func (r *recorder) errorEvents(to domain.SessionID) []ErrorPayload {
	out := make([]ErrorPayload, 0)
	for _, p := range r.events(to, EventError) {
		out = append(out, p.(ErrorPayload))
	}
	return out
}

func newTestOrchestrator(engine core.MediaEngine) (*Orchestrator, *recorder) {
	rooms := app.NewRoomIndex(app.DefaultRoomCapacity)
	media := app.NewMediaFacade(engine, 0)
	rec := &recorder{rooms: rooms}
	o := &Orchestrator{
		Registry: app.NewRegistry(media),
		Rooms:    rooms,
		Media:    media,
		Signal:   rec,
		Sessions: NewSessions(),
		CapsRetry: app.RetryPolicy{
			MaxRetries: 3,
			BaseDelay:  time.Millisecond,
			Retryable:  func(err error) bool { return errors.Is(err, domain.ErrEngineUnavailable) },
		},
		NegotiationTimeout: time.Second,
	}
	return o, rec
}

func remoteParams() domain.RemoteTransportParams {
	return domain.RemoteTransportParams{
		DTLSParameters: domain.DTLSParameters{Role: "client", Fingerprints: []domain.DTLSFingerprint{{Algorithm: "sha-256", Value: "BB"}}},
		ICEParameters:  &domain.ICEParameters{UsernameFragment: "ru", Password: "rp"},
	}
}
