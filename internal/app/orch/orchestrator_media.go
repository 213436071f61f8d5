package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type ProduceRequest struct {
	TransportID   domain.TransportID
	Kind          domain.MediaKind
	RTPParameters domain.RTPParameters
	RoomID        domain.RoomID
}

type ConsumeRequest struct {
	ProducerID      domain.ProducerID
	RTPCapabilities domain.RTPCapabilities
	TransportID     domain.TransportID
	RoomID          domain.RoomID
}

// GetRouterRtpCapabilities is the only retried operation: it has no side
// effects. Exhausting the retries is reported as non-recoverable while the
// connection stays open.
func (o *Orchestrator) GetRouterRtpCapabilities(ctx context.Context, sid domain.SessionID) (domain.RTPCapabilities, error) {
	s, err := o.live(sid)
	if err != nil {
		return domain.RTPCapabilities{}, o.fail(sid, "getRouterRtpCapabilities", err)
	}
	s.advance(domain.StateCapabilitiesRequested)

	var caps domain.RTPCapabilities
	err = o.CapsRetry.Do(ctx, func(attempt int) error {
		c, err := o.Media.RouterCapabilities()
		if err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Int("attempt", attempt).Msg("router capabilities unavailable")
			return err
		}
		caps = c
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("router capabilities retries exhausted")
		o.emit(sid, EventError, ErrorPayload{
			Type:        domain.ErrTypeRouterCapabilities,
			Message:     err.Error(),
			Recoverable: false,
		})
		return domain.RTPCapabilities{}, err
	}
	o.emit(sid, EventRouterRtpCapabilities, caps)
	return caps, nil
}

// CreateWebRtcTransport always allocates a new transport and is never retried.
func (o *Orchestrator) CreateWebRtcTransport(ctx context.Context, sid domain.SessionID, sender bool) (domain.TransportParams, error) {
	s, err := o.live(sid)
	if err != nil {
		return domain.TransportParams{}, o.fail(sid, "createWebRtcTransport", err)
	}
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	t, params, err := o.Media.CreateTransport(ctx)
	if err != nil {
		return domain.TransportParams{}, o.fail(sid, "createWebRtcTransport", err)
	}
	role := domain.RoleFor(sender)
	if !s.record(func() { o.Registry.RegisterTransport(sid, t, role) }) {
		o.discard(sid, t)
		return domain.TransportParams{}, fmt.Errorf("session %s closed during transport creation: %w", sid, domain.ErrNotFound)
	}
	s.advance(domain.StateTransportsCreated)

	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("transport", string(params.ID)).Str("role", string(role)).Msg("transport created")
	o.emit(sid, EventTransportCreated, TransportCreated{Params: params, Sender: sender})
	return params, nil
}

func (o *Orchestrator) ConnectTransport(ctx context.Context, sid domain.SessionID, id domain.TransportID, remote domain.RemoteTransportParams) error {
	if _, err := o.live(sid); err != nil {
		return o.fail(sid, "connectTransport", err)
	}
	t, err := o.Registry.LookupTransport(sid, id, nil)
	if err != nil {
		return o.fail(sid, "connectTransport", err)
	}
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	if err := o.Media.ConnectTransport(ctx, t, remote); err != nil {
		return o.fail(sid, "connectTransport", err)
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("transport", string(id)).Msg("transport connected")
	o.emit(sid, EventTransportConnected, TransportConnected{TransportID: id})
	return nil
}

// Produce publishes a producer into req.RoomID. newProducer goes out only
// after the producer is recorded in both the registry and the room index.
func (o *Orchestrator) Produce(ctx context.Context, sid domain.SessionID, req ProduceRequest) (domain.ProducerID, error) {
	s, err := o.live(sid)
	if err != nil {
		return "", o.fail(sid, "produce", err)
	}
	if req.RoomID == "" {
		return "", o.fail(sid, "produce", fmt.Errorf("produce without room: %w", domain.ErrBadPayload))
	}
	producing := domain.RoleProducing
	t, err := o.Registry.LookupTransport(sid, req.TransportID, &producing)
	if err != nil {
		return "", o.fail(sid, "produce", err)
	}
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	p, err := o.Media.Produce(ctx, t, req.Kind, req.RTPParameters)
	if err != nil {
		return "", o.fail(sid, "produce", err)
	}
	recorded := s.record(func() {
		o.Registry.RegisterProducer(sid, p)
		o.Rooms.AddProducerToRoom(req.RoomID, p.ID(), sid)
	})
	if !recorded {
		o.discard(sid, p)
		return "", fmt.Errorf("session %s closed during produce: %w", sid, domain.ErrNotFound)
	}
	s.advance(domain.StateProducing)

	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("producer", string(p.ID())).Str("kind", string(p.Kind())).Str("room", string(req.RoomID)).Msg("producer created")
	res := o.Signal.EmitRoom(req.RoomID, sid, EventNewProducer, NewProducer{
		ProducerID:       p.ID(),
		ProducerSocketID: sid,
		Kind:             p.Kind(),
		RoomID:           req.RoomID,
	})
	log.Debug().Str("module", "orch").Str("producer", string(p.ID())).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("newProducer fan-out")
	return p.ID(), nil
}

// Consume only succeeds for producers advertised in the room the caller
// claims; otherwise the request is dropped without an error event.
func (o *Orchestrator) Consume(ctx context.Context, sid domain.SessionID, req ConsumeRequest) (*ConsumerCreated, error) {
	s, err := o.live(sid)
	if err != nil {
		return nil, o.fail(sid, "consume", err)
	}
	if !o.Rooms.HasProducer(req.RoomID, req.ProducerID) {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("producer", string(req.ProducerID)).Str("room", string(req.RoomID)).Msg("consume dropped: producer not in room")
		return nil, fmt.Errorf("producer %s in room %s: %w", req.ProducerID, req.RoomID, domain.ErrRoomOrProducerNotFound)
	}
	consuming := domain.RoleConsuming
	t, err := o.Registry.LookupTransport(sid, req.TransportID, &consuming)
	if err != nil {
		return nil, o.fail(sid, "consume", err)
	}
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	c, err := o.Media.Consume(ctx, t, req.ProducerID, req.RTPCapabilities)
	if err != nil {
		return nil, o.fail(sid, "consume", err)
	}
	if !s.record(func() { o.Registry.RegisterConsumer(sid, c) }) {
		o.discard(sid, c)
		return nil, fmt.Errorf("session %s closed during consume: %w", sid, domain.ErrNotFound)
	}
	s.advance(domain.StateConsuming)

	out := &ConsumerCreated{
		ConsumerID:     c.ID(),
		ProducerID:     c.ProducerID(),
		Kind:           c.Kind(),
		RTPParameters:  c.RTPParameters(),
		Type:           c.Type(),
		ProducerPaused: c.Paused(),
		Paused:         c.Paused(),
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("consumer", string(c.ID())).Str("producer", string(req.ProducerID)).Msg("consumer created")
	o.emit(sid, EventConsumerCreated, out)
	return out, nil
}

// ResumeConsumer has no response payload. A consumer already released by
// teardown is tolerated.
func (o *Orchestrator) ResumeConsumer(ctx context.Context, sid domain.SessionID, id domain.ConsumerID) error {
	if _, err := o.live(sid); err != nil {
		return o.fail(sid, "resumeConsumer", err)
	}
	ref, err := o.Registry.LookupConsumer(sid, id)
	if err != nil {
		return o.fail(sid, "resumeConsumer", err)
	}
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	if err := o.Media.Resume(ctx, ref.Handle); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("consumer", string(id)).Msg("resume on released consumer")
			return nil
		}
		return o.fail(sid, "resumeConsumer", err)
	}
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("consumer", string(id)).Msg("consumer resumed")
	return nil
}

// GetProducers lists the producers advertised in room, or every producer
// when room is empty.
func (o *Orchestrator) GetProducers(sid domain.SessionID, room domain.RoomID) ([]domain.ProducerInfo, error) {
	if _, err := o.live(sid); err != nil {
		return nil, o.fail(sid, "getProducers", err)
	}
	var out []domain.ProducerInfo
	if room == "" {
		out = o.Registry.ListProducers()
	} else {
		out = o.producersIn(room)
	}
	o.emit(sid, EventProducers, ProducerList{RoomID: room, Producers: out})
	return out, nil
}

func (o *Orchestrator) producersIn(room domain.RoomID) []domain.ProducerInfo {
	refs := o.Rooms.GetProducersInRoom(room)
	out := make([]domain.ProducerInfo, 0, len(refs))
	for _, ref := range refs {
		info, err := o.Registry.LookupProducer(ref.ProducerID)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out
}

// discard closes a resource created for a session that disconnected while
// the engine call was in flight.
func (o *Orchestrator) discard(sid domain.SessionID, res core.Closable) {
	if err := o.Media.Close(res); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("close of orphaned resource failed")
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("closed resource of disconnected session")
}
