package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

const DefaultInitialOutgoingBitrate uint64 = 1_000_000

// MediaFacade is the single entry point into the media engine. It enforces
// transport roles and normalizes engine failures into domain errors.
type MediaFacade struct {
	engine core.MediaEngine
	opts   core.TransportOptions
}

func NewMediaFacade(engine core.MediaEngine, initialBitrate uint64) *MediaFacade {
	if initialBitrate == 0 {
		initialBitrate = DefaultInitialOutgoingBitrate
	}
	return &MediaFacade{
		engine: engine,
		opts: core.TransportOptions{
			EnableUDP:                       true,
			EnableTCP:                       true,
			PreferUDP:                       true,
			InitialAvailableOutgoingBitrate: initialBitrate,
		},
	}
}

func (f *MediaFacade) RouterCapabilities() (domain.RTPCapabilities, error) {
	if f.engine == nil || !f.engine.Ready() {
		return domain.RTPCapabilities{}, fmt.Errorf("router not initialized: %w", domain.ErrEngineUnavailable)
	}
	return f.engine.RTPCapabilities(), nil
}

func (f *MediaFacade) CreateTransport(ctx context.Context) (core.EngineTransport, domain.TransportParams, error) {
	if f.engine == nil || !f.engine.Ready() {
		return nil, domain.TransportParams{}, fmt.Errorf("router not initialized: %w", domain.ErrEngineUnavailable)
	}
	t, err := f.engine.CreateWebRtcTransport(ctx, f.opts)
	if err != nil {
		return nil, domain.TransportParams{}, normalize("create transport", err, domain.ErrEngineUnavailable)
	}
	return t, t.Params(), nil
}

func (f *MediaFacade) ConnectTransport(ctx context.Context, t *TransportRef, remote domain.RemoteTransportParams) error {
	if err := remote.DTLSParameters.Validate(); err != nil {
		return err
	}
	if err := t.Handle.Connect(ctx, remote); err != nil {
		return normalize(fmt.Sprintf("connect transport %s", t.ID), err, domain.ErrNegotiation)
	}
	return nil
}

func (f *MediaFacade) Produce(ctx context.Context, t *TransportRef, kind domain.MediaKind, params domain.RTPParameters) (core.EngineProducer, error) {
	if t.Role != domain.RoleProducing {
		return nil, fmt.Errorf("produce on transport %s: %w", t.ID, domain.ErrRoleMismatch)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("kind %q: %w", kind, domain.ErrBadPayload)
	}
	if len(params.Codecs) == 0 {
		return nil, fmt.Errorf("rtp parameters without codecs: %w", domain.ErrBadPayload)
	}
	p, err := t.Handle.Produce(ctx, kind, params)
	if err != nil {
		return nil, normalize(fmt.Sprintf("produce on transport %s", t.ID), err, domain.ErrNegotiation)
	}
	return p, nil
}

// Consume always creates the consumer paused; the remote resumes it once its
// receive pipeline is ready.
func (f *MediaFacade) Consume(ctx context.Context, t *TransportRef, producerID domain.ProducerID, caps domain.RTPCapabilities) (core.EngineConsumer, error) {
	if t.Role != domain.RoleConsuming {
		return nil, fmt.Errorf("consume on transport %s: %w", t.ID, domain.ErrRoleMismatch)
	}
	if !f.engine.CanConsume(producerID, caps) {
		return nil, fmt.Errorf("cannot consume producer %s: %w", producerID, domain.ErrIncompatibleCapabilities)
	}
	c, err := t.Handle.Consume(ctx, producerID, caps, true)
	if err != nil {
		return nil, normalize(fmt.Sprintf("consume producer %s", producerID), err, domain.ErrNegotiation)
	}
	return c, nil
}

func (f *MediaFacade) Resume(ctx context.Context, c core.EngineConsumer) error {
	if !c.Paused() {
		return nil
	}
	if err := c.Resume(ctx); err != nil {
		return normalize(fmt.Sprintf("resume consumer %s", c.ID()), err, domain.ErrNegotiation)
	}
	return nil
}

// Close is safe on nil and on already closed resources.
func (f *MediaFacade) Close(res core.Closable) error {
	if res == nil {
		return nil
	}
	if err := res.Close(); err != nil {
		log.Debug().Err(err).Str("module", "app.media").Msg("close failed")
		return err
	}
	return nil
}

// normalize keeps domain errors as they are and tags anything else,
// context errors included, with fallback.
func normalize(op string, err, fallback error) error {
	if domain.ErrorType(err) != domain.ErrTypeInternal {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, fallback, err)
}
