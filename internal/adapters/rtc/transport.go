package rtc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

var (
	ErrTransportClosed       = errors.New("transport closed")
	ErrTransportNotConnected = errors.New("transport not connected")
)

// transport is one ICE+DTLS association. Producers and consumers hang off
// its DTLS transport.
type transport struct {
	id     domain.TransportID
	engine *Engine
	api    *webrtc.API
	logger zerolog.Logger

	gatherer *webrtc.ICEGatherer
	ice      *webrtc.ICETransport
	dtls     *webrtc.DTLSTransport
	params   domain.TransportParams

	connectOnce sync.Once
	connected   chan struct{}
	closeOnce   sync.Once
	closed      chan struct{}
}

func newTransport(ctx context.Context, e *Engine, api *webrtc.API, opts core.TransportOptions) (*transport, error) {
	id := domain.TransportID(uuid.NewString())
	logger := log.With().Str("module", "rtc.transport").Str("transport", string(id)).Logger()

	gatherer, err := api.NewICEGatherer(webrtc.ICEGatherOptions{})
	if err != nil {
		return nil, fmt.Errorf("ice gatherer: %w", err)
	}
	done := make(chan struct{})
	gatherer.OnLocalCandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			close(done)
		}
	})
	if err := gatherer.Gather(); err != nil {
		_ = gatherer.Close()
		return nil, fmt.Errorf("ice gather: %w", err)
	}
	select {
	case <-done:
	case <-ctx.Done():
		_ = gatherer.Close()
		return nil, ctx.Err()
	}

	iceParams, err := gatherer.GetLocalParameters()
	if err != nil {
		_ = gatherer.Close()
		return nil, fmt.Errorf("ice parameters: %w", err)
	}
	candidates, err := gatherer.GetLocalCandidates()
	if err != nil {
		_ = gatherer.Close()
		return nil, fmt.Errorf("ice candidates: %w", err)
	}
	ice := api.NewICETransport(gatherer)
	dtls, err := api.NewDTLSTransport(ice, nil)
	if err != nil {
		_ = gatherer.Close()
		return nil, fmt.Errorf("dtls transport: %w", err)
	}
	dtlsParams, err := dtls.GetLocalParameters()
	if err != nil {
		_ = gatherer.Close()
		return nil, fmt.Errorf("dtls parameters: %w", err)
	}

	t := &transport{
		id:        id,
		engine:    e,
		api:       api,
		logger:    logger,
		gatherer:  gatherer,
		ice:       ice,
		dtls:      dtls,
		connected: make(chan struct{}),
		closed:    make(chan struct{}),
	}
	t.params = domain.TransportParams{
		ID:             id,
		ICEParameters:  toDomainICEParameters(iceParams),
		ICECandidates:  candidatesOf(candidates, opts),
		DTLSParameters: toDomainDTLS(dtlsParams),
	}
	// The gatherer never reports lite mode, the setting engine always runs it.
	t.params.ICEParameters.ICELite = true
	ice.OnConnectionStateChange(func(s webrtc.ICETransportState) {
		logger.Debug().Str("ice_state", s.String()).Msg("ICE state")
	})
	dtls.OnStateChange(func(s webrtc.DTLSTransportState) {
		logger.Debug().Str("dtls_state", s.String()).Msg("DTLS state")
	})

	logger.Info().Int("candidates", len(t.params.ICECandidates)).Msg("transport created")
	return t, nil
}

// candidatesOf filters by the enabled protocols and puts UDP first when preferred.
func candidatesOf(cs []webrtc.ICECandidate, opts core.TransportOptions) []domain.ICECandidate {
	udp := make([]domain.ICECandidate, 0, len(cs))
	tcp := make([]domain.ICECandidate, 0)
	for _, c := range cs {
		switch c.Protocol {
		case webrtc.ICEProtocolUDP:
			if opts.EnableUDP {
				udp = append(udp, toDomainCandidate(c))
			}
		case webrtc.ICEProtocolTCP:
			if opts.EnableTCP {
				tcp = append(tcp, toDomainCandidate(c))
			}
		}
	}
	if opts.PreferUDP {
		return append(udp, tcp...)
	}
	return append(tcp, udp...)
}

func (t *transport) ID() domain.TransportID         { return t.id }
func (t *transport) Params() domain.TransportParams { return t.params }

// Connect runs the ICE and DTLS handshakes. pion's Start calls block until
// the handshake finishes, so they run aside and the caller waits on ctx.
func (t *transport) Connect(ctx context.Context, remote domain.RemoteTransportParams) error {
	if t.isClosed() {
		return ErrTransportClosed
	}
	if remote.ICEParameters == nil {
		return fmt.Errorf("%w: missing ice parameters", domain.ErrNegotiation)
	}
	candidates := make([]webrtc.ICECandidate, 0, len(remote.ICECandidates))
	for _, c := range remote.ICECandidates {
		pc, err := toPionCandidate(c)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrNegotiation, err)
		}
		candidates = append(candidates, pc)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := t.ice.SetRemoteCandidates(candidates); err != nil {
			errCh <- fmt.Errorf("remote candidates: %w", err)
			return
		}
		role := webrtc.ICERoleControlled
		params := webrtc.ICEParameters{
			UsernameFragment: remote.ICEParameters.UsernameFragment,
			Password:         remote.ICEParameters.Password,
			ICELite:          remote.ICEParameters.ICELite,
		}
		if err := t.ice.Start(nil, params, &role); err != nil {
			errCh <- fmt.Errorf("ice start: %w", err)
			return
		}
		if err := t.dtls.Start(toPionDTLS(remote.DTLSParameters)); err != nil {
			errCh <- fmt.Errorf("dtls start: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	case <-t.closed:
		return ErrTransportClosed
	}
	t.connectOnce.Do(func() { close(t.connected) })
	t.logger.Info().Msg("transport connected")
	return nil
}

func (t *transport) awaitConnected(ctx context.Context) error {
	select {
	case <-t.connected:
		return nil
	case <-t.closed:
		return ErrTransportClosed
	case <-ctx.Done():
		return fmt.Errorf("%w: %w: %w", domain.ErrNegotiation, ErrTransportNotConnected, ctx.Err())
	}
}

func (t *transport) isClosed() bool {
	select {
	case <-t.closed:
		return true
	default:
		return false
	}
}

func (t *transport) Produce(ctx context.Context, kind domain.MediaKind, params domain.RTPParameters) (core.EngineProducer, error) {
	if err := t.awaitConnected(ctx); err != nil {
		return nil, err
	}
	return newProducer(t, kind, params)
}

func (t *transport) Consume(ctx context.Context, producerID domain.ProducerID, caps domain.RTPCapabilities, paused bool) (core.EngineConsumer, error) {
	if t.isClosed() {
		return nil, ErrTransportClosed
	}
	src, ok := t.engine.producer(producerID)
	if !ok {
		return nil, fmt.Errorf("producer %s: %w", producerID, domain.ErrNotFound)
	}
	return newConsumer(t, src, paused)
}

// Close stops DTLS, then ICE, then the gatherer. Media objects created on
// the transport stop with it.
func (t *transport) Close() error {
	var errs error
	t.closeOnce.Do(func() {
		close(t.closed)
		errs = multierr.Combine(t.dtls.Stop(), t.ice.Stop(), t.gatherer.Close())
		t.engine.removeTransport(t.id)
		t.logger.Info().Err(errs).Msg("transport closed")
	})
	return errs
}
