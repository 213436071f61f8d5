package rtc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/Huddle/internal/domain"
)

const consumerTypeSimple = "simple"

// consumer forwards one producer to the remote through an RTPSender. The
// sender starts once the transport is connected, which usually happens
// after the consumer was created.
type consumer struct {
	id        domain.ConsumerID
	producer  domain.ProducerID
	kind      domain.MediaKind
	transport *transport
	track     *webrtc.TrackLocalStaticRTP
	sender    *webrtc.RTPSender
	params    domain.RTPParameters

	paused    atomic.Bool
	closeOnce sync.Once
	closed    chan struct{}
}

func newConsumer(t *transport, src *producer, paused bool) (*consumer, error) {
	id := domain.ConsumerID(uuid.NewString())
	track, err := webrtc.NewTrackLocalStaticRTP(src.capability(), string(id), string(src.id))
	if err != nil {
		return nil, fmt.Errorf("local track: %w", err)
	}
	sender, err := t.api.NewRTPSender(track, t.dtls)
	if err != nil {
		return nil, fmt.Errorf("rtp sender: %w", err)
	}
	sp := sender.GetParameters()

	c := &consumer{
		id:        id,
		producer:  src.id,
		kind:      src.kind,
		transport: t,
		track:     track,
		sender:    sender,
		params:    toDomainParameters(sp.RTPParameters, sp.Encodings),
		closed:    make(chan struct{}),
	}
	c.paused.Store(paused)
	if _, ok := t.engine.relays.AddSubscriber(src.id, id, track, paused); !ok {
		_ = sender.Stop()
		return nil, fmt.Errorf("relay for producer %s: %w", src.id, domain.ErrNotFound)
	}
	go c.start(sp)

	t.logger.Info().Str("consumer", string(id)).Str("producer", string(src.id)).Bool("paused", paused).Msg("consumer created")
	return c, nil
}

func (c *consumer) start(params webrtc.RTPSendParameters) {
	select {
	case <-c.transport.connected:
	case <-c.transport.closed:
		return
	case <-c.closed:
		return
	}
	if err := c.sender.Send(params); err != nil {
		c.transport.logger.Warn().Err(err).Str("consumer", string(c.id)).Msg("rtp send failed")
		return
	}
	c.readRTCP()
}

// readRTCP drains the sender's RTCP and turns keyframe requests into PLIs
// towards the producer.
func (c *consumer) readRTCP() {
	for {
		pkts, _, err := c.sender.ReadRTCP()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.transport.logger.Debug().Err(err).Str("consumer", string(c.id)).Msg("rtcp read stopped")
			}
			return
		}
		for _, pkt := range pkts {
			switch pkt.(type) {
			case *rtcp.PictureLossIndication, *rtcp.FullIntraRequest:
				c.transport.engine.requestKeyframe(c.producer)
			}
		}
	}
}

func (c *consumer) ID() domain.ConsumerID               { return c.id }
func (c *consumer) ProducerID() domain.ProducerID       { return c.producer }
func (c *consumer) Kind() domain.MediaKind              { return c.kind }
func (c *consumer) RTPParameters() domain.RTPParameters { return c.params }
func (c *consumer) Type() string                        { return consumerTypeSimple }
func (c *consumer) Paused() bool                        { return c.paused.Load() }

// Resume unmutes the out track and asks the producer for a keyframe. It
// fails with ErrNotFound once the producer is gone.
func (c *consumer) Resume(_ context.Context) error {
	select {
	case <-c.closed:
		return fmt.Errorf("consumer %s: %w", c.id, domain.ErrNotFound)
	default:
	}
	if !c.transport.engine.relays.ResumeSubscriber(c.producer, c.id) {
		return fmt.Errorf("producer %s of consumer %s: %w", c.producer, c.id, domain.ErrNotFound)
	}
	c.paused.Store(false)
	c.transport.engine.requestKeyframe(c.producer)
	return nil
}

func (c *consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.transport.engine.relays.MarkSubscriberDelete(c.producer, c.id)
		err = c.sender.Stop()
		c.transport.logger.Info().Err(err).Str("consumer", string(c.id)).Msg("consumer closed")
	})
	return err
}
