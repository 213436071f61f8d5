package rtc

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/Huddle/internal/domain"
)

// producer receives one RTP stream and feeds a relay.
type producer struct {
	id        domain.ProducerID
	kind      domain.MediaKind
	transport *transport
	receiver  *webrtc.RTPReceiver
	codec     domain.RTPCodecParameters
	ssrc      uint32

	closeOnce sync.Once
}

func newProducer(t *transport, kind domain.MediaKind, params domain.RTPParameters) (*producer, error) {
	codec := params.Codecs[0]
	if k := domain.KindOfMime(codec.MimeType); k != kind {
		return nil, fmt.Errorf("%w: codec %s does not carry %s", domain.ErrBadPayload, codec.MimeType, kind)
	}
	var ssrc uint32
	if len(params.Encodings) > 0 {
		ssrc = params.Encodings[0].SSRC
	}

	receiver, err := t.api.NewRTPReceiver(codecType(kind), t.dtls)
	if err != nil {
		return nil, fmt.Errorf("rtp receiver: %w", err)
	}
	err = receiver.Receive(webrtc.RTPReceiveParameters{
		Encodings: []webrtc.RTPDecodingParameters{{
			RTPCodingParameters: webrtc.RTPCodingParameters{
				SSRC:        webrtc.SSRC(ssrc),
				PayloadType: webrtc.PayloadType(codec.PayloadType),
			},
		}},
	})
	if err != nil {
		_ = receiver.Stop()
		return nil, fmt.Errorf("rtp receive: %w", err)
	}

	p := &producer{
		id:        domain.ProducerID(uuid.NewString()),
		kind:      kind,
		transport: t,
		receiver:  receiver,
		codec:     codec,
		ssrc:      ssrc,
	}
	t.engine.addProducer(p)
	t.engine.relays.StartRelay(t.engine.ctx, p.id, receiver.Track())
	t.logger.Info().Str("producer", string(p.id)).Str("kind", string(kind)).Str("codec", codec.MimeType).Uint32("ssrc", ssrc).Msg("producer started")
	return p, nil
}

func (p *producer) ID() domain.ProducerID  { return p.id }
func (p *producer) Kind() domain.MediaKind { return p.kind }

// capability is what consumers of this producer are sent.
func (p *producer) capability() webrtc.RTPCodecCapability {
	return webrtc.RTPCodecCapability{
		MimeType:     p.codec.MimeType,
		ClockRate:    p.codec.ClockRate,
		Channels:     p.codec.Channels,
		SDPFmtpLine:  fmtpLine(p.codec.Parameters),
		RTCPFeedback: toPionFeedback(p.codec.RTCPFeedback),
	}
}

func (p *producer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.transport.engine.removeProducer(p.id)
		p.transport.engine.relays.StopRelay(p.id)
		err = p.receiver.Stop()
		p.transport.logger.Info().Err(err).Str("producer", string(p.id)).Msg("producer closed")
	})
	return err
}
