package signal

import (
	"context"

	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/domain"
)

type createTransportPayload struct {
	Sender bool `json:"sender"`
}

type connectTransportPayload struct {
	TransportID    domain.TransportID    `json:"transportId" validate:"required"`
	DTLSParameters domain.DTLSParameters `json:"dtlsParameters"`
	ICEParameters  *domain.ICEParameters `json:"iceParameters,omitempty"`
	ICECandidates  []domain.ICECandidate `json:"iceCandidates,omitempty"`
}

type producePayload struct {
	TransportID   domain.TransportID   `json:"transportId" validate:"required"`
	Kind          domain.MediaKind     `json:"kind" validate:"required,oneof=audio video"`
	RTPParameters domain.RTPParameters `json:"rtpParameters"`
	RoomID        domain.RoomID        `json:"roomId" validate:"required"`
}

type consumePayload struct {
	ProducerID      domain.ProducerID      `json:"producerId" validate:"required"`
	RTPCapabilities domain.RTPCapabilities `json:"rtpCapabilities"`
	TransportID     domain.TransportID     `json:"transportId" validate:"required"`
	RoomID          domain.RoomID          `json:"roomId" validate:"required"`
}

type resumeConsumerPayload struct {
	ConsumerID domain.ConsumerID `json:"consumerId" validate:"required"`
}

type produceAck struct {
	ProducerID domain.ProducerID `json:"producerId"`
}

func (ctl *SignalWSController) handleGetRouterRtpCapabilities(ctx context.Context, sid domain.SessionID, c *WsSignalConn, env inbound) {
	caps, err := ctl.Orch.GetRouterRtpCapabilities(ctx, sid)
	ctl.reply(c, env.ID, caps, err)
}

func (ctl *SignalWSController) handleCreateWebRtcTransport(ctx context.Context, sid domain.SessionID, c *WsSignalConn, env inbound) {
	var p createTransportPayload
	if err := ctl.decode(env, &p); err != nil {
		ctl.reject(sid, c, env.ID, err)
		return
	}
	params, err := ctl.Orch.CreateWebRtcTransport(ctx, sid, p.Sender)
	ctl.reply(c, env.ID, orch.TransportCreated{Params: params, Sender: p.Sender}, err)
}

func (ctl *SignalWSController) handleConnectTransport(ctx context.Context, sid domain.SessionID, c *WsSignalConn, env inbound) {
	var p connectTransportPayload
	if err := ctl.decode(env, &p); err != nil {
		ctl.reject(sid, c, env.ID, err)
		return
	}
	err := ctl.Orch.ConnectTransport(ctx, sid, p.TransportID, domain.RemoteTransportParams{
		DTLSParameters: p.DTLSParameters,
		ICEParameters:  p.ICEParameters,
		ICECandidates:  p.ICECandidates,
	})
	ctl.reply(c, env.ID, orch.TransportConnected{TransportID: p.TransportID}, err)
}

// handleProduce acks with the producer id once the room has been sent newProducer.
func (ctl *SignalWSController) handleProduce(ctx context.Context, sid domain.SessionID, c *WsSignalConn, env inbound) {
	var p producePayload
	if err := ctl.decode(env, &p); err != nil {
		ctl.reject(sid, c, env.ID, err)
		return
	}
	id, err := ctl.Orch.Produce(ctx, sid, orch.ProduceRequest{
		TransportID:   p.TransportID,
		Kind:          p.Kind,
		RTPParameters: p.RTPParameters,
		RoomID:        p.RoomID,
	})
	ctl.reply(c, env.ID, produceAck{ProducerID: id}, err)
}

func (ctl *SignalWSController) handleConsume(ctx context.Context, sid domain.SessionID, c *WsSignalConn, env inbound) {
	var p consumePayload
	if err := ctl.decode(env, &p); err != nil {
		ctl.reject(sid, c, env.ID, err)
		return
	}
	out, err := ctl.Orch.Consume(ctx, sid, orch.ConsumeRequest{
		ProducerID:      p.ProducerID,
		RTPCapabilities: p.RTPCapabilities,
		TransportID:     p.TransportID,
		RoomID:          p.RoomID,
	})
	ctl.reply(c, env.ID, out, err)
}

func (ctl *SignalWSController) handleResumeConsumer(ctx context.Context, sid domain.SessionID, c *WsSignalConn, env inbound) {
	var p resumeConsumerPayload
	if err := ctl.decode(env, &p); err != nil {
		ctl.reject(sid, c, env.ID, err)
		return
	}
	err := ctl.Orch.ResumeConsumer(ctx, sid, p.ConsumerID)
	ctl.reply(c, env.ID, nil, err)
}
