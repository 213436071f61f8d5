package orch

import "github.com/dkeye/Huddle/internal/domain"

// Outbound event names.
const (
	EventPeers                 = "peers"
	EventRouterRtpCapabilities = "routerRtpCapabilities"
	EventTransportCreated      = "transportCreated"
	EventTransportConnected    = "transportConnected"
	EventNewProducer           = "newProducer"
	EventConsumerCreated       = "consumerCreated"
	EventProducers             = "producers"
	EventRoomJoined            = "roomJoined"
	EventMessage               = "message"
	EventPeerLeft              = "peerLeft"
	EventError                 = "error"
)

type ErrorPayload struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

type TransportCreated struct {
	Params domain.TransportParams `json:"params"`
	Sender bool                   `json:"sender"`
}

type TransportConnected struct {
	TransportID domain.TransportID `json:"transportId"`
}

type NewProducer struct {
	ProducerID       domain.ProducerID `json:"producerId"`
	ProducerSocketID domain.SessionID  `json:"producerSocketId"`
	Kind             domain.MediaKind  `json:"kind"`
	RoomID           domain.RoomID     `json:"roomId"`
}

// ConsumerCreated reports the consumer's initial paused state in ProducerPaused
// as well as Paused; clients resume through resumeConsumer.
type ConsumerCreated struct {
	ConsumerID     domain.ConsumerID    `json:"consumerId"`
	ProducerID     domain.ProducerID    `json:"producerId"`
	Kind           domain.MediaKind     `json:"kind"`
	RTPParameters  domain.RTPParameters `json:"rtpParameters"`
	Type           string               `json:"type"`
	ProducerPaused bool                 `json:"producerPaused"`
	Paused         bool                 `json:"paused"`
}

type ProducerList struct {
	RoomID    domain.RoomID         `json:"roomId,omitempty"`
	Producers []domain.ProducerInfo `json:"producers"`
}

type RoomState struct {
	RoomID    domain.RoomID         `json:"roomId"`
	Members   []domain.SessionID    `json:"members"`
	Producers []domain.ProducerInfo `json:"producers"`
}

// MessageMeta is the client supplied envelope of room notices.
type MessageMeta struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Time string `json:"time"`
}

type RoomMessage struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Text string `json:"text"`
	Time string `json:"time"`
}

type PeerLeft struct {
	SocketID    domain.SessionID    `json:"socketId"`
	ProducerIDs []domain.ProducerID `json:"producerIds"`
}
