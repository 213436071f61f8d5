package signal

import "encoding/json"

// Inbound events.
const (
	EventGetRouterRtpCapabilities = "getRouterRtpCapabilities"
	EventCreateWebRtcTransport    = "createWebRtcTransport"
	EventConnectTransport         = "connectTransport"
	EventProduce                  = "produce"
	EventConsume                  = "consume"
	EventResumeConsumer           = "resumeConsumer"
	EventJoinRoom                 = "joinRoom"
	EventLeaveRoom                = "leaveRoom"
	EventGetProducers             = "getProducers"
	EventPing                     = "ping"

	eventAck  = "ack"
	eventPong = "pong"
)

// inbound is a client frame: {"type": ..., "id": ..., "data": {...}}. A
// present id asks for an ack carrying the same id.
type inbound struct {
	Type string          `json:"type"`
	ID   *int64          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Type string `json:"type"`
	ID   *int64 `json:"id,omitempty"`
	Data any    `json:"data,omitempty"`
}

type ackError struct {
	Error ackErrorBody `json:"error"`
}

type ackErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
