//go:generate go run go.uber.org/mock/mockgen -source=media_iface.go -destination=../mocks/mock_media.go -package=mocks
package core

import (
	"context"

	"github.com/dkeye/Huddle/internal/domain"
)

// Closable is any engine resource. Close must be idempotent.
type Closable interface {
	Close() error
}

// TransportOptions is the fixed network configuration of a transport.
type TransportOptions struct {
	EnableUDP                       bool
	EnableTCP                       bool
	PreferUDP                       bool
	InitialAvailableOutgoingBitrate uint64
}

// MediaEngine is the external worker/router performing the actual WebRTC work.
type MediaEngine interface {
	// Ready reports whether the worker and router are initialized.
	Ready() bool
	RTPCapabilities() domain.RTPCapabilities
	CreateWebRtcTransport(ctx context.Context, opts TransportOptions) (EngineTransport, error)
	CanConsume(producerID domain.ProducerID, caps domain.RTPCapabilities) bool
}

type EngineTransport interface {
	Closable
	ID() domain.TransportID
	Params() domain.TransportParams
	Connect(ctx context.Context, remote domain.RemoteTransportParams) error
	Produce(ctx context.Context, kind domain.MediaKind, params domain.RTPParameters) (EngineProducer, error)
	Consume(ctx context.Context, producerID domain.ProducerID, caps domain.RTPCapabilities, paused bool) (EngineConsumer, error)
}

type EngineProducer interface {
	Closable
	ID() domain.ProducerID
	Kind() domain.MediaKind
}

type EngineConsumer interface {
	Closable
	ID() domain.ConsumerID
	ProducerID() domain.ProducerID
	Kind() domain.MediaKind
	RTPParameters() domain.RTPParameters
	// Type is "simple" for single-encoding forwarding.
	Type() string
	Paused() bool
	Resume(ctx context.Context) error
}
