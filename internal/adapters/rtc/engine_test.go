package rtc

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

func TestEngine_Lifecycle(t *testing.T) {
	req := require.New(t)
	e := NewEngine(Options{LogLevel: zerolog.Disabled})

	// Given an engine that was never initialized
	req.False(e.Ready())
	_, err := e.CreateWebRtcTransport(context.Background(), core.TransportOptions{EnableUDP: true})
	req.ErrorIs(err, ErrNotReady)

	// When it is initialized
	req.NoError(e.Init(context.Background()))
	req.NoError(e.Init(context.Background()))

	// Then it advertises the default codec
	req.True(e.Ready())
	caps := e.RTPCapabilities()
	req.Len(caps.Codecs, 1)
	req.Equal(domain.KindAudio, caps.Codecs[0].Kind)
	req.Equal(uint8(111), caps.Codecs[0].PreferredPayloadType)
	req.Equal("1", caps.Codecs[0].Parameters["useinbandfec"])

	req.NoError(e.Close())
	req.False(e.Ready())
	req.NoError(e.Close())
}

func TestEngine_Init_Failure_Releases_TCP_Port(t *testing.T) {
	req := require.New(t)

	// Given a free port and a codec pion refuses to register
	l, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)
	port := l.Addr().(*net.TCPAddr).Port
	req.NoError(l.Close())
	e := NewEngine(Options{
		ListenIP:   "127.0.0.1",
		ICETCPPort: port,
		LogLevel:   zerolog.Disabled,
		Codecs:     []Codec{{Kind: "data", MimeType: "application/data", ClockRate: 90000, PayloadType: 120}},
	})

	// When initialization fails after the ICE-TCP listener is bound
	req.Error(e.Init(context.Background()))

	// Then the engine is not ready and the port is free again
	req.False(e.Ready())
	again, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	req.NoError(err)
	req.NoError(again.Close())
	req.NoError(e.Close())
}

func TestEngine_CanConsume(t *testing.T) {
	req := require.New(t)
	e := NewEngine(Options{LogLevel: zerolog.Disabled})
	opus := domain.RTPCapabilities{Codecs: []domain.RTPCodecCapability{{MimeType: "audio/opus", ClockRate: 48000, Channels: 2}}}

	req.False(e.CanConsume("unknown", opus))

	e.addProducer(&producer{id: "p1", codec: domain.RTPCodecParameters{MimeType: "audio/opus", PayloadType: 111, ClockRate: 48000, Channels: 2}})
	req.True(e.CanConsume("p1", opus))
	req.False(e.CanConsume("p1", domain.RTPCapabilities{Codecs: []domain.RTPCodecCapability{{MimeType: "video/VP8", ClockRate: 90000}}}))

	e.removeProducer("p1")
	req.False(e.CanConsume("p1", opus))
}

func TestEngine_CreateWebRtcTransport(t *testing.T) {
	if testing.Short() {
		t.Skip("gathers loopback candidates")
	}
	req := require.New(t)
	e := NewEngine(Options{
		ListenIP:        "127.0.0.1",
		IncludeLoopback: true,
		MinPort:         41000,
		MaxPort:         41100,
		LogLevel:        zerolog.Disabled,
	})
	req.NoError(e.Init(context.Background()))
	t.Cleanup(func() { _ = e.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tr, err := e.CreateWebRtcTransport(ctx, core.TransportOptions{EnableUDP: true, PreferUDP: true, InitialAvailableOutgoingBitrate: 600_000})
	req.NoError(err)

	params := tr.Params()
	req.Equal(tr.ID(), params.ID)
	req.NotEmpty(params.ICEParameters.UsernameFragment)
	req.True(params.ICEParameters.ICELite)
	req.NotEmpty(params.DTLSParameters.Fingerprints)
	req.Equal(1, e.Stats().Transports)

	// Connecting without ICE parameters never reaches the network.
	req.ErrorIs(tr.Connect(ctx, domain.RemoteTransportParams{}), domain.ErrNegotiation)

	_, err = tr.Consume(ctx, "unknown", e.RTPCapabilities(), true)
	req.ErrorIs(err, domain.ErrNotFound)

	req.NoError(tr.Close())
	req.Zero(e.Stats().Transports)
}

func TestTransport_AwaitConnected(t *testing.T) {
	t.Run("should report a deadline as a negotiation failure", func(t *testing.T) {
		req := require.New(t)
		tr := &transport{connected: make(chan struct{}), closed: make(chan struct{})}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := tr.awaitConnected(ctx)

		req.ErrorIs(err, domain.ErrNegotiation)
		req.ErrorIs(err, ErrTransportNotConnected)
		req.ErrorIs(err, context.DeadlineExceeded)
	})

	t.Run("should prefer closed over waiting", func(t *testing.T) {
		req := require.New(t)
		tr := &transport{connected: make(chan struct{}), closed: make(chan struct{})}
		close(tr.closed)

		req.ErrorIs(tr.awaitConnected(context.Background()), ErrTransportClosed)
	})
}
