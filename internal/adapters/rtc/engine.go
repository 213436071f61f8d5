package rtc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/pion/ice/v4"
	"github.com/pion/interceptor"
	"github.com/pion/interceptor/pkg/cc"
	"github.com/pion/interceptor/pkg/gcc"
	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/dkeye/Huddle/internal/app/sfu"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

var ErrNotReady = errors.New("rtc engine not initialized")

type Codec struct {
	Kind        domain.MediaKind
	MimeType    string
	ClockRate   uint32
	Channels    uint16
	PayloadType uint8
	FmtpLine    string
	Feedback    []domain.RTCPFeedback
}

type Options struct {
	ListenIP        string
	AnnouncedIP     string
	MinPort         uint16
	MaxPort         uint16
	IncludeLoopback bool
	LogLevel        zerolog.Level
	Codecs          []Codec

	// ICETCPPort enables ICE over TCP on a shared listener. Zero disables it.
	ICETCPPort int
}

func DefaultCodecs() []Codec {
	return []Codec{{
		Kind:        domain.KindAudio,
		MimeType:    webrtc.MimeTypeOpus,
		ClockRate:   48000,
		Channels:    2,
		PayloadType: 111,
		FmtpLine:    "minptime=10;useinbandfec=1",
	}}
}

// Engine implements core.MediaEngine on top of pion's ORTC objects. One
// Engine is the process wide worker/router.
type Engine struct {
	opts Options

	mu         sync.RWMutex
	ready      atomic.Bool
	api        *webrtc.API
	caps       domain.RTPCapabilities
	tcpListen  net.Listener
	tcpMux     ice.TCPMux
	relays     *sfu.RelayManager
	producers  map[domain.ProducerID]*producer
	transports map[domain.TransportID]*transport

	ctx    context.Context
	cancel context.CancelFunc
}

func NewEngine(opts Options) *Engine {
	if len(opts.Codecs) == 0 {
		opts.Codecs = DefaultCodecs()
	}
	return &Engine{
		opts:       opts,
		relays:     sfu.NewRelayManager(),
		producers:  make(map[domain.ProducerID]*producer),
		transports: make(map[domain.TransportID]*transport),
	}
}

// Init builds the pion API. Transports are created with the initial
// outgoing bitrate passed to CreateWebRtcTransport, so the congestion
// controller is registered per API instance in newAPI.
func (e *Engine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready.Load() {
		return nil
	}
	e.ctx, e.cancel = context.WithCancel(ctx)

	if e.opts.ICETCPPort > 0 {
		addr := net.JoinHostPort(e.opts.ListenIP, fmt.Sprint(e.opts.ICETCPPort))
		l, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("ice tcp listen %s: %w", addr, err)
		}
		e.tcpListen = l
		e.tcpMux = webrtc.NewICETCPMux(newLoggerFactory(e.opts.LogLevel).NewLogger("ice-tcp"), l, 8)
	}
	api, err := e.newAPI(0)
	if err != nil {
		if cerr := e.closeTCP(); cerr != nil {
			log.Warn().Err(cerr).Str("module", "rtc").Msg("ice tcp close after failed init")
		}
		e.cancel()
		return err
	}
	e.api = api
	e.caps = capabilities(e.opts.Codecs)
	e.ready.Store(true)

	log.Info().
		Str("module", "rtc").
		Str("listen_ip", e.opts.ListenIP).
		Str("announced_ip", e.opts.AnnouncedIP).
		Uint16("min_port", e.opts.MinPort).
		Uint16("max_port", e.opts.MaxPort).
		Int("ice_tcp_port", e.opts.ICETCPPort).
		Int("codecs", len(e.opts.Codecs)).
		Msg("media engine ready")
	return nil
}

func (e *Engine) newAPI(initialBitrate uint64) (*webrtc.API, error) {
	m := &webrtc.MediaEngine{}
	for _, c := range e.opts.Codecs {
		err := m.RegisterCodec(webrtc.RTPCodecParameters{
			RTPCodecCapability: webrtc.RTPCodecCapability{
				MimeType:     c.MimeType,
				ClockRate:    c.ClockRate,
				Channels:     c.Channels,
				SDPFmtpLine:  c.FmtpLine,
				RTCPFeedback: toPionFeedback(c.Feedback),
			},
			PayloadType: webrtc.PayloadType(c.PayloadType),
		}, codecType(c.Kind))
		if err != nil {
			return nil, fmt.Errorf("register codec %s: %w", c.MimeType, err)
		}
	}

	i := &interceptor.Registry{}
	if initialBitrate > 0 {
		bitrate := int(initialBitrate)
		congestion, err := cc.NewInterceptor(func() (cc.BandwidthEstimator, error) {
			return gcc.NewSendSideBWE(gcc.SendSideBWEInitialBitrate(bitrate))
		})
		if err != nil {
			return nil, fmt.Errorf("congestion controller: %w", err)
		}
		congestion.OnNewPeerConnection(func(id string, estimator cc.BandwidthEstimator) {
			log.Debug().Str("module", "rtc").Str("pc", id).Int("target_bitrate", estimator.GetTargetBitrate()).Msg("bandwidth estimator attached")
		})
		i.Add(congestion)
		if err := webrtc.ConfigureTWCCHeaderExtensionSender(m, i); err != nil {
			return nil, fmt.Errorf("twcc: %w", err)
		}
	}
	if err := webrtc.RegisterDefaultInterceptors(m, i); err != nil {
		return nil, fmt.Errorf("interceptors: %w", err)
	}

	s := webrtc.SettingEngine{LoggerFactory: newLoggerFactory(e.opts.LogLevel)}
	s.SetLite(true)
	s.SetIncludeLoopbackCandidate(e.opts.IncludeLoopback)
	if e.opts.MinPort > 0 && e.opts.MaxPort >= e.opts.MinPort {
		if err := s.SetEphemeralUDPPortRange(e.opts.MinPort, e.opts.MaxPort); err != nil {
			return nil, fmt.Errorf("udp port range: %w", err)
		}
	}
	if e.opts.AnnouncedIP != "" {
		s.SetNAT1To1IPs([]string{e.opts.AnnouncedIP}, webrtc.ICECandidateTypeHost)
	}
	if ip := net.ParseIP(e.opts.ListenIP); ip != nil && !ip.IsUnspecified() {
		s.SetIPFilter(func(candidate net.IP) bool { return candidate.Equal(ip) })
	}
	networks := []webrtc.NetworkType{webrtc.NetworkTypeUDP4, webrtc.NetworkTypeUDP6}
	if e.tcpMux != nil {
		s.SetICETCPMux(e.tcpMux)
		networks = append(networks, webrtc.NetworkTypeTCP4, webrtc.NetworkTypeTCP6)
	}
	s.SetNetworkTypes(networks)

	return webrtc.NewAPI(
		webrtc.WithMediaEngine(m),
		webrtc.WithSettingEngine(s),
		webrtc.WithInterceptorRegistry(i),
	), nil
}

func (e *Engine) Ready() bool { return e.ready.Load() }

func (e *Engine) RTPCapabilities() domain.RTPCapabilities {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.caps
}

func (e *Engine) CreateWebRtcTransport(ctx context.Context, opts core.TransportOptions) (core.EngineTransport, error) {
	if !e.ready.Load() {
		return nil, ErrNotReady
	}
	api := e.api
	if opts.InitialAvailableOutgoingBitrate > 0 {
		var err error
		if api, err = e.newAPI(opts.InitialAvailableOutgoingBitrate); err != nil {
			return nil, err
		}
	}
	t, err := newTransport(ctx, e, api, opts)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.transports[t.id] = t
	e.mu.Unlock()
	return t, nil
}

// CanConsume matches the producer's codec against caps.
func (e *Engine) CanConsume(id domain.ProducerID, caps domain.RTPCapabilities) bool {
	e.mu.RLock()
	p, ok := e.producers[id]
	e.mu.RUnlock()
	if !ok {
		return false
	}
	c := p.codec
	return lo.SomeBy(caps.Codecs, func(want domain.RTPCodecCapability) bool {
		return domain.SameCodec(c.MimeType, c.ClockRate, c.Channels, want)
	})
}

func (e *Engine) producer(id domain.ProducerID) (*producer, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.producers[id]
	return p, ok
}

func (e *Engine) addProducer(p *producer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.producers[p.id] = p
}

func (e *Engine) removeProducer(id domain.ProducerID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.producers, id)
}

func (e *Engine) removeTransport(id domain.TransportID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.transports, id)
}

// requestKeyframe asks the producer's remote for a fresh keyframe.
func (e *Engine) requestKeyframe(id domain.ProducerID) {
	p, ok := e.producer(id)
	if !ok || p.ssrc == 0 {
		return
	}
	if _, err := p.transport.dtls.WriteRTCP([]rtcp.Packet{&rtcp.PictureLossIndication{MediaSSRC: p.ssrc}}); err != nil {
		log.Debug().Err(err).Str("module", "rtc").Str("producer", string(id)).Msg("keyframe request failed")
	}
}

type Stats struct {
	Transports int `json:"transports"`
	Producers  int `json:"producers"`
	Relays     int `json:"relays"`
}

func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{Transports: len(e.transports), Producers: len(e.producers), Relays: e.relays.Len()}
}

// Close tears down every transport still alive and the shared TCP listener.
func (e *Engine) Close() error {
	if !e.ready.CompareAndSwap(true, false) {
		return nil
	}
	e.mu.Lock()
	transports := lo.Values(e.transports)
	e.mu.Unlock()

	var errs error
	for _, t := range transports {
		errs = multierr.Append(errs, t.Close())
	}
	e.mu.Lock()
	errs = multierr.Append(errs, e.closeTCP())
	e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
	log.Info().Str("module", "rtc").Int("transports", len(transports)).Msg("media engine closed")
	return errs
}

// closeTCP releases the ICE-TCP listener. The mux owns the listener when
// present. Callers hold mu.
func (e *Engine) closeTCP() error {
	l, mux := e.tcpListen, e.tcpMux
	e.tcpListen, e.tcpMux = nil, nil
	switch {
	case mux != nil:
		return mux.Close()
	case l != nil:
		return l.Close()
	}
	return nil
}

func capabilities(codecs []Codec) domain.RTPCapabilities {
	return domain.RTPCapabilities{
		Codecs: lo.Map(codecs, func(c Codec, _ int) domain.RTPCodecCapability {
			return domain.RTPCodecCapability{
				Kind:                 c.Kind,
				MimeType:             c.MimeType,
				PreferredPayloadType: c.PayloadType,
				ClockRate:            c.ClockRate,
				Channels:             c.Channels,
				Parameters:           parseFmtp(c.FmtpLine),
				RTCPFeedback:         c.Feedback,
			}
		}),
		HeaderExtensions: []domain.RTPHeaderExtension{},
	}
}
