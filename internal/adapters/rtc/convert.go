package rtc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pion/webrtc/v4"
	"github.com/samber/lo"

	"github.com/dkeye/Huddle/internal/domain"
)

func toDomainICEParameters(p webrtc.ICEParameters) domain.ICEParameters {
	return domain.ICEParameters{
		UsernameFragment: p.UsernameFragment,
		Password:         p.Password,
		ICELite:          p.ICELite,
	}
}

func toDomainCandidate(c webrtc.ICECandidate) domain.ICECandidate {
	return domain.ICECandidate{
		Foundation: c.Foundation,
		Priority:   c.Priority,
		IP:         c.Address,
		Protocol:   c.Protocol.String(),
		Port:       c.Port,
		Type:       c.Typ.String(),
		TCPType:    c.TCPType,
	}
}

func toPionCandidate(c domain.ICECandidate) (webrtc.ICECandidate, error) {
	proto, err := webrtc.NewICEProtocol(strings.ToLower(c.Protocol))
	if err != nil {
		return webrtc.ICECandidate{}, fmt.Errorf("candidate %s: %w", c.Foundation, err)
	}
	typ, err := webrtc.NewICECandidateType(strings.ToLower(c.Type))
	if err != nil {
		return webrtc.ICECandidate{}, fmt.Errorf("candidate %s: %w", c.Foundation, err)
	}
	return webrtc.ICECandidate{
		Foundation: c.Foundation,
		Priority:   c.Priority,
		Address:    c.IP,
		Protocol:   proto,
		Port:       c.Port,
		Typ:        typ,
		Component:  1,
		TCPType:    c.TCPType,
	}, nil
}

func toDomainDTLS(p webrtc.DTLSParameters) domain.DTLSParameters {
	return domain.DTLSParameters{
		Role: p.Role.String(),
		Fingerprints: lo.Map(p.Fingerprints, func(f webrtc.DTLSFingerprint, _ int) domain.DTLSFingerprint {
			return domain.DTLSFingerprint{Algorithm: f.Algorithm, Value: f.Value}
		}),
	}
}

func toPionDTLS(p domain.DTLSParameters) webrtc.DTLSParameters {
	role := webrtc.DTLSRoleAuto
	switch strings.ToLower(p.Role) {
	case "client":
		role = webrtc.DTLSRoleClient
	case "server":
		role = webrtc.DTLSRoleServer
	}
	return webrtc.DTLSParameters{
		Role: role,
		Fingerprints: lo.Map(p.Fingerprints, func(f domain.DTLSFingerprint, _ int) webrtc.DTLSFingerprint {
			return webrtc.DTLSFingerprint{Algorithm: f.Algorithm, Value: f.Value}
		}),
	}
}

// codecType is RTPCodecTypeUnknown for anything but audio and video, which
// pion rejects on registration.
func codecType(kind domain.MediaKind) webrtc.RTPCodecType {
	switch kind {
	case domain.KindAudio:
		return webrtc.RTPCodecTypeAudio
	case domain.KindVideo:
		return webrtc.RTPCodecTypeVideo
	}
	return webrtc.RTPCodecTypeUnknown
}

func toDomainFeedback(fb []webrtc.RTCPFeedback) []domain.RTCPFeedback {
	return lo.Map(fb, func(f webrtc.RTCPFeedback, _ int) domain.RTCPFeedback {
		return domain.RTCPFeedback{Type: f.Type, Parameter: f.Parameter}
	})
}

func toPionFeedback(fb []domain.RTCPFeedback) []webrtc.RTCPFeedback {
	return lo.Map(fb, func(f domain.RTCPFeedback, _ int) webrtc.RTCPFeedback {
		return webrtc.RTCPFeedback{Type: f.Type, Parameter: f.Parameter}
	})
}

// fmtpLine renders codec parameters the way SDP a=fmtp lines carry them.
func fmtpLine(params map[string]any) string {
	keys := lo.Keys(params)
	if len(keys) == 0 {
		return ""
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, ";")
}

func parseFmtp(line string) map[string]any {
	if line == "" {
		return nil
	}
	out := make(map[string]any)
	for _, part := range strings.Split(line, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func toDomainParameters(p webrtc.RTPParameters, encodings []webrtc.RTPEncodingParameters) domain.RTPParameters {
	return domain.RTPParameters{
		Codecs: lo.Map(p.Codecs, func(c webrtc.RTPCodecParameters, _ int) domain.RTPCodecParameters {
			return domain.RTPCodecParameters{
				MimeType:     c.MimeType,
				PayloadType:  uint8(c.PayloadType),
				ClockRate:    c.ClockRate,
				Channels:     c.Channels,
				Parameters:   parseFmtp(c.SDPFmtpLine),
				RTCPFeedback: toDomainFeedback(c.RTCPFeedback),
			}
		}),
		Encodings: lo.Map(encodings, func(e webrtc.RTPEncodingParameters, _ int) domain.RTPEncodingParameters {
			return domain.RTPEncodingParameters{SSRC: uint32(e.SSRC), RID: e.RID}
		}),
	}
}
