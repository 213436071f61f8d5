package domain

import "strings"

type (
	ProducerID string
	ConsumerID string
)

type MediaKind string

const (
	KindAudio MediaKind = "audio"
	KindVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool { return k == KindAudio || k == KindVideo }

type Producer struct {
	ID    ProducerID `json:"id"`
	Owner SessionID  `json:"owner"`
	Kind  MediaKind  `json:"kind"`
}

// ProducerInfo is the discovery snapshot of a producer.
type ProducerInfo struct {
	ID       ProducerID `json:"id"`
	SocketID SessionID  `json:"socketId"`
	Kind     MediaKind  `json:"kind"`
}

type Consumer struct {
	ID         ConsumerID `json:"id"`
	Owner      SessionID  `json:"owner"`
	ProducerID ProducerID `json:"producerId"`
	Kind       MediaKind  `json:"kind"`
	Paused     bool       `json:"paused"`
}

type RTCPFeedback struct {
	Type      string `json:"type"`
	Parameter string `json:"parameter,omitempty"`
}

type RTPCodecCapability struct {
	Kind                 MediaKind      `json:"kind"`
	MimeType             string         `json:"mimeType"`
	PreferredPayloadType uint8          `json:"preferredPayloadType,omitempty"`
	ClockRate            uint32         `json:"clockRate"`
	Channels             uint16         `json:"channels,omitempty"`
	Parameters           map[string]any `json:"parameters,omitempty"`
	RTCPFeedback         []RTCPFeedback `json:"rtcpFeedback,omitempty"`
}

type RTPHeaderExtension struct {
	Kind        MediaKind `json:"kind,omitempty"`
	URI         string    `json:"uri"`
	PreferredID int       `json:"preferredId"`
}

type RTPCapabilities struct {
	Codecs           []RTPCodecCapability `json:"codecs"`
	HeaderExtensions []RTPHeaderExtension `json:"headerExtensions,omitempty"`
}

type RTPCodecParameters struct {
	MimeType     string         `json:"mimeType"`
	PayloadType  uint8          `json:"payloadType"`
	ClockRate    uint32         `json:"clockRate"`
	Channels     uint16         `json:"channels,omitempty"`
	Parameters   map[string]any `json:"parameters,omitempty"`
	RTCPFeedback []RTCPFeedback `json:"rtcpFeedback,omitempty"`
}

type RTPEncodingParameters struct {
	SSRC uint32 `json:"ssrc,omitempty"`
	RID  string `json:"rid,omitempty"`
}

type RTPParameters struct {
	Mid       string                  `json:"mid,omitempty"`
	Codecs    []RTPCodecParameters    `json:"codecs"`
	Encodings []RTPEncodingParameters `json:"encodings,omitempty"`
}

// SameCodec compares mime type (case-insensitive), clock rate and channels.
// Zero channels on either side matches anything.
func SameCodec(mimeType string, clockRate uint32, channels uint16, c RTPCodecCapability) bool {
	if !strings.EqualFold(mimeType, c.MimeType) || clockRate != c.ClockRate {
		return false
	}
	return channels == 0 || c.Channels == 0 || channels == c.Channels
}

// KindOfMime derives the media kind from an "audio/opus" style mime type.
func KindOfMime(mimeType string) MediaKind {
	kind, _, _ := strings.Cut(strings.ToLower(mimeType), "/")
	return MediaKind(kind)
}
