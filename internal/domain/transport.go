package domain

import "fmt"

type TransportID string

// Role is fixed when the transport is created.
type Role string

const (
	RoleProducing Role = "producing"
	RoleConsuming Role = "consuming"
)

// RoleFor maps the signaling `sender` flag to a transport role.
func RoleFor(sender bool) Role {
	if sender {
		return RoleProducing
	}
	return RoleConsuming
}

func (r Role) Valid() bool { return r == RoleProducing || r == RoleConsuming }

type Transport struct {
	ID    TransportID `json:"id"`
	Owner SessionID   `json:"owner"`
	Role  Role        `json:"role"`
}

type ICEParameters struct {
	UsernameFragment string `json:"usernameFragment"`
	Password         string `json:"password"`
	ICELite          bool   `json:"iceLite,omitempty"`
}

type ICECandidate struct {
	Foundation string `json:"foundation"`
	Priority   uint32 `json:"priority"`
	IP         string `json:"ip"`
	Protocol   string `json:"protocol"`
	Port       uint16 `json:"port"`
	Type       string `json:"type"`
	TCPType    string `json:"tcpType,omitempty"`
}

type DTLSFingerprint struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

type DTLSParameters struct {
	Role         string            `json:"role,omitempty"`
	Fingerprints []DTLSFingerprint `json:"fingerprints"`
}

func (p DTLSParameters) Validate() error {
	if len(p.Fingerprints) == 0 {
		return fmt.Errorf("%w: dtls parameters without fingerprints", ErrNegotiation)
	}
	return nil
}

// TransportParams are forwarded verbatim to the remote peer.
type TransportParams struct {
	ID             TransportID    `json:"id"`
	ICEParameters  ICEParameters  `json:"iceParameters"`
	ICECandidates  []ICECandidate `json:"iceCandidates"`
	DTLSParameters DTLSParameters `json:"dtlsParameters"`
}

// RemoteTransportParams is what the remote peer sends back on connect.
// ICE fields are optional for engines running ICE-lite with peer-reflexive discovery.
type RemoteTransportParams struct {
	DTLSParameters DTLSParameters `json:"dtlsParameters"`
	ICEParameters  *ICEParameters `json:"iceParameters,omitempty"`
	ICECandidates  []ICECandidate `json:"iceCandidates,omitempty"`
}
