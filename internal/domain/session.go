// Package domain contains entities without logic, just meta-data
package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const MaxSessionIDLen = 36

var ErrSessionIDEmpty = errors.New("session id empty")

// SessionID is the opaque identity of one signaling connection.
type SessionID string

// NewSessionID is a tiny helper to avoid ad-hoc uuid calls in adapters.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

type SessionState int

const (
	StateConnected SessionState = iota
	StateCapabilitiesRequested
	StateTransportsCreated
	StateProducing
	StateConsuming
	StateDisconnected
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateCapabilitiesRequested:
		return "capabilities_requested"
	case StateTransportsCreated:
		return "transports_created"
	case StateProducing:
		return "producing"
	case StateConsuming:
		return "consuming"
	case StateDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// ParseSessionID validates an id received from outside the process.
func ParseSessionID(raw string) (SessionID, error) {
	if raw == "" {
		return "", ErrSessionIDEmpty
	}
	if len(raw) > MaxSessionIDLen {
		return "", fmt.Errorf("session id longer than %d: %w", MaxSessionIDLen, ErrBadPayload)
	}
	return SessionID(raw), nil
}
