//go:generate go run go.uber.org/mock/mockgen -source=signal_iface.go -destination=../mocks/mock_signal.go -package=mocks
package core

import "github.com/dkeye/Huddle/internal/domain"

// Frame is a raw encoded signaling message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SendTo  int
	Dropped []domain.SessionID
}

// Messenger delivers named events with structured payloads.
type Messenger interface {
	Emit(to domain.SessionID, event string, payload any) error
	// EmitRoom delivers to every member of room except the sender.
	EmitRoom(room domain.RoomID, except domain.SessionID, event string, payload any) PublishResult
	// Broadcast delivers to every connection except the sender. Empty except reaches everyone.
	Broadcast(except domain.SessionID, event string, payload any) PublishResult
}
