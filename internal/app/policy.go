package app

import "github.com/dkeye/Huddle/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

// Policy decides what happens to a connection whose send buffer is full.
type Policy interface {
	OnBackPressure(sid domain.SessionID, event string) BackpressureAction
}

// SimplePolicy drops routine frames but kicks a member that cannot even keep
// up with media signaling.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(_ domain.SessionID, event string) BackpressureAction {
	switch event {
	case "newProducer", "consumerCreated", "transportCreated":
		return KickMember
	}
	return DropFrame
}
