package sfu

import (
	"sync/atomic"

	"github.com/pion/rtp"

	"github.com/dkeye/Huddle/internal/domain"
)

type TrackState int32

const (
	TrackStateOk TrackState = iota
	TrackStateMuted
	TrackStateDelete
)

func (s TrackState) String() string {
	switch s {
	case TrackStateOk:
		return "ok"
	case TrackStateMuted:
		return "muted"
	case TrackStateDelete:
		return "delete"
	}
	return "unknown"
}

// RTPSink is the write side of a consumer, usually a *webrtc.TrackLocalStaticRTP.
type RTPSink interface {
	WriteRTP(p *rtp.Packet) error
}

// OutTrack is a single consumer of a relay. A consumer starts muted and is
// switched to Ok on resume.
type OutTrack struct {
	Consumer domain.ConsumerID
	Sink     RTPSink
	state    atomic.Int32
	written  atomic.Uint64
}

func NewOutTrack(id domain.ConsumerID, sink RTPSink, paused bool) *OutTrack {
	ot := &OutTrack{Consumer: id, Sink: sink}
	if paused {
		ot.MarkMuted()
	}
	return ot
}

func (ot *OutTrack) GetState() TrackState {
	return TrackState(ot.state.Load())
}

func (ot *OutTrack) MarkOk() {
	ot.state.CompareAndSwap(int32(TrackStateMuted), int32(TrackStateOk))
}

func (ot *OutTrack) MarkMuted() {
	ot.state.CompareAndSwap(int32(TrackStateOk), int32(TrackStateMuted))
}

// MarkDelete is terminal.
func (ot *OutTrack) MarkDelete() {
	ot.state.Store(int32(TrackStateDelete))
}

func (ot *OutTrack) Written() uint64 {
	return ot.written.Load()
}
