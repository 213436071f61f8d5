package sfu

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/require"
)

type chanSource struct {
	ch chan *rtp.Packet
}

func newChanSource() *chanSource {
	return &chanSource{ch: make(chan *rtp.Packet)}
}

func (s *chanSource) ReadRTP() (*rtp.Packet, interceptor.Attributes, error) {
	pkt, ok := <-s.ch
	if !ok {
		return nil, nil, io.EOF
	}
	return pkt, nil, nil
}

// send returns once the relay has picked the packet up, which means the
// previous packet has been fully forwarded.
func (s *chanSource) send(seq uint16) {
	s.ch <- &rtp.Packet{Header: rtp.Header{SequenceNumber: seq}}
}

type countingSink struct {
	mu   sync.Mutex
	seqs []uint16
	err  error
}

func (s *countingSink) WriteRTP(p *rtp.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.seqs = append(s.seqs, p.SequenceNumber)
	return nil
}

func (s *countingSink) snapshot() []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint16(nil), s.seqs...)
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seqs)
}

func TestRelay_Forward(t *testing.T) {
	req := require.New(t)
	m := NewRelayManager()
	src := newChanSource()
	relay := m.StartRelay(context.Background(), "p1", src)
	t.Cleanup(func() {
		m.StopRelay("p1")
		close(src.ch)
	})

	live, paused := &countingSink{}, &countingSink{}
	_, ok := m.AddSubscriber("p1", "c-live", live, false)
	req.True(ok)
	ot, ok := m.AddSubscriber("p1", "c-paused", paused, true)
	req.True(ok)
	req.Equal(TrackStateMuted, ot.GetState())

	// When two packets go through while the second consumer is paused
	src.send(1)
	src.send(2)

	// Then only the live consumer receives them
	req.Eventually(func() bool { return live.count() == 2 }, time.Second, time.Millisecond)
	req.Zero(paused.count())

	// When the paused consumer is resumed
	req.True(m.ResumeSubscriber("p1", "c-paused"))
	src.send(3)
	src.send(4)

	// Then it receives the packets that follow
	req.Eventually(func() bool { return live.count() == 4 && paused.count() >= 2 }, time.Second, time.Millisecond)
	seqs := paused.snapshot()
	req.NotContains(seqs, uint16(1))
	req.Contains(seqs, uint16(3))
	req.Eventually(func() bool { return ot.Written() == uint64(paused.count()) }, time.Second, time.Millisecond)
	req.Equal(uint64(4), relay.Forwarded())
	req.Equal(2, relay.Subscribers())
}

func TestRelay_Write_Error_Drops_Subscriber(t *testing.T) {
	req := require.New(t)
	m := NewRelayManager()
	src := newChanSource()
	relay := m.StartRelay(context.Background(), "p1", src)
	t.Cleanup(func() {
		m.StopRelay("p1")
		close(src.ch)
	})

	ot, ok := m.AddSubscriber("p1", "c1", &countingSink{err: errors.New("closed pipe")}, false)
	req.True(ok)

	src.send(1)
	src.send(2)

	req.Equal(TrackStateDelete, ot.GetState())
	req.Zero(relay.Subscribers())
	req.False(m.ResumeSubscriber("p1", "c1"))
}

func TestRelayManager_StopRelay(t *testing.T) {
	req := require.New(t)
	m := NewRelayManager()
	src := newChanSource()
	relay := m.StartRelay(context.Background(), "p1", src)
	ot, ok := m.AddSubscriber("p1", "c1", &countingSink{}, true)
	req.True(ok)
	req.True(m.HasRelay("p1"))

	m.StopRelay("p1")

	req.False(m.HasRelay("p1"))
	req.Zero(m.Len())
	req.Equal(TrackStateDelete, ot.GetState())
	req.False(m.ResumeSubscriber("p1", "c1"))

	// The loop exits once the source stops delivering.
	close(src.ch)
	select {
	case <-relay.Done():
	case <-time.After(time.Second):
		t.Fatal("relay loop did not exit")
	}

	// Stopping twice is a no-op.
	m.StopRelay("p1")
}

func TestRelayManager_Without_Relay(t *testing.T) {
	req := require.New(t)
	m := NewRelayManager()

	_, ok := m.AddSubscriber("p1", "c1", &countingSink{}, false)
	req.False(ok)
	req.False(m.ResumeSubscriber("p1", "c1"))
	req.False(m.PauseSubscriber("p1", "c1"))
	m.MarkSubscriberDelete("p1", "c1")
}

func TestOutTrack_States(t *testing.T) {
	req := require.New(t)
	ot := NewOutTrack("c1", &countingSink{}, false)
	req.Equal(TrackStateOk, ot.GetState())

	ot.MarkMuted()
	req.Equal(TrackStateMuted, ot.GetState())
	ot.MarkOk()
	req.Equal(TrackStateOk, ot.GetState())

	ot.MarkDelete()
	ot.MarkOk()
	ot.MarkMuted()
	req.Equal(TrackStateDelete, ot.GetState())
	req.Equal("delete", ot.GetState().String())
}
