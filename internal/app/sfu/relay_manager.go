package sfu

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/domain"
)

type RelayManager struct {
	mu     sync.RWMutex
	relays map[domain.ProducerID]*Relay
}

func NewRelayManager() *RelayManager {
	return &RelayManager{
		relays: make(map[domain.ProducerID]*Relay),
	}
}

// StartRelay creates a Relay for producer id and starts its loop.
func (m *RelayManager) StartRelay(ctx context.Context, id domain.ProducerID, src RTPSource) *Relay {
	logger := log.With().
		Str("module", "relay").
		Str("producer", string(id)).
		Logger()

	relayCtx, cancel := context.WithCancel(ctx)
	relay := NewRelay(id, src, cancel)

	m.mu.Lock()
	if old, ok := m.relays[id]; ok {
		logger.Info().Msg("replacing existing relay for producer")
		old.markAllDelete()
		old.cancel()
	}
	m.relays[id] = relay
	m.mu.Unlock()

	logger.Info().Msg("starting relay loop")

	go relay.loop(relayCtx, &logger)
	return relay
}

// AddSubscriber attaches a consumer sink to the relay of producer. It reports
// false when the producer has no relay.
func (m *RelayManager) AddSubscriber(producer domain.ProducerID, consumer domain.ConsumerID, sink RTPSink, paused bool) (*OutTrack, bool) {
	m.mu.RLock()
	relay, ok := m.relays[producer]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	ot := NewOutTrack(consumer, sink, paused)
	relay.AddOutTrack(ot)
	return ot, true
}

func (m *RelayManager) subscriber(producer domain.ProducerID, consumer domain.ConsumerID) (*OutTrack, bool) {
	m.mu.RLock()
	relay, ok := m.relays[producer]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return relay.outTrack(consumer)
}

// ResumeSubscriber unmutes a consumer. It reports false when the consumer is
// gone, for instance because its producer stopped.
func (m *RelayManager) ResumeSubscriber(producer domain.ProducerID, consumer domain.ConsumerID) bool {
	ot, ok := m.subscriber(producer, consumer)
	if !ok || ot.GetState() == TrackStateDelete {
		return false
	}
	ot.MarkOk()
	return true
}

func (m *RelayManager) PauseSubscriber(producer domain.ProducerID, consumer domain.ConsumerID) bool {
	ot, ok := m.subscriber(producer, consumer)
	if !ok {
		return false
	}
	ot.MarkMuted()
	return true
}

// MarkSubscriberDelete marks the consumer's OutTrack as TrackStateDelete.
func (m *RelayManager) MarkSubscriberDelete(producer domain.ProducerID, consumer domain.ConsumerID) {
	if ot, ok := m.subscriber(producer, consumer); ok {
		ot.MarkDelete()
	}
}

// StopRelay stops a relay and removes it from the manager.
func (m *RelayManager) StopRelay(producer domain.ProducerID) {
	m.mu.Lock()
	relay, ok := m.relays[producer]
	if ok {
		delete(m.relays, producer)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	relay.markAllDelete()
	relay.cancel()
}

func (m *RelayManager) HasRelay(producer domain.ProducerID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.relays[producer]
	return ok
}

func (m *RelayManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.relays)
}
