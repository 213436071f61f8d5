package sfu

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/rs/zerolog"

	"github.com/dkeye/Huddle/internal/domain"
)

// RTPSource is the read side of a producer, usually a *webrtc.TrackRemote.
type RTPSource interface {
	ReadRTP() (*rtp.Packet, interceptor.Attributes, error)
}

// Relay fans the packets of one producer out to its consumers.
type Relay struct {
	Producer domain.ProducerID
	Src      RTPSource

	mu        sync.RWMutex
	outTracks map[domain.ConsumerID]*OutTrack

	forwarded atomic.Uint64
	done      chan struct{}
	cancel    context.CancelFunc
}

func NewRelay(id domain.ProducerID, src RTPSource, cancel context.CancelFunc) *Relay {
	return &Relay{
		Producer:  id,
		Src:       src,
		outTracks: make(map[domain.ConsumerID]*OutTrack),
		done:      make(chan struct{}),
		cancel:    cancel,
	}
}

// loop reads RTP packets from the source and forwards them to all OutTracks.
func (r *Relay) loop(ctx context.Context, logger *zerolog.Logger) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("relay ctx done, marking all out tracks for delete")
			r.markAllDelete()
			return
		default:
		}
		pkt, _, err := r.Src.ReadRTP()
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn().Err(err).Msg("relay read RTP error, stopping")
			}
			r.markAllDelete()
			return
		}
		r.forward(pkt, logger)
	}
}

func (r *Relay) forward(pkt *rtp.Packet, logger *zerolog.Logger) {
	r.mu.RLock()
	snapshot := maps.Clone(r.outTracks)
	r.mu.RUnlock()
	r.forwarded.Add(1)

	dirty := make([]domain.ConsumerID, 0)
	for id, ot := range snapshot {
		switch ot.GetState() {
		case TrackStateDelete:
			dirty = append(dirty, id)
		case TrackStateMuted:
		case TrackStateOk:
			if err := ot.Sink.WriteRTP(pkt); err != nil {
				logger.Warn().
					Err(err).
					Str("consumer", string(id)).
					Msg("relay write RTP error, marking outtrack as delete")
				ot.MarkDelete()
				dirty = append(dirty, id)
				continue
			}
			ot.written.Add(1)
		}
	}

	if len(dirty) > 0 {
		r.cleanupDeleted(dirty)
	}
}

func (r *Relay) cleanupDeleted(dirty []domain.ConsumerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range dirty {
		delete(r.outTracks, id)
	}
}

func (r *Relay) markAllDelete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ot := range r.outTracks {
		ot.MarkDelete()
	}
}

func (r *Relay) AddOutTrack(ot *OutTrack) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outTracks[ot.Consumer] = ot
}

func (r *Relay) outTrack(id domain.ConsumerID) (*OutTrack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ot, ok := r.outTracks[id]
	return ot, ok
}

func (r *Relay) Subscribers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.outTracks)
}

func (r *Relay) Forwarded() uint64 {
	return r.forwarded.Load()
}

// Done is closed once the loop has exited.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}
