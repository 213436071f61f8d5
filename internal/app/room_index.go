package app

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

const DefaultRoomCapacity = 20

// room is a threadsafe in-memory room.
// It never closes engine resources.
type room struct {
	id        domain.RoomID
	mu        sync.RWMutex
	members   map[domain.SessionID]struct{}
	producers map[domain.ProducerRef]struct{}
}

func newRoom(id domain.RoomID) *room {
	return &room{
		id:        id,
		members:   make(map[domain.SessionID]struct{}),
		producers: make(map[domain.ProducerRef]struct{}),
	}
}

func (r *room) empty() bool {
	return len(r.members) == 0 && len(r.producers) == 0
}

// RoomIndex is the authoritative room entity store. Members and advertised
// producers are tracked independently: a session may produce into a room it
// never joined.
type RoomIndex struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomID]*room
	capacity int
}

var _ core.RoomIndex = (*RoomIndex)(nil)

func NewRoomIndex(capacity int) *RoomIndex {
	if capacity <= 0 {
		capacity = DefaultRoomCapacity
	}
	return &RoomIndex{
		rooms:    make(map[domain.RoomID]*room),
		capacity: capacity,
	}
}

func (x *RoomIndex) Capacity() int { return x.capacity }

func (x *RoomIndex) get(id domain.RoomID) (*room, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	r, ok := x.rooms[id]
	return r, ok
}

// mutate runs fn under the room lock of an existing room and drops the room
// once it holds nothing.
func (x *RoomIndex) mutate(id domain.RoomID, fn func(r *room)) {
	x.mu.Lock()
	defer x.mu.Unlock()
	r, ok := x.rooms[id]
	if !ok {
		return
	}
	r.mu.Lock()
	fn(r)
	gone := r.empty()
	r.mu.Unlock()
	if gone {
		delete(x.rooms, id)
	}
}

// insert holds the index lock so a concurrent prune cannot drop the room
// between lookup and insert.
func (x *RoomIndex) insert(id domain.RoomID, fn func(r *room) error) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	r, ok := x.rooms[id]
	if !ok {
		r = newRoom(id)
	}
	r.mu.Lock()
	err := fn(r)
	keep := !r.empty()
	r.mu.Unlock()
	if keep {
		x.rooms[id] = r
	}
	return err
}

func (x *RoomIndex) AddProducerToRoom(id domain.RoomID, producerID domain.ProducerID, owner domain.SessionID) {
	_ = x.insert(id, func(r *room) error {
		r.producers[domain.ProducerRef{ProducerID: producerID, Owner: owner}] = struct{}{}
		return nil
	})
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("producer", string(producerID)).Str("sid", string(owner)).Msg("producer advertised")
}

func (x *RoomIndex) RemoveProducerFromRoom(id domain.RoomID, producerID domain.ProducerID) {
	x.mutate(id, func(r *room) {
		for ref := range r.producers {
			if ref.ProducerID == producerID {
				delete(r.producers, ref)
				return
			}
		}
	})
}

func (x *RoomIndex) GetProducersInRoom(id domain.RoomID) []domain.ProducerRef {
	r, ok := x.get(id)
	if !ok {
		return []domain.ProducerRef{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.producers)
}

func (x *RoomIndex) HasProducer(id domain.RoomID, producerID domain.ProducerID) bool {
	r, ok := x.get(id)
	if !ok {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for ref := range r.producers {
		if ref.ProducerID == producerID {
			return true
		}
	}
	return false
}

// RemoveUserFromAllRooms scans every room regardless of what sid joined and
// drops its membership and all producer records it owns.
func (x *RoomIndex) RemoveUserFromAllRooms(sid domain.SessionID) []domain.RoomID {
	x.mu.Lock()
	defer x.mu.Unlock()
	touched := make([]domain.RoomID, 0)
	for id, r := range x.rooms {
		r.mu.Lock()
		hit := false
		if _, ok := r.members[sid]; ok {
			delete(r.members, sid)
			hit = true
		}
		for ref := range r.producers {
			if ref.Owner == sid {
				delete(r.producers, ref)
				hit = true
			}
		}
		gone := r.empty()
		r.mu.Unlock()
		if hit {
			touched = append(touched, id)
		}
		if gone {
			delete(x.rooms, id)
		}
	}
	if len(touched) > 0 {
		log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Int("rooms", len(touched)).Msg("user removed from rooms")
	}
	return touched
}

// Join adds sid to the member set. Re-joining is a no-op; a full room rejects
// the join without any state change.
func (x *RoomIndex) Join(id domain.RoomID, sid domain.SessionID) error {
	err := x.insert(id, func(r *room) error {
		if _, ok := r.members[sid]; ok {
			return nil
		}
		if len(r.members) >= x.capacity {
			return fmt.Errorf("room %s (%d members): %w", id, len(r.members), domain.ErrRoomFull)
		}
		r.members[sid] = struct{}{}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("sid", string(sid)).Msg("member added")
	return nil
}

func (x *RoomIndex) Leave(id domain.RoomID, sid domain.SessionID) bool {
	left := false
	x.mutate(id, func(r *room) {
		if _, ok := r.members[sid]; ok {
			delete(r.members, sid)
			left = true
		}
	})
	if left {
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("sid", string(sid)).Msg("member removed")
	}
	return left
}

func (x *RoomIndex) Members(id domain.RoomID) []domain.SessionID {
	r, ok := x.get(id)
	if !ok {
		return []domain.SessionID{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.members)
}

func (x *RoomIndex) RoomsOf(sid domain.SessionID) []domain.RoomID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]domain.RoomID, 0)
	for id, r := range x.rooms {
		r.mu.RLock()
		_, ok := r.members[sid]
		r.mu.RUnlock()
		if ok {
			out = append(out, id)
		}
	}
	return out
}

func (x *RoomIndex) List() []domain.RoomInfo {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]domain.RoomInfo, 0, len(x.rooms))
	for id, r := range x.rooms {
		r.mu.RLock()
		out = append(out, domain.RoomInfo{ID: id, MemberCount: len(r.members), ProducerCount: len(r.producers)})
		r.mu.RUnlock()
	}
	return out
}
