package signal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

// Hub is the messaging collaborator: it knows every live connection and
// resolves room recipients through the room index.
type Hub struct {
	mu     sync.RWMutex
	conns  map[domain.SessionID]core.SignalConnection
	rooms  core.RoomIndex
	policy app.Policy
}

func NewHub(rooms core.RoomIndex, policy app.Policy) *Hub {
	if policy == nil {
		policy = app.SimplePolicy{}
	}
	return &Hub{
		conns:  make(map[domain.SessionID]core.SignalConnection),
		rooms:  rooms,
		policy: policy,
	}
}

func (h *Hub) Register(sid domain.SessionID, c core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.conns[sid]; ok && old != c {
		old.Close()
	}
	h.conns[sid] = c
}

func (h *Hub) Unregister(sid domain.SessionID) {
	h.mu.Lock()
	c, ok := h.conns[sid]
	delete(h.conns, sid)
	h.mu.Unlock()
	if ok {
		c.Close()
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) conn(sid domain.SessionID) (core.SignalConnection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[sid]
	return c, ok
}

func encode(event string, payload any) (core.Frame, error) {
	return json.Marshal(outbound{Type: event, Data: payload})
}

func (h *Hub) Emit(to domain.SessionID, event string, payload any) error {
	frame, err := encode(event, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	return h.deliver(to, event, frame)
}

func (h *Hub) deliver(to domain.SessionID, event string, frame core.Frame) error {
	c, ok := h.conn(to)
	if !ok {
		return fmt.Errorf("connection %s: %w", to, domain.ErrNotFound)
	}
	err := c.TrySend(frame)
	if errors.Is(err, ErrBackpressure) {
		switch h.policy.OnBackPressure(to, event) {
		case app.KickMember:
			log.Warn().Str("module", "signal").Str("sid", string(to)).Str("event", event).Msg("backpressure, kicking")
			c.Close()
		case app.MarkSlow:
			log.Warn().Str("module", "signal").Str("sid", string(to)).Str("event", event).Msg("slow consumer")
		default:
			log.Debug().Str("module", "signal").Str("sid", string(to)).Str("event", event).Msg("frame dropped")
		}
	}
	return err
}

func (h *Hub) fanOut(targets []domain.SessionID, except domain.SessionID, event string, payload any) core.PublishResult {
	res := core.PublishResult{}
	frame, err := encode(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("event", event).Msg("fan-out marshal")
		return res
	}
	for _, sid := range targets {
		if sid == except {
			continue
		}
		if err := h.deliver(sid, event, frame); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SendTo++
	}
	return res
}

func (h *Hub) EmitRoom(room domain.RoomID, except domain.SessionID, event string, payload any) core.PublishResult {
	return h.fanOut(h.rooms.Members(room), except, event, payload)
}

func (h *Hub) Broadcast(except domain.SessionID, event string, payload any) core.PublishResult {
	h.mu.RLock()
	targets := lo.Keys(h.conns)
	h.mu.RUnlock()
	return h.fanOut(targets, except, event, payload)
}
