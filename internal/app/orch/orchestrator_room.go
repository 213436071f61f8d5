package orch

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/domain"
)

// JoinRoom admits sid into room unless the room is full. The room is told
// about the newcomer, the newcomer gets the room state.
func (o *Orchestrator) JoinRoom(sid domain.SessionID, room domain.RoomID, msg MessageMeta) error {
	if _, err := o.live(sid); err != nil {
		return o.fail(sid, "joinRoom", err)
	}
	if room == "" {
		return o.fail(sid, "joinRoom", fmt.Errorf("empty room: %w", domain.ErrBadPayload))
	}
	if o.JoinLimiter != nil && !o.JoinLimiter.Allow(sid) {
		return o.fail(sid, "joinRoom", fmt.Errorf("join %s: %w", room, domain.ErrRateLimited))
	}
	if err := o.Rooms.Join(room, sid); err != nil {
		return o.fail(sid, "joinRoom", err)
	}

	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Msg("joined room")
	o.Signal.EmitRoom(room, sid, EventMessage, RoomMessage{
		Type: msg.Type,
		Name: msg.Name,
		Text: fmt.Sprintf("user %s has joined", sid),
		Time: msg.Time,
	})
	o.emit(sid, EventRoomJoined, RoomState{
		RoomID:    room,
		Members:   o.Rooms.Members(room),
		Producers: o.producersIn(room),
	})
	return nil
}

// LeaveRoom drops the membership only; producers advertised by sid stay
// visible until they are closed.
func (o *Orchestrator) LeaveRoom(sid domain.SessionID, room domain.RoomID, msg MessageMeta) error {
	if _, err := o.live(sid); err != nil {
		return o.fail(sid, "leaveRoom", err)
	}
	if !o.Rooms.Leave(room, sid) {
		return nil
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Msg("left room")
	o.Signal.EmitRoom(room, sid, EventMessage, RoomMessage{
		Type: msg.Type,
		Name: msg.Name,
		Text: fmt.Sprintf("user %s has left", sid),
		Time: msg.Time,
	})
	return nil
}
