package orch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

// JoinLimiter throttles room joins per session.
type JoinLimiter interface {
	Allow(sid domain.SessionID) bool
	Forget(sid domain.SessionID)
}

// Orchestrator drives the per-connection lifecycle. It is the only place that
// touches Registry and Rooms on behalf of signaling, and the boundary where
// errors turn into `error` events.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomIndex
	Media    *app.MediaFacade
	Signal   core.Messenger
	Sessions *Sessions

	CapsRetry          app.RetryPolicy
	JoinLimiter        JoinLimiter
	NegotiationTimeout time.Duration
}

func (o *Orchestrator) Connect(sid domain.SessionID) {
	o.Sessions.open(sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("session connected")
	o.Signal.Broadcast("", EventPeers, o.Sessions.IDs())
}

// Disconnect tears the session down. It is safe on unknown, resource-less
// and already disconnected sessions; teardown errors are only logged.
func (o *Orchestrator) Disconnect(sid domain.SessionID) {
	if s, ok := o.Sessions.remove(sid); ok {
		s.close()
	}
	producers := o.Registry.ListProducersForUser(sid)

	if err := o.Registry.ReleaseUser(sid); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("teardown finished with errors")
	}
	rooms := o.Rooms.RemoveUserFromAllRooms(sid)
	if o.JoinLimiter != nil {
		o.JoinLimiter.Forget(sid)
	}

	left := PeerLeft{
		SocketID:    sid,
		ProducerIDs: lo.Map(producers, func(p domain.ProducerInfo, _ int) domain.ProducerID { return p.ID }),
	}
	for _, room := range rooms {
		o.Signal.EmitRoom(room, sid, EventPeerLeft, left)
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Int("rooms", len(rooms)).Msg("session disconnected")
	o.Signal.Broadcast(sid, EventPeers, o.Sessions.IDs())
}

func (o *Orchestrator) live(sid domain.SessionID) (*session, error) {
	s, ok := o.Sessions.get(sid)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sid, domain.ErrNotFound)
	}
	return s, nil
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.NegotiationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.NegotiationTimeout)
}

// fail reports err to the caller as an `error` event and hands it back.
func (o *Orchestrator) fail(sid domain.SessionID, op string, err error) error {
	log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("op", op).Msg("operation failed")
	payload := ErrorPayload{
		Type:        domain.ErrorType(err),
		Message:     err.Error(),
		Recoverable: true,
	}
	if errors.Is(err, domain.ErrRoomFull) {
		payload.Message = "Room has reached maximum capacity"
	}
	if sendErr := o.Signal.Emit(sid, EventError, payload); sendErr != nil {
		log.Debug().Err(sendErr).Str("module", "orch").Str("sid", string(sid)).Msg("error event not delivered")
	}
	return err
}

func (o *Orchestrator) emit(sid domain.SessionID, event string, payload any) {
	if err := o.Signal.Emit(sid, event, payload); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("event", event).Msg("emit failed")
	}
}
