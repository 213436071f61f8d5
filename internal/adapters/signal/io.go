package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/domain"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	var ping <-chan time.Time
	if ctl.PingPeriod > 0 {
		t := time.NewTicker(ctl.PingPeriod)
		defer t.Stop()
		ping = t.C
	}
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump handles the frames of one connection strictly in order.
func (ctl *SignalWSController) readPump(ctx context.Context, sid domain.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		c.Close()
	}()

	if ctl.PingPeriod > 0 {
		wait := ctl.PingPeriod * 10 / 9
		_ = c.conn.SetReadDeadline(time.Now().Add(wait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(wait))
		})
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(ctx, sid, c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, sid domain.SessionID, c *WsSignalConn, data []byte) {
	var env inbound
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json")
		ctl.reject(sid, c, nil, fmt.Errorf("%w: %w", domain.ErrBadPayload, err))
		return
	}

	switch env.Type {
	case EventGetRouterRtpCapabilities:
		ctl.handleGetRouterRtpCapabilities(ctx, sid, c, env)
	case EventCreateWebRtcTransport:
		ctl.handleCreateWebRtcTransport(ctx, sid, c, env)
	case EventConnectTransport:
		ctl.handleConnectTransport(ctx, sid, c, env)
	case EventProduce:
		ctl.handleProduce(ctx, sid, c, env)
	case EventConsume:
		ctl.handleConsume(ctx, sid, c, env)
	case EventResumeConsumer:
		ctl.handleResumeConsumer(ctx, sid, c, env)
	case EventJoinRoom:
		ctl.handleJoinRoom(sid, c, env)
	case EventLeaveRoom:
		ctl.handleLeaveRoom(sid, c, env)
	case EventGetProducers:
		ctl.handleGetProducers(sid, c, env)
	case EventPing:
		ctl.handlePing(c, env)
	default:
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("type", env.Type).Msg("unknown signal")
	}
}

// decode unmarshals and validates the event payload into dst.
func (ctl *SignalWSController) decode(env inbound, dst any) error {
	if len(env.Data) == 0 {
		env.Data = []byte("{}")
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrBadPayload, env.Type, err)
	}
	if err := ctl.Validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrBadPayload, env.Type, err)
	}
	return nil
}

// reject reports a payload the orchestrator never saw.
func (ctl *SignalWSController) reject(sid domain.SessionID, c *WsSignalConn, id *int64, err error) {
	log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad payload")
	ctl.sendJSON(c, outbound{Type: orch.EventError, Data: orch.ErrorPayload{
		Type:        domain.ErrorType(err),
		Message:     err.Error(),
		Recoverable: true,
	}})
	ctl.ackErr(c, id, err)
}

func (ctl *SignalWSController) ack(c *WsSignalConn, id *int64, data any) {
	if id == nil {
		return
	}
	ctl.sendJSON(c, outbound{Type: eventAck, ID: id, Data: data})
}

func (ctl *SignalWSController) ackErr(c *WsSignalConn, id *int64, err error) {
	ctl.ack(c, id, ackError{Error: ackErrorBody{Type: domain.ErrorType(err), Message: err.Error()}})
}

// reply acks the outcome of an orchestrator call. Errors were already
// surfaced as `error` events by the orchestrator.
func (ctl *SignalWSController) reply(c *WsSignalConn, id *int64, data any, err error) {
	if err != nil {
		ctl.ackErr(c, id, err)
		return
	}
	ctl.ack(c, id, data)
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(b); err != nil && !errors.Is(err, ErrConnClosed) {
		log.Debug().Err(err).Str("module", "signal").Msg("sendJSON dropped")
	}
}
