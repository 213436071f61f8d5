package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/domain"
)

type harness struct {
	ctl      *SignalWSController
	sessions *orch.Sessions
	url      string
}

// newHarness serves signaling without a media engine.
func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	media := app.NewMediaFacade(nil, 0)
	rooms := app.NewRoomIndex(2)
	hub := NewHub(rooms, app.SimplePolicy{})
	sessions := orch.NewSessions()
	o := &orch.Orchestrator{
		Registry:           app.NewRegistry(media),
		Rooms:              rooms,
		Media:              media,
		Signal:             hub,
		Sessions:           sessions,
		CapsRetry:          app.RetryPolicy{MaxRetries: 0},
		NegotiationTimeout: time.Second,
	}
	ctl := NewSignalWSController(o, hub, 1<<16, 0)

	ctx, cancel := context.WithCancel(context.Background())
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ctl.HandleSignal(ctx, c) })
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &harness{
		ctl:      ctl,
		sessions: sessions,
		url:      "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
	}
}

func (h *harness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(h.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	// Every connection is greeted with the peer list.
	require.Equal(t, orch.EventPeers, next(t, ws, orch.EventPeers).Type)
	return ws
}

func send(t *testing.T, ws *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(frame)))
}

// next reads frames until one of the given type arrives.
func next(t *testing.T, ws *websocket.Conn, typ string) inbound {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := ws.ReadMessage()
		require.NoError(t, err)
		var env inbound
		require.NoError(t, json.Unmarshal(data, &env))
		if env.Type == typ {
			return env
		}
	}
}

func TestSignal_Ping(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	ws := h.dial(t)

	send(t, ws, `{"type":"ping","id":7}`)

	pong := next(t, ws, "pong")
	req.NotNil(pong.ID)
	req.Equal(int64(7), *pong.ID)
}

func TestSignal_JoinRoom(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	alice := h.dial(t)
	bob := h.dial(t)

	// Given alice in r1
	send(t, alice, `{"type":"joinRoom","id":1,"data":{"room":"r1","message":{"type":"text","name":"alice"}}}`)
	joined := next(t, alice, orch.EventRoomJoined)
	ack := next(t, alice, "ack")
	req.Equal(int64(1), *ack.ID)
	req.Empty(ack.Data)

	var state orch.RoomState
	req.NoError(json.Unmarshal(joined.Data, &state))
	req.Equal(domain.RoomID("r1"), state.RoomID)
	req.Len(state.Members, 1)

	// When bob joins
	send(t, bob, `{"type":"joinRoom","id":2,"data":{"room":"r1"}}`)
	next(t, bob, "ack")

	// Then alice is told
	msg := next(t, alice, orch.EventMessage)
	var room orch.RoomMessage
	req.NoError(json.Unmarshal(msg.Data, &room))
	req.Contains(room.Text, "has joined")
}

func TestSignal_JoinRoom_Full(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	clients := []*websocket.Conn{h.dial(t), h.dial(t), h.dial(t)}

	for i, ws := range clients[:2] {
		send(t, ws, fmt.Sprintf(`{"type":"joinRoom","id":%d,"data":{"room":"r1"}}`, i+1))
		next(t, ws, "ack")
	}

	send(t, clients[2], `{"type":"joinRoom","id":9,"data":{"room":"r1"}}`)

	ev := next(t, clients[2], orch.EventError)
	var payload orch.ErrorPayload
	req.NoError(json.Unmarshal(ev.Data, &payload))
	req.Equal(domain.ErrTypeRoomFull, payload.Type)
	req.Equal("Room has reached maximum capacity", payload.Message)
	req.True(payload.Recoverable)

	ack := next(t, clients[2], "ack")
	var body ackError
	req.NoError(json.Unmarshal(ack.Data, &body))
	req.Equal(domain.ErrTypeRoomFull, body.Error.Type)
}

func TestSignal_Bad_Payload(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	ws := h.dial(t)

	send(t, ws, `{"type":"joinRoom","id":3,"data":{}}`)

	ev := next(t, ws, orch.EventError)
	var payload orch.ErrorPayload
	req.NoError(json.Unmarshal(ev.Data, &payload))
	req.Equal(domain.ErrTypeBadPayload, payload.Type)

	ack := next(t, ws, "ack")
	req.Equal(int64(3), *ack.ID)

	// The connection survives.
	send(t, ws, `{"type":"ping","id":4}`)
	next(t, ws, "pong")
}

func TestSignal_Router_Capabilities_Unavailable(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	ws := h.dial(t)

	send(t, ws, `{"type":"getRouterRtpCapabilities","id":5}`)

	ev := next(t, ws, orch.EventError)
	var payload orch.ErrorPayload
	req.NoError(json.Unmarshal(ev.Data, &payload))
	req.Equal(domain.ErrTypeRouterCapabilities, payload.Type)
	req.False(payload.Recoverable)

	// The connection stays open.
	send(t, ws, `{"type":"ping","id":6}`)
	next(t, ws, "pong")
}

func TestSignal_Disconnect(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	alice := h.dial(t)
	bob := h.dial(t)

	send(t, alice, `{"type":"joinRoom","id":1,"data":{"room":"r1"}}`)
	next(t, alice, "ack")
	send(t, bob, `{"type":"joinRoom","id":1,"data":{"room":"r1"}}`)
	next(t, bob, "ack")
	req.Len(h.sessions.IDs(), 2)

	// When alice goes away
	req.NoError(alice.Close())

	// Then bob sees her leave and her session is gone
	left := next(t, bob, orch.EventPeerLeft)
	var payload orch.PeerLeft
	req.NoError(json.Unmarshal(left.Data, &payload))
	req.NotEmpty(payload.SocketID)
	req.Eventually(func() bool { return len(h.sessions.IDs()) == 1 }, time.Second, 5*time.Millisecond)
	req.Eventually(func() bool { return h.ctl.Hub.Len() == 1 }, time.Second, 5*time.Millisecond)
}
