package signal

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/domain"
)

const (
	defaultSendBuffer = 32
	writeWait         = 5 * time.Second
)

type SignalWSController struct {
	Orch     *orch.Orchestrator
	Hub      *Hub
	Validate *validator.Validate

	ReadLimit  int64
	PingPeriod time.Duration
	SendBuffer int
}

func NewSignalWSController(o *orch.Orchestrator, hub *Hub, readLimit int64, pingPeriod time.Duration) *SignalWSController {
	return &SignalWSController{
		Orch:       o,
		Hub:        hub,
		Validate:   validator.New(validator.WithRequiredStructEnabled()),
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
		SendBuffer: defaultSendBuffer,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection until either
// side goes away. Every connection gets a fresh session id; the cookie client
// token is only logged.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := domain.NewSessionID()
	token := c.GetString("client_token")
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client_token", token).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ctl.Serve(ctx, sid, ws)
}

// Serve owns ws from here on.
func (ctl *SignalWSController) Serve(ctx context.Context, sid domain.SessionID, ws *websocket.Conn) {
	buffer := ctl.SendBuffer
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}
	conn := NewWsSignalConn(ws, buffer)
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Hub.Register(sid, conn)
	ctl.Orch.Connect(sid)

	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sid, conn)
		ctl.Hub.Unregister(sid)
		ctl.Orch.Disconnect(sid)
	}()
}
