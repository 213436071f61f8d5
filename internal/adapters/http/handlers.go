package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type Readiness interface {
	Ready() bool
}

// API is the read-only inspection surface.
type API struct {
	Registry *app.Registry
	Rooms    core.RoomIndex
	Sessions *orch.Sessions
	Engine   Readiness

	// EngineStats is reported under "engine" in /api/stats when set.
	EngineStats func() any
}

type StatsResponse struct {
	Sessions int               `json:"sessions"`
	Rooms    int               `json:"rooms"`
	Registry app.RegistryStats `json:"registry"`
	Engine   any               `json:"engine,omitempty"`
}

func (a *API) Register(g *gin.RouterGroup) {
	g.GET("/rooms", a.ListRooms)
	g.GET("/rooms/:room/producers", a.RoomProducers)
	g.GET("/producers", a.ListProducers)
	g.GET("/sessions", a.ListSessions)
	g.GET("/sessions/:sid", a.GetSession)
	g.GET("/stats", a.Stats)
}

func (a *API) Health(c *gin.Context) {
	if a.Engine == nil || !a.Engine.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "engine unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": a.Rooms.List()})
}

func (a *API) RoomProducers(c *gin.Context) {
	room := domain.RoomID(c.Param("room"))
	c.JSON(http.StatusOK, gin.H{
		"room":      room,
		"members":   a.Rooms.Members(room),
		"producers": a.Rooms.GetProducersInRoom(room),
	})
}

func (a *API) ListProducers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"producers": a.Registry.ListProducers()})
}

func (a *API) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": a.Sessions.Snapshot()})
}

func (a *API) GetSession(c *gin.Context) {
	sid, err := domain.ParseSessionID(c.Param("sid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	state := a.Sessions.State(sid)
	if state == domain.StateDisconnected {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	transports, producers, consumers := a.Registry.Counts(sid)
	c.JSON(http.StatusOK, gin.H{
		"id":         sid,
		"state":      state.String(),
		"rooms":      a.Rooms.RoomsOf(sid),
		"transports": transports,
		"producers":  producers,
		"consumers":  consumers,
	})
}

func (a *API) Stats(c *gin.Context) {
	resp := StatsResponse{
		Sessions: len(a.Sessions.IDs()),
		Rooms:    len(a.Rooms.List()),
		Registry: a.Registry.Stats(),
	}
	if a.EngineStats != nil {
		resp.Engine = a.EngineStats()
	}
	c.JSON(http.StatusOK, resp)
}
