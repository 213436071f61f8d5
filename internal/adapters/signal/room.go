package signal

import (
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/domain"
)

type roomPayload struct {
	Room    domain.RoomID    `json:"room" validate:"required,max=64"`
	Message orch.MessageMeta `json:"message"`
}

type getProducersPayload struct {
	RoomID domain.RoomID `json:"roomId" validate:"max=64"`
}

func (ctl *SignalWSController) handleJoinRoom(sid domain.SessionID, c *WsSignalConn, env inbound) {
	var p roomPayload
	if err := ctl.decode(env, &p); err != nil {
		ctl.reject(sid, c, env.ID, err)
		return
	}
	err := ctl.Orch.JoinRoom(sid, p.Room, p.Message)
	ctl.reply(c, env.ID, nil, err)
}

// handleLeaveRoom leaves one room, the connection stays.
func (ctl *SignalWSController) handleLeaveRoom(sid domain.SessionID, c *WsSignalConn, env inbound) {
	var p roomPayload
	if err := ctl.decode(env, &p); err != nil {
		ctl.reject(sid, c, env.ID, err)
		return
	}
	err := ctl.Orch.LeaveRoom(sid, p.Room, p.Message)
	ctl.reply(c, env.ID, nil, err)
}

func (ctl *SignalWSController) handleGetProducers(sid domain.SessionID, c *WsSignalConn, env inbound) {
	var p getProducersPayload
	if err := ctl.decode(env, &p); err != nil {
		ctl.reject(sid, c, env.ID, err)
		return
	}
	list, err := ctl.Orch.GetProducers(sid, p.RoomID)
	ctl.reply(c, env.ID, orch.ProducerList{RoomID: p.RoomID, Producers: list}, err)
}
