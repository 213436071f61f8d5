package signal

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
	env inbound,
) {
	ctl.sendJSON(conn, outbound{Type: eventPong, ID: env.ID})
}
