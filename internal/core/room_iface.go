package core

import "github.com/dkeye/Huddle/internal/domain"

// RoomIndex maps rooms to advertised producers and joined sessions.
// It never touches engine resources.
type RoomIndex interface {
	AddProducerToRoom(room domain.RoomID, producerID domain.ProducerID, owner domain.SessionID)
	RemoveProducerFromRoom(room domain.RoomID, producerID domain.ProducerID)
	GetProducersInRoom(room domain.RoomID) []domain.ProducerRef
	HasProducer(room domain.RoomID, producerID domain.ProducerID) bool
	RemoveUserFromAllRooms(sid domain.SessionID) []domain.RoomID

	Join(room domain.RoomID, sid domain.SessionID) error
	Leave(room domain.RoomID, sid domain.SessionID) bool
	Members(room domain.RoomID) []domain.SessionID
	RoomsOf(sid domain.SessionID) []domain.RoomID
	List() []domain.RoomInfo
}
