package domain

type RoomID string

// ProducerRef advertises a producer inside a room.
// It does not own the producer.
type ProducerRef struct {
	ProducerID ProducerID `json:"producerId"`
	Owner      SessionID  `json:"socketId"`
}

type RoomInfo struct {
	ID            RoomID `json:"id"`
	MemberCount   int    `json:"member_count"`
	ProducerCount int    `json:"producer_count"`
}
