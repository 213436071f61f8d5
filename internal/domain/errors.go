package domain

import "errors"

var (
	ErrNotFound                 = errors.New("not found")
	ErrRoleMismatch             = errors.New("transport role mismatch")
	ErrEngineUnavailable        = errors.New("media engine unavailable")
	ErrNegotiation              = errors.New("negotiation failed")
	ErrIncompatibleCapabilities = errors.New("incompatible rtp capabilities")
	ErrRoomFull                 = errors.New("room has reached maximum capacity")
	ErrRoomOrProducerNotFound   = errors.New("room or producer not found")
	ErrRateLimited              = errors.New("too many attempts")
	ErrBadPayload               = errors.New("bad payload")
)

// Wire tags carried by `error` events.
const (
	ErrTypeNotFound                 = "NOT_FOUND"
	ErrTypeRoleMismatch             = "ROLE_MISMATCH"
	ErrTypeEngineUnavailable        = "ENGINE_UNAVAILABLE"
	ErrTypeNegotiation              = "NEGOTIATION_ERROR"
	ErrTypeIncompatibleCapabilities = "INCOMPATIBLE_CAPABILITIES"
	ErrTypeRoomFull                 = "ROOM_FULL"
	ErrTypeRoomOrProducerNotFound   = "ROOM_OR_PRODUCER_NOT_FOUND"
	ErrTypeRateLimited              = "RATE_LIMITED"
	ErrTypeBadPayload               = "BAD_PAYLOAD"
	ErrTypeRouterCapabilities       = "ROUTER_CAPABILITIES_ERROR"
	ErrTypeInternal                 = "INTERNAL"
)

var errorTypes = []struct {
	err error
	tag string
}{
	{ErrNotFound, ErrTypeNotFound},
	{ErrRoleMismatch, ErrTypeRoleMismatch},
	{ErrEngineUnavailable, ErrTypeEngineUnavailable},
	{ErrNegotiation, ErrTypeNegotiation},
	{ErrIncompatibleCapabilities, ErrTypeIncompatibleCapabilities},
	{ErrRoomFull, ErrTypeRoomFull},
	{ErrRoomOrProducerNotFound, ErrTypeRoomOrProducerNotFound},
	{ErrRateLimited, ErrTypeRateLimited},
	{ErrBadPayload, ErrTypeBadPayload},
}

// ErrorType maps an error to its wire tag.
func ErrorType(err error) string {
	for _, et := range errorTypes {
		if errors.Is(err, et.err) {
			return et.tag
		}
	}
	return ErrTypeInternal
}
