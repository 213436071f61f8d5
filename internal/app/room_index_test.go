package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dkeye/Huddle/internal/domain"
)

func TestRoomIndex_Producers(t *testing.T) {
	req := require.New(t)
	x := NewRoomIndex(DefaultRoomCapacity)

	// Given a producer advertised twice
	x.AddProducerToRoom("r1", "p1", "A")
	x.AddProducerToRoom("r1", "p1", "A")

	// Then it is listed once
	req.Equal([]domain.ProducerRef{{ProducerID: "p1", Owner: "A"}}, x.GetProducersInRoom("r1"))
	req.True(x.HasProducer("r1", "p1"))
	req.False(x.HasProducer("r2", "p1"))

	// When it is removed twice
	x.RemoveProducerFromRoom("r1", "p1")
	x.RemoveProducerFromRoom("r1", "p1")

	// Then it is gone and the empty room with it
	req.Empty(x.GetProducersInRoom("r1"))
	req.Empty(x.List())
}

func TestRoomIndex_GetProducersInRoom_Unknown_Room(t *testing.T) {
	x := NewRoomIndex(DefaultRoomCapacity)
	got := x.GetProducersInRoom("nope")
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestRoomIndex_Join_Capacity(t *testing.T) {
	req := require.New(t)
	x := NewRoomIndex(DefaultRoomCapacity)

	// Given 19 members
	for i := range DefaultRoomCapacity - 1 {
		req.NoError(x.Join("r1", domain.SessionID(fmt.Sprintf("s%d", i))))
	}

	// Then the 20th join succeeds
	req.NoError(x.Join("r1", "s19"))

	// And the 21st fails without changing the room
	req.ErrorIs(x.Join("r1", "s20"), domain.ErrRoomFull)
	req.Len(x.Members("r1"), DefaultRoomCapacity)
	req.Empty(x.RoomsOf("s20"))

	// And a member re-joining a full room is a no-op
	req.NoError(x.Join("r1", "s0"))
	req.Len(x.Members("r1"), DefaultRoomCapacity)
	req.Equal([]domain.RoomID{"r1"}, x.RoomsOf("s0"))
}

func TestRoomIndex_RemoveUserFromAllRooms(t *testing.T) {
	req := require.New(t)
	x := NewRoomIndex(DefaultRoomCapacity)

	// Given A is a member of r1, produces in r2 without joining it
	req.NoError(x.Join("r1", "A"))
	req.NoError(x.Join("r1", "B"))
	x.AddProducerToRoom("r1", "pa1", "A")
	x.AddProducerToRoom("r2", "pa2", "A")
	x.AddProducerToRoom("r2", "pb", "B")

	// When A is removed
	touched := x.RemoveUserFromAllRooms("A")

	// Then no record references A anywhere
	req.ElementsMatch([]domain.RoomID{"r1", "r2"}, touched)
	req.Equal([]domain.SessionID{"B"}, x.Members("r1"))
	req.Empty(x.GetProducersInRoom("r1"))
	req.Equal([]domain.ProducerRef{{ProducerID: "pb", Owner: "B"}}, x.GetProducersInRoom("r2"))
	req.Empty(x.RoomsOf("A"))

	// And removing again touches nothing
	req.Empty(x.RemoveUserFromAllRooms("A"))
}

func TestRoomIndex_Leave(t *testing.T) {
	req := require.New(t)
	x := NewRoomIndex(DefaultRoomCapacity)
	req.NoError(x.Join("r1", "A"))

	req.True(x.Leave("r1", "A"))
	req.False(x.Leave("r1", "A"))
	req.False(x.Leave("nope", "A"))
	req.Empty(x.List())
}

func TestRoomIndex_List(t *testing.T) {
	req := require.New(t)
	x := NewRoomIndex(DefaultRoomCapacity)
	req.NoError(x.Join("r1", "A"))
	x.AddProducerToRoom("r1", "p1", "A")
	x.AddProducerToRoom("r1", "p2", "B")

	req.Equal([]domain.RoomInfo{{ID: "r1", MemberCount: 1, ProducerCount: 2}}, x.List())
}

func TestRoomIndex_Concurrent_Mutations(t *testing.T) {
	req := require.New(t)
	x := NewRoomIndex(100)
	var g errgroup.Group

	// Given many users joining and producing in the same rooms concurrently
	for i := range 100 {
		sid := domain.SessionID(fmt.Sprintf("s%d", i))
		room := domain.RoomID(fmt.Sprintf("r%d", i%4))
		g.Go(func() error {
			if err := x.Join(room, sid); err != nil {
				return err
			}
			x.AddProducerToRoom(room, domain.ProducerID("p-"+string(sid)), sid)
			if i%2 == 0 {
				x.RemoveUserFromAllRooms(sid)
			}
			return nil
		})
	}
	req.NoError(g.Wait())

	// Then exactly the odd users remain
	members, producers := 0, 0
	for _, info := range x.List() {
		members += info.MemberCount
		producers += info.ProducerCount
	}
	req.Equal(50, members)
	req.Equal(50, producers)
}
