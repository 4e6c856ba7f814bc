package chathub_test

import (
	"chatpulse/backend/internal/chathub"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_JoinAndMembersOf(t *testing.T) {
	r := chathub.NewRoomRegistry()
	a := newMockClient("session_a", "room1")
	b := newMockClient("session_b", "room1")

	r.Join("room1", a)
	r.Join("room1", b)

	members := r.MembersOf("room1")
	assert.Len(t, members, 2)
	assert.Equal(t, 2, r.Online("room1"))
}

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	r := chathub.NewRoomRegistry()
	a := newMockClient("session_a", "room1")

	r.Join("room1", a)
	r.Join("room1", a)

	assert.Equal(t, 1, r.Online("room1"))
}

func TestRegistry_LeaveRemovesMemberAndDropsEmptyRoom(t *testing.T) {
	r := chathub.NewRoomRegistry()
	a := newMockClient("session_a", "room1")
	b := newMockClient("session_b", "room1")
	r.Join("room1", a)
	r.Join("room1", b)

	assert.True(t, r.Leave("session_a"))
	assert.Equal(t, 1, r.Online("room1"))

	assert.True(t, r.Leave("session_b"))
	assert.Equal(t, 0, r.Online("room1"))
	assert.Nil(t, r.MembersOf("room1"))
}

func TestRegistry_RejoinMovesSessionBetweenRooms(t *testing.T) {
	r := chathub.NewRoomRegistry()
	a := newMockClient("session_a", "room1")

	r.Join("room1", a)
	r.Join("room2", a)

	// The session belongs to one room at a time: the old room empties out and
	// its entry disappears.
	assert.Equal(t, 0, r.Online("room1"))
	assert.Nil(t, r.MembersOf("room1"))
	assert.Equal(t, 1, r.Online("room2"))

	assert.True(t, r.Leave("session_a"))
	assert.Equal(t, 0, r.Online("room2"))
	assert.Nil(t, r.MembersOf("room2"))
}

func TestRegistry_LeaveUnknownSession(t *testing.T) {
	r := chathub.NewRoomRegistry()
	assert.False(t, r.Leave("nope"))
}

func TestRegistry_MembersOfUnknownRoom(t *testing.T) {
	r := chathub.NewRoomRegistry()
	assert.Nil(t, r.MembersOf("ghost"))
	assert.Equal(t, 0, r.Online("ghost"))
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	r := chathub.NewRoomRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid := fmt.Sprintf("session_%d", i)
			c := newMockClient(sid, "room1")
			r.Join("room1", c)
			if i%2 == 0 {
				r.Leave(sid)
			}
			r.MembersOf("room1")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, r.Online("room1"))
}
