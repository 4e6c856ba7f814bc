package chathub

import "sync"

// RoomRegistry is the authoritative in-memory record of which sessions are
// currently joined to which room. Membership is a runtime-only fact: a room
// with no members has no entry at all.
//
// Joins, leaves and membership reads serialize on one RWMutex so a broadcast
// snapshot never observes a session mid-join or mid-leave.
type RoomRegistry struct {
	mu sync.RWMutex
	// rooms maps room id to the set of member session ids.
	rooms map[string]map[string]struct{}
	// sessions resolves a member session id back to its client.
	sessions map[string]Client
	// roomOf tracks the single room each session belongs to.
	roomOf map[string]string
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:    make(map[string]map[string]struct{}),
		sessions: make(map[string]Client),
		roomOf:   make(map[string]string),
	}
}

// Join adds the client to the room's membership set, creating the set if
// absent. Joining a room the session is already a member of is a no-op.
// A session belongs to at most one room, so joining a different room first
// removes the session from its current one.
func (r *RoomRegistry) Join(roomID string, c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sid := c.GetSessionID()
	if prev, ok := r.roomOf[sid]; ok && prev != roomID {
		r.removeFromRoom(prev, sid)
	}
	r.sessions[sid] = c
	r.roomOf[sid] = roomID

	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(map[string]struct{})
	}
	r.rooms[roomID][sid] = struct{}{}
}

// Leave removes the session from whichever room it belongs to and drops the
// room entry once its membership set is empty. It reports whether the session
// was actually a member, so a duplicate unregister can be ignored.
func (r *RoomRegistry) Leave(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.roomOf[sessionID]
	if !ok {
		return false
	}
	delete(r.roomOf, sessionID)
	delete(r.sessions, sessionID)
	r.removeFromRoom(roomID, sessionID)
	return true
}

// removeFromRoom drops a session from a room's set, deleting the room entry
// once it empties. Callers must hold the write lock.
func (r *RoomRegistry) removeFromRoom(roomID, sessionID string) {
	if members, ok := r.rooms[roomID]; ok {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
}

// MembersOf returns a snapshot of the clients currently joined to the room,
// in no particular order. Unknown rooms yield nil.
func (r *RoomRegistry) MembersOf(roomID string) []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]Client, 0, len(members))
	for sid := range members {
		if c, ok := r.sessions[sid]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Online returns the current membership count of a room.
func (r *RoomRegistry) Online(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}
