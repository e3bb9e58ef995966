package relay

import "sync"

// RoomTable maps meeting rooms to member connections. A connection belongs to
// at most one room; joining a new room evicts it from the previous one.
type RoomTable struct {
	mu      sync.RWMutex
	members map[string]map[ConnID]struct{}
	roomOf  map[ConnID]string
}

// NewRoomTable creates an empty room table
func NewRoomTable() *RoomTable {
	return &RoomTable{
		members: make(map[string]map[ConnID]struct{}),
		roomOf:  make(map[ConnID]string),
	}
}

// Join adds the connection to the room and returns the room it was evicted
// from, if any, so the caller can notify that room's members.
func (t *RoomTable) Join(roomID string, id ConnID) (prev string, switched bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if current, ok := t.roomOf[id]; ok {
		if current == roomID {
			return "", false
		}
		t.removeLocked(current, id)
		prev, switched = current, true
	}
	set, ok := t.members[roomID]
	if !ok {
		set = make(map[ConnID]struct{})
		t.members[roomID] = set
	}
	set[id] = struct{}{}
	t.roomOf[id] = roomID
	return prev, switched
}

// Leave removes the connection from the room. Removing a non-member is a
// no-op; the return reports whether the connection was actually a member.
func (t *RoomTable) Leave(roomID string, id ConnID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.roomOf[id] != roomID {
		return false
	}
	t.removeLocked(roomID, id)
	delete(t.roomOf, id)
	return true
}

// Remove clears the connection's membership wherever it is. Used by teardown;
// returns the room it was removed from.
func (t *RoomTable) Remove(id ConnID) (roomID string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	roomID, ok = t.roomOf[id]
	if !ok {
		return "", false
	}
	t.removeLocked(roomID, id)
	delete(t.roomOf, id)
	return roomID, true
}

func (t *RoomTable) removeLocked(roomID string, id ConnID) {
	if set, ok := t.members[roomID]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(t.members, roomID)
		}
	}
}

// MembersOf returns a snapshot of the room's member connections.
func (t *RoomTable) MembersOf(roomID string) []ConnID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	set, ok := t.members[roomID]
	if !ok {
		return nil
	}
	out := make([]ConnID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// RoomOf returns the room the connection is joined to, if any.
func (t *RoomTable) RoomOf(id ConnID) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	roomID, ok := t.roomOf[id]
	return roomID, ok
}

// Rooms returns the number of non-empty rooms.
func (t *RoomTable) Rooms() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.members)
}
