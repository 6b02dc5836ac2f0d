package realtime

import (
	"sync"
)

// Registry tracks live connections, the user each connection authenticated as,
// and the set of rooms each connection has joined. All operations on unknown
// connection ids are no-ops: a frame may race its own disconnect.
type Registry struct {
	mu        sync.RWMutex
	conns     map[string]Conn                // connID -> connection
	connUsers map[string]string              // connID -> userID (empty until bound)
	rooms     map[string]map[string]Conn     // roomKey -> connID -> connection
	connRooms map[string]map[string]struct{} // connID -> set of roomKeys
}

// NewRegistry constructs an initialized Registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:     make(map[string]Conn),
		connUsers: make(map[string]string),
		rooms:     make(map[string]map[string]Conn),
		connRooms: make(map[string]map[string]struct{}),
	}
}

// Register starts tracking a connection. Bookkeeping only; the caller owns the
// connection's write loop lifecycle.
func (r *Registry) Register(conn Conn) {
	r.mu.Lock()
	r.conns[conn.ID()] = conn
	r.connRooms[conn.ID()] = make(map[string]struct{})
	r.mu.Unlock()
}

// BindUser associates a connection with an authenticated user.
func (r *Registry) BindUser(connID, userID string) {
	r.mu.Lock()
	if _, ok := r.conns[connID]; ok {
		r.connUsers[connID] = userID
	}
	r.mu.Unlock()
}

// UserOf returns the user bound to the connection, if any.
func (r *Registry) UserOf(connID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connUsers[connID]
}

// Join adds the connection to the room. Joining an already-joined room is a
// no-op; the return value reports whether this call produced a new membership.
func (r *Registry) Join(connID, roomKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[connID]; !ok {
		return false
	}
	memberships := r.connRooms[connID]
	if _, joined := memberships[roomKey]; joined {
		return false
	}

	room := r.rooms[roomKey]
	if room == nil {
		room = make(map[string]Conn)
		r.rooms[roomKey] = room
	}
	room[connID] = r.conns[connID]
	memberships[roomKey] = struct{}{}
	return true
}

// Leave removes the connection from the room. Leaving a room that was never
// joined is a no-op.
func (r *Registry) Leave(connID, roomKey string) {
	r.mu.Lock()
	r.leaveLocked(connID, roomKey)
	r.mu.Unlock()
}

// MembersOf returns the current member connections of a room. An unknown room
// yields an empty slice.
func (r *Registry) MembersOf(roomKey string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[roomKey]
	if len(room) == 0 {
		return nil
	}
	members := make([]Conn, 0, len(room))
	for _, conn := range room {
		members = append(members, conn)
	}
	return members
}

// Get returns the tracked connection for connID.
func (r *Registry) Get(connID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[connID]
	return conn, ok
}

// Deregister removes the connection from every room it was a member of and
// frees its bookkeeping. Membership entries must not leak past disconnect.
func (r *Registry) Deregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[connID]; !ok {
		return
	}
	for roomKey := range r.connRooms[connID] {
		r.leaveLocked(connID, roomKey)
	}
	delete(r.connRooms, connID)
	delete(r.connUsers, connID)
	delete(r.conns, connID)
}

func (r *Registry) leaveLocked(connID, roomKey string) {
	room := r.rooms[roomKey]
	if room == nil {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, roomKey)
	}
	if memberships, ok := r.connRooms[connID]; ok {
		delete(memberships, roomKey)
	}
}
