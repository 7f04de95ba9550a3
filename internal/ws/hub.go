package ws

import (
	"sync"

	"github.com/google/uuid"
)

// session is one live client connection. The id is assigned at register time
// and stable for the connection's lifetime; rooms is the set of room names the
// session has joined and not since left.
type session struct {
	id    string
	conn  *clientConn
	rooms map[string]struct{}
}

// Hub owns the session registry and the room membership table. Every mutation
// happens under one mutex, so each event (register, join, leave, unregister)
// is applied atomically with respect to the others. The live user count is the
// size of the session map, which keeps it exact and non-negative by
// construction.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
	rooms    map[string]*room
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*session),
		rooms:    make(map[string]*room),
	}
}

// Register creates a session for conn and returns its id.
func (h *Hub) Register(conn *clientConn) string {
	s := &session{
		id:    uuid.NewString(),
		conn:  conn,
		rooms: make(map[string]struct{}),
	}

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
	return s.id
}

// Unregister removes the session and strips it from every room it joined.
// Unknown ids are tolerated: a double disconnect is a no-op. Per-room leave
// notices are deliberately not emitted on this path; only an explicit
// leave_room does that (see WsServer.registerHandlers).
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[id]
	if !ok {
		return
	}

	for name := range s.rooms {
		if r, ok := h.rooms[name]; ok {
			r.remove(id)
			if r.empty() {
				delete(h.rooms, name)
			}
		}
	}
	delete(h.sessions, id)
}

// Join adds the session to the named room, creating the room on first join.
// Joining twice is idempotent. Unknown session ids are ignored.
func (h *Hub) Join(id, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[id]
	if !ok {
		return
	}

	r, ok := h.rooms[name]
	if !ok {
		r = newRoom(name)
		h.rooms[name] = r
	}
	r.add(s)
	s.rooms[name] = struct{}{}
}

// Leave removes the session from the named room. Leaving a room the session
// is not in is a no-op, not an error.
func (h *Hub) Leave(id, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[id]
	if !ok {
		return
	}
	delete(s.rooms, name)

	r, ok := h.rooms[name]
	if !ok {
		return
	}
	r.remove(id)
	if r.empty() {
		delete(h.rooms, name)
	}
}

// Members returns the session ids currently joined to the room. A missing
// room reads as empty.
func (h *Hub) Members(name string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, ok := h.rooms[name]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	return ids
}

// SessionCount is the live user count announced as "users count".
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// RoomCount reports the number of rooms with at least one member.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// BroadcastRoom delivers msg to every current member of the room. Delivery is
// fire-and-forget over a snapshot taken at dispatch time: an empty or unknown
// room drops the message silently, and a failed write only closes that
// recipient's socket (its reader loop performs the actual unregister).
func (h *Hub) BroadcastRoom(name string, msg []byte) {
	h.mu.RLock()
	var conns []*clientConn
	if r, ok := h.rooms[name]; ok {
		conns = r.snapshot()
	}
	h.mu.RUnlock()

	broadcast(conns, msg)
}

// BroadcastAll delivers msg to every registered session.
func (h *Hub) BroadcastAll(msg []byte) {
	h.mu.RLock()
	conns := make([]*clientConn, 0, len(h.sessions))
	for _, s := range h.sessions {
		conns = append(conns, s.conn)
	}
	h.mu.RUnlock()

	broadcast(conns, msg)
}

func broadcast(conns []*clientConn, msg []byte) {
	// I/O happens outside the hub lock.
	for _, c := range conns {
		if err := c.write(msg); err != nil {
			_ = c.close()
		}
	}
}

// Close tears every live socket down. Reader loops observe the closed
// connections and unregister their sessions.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*clientConn, 0, len(h.sessions))
	for _, s := range h.sessions {
		conns = append(conns, s.conn)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		_ = c.close()
	}
}
