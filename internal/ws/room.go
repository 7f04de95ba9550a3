package ws

// room is a named broadcast scope. Rooms spring into existence on first join
// and are reaped when the last member leaves; absence of a room reads as an
// empty member set. All fields are guarded by the owning Hub's mutex.
type room struct {
	name    string
	members map[string]*session
}

func newRoom(name string) *room {
	return &room{name: name, members: map[string]*session{}}
}

func (r *room) add(s *session) {
	r.members[s.id] = s
}

func (r *room) remove(id string) {
	delete(r.members, id)
}

func (r *room) empty() bool {
	return len(r.members) == 0
}

// snapshot copies the current member connections so fan-out I/O can happen
// outside the Hub lock.
func (r *room) snapshot() []*clientConn {
	conns := make([]*clientConn, 0, len(r.members))
	for _, s := range r.members {
		conns = append(conns, s.conn)
	}
	return conns
}
